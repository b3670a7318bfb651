package config

import (
	"os"
	"strconv"

	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "config/config.yaml"

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	Database int    `yaml:"database"`
}

type AuthConfig struct {
	Secret string `yaml:"secret"`
}

type Config struct {
	Server ServerConfig `yaml:"server"`
	Mongo  MongoConfig  `yaml:"mongo"`
	Redis  RedisConfig  `yaml:"redis"`
	Auth   AuthConfig   `yaml:"auth"`
}

// Load reads the yaml config file and applies environment overrides
// (DROPIFY_ADDR, DROPIFY_MONGO_URI, DROPIFY_MONGO_DB, DROPIFY_REDIS_ADDR,
// DROPIFY_REDIS_PASSWORD, DROPIFY_REDIS_DB, DROPIFY_AUTH_SECRET).
func Load(filename string) (Config, error) {
	var config Config
	file, err := os.Open(filename)
	if err != nil {
		return config, err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return config, err
	}

	overrideString(&config.Server.Addr, "DROPIFY_ADDR")
	overrideString(&config.Mongo.URI, "DROPIFY_MONGO_URI")
	overrideString(&config.Mongo.Database, "DROPIFY_MONGO_DB")
	overrideString(&config.Redis.Addr, "DROPIFY_REDIS_ADDR")
	overrideString(&config.Redis.Password, "DROPIFY_REDIS_PASSWORD")
	overrideInt(&config.Redis.Database, "DROPIFY_REDIS_DB")
	overrideString(&config.Auth.Secret, "DROPIFY_AUTH_SECRET")

	return config, nil
}

func overrideString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, env string) {
	if v := os.Getenv(env); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func SetupRedisConnection(config Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     config.Redis.Addr,
		Password: config.Redis.Password,
		DB:       config.Redis.Database,
	})
}
