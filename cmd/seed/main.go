// Command seed imports the demo catalog and makes sure an admin
// account exists. With -drop the products collection is wiped first,
// so the import is repeatable.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"

	"github.com/jarenkendrick14/Dropify/config"
	"github.com/jarenkendrick14/Dropify/models"
	"github.com/jarenkendrick14/Dropify/repository"
)

var seedProducts = []models.Product{
	{Name: "PLAIN BLACK SHIRT", Price: 250.00, Image: "/images/product-shirt-black-plain.png", Category: models.CategoryShirts},
	{Name: "FLOW G SHIRT", Price: 350.00, Image: "/images/product-shirt-black-2.png", Category: models.CategoryShirts},
	{Name: "ADVENTURE MASID SHIRT", Price: 2450.00, Image: "/images/product-shirt-black-3.png", Category: models.CategoryShirts},
	{Name: "BLACK MASID SHIRT", Price: 450.00, Image: "/images/product-shirt-black-1.png", Category: models.CategoryShirts},
	{Name: "WHITE MASID SHIRT", Price: 550.00, Image: "/images/product-shirt-white-2.png", Category: models.CategoryShirts},
	{Name: "WHITE KWENTO SHIRT", Price: 450.00, Image: "/images/product-shirt-white-3.png", Category: models.CategoryShirts},
	{Name: "COZIEST BLACK SHIRT", Price: 550.00, Image: "/images/coziest-shirt.png", Category: models.CategoryShirts},
	{Name: "DBTK FLORAL SHIRT", Price: 850.00, Image: "/images/DBTK-shirt.png", Category: models.CategoryShirts},
	{Name: "BLACK MNLA SHIRT", Price: 450.00, Image: "/images/mnla-shirt-1.png", Category: models.CategoryShirts},
	{Name: "MNLA SHIRT", Price: 550.00, Image: "/images/mnla-shirt-2.png", Category: models.CategoryShirts},
	{Name: "RICHBOYZ FLORAL", Price: 550.00, Image: "/images/richboyz-shirt.png", Category: models.CategoryShirts},
	{Name: "BLACK HOODIE", Price: 650.00, Image: "/images/product-hoodie-1.png", Category: models.CategoryHoodies},
	{Name: "CREAM HOODIE", Price: 900.00, Image: "/images/product-hoodie-2.png", Category: models.CategoryHoodies},
	{Name: "DENIM-STYLE HOODIE", Price: 650.00, Image: "/images/product-hoodie-3.png", Category: models.CategoryHoodies},
	{Name: "ARMY GREEN PH HOODIE", Price: 650.00, Image: "/images/product-hoodie-4.png", Category: models.CategoryHoodies},
	{Name: "BLUE AND CREAM HOODIE", Price: 650.00, Image: "/images/product-hoodie-5.png", Category: models.CategoryHoodies},
	{Name: "RICHBOYZ HOODIE", Price: 1150.00, Image: "/images/richboyz_hoodie.png", Category: models.CategoryHoodies},
	{Name: "TP HOODIE", Price: 850.00, Image: "/images/tp-hoodie.png", Category: models.CategoryHoodies},
	{Name: "MNLA CROPPED GRAY HOODIE", Price: 650.00, Image: "/images/mnla-hoodie.png", Category: models.CategoryHoodies},
	{Name: "MASID HOODIE", Price: 650.00, Image: "/images/masid-hoodie.png", Category: models.CategoryHoodies},
	{Name: "COZIEST BLACK HOODIE", Price: 650.00, Image: "/images/coziest-hoodie.png", Category: models.CategoryHoodies},
	{Name: "BLUE AND CREAM CAP", Price: 350.00, Image: "/images/product-cap-1.png", Category: models.CategoryCaps},
	{Name: "BLACK GRAPHIC CAP", Price: 250.00, Image: "/images/product-cap-2.png", Category: models.CategoryCaps},
	{Name: "BLUE CLOUDS CAP", Price: 330.00, Image: "/images/product-cap-3.png", Category: models.CategoryCaps},
	{Name: "ORANGE PH CAP", Price: 350.00, Image: "/images/product-cap-4.png", Category: models.CategoryCaps},
	{Name: "MOSS GREEN PH CAP", Price: 300.00, Image: "/images/product-cap-5.png", Category: models.CategoryCaps},
	{Name: "COZIEST CAP", Price: 500.00, Image: "/images/coziest-cap.png", Category: models.CategoryCaps},
	{Name: "DBTK BLACK AND GRAY CAP", Price: 850.00, Image: "/images/dbtk-cap.png", Category: models.CategoryCaps},
	{Name: "MASID BLACK CAP", Price: 450.00, Image: "/images/masid-cap.png", Category: models.CategoryCaps},
	{Name: "RICHBOYZ BLACK CAP", Price: 500.00, Image: "/images/richboyz-cap.png", Category: models.CategoryCaps},
	{Name: "MNLA BROWN CAP", Price: 400.00, Image: "/images/mnla-cap.png", Category: models.CategoryCaps},
}

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the config file")
	drop := flag.Bool("drop", false, "delete all products before importing")
	adminUser := flag.String("admin-user", "admin", "admin username to ensure")
	adminPass := flag.String("admin-pass", "", "admin password (required when the account does not exist)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := repository.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}
	defer func() {
		_ = db.Client().Disconnect(context.Background())
	}()

	if err := repository.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("failed to create indexes: %v", err)
	}

	products := repository.NewProductRepository(db)
	if *drop {
		if _, err := db.Collection("products").DeleteMany(ctx, bson.M{}); err != nil {
			log.Fatalf("failed to drop products: %v", err)
		}
		log.Println("products collection cleared")
	}

	for i := range seedProducts {
		product := seedProducts[i]
		if err := products.Create(ctx, &product); err != nil {
			log.Fatalf("failed to import %q: %v", product.Name, err)
		}
	}
	log.Printf("%d products imported", len(seedProducts))

	if err := ensureAdmin(ctx, repository.NewUserRepository(db), *adminUser, *adminPass); err != nil {
		log.Fatalf("failed to ensure admin account: %v", err)
	}
}

func ensureAdmin(ctx context.Context, users repository.UserRepository, username, password string) error {
	existing, err := users.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if err == nil {
		if existing.IsAdmin {
			log.Printf("admin account %q already exists", username)
			return nil
		}
		if _, err := users.SetAdmin(ctx, existing.ID, true); err != nil {
			return err
		}
		log.Printf("promoted existing account %q to admin", username)
		return nil
	}

	if password == "" {
		log.Printf("no admin account %q and no -admin-pass given, skipping", username)
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &models.User{
		Username: username,
		Password: string(hashed),
		IsAdmin:  true,
		Cart:     []models.CartItem{},
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}
	log.Printf("admin account %q created", username)
	return nil
}
