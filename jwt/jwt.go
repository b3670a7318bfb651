package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// GenerateToken signs a token carrying the user id and admin flag.
func GenerateToken(secret []byte, userID string, isAdmin bool, expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userID":  userID,
		"isAdmin": isAdmin,
		"exp":     expiresAt.Unix(),
	})

	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// VerifyToken checks the signature and expiry, then checks the token is
// still recorded in the store. Logout deletes the record, so a revoked
// token fails here even though its signature is still valid.
func VerifyToken(ctx context.Context, secret []byte, store TokenStore, tokenString string) (string, bool, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return "", false, err
	}
	if !token.Valid {
		return "", false, ErrInvalidToken
	}

	live, err := store.Exists(ctx, tokenString)
	if err != nil {
		return "", false, err
	}
	if !live {
		return "", false, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", false, ErrInvalidToken
	}
	userID, ok := claims["userID"].(string)
	if !ok {
		return "", false, ErrInvalidToken
	}
	isAdmin, _ := claims["isAdmin"].(bool)

	return userID, isAdmin, nil
}
