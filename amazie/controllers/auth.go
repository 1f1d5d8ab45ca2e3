package controllers

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/iamham/amazie/amazie/config"
)

type AuthController struct {
	cfg config.Config
}

func NewAuthController(cfg config.Config) *AuthController {
	return &AuthController{cfg: cfg}
}

// Anonymous issues a signed shopper token. The widget has no accounts;
// the token only scopes chat sessions to the browser that opened them.
func (c *AuthController) Anonymous() (token, shopperID string, err error) {
	shopperID = uuid.New().String()
	claims := jwt.MapClaims{
		"shopper_id": shopperID,
		"exp":        time.Now().Add(24 * time.Hour).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err = t.SignedString([]byte(c.cfg.JWTSecret))
	return token, shopperID, err
}
