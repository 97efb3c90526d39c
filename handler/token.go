package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// tokenClaims are the claims of the bearer tokens issued by the auth service.
// userId may be encoded as a JSON number or a numeric string.
type tokenClaims struct {
	UserID json.Number `json:"userId"`
	jwt.RegisteredClaims
}

// parseToken verifies an HS256 bearer token and returns the id of the user it
// was issued for.
func (h *Handler) parseToken(tokenString string) (int64, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(h.config.JWT.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, err
	}
	userID, err := strconv.ParseInt(claims.UserID.String(), 10, 64)
	if err != nil || userID < 1 {
		return 0, errors.New("token has no valid userId claim")
	}
	return userID, nil
}
