package auth

import (
	"fmt"
	"time"

	"fragstats/internal/config"
	"fragstats/internal/constants"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the verified content of an access token: who it belongs to and
// which session it rides on. The session id is what makes logout effective,
// since the JWT itself cannot be recalled before it expires.
type Claims struct {
	AccountID string
	SessionID string
}

type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(cfg *config.Config) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(cfg.JWTSecret),
		ttl:    constants.SessionTTL,
	}
}

func (i *TokenIssuer) Issue(accountID, sessionID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": accountID,
		"sid": sessionID,
		"iat": now.Unix(),
		"exp": now.Add(i.ttl).Unix(),
	})
	return token.SignedString(i.secret)
}

func (i *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	accountID, _ := claims["sub"].(string)
	sessionID, _ := claims["sid"].(string)
	if accountID == "" || sessionID == "" {
		return nil, fmt.Errorf("token missing subject or session")
	}

	return &Claims{AccountID: accountID, SessionID: sessionID}, nil
}
