package jwt

import (
	"errors"
	"time"

	"medibook-server/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carry the wizard session a token was issued for. A token is minted
// only after the one-time code matched, so holding one proves the phone
// verification stage was passed for that session.
type Claims struct {
	SessionID   uuid.UUID `json:"session_id"`
	PhoneNumber string    `json:"phone_number"`
	TokenID     string    `json:"token_id"`
	jwt.RegisteredClaims
}

type SessionTokenService struct {
	config config.SessionConfig
}

func NewSessionTokenService(cfg config.SessionConfig) *SessionTokenService {
	return &SessionTokenService{config: cfg}
}

// GenerateToken signs a session token valid for the session TTL.
func (s *SessionTokenService) GenerateToken(sessionID uuid.UUID, phoneNumber string) (string, error) {
	claims := Claims{
		SessionID:   sessionID,
		PhoneNumber: phoneNumber,
		TokenID:     uuid.New().String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.config.TTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Secret))
}

func (s *SessionTokenService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.config.Secret), nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
