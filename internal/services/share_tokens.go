package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/foxxcyber/bid-pricing/internal/config"
)

const shareIssuer = "bid-pricing"

var ErrInvalidShareToken = errors.New("invalid or expired share token")

// ShareClaims grants read access to one inquiry
type ShareClaims struct {
	InquiryID int `json:"inquiry_id"`
	jwt.RegisteredClaims
}

// ShareTokenService issues and verifies read-only share links
type ShareTokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewShareTokenService creates a new share token service
func NewShareTokenService(cfg config.ShareConfig) *ShareTokenService {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &ShareTokenService{
		secret: []byte(cfg.Secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token for inquiryID
func (s *ShareTokenService) Issue(inquiryID int) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := ShareClaims{
		InquiryID: inquiryID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    shareIssuer,
			Subject:   strconv.Itoa(inquiryID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing share token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse validates a token and returns its inquiry id
func (s *ShareTokenService) Parse(tokenString string) (int, error) {
	claims := &ShareClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidShareToken
		}
		return s.secret, nil
	}, jwt.WithIssuer(shareIssuer), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return 0, ErrInvalidShareToken
	}
	if claims.InquiryID <= 0 {
		return 0, ErrInvalidShareToken
	}
	return claims.InquiryID, nil
}
