package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AdminSubject is the reserved subject of administrator tokens. It never
// matches a customer id.
const AdminSubject = "admin"

var ErrInvalidToken = errors.New("auth: invalid token")

type Claims struct {
	Subject   string
	Mail      string
	ExpiresAt time.Time
}

func (c Claims) IsAdmin() bool { return c.Subject == AdminSubject }

type TokenService struct {
	secret     []byte
	defaultTTL time.Duration
	now        func() time.Time
}

func NewTokenService(secret string, defaultTTL time.Duration) *TokenService {
	if defaultTTL <= 0 {
		defaultTTL = 30 * time.Minute
	}
	return &TokenService{secret: []byte(secret), defaultTTL: defaultTTL, now: time.Now}
}

// Issue signs a token for subject. Extra claims are copied in but cannot
// override sub, iat or exp. A non-positive ttl uses the default.
func (s *TokenService) Issue(subject string, extra map[string]any, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	now := s.now()

	claims := jwt.MapClaims{}
	for k, v := range extra {
		claims[k] = v
	}
	claims["sub"] = subject
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(ttl).Unix()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Validate parses and verifies a token. Any failure, including expiry and a
// missing subject, is reported as ErrInvalidToken.
func (s *TokenService) Validate(raw string) (Claims, error) {
	if raw == "" {
		return Claims{}, ErrInvalidToken
	}

	token, err := jwt.Parse(raw, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	sub, err := mc.GetSubject()
	if err != nil || sub == "" {
		return Claims{}, ErrInvalidToken
	}
	exp, err := mc.GetExpirationTime()
	if err != nil || exp == nil {
		return Claims{}, ErrInvalidToken
	}
	mail, _ := mc["mail"].(string)

	return Claims{Subject: sub, Mail: mail, ExpiresAt: exp.Time}, nil
}
