package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/xela07ax/complitic/internal/domain"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

// Допустимое расхождение часов между инстансами
const clockLeeway = 30 * time.Second

// BaseValidator проверяет RS256 токены, выпущенные AuthService.
type BaseValidator struct {
	publicKey *rsa.PublicKey
	parser    *jwt.Parser
}

type ValidatorOption func(*[]jwt.ParserOption)

// WithIssuer требует совпадения claim "iss".
func WithIssuer(issuer string) ValidatorOption {
	return func(opts *[]jwt.ParserOption) {
		if issuer != "" {
			*opts = append(*opts, jwt.WithIssuer(issuer))
		}
	}
}

func NewBaseValidator(pubKey *rsa.PublicKey, options ...ValidatorOption) *BaseValidator {
	// Алгоритм фиксирован: токен с "alg": "none" или HS256 не пройдет
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithLeeway(clockLeeway),
		jwt.WithExpirationRequired(),
	}
	for _, o := range options {
		o(&parserOpts)
	}
	return &BaseValidator{publicKey: pubKey, parser: jwt.NewParser(parserOpts...)}
}

// VerifyToken реализует auth.TokenValidator. Принимает как голый токен,
// так и значение заголовка "Bearer <token>".
func (v *BaseValidator) VerifyToken(tokenStr string) (*domain.CustomClaims, error) {
	tokenStr = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(tokenStr), "Bearer "))
	if tokenStr == "" {
		return nil, ErrMissingToken
	}

	claims := &domain.CustomClaims{}
	_, err := v.parser.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return v.publicKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: user_id claim is empty", ErrInvalidToken)
	}

	return claims, nil
}

// ParseRSAPublicKey превращает []byte в объект для проверки подписи
func ParseRSAPublicKey(data []byte) (*rsa.PublicKey, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("public key data is empty")
	}
	key, err := jwt.ParseRSAPublicKeyFromPEM(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	return key, nil
}

// ParseRSAPrivateKey превращает []byte в объект для подписи токенов
func ParseRSAPrivateKey(data []byte) (*rsa.PrivateKey, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("private key data is empty")
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return key, nil
}
