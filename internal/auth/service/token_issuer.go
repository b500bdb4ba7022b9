package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/messagely/messagely/internal/common/clock"
	commoncrypto "github.com/messagely/messagely/internal/common/crypto"
	"github.com/messagely/messagely/internal/common/jwtverify"
	"github.com/messagely/messagely/internal/observability/metrics"
)

type TokenIssuer struct {
	jwtSecret      []byte
	idGenerator    commoncrypto.IDGenerator
	clock          clock.Clock
	accessTokenTTL time.Duration
}

func NewTokenIssuer(
	jwtSecret string,
	idGenerator commoncrypto.IDGenerator,
	accessTokenTTL time.Duration,
	clock clock.Clock,
) *TokenIssuer {
	return &TokenIssuer{
		jwtSecret:      []byte(jwtSecret),
		idGenerator:    idGenerator,
		clock:          clock,
		accessTokenTTL: accessTokenTTL,
	}
}

// Issue signs a token binding the username claim. Tokens expire after the
// configured TTL.
func (ti *TokenIssuer) Issue(username string) (string, error) {
	jti, err := ti.idGenerator.NewID()
	if err != nil {
		return "", err
	}

	now := ti.clock.Now()
	claims := jwt.MapClaims{
		"usr": username,
		"jti": jti,
		"iat": now.Unix(),
		"exp": now.Add(ti.accessTokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := t.SignedString(ti.jwtSecret)
	if err != nil {
		return "", err
	}

	metrics.AccessTokensIssued.Inc()
	return tokenString, nil
}

// Verify checks the signature and extracts the identity.
func (ti *TokenIssuer) Verify(tokenString string) (jwtverify.Claims, error) {
	return jwtverify.ParseToken(tokenString, ti.jwtSecret)
}
