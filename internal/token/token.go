// Package token issues and verifies the signed bearer tokens used by the API.
// Tokens embed the role snapshot taken at issuance; role changes made
// afterwards are not reflected until re-authentication.
package token

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/folio-cms/folio/internal/shared"
)

// Config holds the process-wide signing settings. It is built once at startup
// and never mutated afterwards.
type Config struct {
	Secret string
	TTL    time.Duration
}

// Claims is the payload carried by an access token.
type Claims struct {
	Email string   `json:"email"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies access tokens with a symmetric secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer constructs an Issuer from the given config.
func NewIssuer(cfg Config) *Issuer {
	return &Issuer{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
		now:    time.Now,
	}
}

// Issue produces a signed token embedding subject id, email and the current
// role names.
func (i *Issuer) Issue(subjectID int64, email string, roles []string) (string, error) {
	now := i.now()
	claims := Claims{
		Email: email,
		Roles: append([]string(nil), roles...),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", subjectID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded identity. The
// database is not consulted; the claim snapshot stands for the token lifetime.
// Any failure maps to shared.ErrUnauthenticated.
func (i *Issuer) Verify(raw string) (*shared.Identity, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil || !tok.Valid {
		return nil, shared.ErrUnauthenticated
	}

	subjectID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || subjectID <= 0 {
		return nil, shared.ErrUnauthenticated
	}
	return &shared.Identity{
		SubjectID: subjectID,
		Email:     claims.Email,
		Roles:     claims.Roles,
	}, nil
}
