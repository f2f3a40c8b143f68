/* Copyright 2025 Dnote Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package token issues and verifies the signed bearer tokens carried by
// admin requests. Tokens are stateless: nothing is stored server-side.
package token

import (
	"time"

	"github.com/dnote/bookstore/pkg/clock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// DefaultTTL is the lifetime of an issued token
const DefaultTTL = 24 * time.Hour

var (
	// ErrSecretMissing is returned when an issuer is built without a signing secret
	ErrSecretMissing = errors.New("token signing secret is empty")
	// ErrInvalidToken is returned for missing, malformed, tampered or expired tokens
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Session is the verified identity carried by a token
type Session struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	UserID    int       `json:"userId"`
	ExpiresAt time.Time `json:"-"`
}

type claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	UserID   int    `json:"userId"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies tokens with a single HMAC secret
type Issuer struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

// NewIssuer returns an issuer signing with the given secret. A non-positive
// ttl falls back to DefaultTTL.
func NewIssuer(secret string, ttl time.Duration, c clock.Clock) (*Issuer, error) {
	if secret == "" {
		return nil, ErrSecretMissing
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Issuer{
		secret: []byte(secret),
		ttl:    ttl,
		clock:  c,
	}, nil
}

// Issue returns a signed token for the given identity that expires after the
// issuer's ttl
func (i *Issuer) Issue(username, role string, userID int) (string, error) {
	now := i.clock.Now()

	c := claims{
		Username: username,
		Role:     role,
		UserID:   userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.secret)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}

	return signed, nil
}

// Verify checks the signature and expiry of the given token and returns the
// session it carries
func (i *Issuer) Verify(tokenStr string) (Session, error) {
	if tokenStr == "" {
		return Session{}, ErrInvalidToken
	}

	var c claims
	_, err := jwt.ParseWithClaims(tokenStr, &c, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.clock.Now),
	)
	if err != nil {
		return Session{}, errors.Wrap(ErrInvalidToken, err.Error())
	}

	return Session{
		Username:  c.Username,
		Role:      c.Role,
		UserID:    c.UserID,
		ExpiresAt: c.ExpiresAt.Time,
	}, nil
}
