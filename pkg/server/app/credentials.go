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

package app

import (
	"crypto/subtle"

	"github.com/dnote/bookstore/pkg/server/permissions"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// AdminUserID is the id embedded in the tokens of the admin
const AdminUserID = 1

// Credentials is the single admin username and password pair allowed to sign in
type Credentials struct {
	Username     string
	PasswordHash []byte
	UserID       int
}

// NewCredentials builds the admin credentials. If passwordHash is given it must
// be a bcrypt hash and takes precedence over password, which is otherwise hashed.
func NewCredentials(username, password, passwordHash string) (Credentials, error) {
	return newCredentials(username, password, passwordHash, bcrypt.DefaultCost)
}

func newCredentials(username, password, passwordHash string, cost int) (Credentials, error) {
	if username == "" || (password == "" && passwordHash == "") {
		return Credentials{}, ErrAdminCredentialsMissing
	}

	var hash []byte
	if passwordHash != "" {
		if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
			return Credentials{}, ErrAdminPasswordHashInvalid
		}
		hash = []byte(passwordHash)
	} else {
		h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
		if err != nil {
			return Credentials{}, errors.Wrap(err, "hashing admin password")
		}
		hash = h
	}

	return Credentials{
		Username:     username,
		PasswordHash: hash,
		UserID:       AdminUserID,
	}, nil
}

// Match checks the given username and password against the credentials
func (c Credentials) Match(username, password string) bool {
	usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.Username)) == 1
	// always compare the password so that a wrong username costs the same
	passwordErr := bcrypt.CompareHashAndPassword(c.PasswordHash, []byte(password))

	return usernameOK && passwordErr == nil
}

// SignIn checks the login attempt and returns a signed token for the admin
func (a *App) SignIn(username, password string) (string, error) {
	if username == "" {
		return "", ErrUsernameRequired
	}
	if password == "" {
		return "", ErrPasswordRequired
	}

	if !a.Admin.Match(username, password) {
		return "", ErrLoginInvalid
	}

	tok, err := a.Tokens.Issue(a.Admin.Username, permissions.RoleAdmin, a.Admin.UserID)
	if err != nil {
		return "", errors.Wrap(err, "issuing token")
	}

	return tok, nil
}
