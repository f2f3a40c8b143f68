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
	"testing"
	"time"

	"github.com/dnote/bookstore/pkg/clock"
	"github.com/dnote/bookstore/pkg/server/assets"
	"github.com/dnote/bookstore/pkg/server/testutils"
	"github.com/dnote/bookstore/pkg/server/token"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

const (
	// TestAdminUsername is the admin username of a test app
	TestAdminUsername = "admin"
	// TestAdminPassword is the admin password of a test app
	TestAdminPassword = "admin123"
	// TestSecret is the token secret of a test app
	TestSecret = "test-secret"
)

// NewTest returns an app for a testing environment backed by an in-memory
// database and asset store
func NewTest(t *testing.T) App {
	c := clock.NewMock()
	c.SetNow(time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC))

	tokens, err := token.NewIssuer(TestSecret, token.DefaultTTL, c)
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating token issuer"))
	}

	creds, err := newCredentials(TestAdminUsername, TestAdminPassword, "", bcrypt.MinCost)
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating admin credentials"))
	}

	return App{
		DB:            testutils.InitMemoryDB(t),
		Clock:         c,
		Assets:        assets.NewMemoryStore(c),
		Tokens:        tokens,
		Admin:         creds,
		Port:          "3000",
		MaxUploadSize: DefaultMaxUploadSize,
		CORSOrigins:   []string{"http://localhost:3000"},
	}
}
