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
	"github.com/dnote/bookstore/pkg/clock"
	"github.com/dnote/bookstore/pkg/server/assets"
	"github.com/dnote/bookstore/pkg/server/token"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	// ErrEmptyDB is an error for missing database connection in the app configuration
	ErrEmptyDB = errors.New("No database connection was provided")
	// ErrEmptyClock is an error for missing clock in the app configuration
	ErrEmptyClock = errors.New("No clock was provided")
	// ErrEmptyAssets is an error for missing asset store in the app configuration
	ErrEmptyAssets = errors.New("No asset store was provided")
	// ErrEmptyTokens is an error for missing token issuer in the app configuration
	ErrEmptyTokens = errors.New("No token issuer was provided")
	// ErrEmptyAdmin is an error for missing admin credentials in the app configuration
	ErrEmptyAdmin = errors.New("No admin credentials were provided")
)

// DefaultMaxUploadSize is the default limit for a book form including its cover image
const DefaultMaxUploadSize int64 = 10 << 20

// App is an application context
type App struct {
	DB            *gorm.DB
	Clock         clock.Clock
	Assets        *assets.Store
	Tokens        *token.Issuer
	Admin         Credentials
	Port          string
	MaxUploadSize int64
	CORSOrigins   []string
}

// Validate validates the app configuration
func (a *App) Validate() error {
	if a.Clock == nil {
		return ErrEmptyClock
	}
	if a.DB == nil {
		return ErrEmptyDB
	}
	if a.Assets == nil {
		return ErrEmptyAssets
	}
	if a.Tokens == nil {
		return ErrEmptyTokens
	}
	if a.Admin.Username == "" || len(a.Admin.PasswordHash) == 0 {
		return ErrEmptyAdmin
	}

	return nil
}
