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
	"github.com/pkg/errors"
)

type appError string

func (e appError) Error() string {
	return string(e)
}

// validationError is an error caused by invalid input from the client
type validationError string

func (e validationError) Error() string {
	return string(e)
}

// IsValidationError reports whether the cause of err is invalid client input
func IsValidationError(err error) bool {
	_, ok := errors.Cause(err).(validationError)
	return ok
}

var (
	// ErrNotFound an error that indicates that the given resource is not found
	ErrNotFound appError = "Book not found"
	// ErrLoginInvalid is an error for invalid login
	ErrLoginInvalid appError = "Invalid username or password"
	// ErrAdminCredentialsMissing is an error for an admin credential pair that is not configured
	ErrAdminCredentialsMissing appError = "admin username and password are required"
	// ErrAdminPasswordHashInvalid is an error for a configured password hash that is not a bcrypt hash
	ErrAdminPasswordHashInvalid appError = "admin password hash is not a valid bcrypt hash"

	// ErrUsernameRequired is an error for missing username on login
	ErrUsernameRequired validationError = "Username is required"
	// ErrPasswordRequired is an error for missing password on login
	ErrPasswordRequired validationError = "Password is required"
	// ErrTitleRequired is an error for a book without a title
	ErrTitleRequired validationError = "Title is required"
	// ErrPriceRequired is an error for a book form without a price
	ErrPriceRequired validationError = "Price is required"
	// ErrInvalidPrice is an error for a price that is not a non-negative number
	ErrInvalidPrice validationError = "Price must be a non-negative number"
	// ErrInvalidStock is an error for a stock quantity that is not a non-negative integer
	ErrInvalidStock validationError = "Stock quantity must be a non-negative integer"
	// ErrInvalidReference is an error for an author or category id that is not a positive integer
	ErrInvalidReference validationError = "Author and category ids must be positive integers"
	// ErrInvalidDate is an error for a malformed published date
	ErrInvalidDate validationError = "Published date must be in YYYY-MM-DD format"
	// ErrInvalidID is an error for a malformed book id in the path
	ErrInvalidID validationError = "Invalid book id"
	// ErrInvalidImage is an error for an upload that is not an image
	ErrInvalidImage validationError = "Cover image must be an image file"
	// ErrInvalidForm is an error for a request body that cannot be parsed
	ErrInvalidForm validationError = "Invalid form data"
	// ErrNameRequired is an error for an author or category without a name
	ErrNameRequired validationError = "Name is required"
)
