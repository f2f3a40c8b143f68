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

package permissions

import (
	"github.com/dnote/bookstore/pkg/server/token"
	"github.com/pkg/errors"
)

// RoleAdmin is the role of the catalog administrator. It is the only role.
const RoleAdmin = "admin"

// ErrForbidden is returned when a session lacks the required role
var ErrForbidden = errors.New("Admin access required")

// RequireRole checks that the given session carries the given role
func RequireRole(session *token.Session, role string) error {
	if session == nil {
		return ErrForbidden
	}
	if session.Role != role {
		return ErrForbidden
	}

	return nil
}
