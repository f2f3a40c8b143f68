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

package middleware

import (
	"net/http"

	"github.com/dnote/bookstore/pkg/server/context"
	"github.com/dnote/bookstore/pkg/server/log"
	"github.com/dnote/bookstore/pkg/server/permissions"
	"github.com/dnote/bookstore/pkg/server/token"
)

// Auth is an authentication middleware. It rejects requests without a valid
// bearer token and puts the decoded session into the request context.
func Auth(iss *token.Issuer, next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok, err := GetCredential(r)
		if err != nil {
			RespondInvalidToken(w)
			return
		}
		if tok == "" {
			RespondUnauthorized(w)
			return
		}

		session, err := iss.Verify(tok)
		if err != nil {
			log.WithFields(log.Fields{
				"path": r.URL.Path,
			}).Debug(err.Error())

			RespondInvalidToken(w)
			return
		}

		ctx := context.WithSession(r.Context(), &session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminOnly is an authentication middleware that additionally requires the admin role
func AdminOnly(iss *token.Issuer, next http.HandlerFunc) http.HandlerFunc {
	return Auth(iss, func(w http.ResponseWriter, r *http.Request) {
		session := context.Session(r.Context())

		if err := permissions.RequireRole(session, permissions.RoleAdmin); err != nil {
			RespondForbidden(w, err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}
