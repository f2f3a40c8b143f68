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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dnote/bookstore/pkg/assert"
	"github.com/dnote/bookstore/pkg/clock"
	"github.com/dnote/bookstore/pkg/server/context"
	"github.com/dnote/bookstore/pkg/server/permissions"
	"github.com/dnote/bookstore/pkg/server/testutils"
	"github.com/dnote/bookstore/pkg/server/token"
	"github.com/pkg/errors"
)

func newTestIssuer(t *testing.T) (*token.Issuer, *clock.Mock) {
	c := clock.NewMock()
	c.SetNow(time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC))

	iss, err := token.NewIssuer("test-secret", time.Hour, c)
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating issuer"))
	}

	return iss, c
}

func readError(t *testing.T, res *http.Response) string {
	var body struct {
		Error string `json:"error"`
	}
	testutils.MustDecodeJSON(t, res.Body, &body, "decoding error body")

	return body.Error
}

func TestAuth(t *testing.T) {
	iss, c := newTestIssuer(t)

	handler := func(w http.ResponseWriter, r *http.Request) {
		session := context.Session(r.Context())
		testutils.MustRespondJSON(t, w, session, "responding with session")
	}

	server := httptest.NewServer(Auth(iss, handler))
	defer server.Close()

	t.Run("valid token", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "GET", "/", "")
		res := testutils.HTTPAuthDo(t, iss, req, permissions.RoleAdmin)
		defer res.Body.Close()

		assert.StatusCodeEquals(t, res, http.StatusOK, "status code mismatch")

		var session token.Session
		if err := json.NewDecoder(res.Body).Decode(&session); err != nil {
			t.Fatal(errors.Wrap(err, "decoding session"))
		}
		assert.Equal(t, session.Username, "admin", "username mismatch")
		assert.Equal(t, session.Role, permissions.RoleAdmin, "role mismatch")
		assert.Equal(t, session.UserID, 1, "user id mismatch")
	})

	t.Run("no token", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "GET", "/", "")
		res := testutils.HTTPDo(t, req)
		defer res.Body.Close()

		assert.StatusCodeEquals(t, res, http.StatusUnauthorized, "status code mismatch")
		assert.Equal(t, readError(t, res), "Access token required", "error mismatch")
	})

	t.Run("malformed header", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "GET", "/", "")
		req.Header.Set("Authorization", "Token abc")
		res := testutils.HTTPDo(t, req)
		defer res.Body.Close()

		assert.StatusCodeEquals(t, res, http.StatusUnauthorized, "status code mismatch")
	})

	t.Run("garbage token", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "GET", "/", "")
		req.Header.Set("Authorization", "Bearer not.a.jwt")
		res := testutils.HTTPDo(t, req)
		defer res.Body.Close()

		assert.StatusCodeEquals(t, res, http.StatusUnauthorized, "status code mismatch")
		assert.Equal(t, readError(t, res), "Invalid or expired token", "error mismatch")
	})

	t.Run("expired token", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "GET", "/", "")
		testutils.SetReqAuthHeader(t, iss, req, permissions.RoleAdmin)
		c.Advance(2 * time.Hour)
		defer c.Advance(-2 * time.Hour)

		res := testutils.HTTPDo(t, req)
		defer res.Body.Close()

		assert.StatusCodeEquals(t, res, http.StatusUnauthorized, "status code mismatch")
	})
}

func TestAdminOnly(t *testing.T) {
	iss, _ := newTestIssuer(t)

	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}

	server := httptest.NewServer(AdminOnly(iss, handler))
	defer server.Close()

	testCases := []struct {
		name     string
		role     string
		expected int
	}{
		{
			name:     "admin",
			role:     permissions.RoleAdmin,
			expected: http.StatusOK,
		},
		{
			name:     "other role",
			role:     "viewer",
			expected: http.StatusForbidden,
		},
		{
			name:     "empty role",
			role:     "",
			expected: http.StatusForbidden,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutils.MakeReq(server.URL, "GET", "/", "")
			res := testutils.HTTPAuthDo(t, iss, req, tc.role)
			defer res.Body.Close()

			assert.StatusCodeEquals(t, res, tc.expected, "status code mismatch")
		})
	}

	t.Run("no token", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "GET", "/", "")
		res := testutils.HTTPDo(t, req)
		defer res.Body.Close()

		assert.StatusCodeEquals(t, res, http.StatusUnauthorized, "status code mismatch")
	})
}
