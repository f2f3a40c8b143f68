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

package controllers

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/dnote/bookstore/pkg/assert"
	"github.com/dnote/bookstore/pkg/clock"
	"github.com/dnote/bookstore/pkg/server/app"
	"github.com/dnote/bookstore/pkg/server/permissions"
	"github.com/dnote/bookstore/pkg/server/testutils"
	"github.com/pkg/errors"
)

func TestLogin(t *testing.T) {
	testCases := []struct {
		name            string
		contentType     string
		body            string
		expectedStatus  int
		expectedSuccess bool
		expectedMessage string
	}{
		{
			name:            "json success",
			contentType:     "application/json",
			body:            fmt.Sprintf(`{"username": "%s", "password": "%s"}`, app.TestAdminUsername, app.TestAdminPassword),
			expectedStatus:  http.StatusOK,
			expectedSuccess: true,
			expectedMessage: "Login successful",
		},
		{
			name:        "form success",
			contentType: "application/x-www-form-urlencoded",
			body: url.Values{
				"username": {app.TestAdminUsername},
				"password": {app.TestAdminPassword},
			}.Encode(),
			expectedStatus:  http.StatusOK,
			expectedSuccess: true,
			expectedMessage: "Login successful",
		},
		{
			name:            "wrong password",
			contentType:     "application/json",
			body:            fmt.Sprintf(`{"username": "%s", "password": "nope"}`, app.TestAdminUsername),
			expectedStatus:  http.StatusUnauthorized,
			expectedSuccess: false,
			expectedMessage: "Invalid username or password",
		},
		{
			name:            "unknown user",
			contentType:     "application/json",
			body:            fmt.Sprintf(`{"username": "root", "password": "%s"}`, app.TestAdminPassword),
			expectedStatus:  http.StatusUnauthorized,
			expectedSuccess: false,
			expectedMessage: "Invalid username or password",
		},
		{
			name:            "missing password",
			contentType:     "application/json",
			body:            `{"username": "admin"}`,
			expectedStatus:  http.StatusBadRequest,
			expectedSuccess: false,
			expectedMessage: "Password is required",
		},
		{
			name:            "malformed json",
			contentType:     "application/json",
			body:            `{"username":`,
			expectedStatus:  http.StatusBadRequest,
			expectedSuccess: false,
			expectedMessage: "Invalid form data",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := app.NewTest(t)
			server := MustNewServer(t, &a)

			req := testutils.MakeReq(server.URL, "POST", "/api/auth/login", tc.body)
			req.Header.Set("Content-Type", tc.contentType)
			res := testutils.HTTPDo(t, req)
			defer res.Body.Close()

			assert.StatusCodeEquals(t, res, tc.expectedStatus, "status code mismatch")

			var payload LoginResponse
			testutils.MustDecodeJSON(t, res.Body, &payload, "decoding payload")

			assert.Equal(t, payload.Success, tc.expectedSuccess, "success mismatch")
			assert.Equal(t, payload.Message, tc.expectedMessage, "message mismatch")

			if !tc.expectedSuccess {
				assert.Equal(t, payload.Token, "", "token should be empty")
				return
			}

			assert.Equal(t, payload.User.Username, app.TestAdminUsername, "username mismatch")
			assert.Equal(t, payload.User.Role, permissions.RoleAdmin, "role mismatch")

			session, err := a.Tokens.Verify(payload.Token)
			if err != nil {
				t.Fatal(errors.Wrap(err, "verifying issued token"))
			}
			assert.Equal(t, session.Role, permissions.RoleAdmin, "session role mismatch")
		})
	}
}

func TestVerify(t *testing.T) {
	a := app.NewTest(t)
	server := MustNewServer(t, &a)

	t.Run("valid", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "GET", "/api/auth/verify", "")
		res := testutils.HTTPAuthDo(t, a.Tokens, req, permissions.RoleAdmin)
		defer res.Body.Close()

		assert.StatusCodeEquals(t, res, http.StatusOK, "status code mismatch")

		var payload VerifyResponse
		testutils.MustDecodeJSON(t, res.Body, &payload, "decoding payload")

		assert.Equal(t, payload.Valid, true, "valid mismatch")
		assert.Equal(t, payload.User, verifyUser{Username: "admin", Role: permissions.RoleAdmin, UserID: 1}, "user mismatch")
	})

	t.Run("login then verify", func(t *testing.T) {
		tok, err := a.SignIn(app.TestAdminUsername, app.TestAdminPassword)
		if err != nil {
			t.Fatal(errors.Wrap(err, "signing in"))
		}

		req := testutils.MakeReq(server.URL, "GET", "/api/auth/verify", "")
		req.Header.Set("Authorization", "Bearer "+tok)
		res := testutils.HTTPDo(t, req)
		defer res.Body.Close()

		assert.StatusCodeEquals(t, res, http.StatusOK, "status code mismatch")
	})

	t.Run("missing token", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "GET", "/api/auth/verify", "")
		res := testutils.HTTPDo(t, req)
		defer res.Body.Close()

		assert.StatusCodeEquals(t, res, http.StatusUnauthorized, "status code mismatch")
	})

	t.Run("expired token", func(t *testing.T) {
		tok, err := a.SignIn(app.TestAdminUsername, app.TestAdminPassword)
		if err != nil {
			t.Fatal(errors.Wrap(err, "signing in"))
		}

		mock := a.Clock.(*clock.Mock)
		mock.Advance(25 * time.Hour)
		defer mock.Advance(-25 * time.Hour)

		req := testutils.MakeReq(server.URL, "GET", "/api/auth/verify", "")
		req.Header.Set("Authorization", "Bearer "+tok)
		res := testutils.HTTPDo(t, req)
		defer res.Body.Close()

		assert.StatusCodeEquals(t, res, http.StatusUnauthorized, "status code mismatch")
		body, _ := io.ReadAll(res.Body)
		assert.Equal(t, string(body), "{\"error\":\"Invalid or expired token\"}\n", "body mismatch")
	})
}
