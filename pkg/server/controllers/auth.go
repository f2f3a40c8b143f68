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
	"net/http"

	"github.com/dnote/bookstore/pkg/server/app"
	"github.com/dnote/bookstore/pkg/server/context"
	"github.com/dnote/bookstore/pkg/server/log"
	mw "github.com/dnote/bookstore/pkg/server/middleware"
	"github.com/dnote/bookstore/pkg/server/permissions"
	"github.com/pkg/errors"
)

// NewAuth creates a new Auth controller
func NewAuth(app *app.App) *Auth {
	return &Auth{
		app: app,
	}
}

// Auth is an authentication controller
type Auth struct {
	app *app.App
}

// LoginForm is the form data for logging in
type LoginForm struct {
	Username string `json:"username" schema:"username"`
	Password string `json:"password" schema:"password"`
}

type loginUser struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// LoginResponse is a response for a login attempt
type LoginResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Token   string     `json:"token,omitempty"`
	User    *loginUser `json:"user,omitempty"`
}

func respondLoginFailure(w http.ResponseWriter, statusCode int, msg string) {
	respondJSON(w, statusCode, LoginResponse{
		Success: false,
		Message: msg,
	})
}

// Login handles POST /api/auth/login
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var form LoginForm
	if err := parseRequestData(r, &form); err != nil {
		respondLoginFailure(w, http.StatusBadRequest, errors.Cause(err).Error())
		return
	}

	tok, err := a.app.SignIn(form.Username, form.Password)
	if err != nil {
		statusCode := getStatusCode(err)
		if statusCode == http.StatusInternalServerError {
			mw.DoError(w, "signing in", err, statusCode)
			return
		}

		log.WithFields(log.Fields{
			"username": form.Username,
		}).Info("login failed")

		respondLoginFailure(w, statusCode, errors.Cause(err).Error())
		return
	}

	respondJSON(w, http.StatusOK, LoginResponse{
		Success: true,
		Message: "Login successful",
		Token:   tok,
		User: &loginUser{
			Username: a.app.Admin.Username,
			Role:     permissions.RoleAdmin,
		},
	})
}

type verifyUser struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	UserID   int    `json:"userId"`
}

// VerifyResponse is a response for a token verification
type VerifyResponse struct {
	Valid bool       `json:"valid"`
	User  verifyUser `json:"user"`
}

// Verify handles GET /api/auth/verify
func (a *Auth) Verify(w http.ResponseWriter, r *http.Request) {
	session := context.Session(r.Context())
	if session == nil {
		mw.RespondUnauthorized(w)
		return
	}

	respondJSON(w, http.StatusOK, VerifyResponse{
		Valid: true,
		User: verifyUser{
			Username: session.Username,
			Role:     session.Role,
			UserID:   session.UserID,
		},
	})
}
