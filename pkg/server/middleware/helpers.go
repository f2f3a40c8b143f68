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
	"strings"

	"github.com/dnote/bookstore/pkg/server/log"
	"github.com/pkg/errors"
)

// ErrMalformedAuthHeader is an error for an Authorization header that is not a bearer credential
var ErrMalformedAuthHeader = errors.New("malformed authorization header")

func getCredentialFromAuth(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", nil
	}

	parts := strings.Fields(h)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", ErrMalformedAuthHeader
	}

	return parts[1], nil
}

// GetCredential extracts the bearer token from the request. An empty string
// means that no credential was sent.
func GetCredential(r *http.Request) (string, error) {
	c, err := getCredentialFromAuth(r)
	if err != nil {
		return "", errors.Wrap(err, "getting credential from the authorization header")
	}

	return c, nil
}

type errorBody struct {
	Error string `json:"error"`
}

// RespondError writes a JSON error body with the given status code
func RespondError(w http.ResponseWriter, statusCode int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(errorBody{Error: msg}); err != nil {
		log.ErrorWrap(err, "encoding error response")
	}
}

// DoError logs the error and responds with the given status code. Internal
// errors are reported to the client without detail.
func DoError(w http.ResponseWriter, msg string, err error, statusCode int) {
	var message string
	if err == nil {
		message = msg
	} else {
		message = errors.Wrap(err, msg).Error()
	}

	if statusCode >= http.StatusInternalServerError {
		log.WithFields(log.Fields{
			"statusCode": statusCode,
		}).Error(message)

		RespondError(w, statusCode, http.StatusText(statusCode))
		return
	}

	log.WithFields(log.Fields{
		"statusCode": statusCode,
	}).Info(message)

	RespondError(w, statusCode, msg)
}

// RespondUnauthorized responds with unauthorized
func RespondUnauthorized(w http.ResponseWriter) {
	w.Header().Add("WWW-Authenticate", `Bearer realm="bookstore.api"`)
	RespondError(w, http.StatusUnauthorized, "Access token required")
}

// RespondInvalidToken responds with unauthorized for a token that failed verification
func RespondInvalidToken(w http.ResponseWriter) {
	w.Header().Add("WWW-Authenticate", `Bearer realm="bookstore.api", error="invalid_token"`)
	RespondError(w, http.StatusUnauthorized, "Invalid or expired token")
}

// RespondForbidden responds with forbidden
func RespondForbidden(w http.ResponseWriter, msg string) {
	RespondError(w, http.StatusForbidden, msg)
}
