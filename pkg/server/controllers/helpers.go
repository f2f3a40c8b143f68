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
	"bytes"
	"encoding/json"
	"mime"
	"net/http"
	"strconv"

	"github.com/dnote/bookstore/pkg/server/app"
	"github.com/dnote/bookstore/pkg/server/log"
	mw "github.com/dnote/bookstore/pkg/server/middleware"
	"github.com/dnote/bookstore/pkg/server/permissions"
	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	"github.com/pkg/errors"
)

var formDecoder = newFormDecoder()

func newFormDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)

	return d
}

func isJSONRequest(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}

	return mediaType == "application/json"
}

// parseRequestData decodes a JSON or url-encoded form body into v
func parseRequestData(r *http.Request, v interface{}) error {
	if isJSONRequest(r) {
		if err := json.NewDecoder(r.Body).Decode(v); err != nil {
			return errors.Wrap(app.ErrInvalidForm, err.Error())
		}

		return nil
	}

	if err := r.ParseForm(); err != nil {
		return errors.Wrap(app.ErrInvalidForm, err.Error())
	}
	if err := formDecoder.Decode(v, r.PostForm); err != nil {
		return errors.Wrap(app.ErrInvalidForm, err.Error())
	}

	return nil
}

// parseID parses the book id path variable
func parseID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		return 0, app.ErrInvalidID
	}

	return id, nil
}

func respondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		mw.DoError(w, "encoding response", err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if _, err := buf.WriteTo(w); err != nil {
		log.ErrorWrap(err, "writing response")
	}
}

// getStatusCode maps an error to the status code of its response
func getStatusCode(err error) int {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge
	}

	if app.IsValidationError(err) {
		return http.StatusBadRequest
	}

	switch errors.Cause(err) {
	case app.ErrNotFound:
		return http.StatusNotFound
	case app.ErrLoginInvalid:
		return http.StatusUnauthorized
	case permissions.ErrForbidden:
		return http.StatusForbidden
	}

	return http.StatusInternalServerError
}

// handleHTTPError logs the error and responds with an error body. The message
// of internal errors is logged and never sent to the client.
func handleHTTPError(w http.ResponseWriter, msg string, err error) {
	statusCode := getStatusCode(err)

	switch statusCode {
	case http.StatusInternalServerError:
		mw.DoError(w, msg, err, statusCode)
	case http.StatusRequestEntityTooLarge:
		mw.DoError(w, "Request body too large", nil, statusCode)
	default:
		mw.DoError(w, errors.Cause(err).Error(), nil, statusCode)
	}
}

// notFound responds to requests that match no route
func notFound(w http.ResponseWriter, r *http.Request) {
	mw.RespondError(w, http.StatusNotFound, "Not found")
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	mw.RespondError(w, http.StatusMethodNotAllowed, "Method not allowed")
}
