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

// Package testutils provides utilities used in tests
package testutils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"github.com/dnote/bookstore/pkg/server/database"
	"github.com/dnote/bookstore/pkg/server/token"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitMemoryDB returns a fresh in-memory database with the schema and
// migrations applied. Every call gets its own database.
func InitMemoryDB(t *testing.T) *gorm.DB {
	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}

	if err := database.InitSchema(db); err != nil {
		t.Fatal(errors.Wrap(err, "initializing schema"))
	}
	if err := database.Migrate(db, database.DriverSQLite); err != nil {
		t.Fatal(errors.Wrap(err, "running migrations"))
	}

	t.Cleanup(func() {
		if err := database.Close(db); err != nil {
			t.Logf("closing test database: %v", err)
		}
	})

	return db
}

// SetupAuthor creates and returns an author with the given name
func SetupAuthor(t *testing.T, db *gorm.DB, name string) database.Author {
	author := database.Author{AuthorName: name}
	if err := db.Create(&author).Error; err != nil {
		t.Fatal(errors.Wrap(err, "preparing author"))
	}

	return author
}

// SetupCategory creates and returns a category with the given name
func SetupCategory(t *testing.T, db *gorm.DB, name string) database.Category {
	category := database.Category{CategoryName: name}
	if err := db.Create(&category).Error; err != nil {
		t.Fatal(errors.Wrap(err, "preparing category"))
	}

	return category
}

// SetupBook inserts the given book and returns it with its id populated
func SetupBook(t *testing.T, db *gorm.DB, book database.Book) database.Book {
	if err := db.Create(&book).Error; err != nil {
		t.Fatal(errors.Wrap(err, "preparing book"))
	}

	return book
}

// IntPtr returns a pointer to the given int
func IntPtr(i int) *int {
	return &i
}

// StrPtr returns a pointer to the given string
func StrPtr(s string) *string {
	return &s
}

// HTTPDo makes an HTTP request and returns a response
func HTTPDo(t *testing.T, req *http.Request) *http.Response {
	hc := http.Client{}

	res, err := hc.Do(req)
	if err != nil {
		t.Fatal(errors.Wrap(err, "performing http request"))
	}

	return res
}

// SetReqAuthHeader sets a bearer token for a session with the given role
func SetReqAuthHeader(t *testing.T, iss *token.Issuer, req *http.Request, role string) {
	tok, err := iss.Issue("admin", role, 1)
	if err != nil {
		t.Fatal(errors.Wrap(err, "issuing token"))
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", tok))
}

// HTTPAuthDo makes an HTTP request with a bearer token for the given role
func HTTPAuthDo(t *testing.T, iss *token.Issuer, req *http.Request, role string) *http.Response {
	SetReqAuthHeader(t, iss, req, role)

	return HTTPDo(t, req)
}

// MakeReq makes an HTTP request and returns a response
func MakeReq(endpoint string, method, path, data string) *http.Request {
	u := fmt.Sprintf("%s%s", endpoint, path)

	req, err := http.NewRequest(method, u, strings.NewReader(data))
	if err != nil {
		panic(errors.Wrap(err, "constructing http request"))
	}

	return req
}

// MakeJSONReq makes a request with a JSON body
func MakeJSONReq(endpoint string, method, path, data string) *http.Request {
	req := MakeReq(endpoint, method, path, data)
	req.Header.Set("Content-Type", "application/json")

	return req
}

// FilePart is a file attached to a multipart request
type FilePart struct {
	Field    string
	Filename string
	Data     []byte
}

// MakeMultipartReq makes a multipart/form-data request with the given fields
// and an optional file
func MakeMultipartReq(t *testing.T, endpoint, method, path string, fields map[string]string, file *FilePart) *http.Request {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(errors.Wrap(err, "writing form field"))
		}
	}

	if file != nil {
		fw, err := w.CreateFormFile(file.Field, file.Filename)
		if err != nil {
			t.Fatal(errors.Wrap(err, "creating form file"))
		}
		if _, err := fw.Write(file.Data); err != nil {
			t.Fatal(errors.Wrap(err, "writing form file"))
		}
	}

	if err := w.Close(); err != nil {
		t.Fatal(errors.Wrap(err, "closing multipart writer"))
	}

	req := MakeReq(endpoint, method, path, body.String())
	req.Header.Set("Content-Type", w.FormDataContentType())

	return req
}

// MustExec fails the test if the given database query has an error
func MustExec(t *testing.T, db *gorm.DB, message string) {
	if err := db.Error; err != nil {
		t.Fatalf("%s: %s", message, err.Error())
	}
}

// MustRespondJSON responds with the JSON-encoding of the given interface. If the encoding
// fails, the test fails. It is used by test servers.
func MustRespondJSON(t *testing.T, w http.ResponseWriter, i interface{}, message string) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(i); err != nil {
		t.Fatal(message)
	}
}

// MustDecodeJSON decodes the JSON body into the given value, failing the test on error
func MustDecodeJSON(t *testing.T, body io.Reader, v interface{}, message string) {
	if err := json.NewDecoder(body).Decode(v); err != nil {
		t.Fatal(errors.Wrap(err, message))
	}
}

// PNG is a minimal valid PNG image
var PNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
	0x89, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x44, 0x41,
	0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00,
	0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
	0x42, 0x60, 0x82,
}
