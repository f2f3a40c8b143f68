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
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dnote/bookstore/pkg/server/app"
	"github.com/dnote/bookstore/pkg/server/assets"
	"github.com/dnote/bookstore/pkg/server/presenters"
	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
)

// multipartMemory is the part of a multipart body kept in memory before
// spilling to temporary files
const multipartMemory = 8 << 20

// NewBooks creates a new Books controller
func NewBooks(app *app.App) *Books {
	return &Books{
		app: app,
	}
}

// Books is a controller for the books
type Books struct {
	app *app.App
}

// BookForm is the form data for creating or updating a book. Every field
// arrives as a string and an empty optional field means unset.
type BookForm struct {
	Title         string `schema:"title"`
	AuthorID      string `schema:"authorId"`
	CategoryID    string `schema:"categoryId"`
	ISBN          string `schema:"isbn"`
	Price         string `schema:"price"`
	Description   string `schema:"description"`
	StockQuantity string `schema:"stockQuantity"`
	PublishedDate string `schema:"publishedDate"`
}

func parseOptionalID(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return nil, app.ErrInvalidReference
	}

	return &id, nil
}

// toParams validates the form and converts it to book params
func (f BookForm) toParams() (app.BookParams, error) {
	var p app.BookParams

	p.Title = strings.TrimSpace(f.Title)
	if p.Title == "" {
		return p, app.ErrTitleRequired
	}

	price := strings.TrimSpace(f.Price)
	if price == "" {
		return p, app.ErrPriceRequired
	}
	v, err := strconv.ParseFloat(price, 64)
	if err != nil {
		return p, app.ErrInvalidPrice
	}
	p.Price = v

	if p.AuthorID, err = parseOptionalID(f.AuthorID); err != nil {
		return p, err
	}
	if p.CategoryID, err = parseOptionalID(f.CategoryID); err != nil {
		return p, err
	}

	if isbn := strings.TrimSpace(f.ISBN); isbn != "" {
		p.ISBN = &isbn
	}

	p.Description = f.Description

	if stock := strings.TrimSpace(f.StockQuantity); stock != "" {
		n, err := strconv.Atoi(stock)
		if err != nil {
			return p, app.ErrInvalidStock
		}
		p.StockQuantity = n
	}

	if date := strings.TrimSpace(f.PublishedDate); date != "" {
		d, err := time.Parse(presenters.DateLayout, date)
		if err != nil {
			return p, app.ErrInvalidDate
		}
		p.PublishedDate = &d
	}

	return p, nil
}

// readCover reads the optional "image" file of a multipart form. Only images are accepted.
func readCover(r *http.Request) (*assets.Upload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	} else if err != nil {
		return nil, errors.Wrap(err, "opening uploaded file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.Wrap(err, "reading uploaded file")
	}

	if len(data) == 0 || !strings.HasPrefix(mimetype.Detect(data).String(), "image/") {
		return nil, app.ErrInvalidImage
	}

	return &assets.Upload{
		Name: header.Filename,
		Data: data,
	}, nil
}

// parseBookRequest parses a multipart or url-encoded book form
func (b *Books) parseBookRequest(w http.ResponseWriter, r *http.Request) (app.BookParams, *assets.Upload, error) {
	maxSize := b.app.MaxUploadSize
	if maxSize <= 0 {
		maxSize = app.DefaultMaxUploadSize
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(multipartMemory)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return app.BookParams{}, nil, err
		}
		return app.BookParams{}, nil, errors.Wrap(app.ErrInvalidForm, err.Error())
	}

	var form BookForm
	if err := formDecoder.Decode(&form, r.PostForm); err != nil {
		return app.BookParams{}, nil, errors.Wrap(app.ErrInvalidForm, err.Error())
	}

	params, err := form.toParams()
	if err != nil {
		return app.BookParams{}, nil, err
	}

	cover, err := readCover(r)
	if err != nil {
		return app.BookParams{}, nil, err
	}

	return params, cover, nil
}

// Index handles GET /api/books
func (b *Books) Index(w http.ResponseWriter, r *http.Request) {
	books, err := b.app.ListBooks()
	if err != nil {
		handleHTTPError(w, "listing books", err)
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentBooks(books))
}

// Show handles GET /api/books/{id}
func (b *Books) Show(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		handleHTTPError(w, "parsing id", err)
		return
	}

	book, err := b.app.GetBook(id)
	if err != nil {
		handleHTTPError(w, "getting book", err)
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentBook(book))
}

type createBookResp struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	BookID  int    `json:"bookId"`
}

type mutationResp struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Create handles POST /api/books
func (b *Books) Create(w http.ResponseWriter, r *http.Request) {
	params, cover, err := b.parseBookRequest(w, r)
	if err != nil {
		handleHTTPError(w, "parsing book form", err)
		return
	}

	book, err := b.app.CreateBook(params, cover)
	if err != nil {
		handleHTTPError(w, "creating book", err)
		return
	}

	respondJSON(w, http.StatusCreated, createBookResp{
		Success: true,
		Message: "Book created successfully",
		BookID:  book.ID,
	})
}

// Update handles PUT /api/books/{id}
func (b *Books) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		handleHTTPError(w, "parsing id", err)
		return
	}

	params, cover, err := b.parseBookRequest(w, r)
	if err != nil {
		handleHTTPError(w, "parsing book form", err)
		return
	}

	if _, err := b.app.UpdateBook(id, params, cover); err != nil {
		handleHTTPError(w, "updating book", err)
		return
	}

	respondJSON(w, http.StatusOK, mutationResp{
		Success: true,
		Message: "Book updated successfully",
	})
}

// Delete handles DELETE /api/books/{id}
func (b *Books) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		handleHTTPError(w, "parsing id", err)
		return
	}

	if err := b.app.DeleteBook(id); err != nil {
		handleHTTPError(w, "deleting book", err)
		return
	}

	respondJSON(w, http.StatusOK, mutationResp{
		Success: true,
		Message: "Book deleted successfully",
	})
}
