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

package presenters

import (
	"time"

	"github.com/dnote/bookstore/pkg/server/app"
	"github.com/dnote/bookstore/pkg/server/database"
)

// Book is a result of PresentBooks
type Book struct {
	BookID        int       `json:"BookID"`
	Title         string    `json:"Title"`
	AuthorID      *int      `json:"AuthorID"`
	CategoryID    *int      `json:"CategoryID"`
	ISBN          *string   `json:"ISBN"`
	Price         float64   `json:"Price"`
	Description   string    `json:"Description"`
	CoverImageRef *string   `json:"CoverImageRef"`
	CoverImage    []byte    `json:"CoverImage"`
	StockQuantity int       `json:"StockQuantity"`
	PublishedDate *string   `json:"PublishedDate"`
	AuthorName    *string   `json:"AuthorName"`
	CategoryName  *string   `json:"CategoryName"`
	CreatedAt     time.Time `json:"CreatedAt"`
	UpdatedAt     time.Time `json:"UpdatedAt"`
}

// PresentBook presents a book. The cover bytes are encoded as base64 and
// are null when the cover could not be read.
func PresentBook(book app.BookDetail) Book {
	var cover []byte
	if len(book.CoverImageData) > 0 {
		cover = book.CoverImageData
	}

	return Book{
		BookID:        book.ID,
		Title:         book.Title,
		AuthorID:      book.AuthorID,
		CategoryID:    book.CategoryID,
		ISBN:          book.ISBN,
		Price:         book.Price,
		Description:   book.Description,
		CoverImageRef: book.CoverImage,
		CoverImage:    cover,
		StockQuantity: book.StockQuantity,
		PublishedDate: FormatDate(book.PublishedDate),
		AuthorName:    book.AuthorName,
		CategoryName:  book.CategoryName,
		CreatedAt:     FormatTS(book.CreatedAt),
		UpdatedAt:     FormatTS(book.UpdatedAt),
	}
}

// PresentBooks presents books
func PresentBooks(books []app.BookDetail) []Book {
	ret := []Book{}

	for _, book := range books {
		p := PresentBook(book)
		ret = append(ret, p)
	}

	return ret
}

// Author is a result of PresentAuthors
type Author struct {
	AuthorID   int    `json:"AuthorID"`
	AuthorName string `json:"AuthorName"`
}

// PresentAuthors presents authors
func PresentAuthors(authors []database.Author) []Author {
	ret := []Author{}

	for _, a := range authors {
		ret = append(ret, Author{
			AuthorID:   a.ID,
			AuthorName: a.AuthorName,
		})
	}

	return ret
}

// Category is a result of PresentCategories
type Category struct {
	CategoryID   int    `json:"CategoryID"`
	CategoryName string `json:"CategoryName"`
}

// PresentCategories presents categories
func PresentCategories(categories []database.Category) []Category {
	ret := []Category{}

	for _, c := range categories {
		ret = append(ret, Category{
			CategoryID:   c.ID,
			CategoryName: c.CategoryName,
		})
	}

	return ret
}

// DashboardStats is a result of PresentDashboardStats
type DashboardStats struct {
	TotalBooks      int64 `json:"totalBooks"`
	TotalCategories int64 `json:"totalCategories"`
	TotalAuthors    int64 `json:"totalAuthors"`
	LowStock        int64 `json:"lowStock"`
}

// PresentDashboardStats presents dashboard stats
func PresentDashboardStats(s app.DashboardStats) DashboardStats {
	return DashboardStats{
		TotalBooks:      s.TotalBooks,
		TotalCategories: s.TotalCategories,
		TotalAuthors:    s.TotalAuthors,
		LowStock:        s.LowStock,
	}
}
