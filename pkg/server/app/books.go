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

package app

import (
	"math"
	"strings"
	"time"

	"github.com/dnote/bookstore/pkg/server/assets"
	"github.com/dnote/bookstore/pkg/server/database"
	"github.com/dnote/bookstore/pkg/server/log"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// BookParams is the set of editable fields of a book
type BookParams struct {
	Title         string
	AuthorID      *int
	CategoryID    *int
	ISBN          *string
	Price         float64
	Description   string
	StockQuantity int
	PublishedDate *time.Time
}

// MaxPrice is the largest price a decimal(10,2) column holds
const MaxPrice = 99999999.99

// BookDetail is a book joined with the names of its author and category
type BookDetail struct {
	database.Book
	AuthorName   *string
	CategoryName *string
	// CoverImageData holds the bytes of the cover file if it could be read
	CoverImageData []byte `gorm:"-"`
}

func (p BookParams) validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return ErrTitleRequired
	}
	if p.Price < 0 || p.Price > MaxPrice || math.IsNaN(p.Price) {
		return ErrInvalidPrice
	}
	if p.StockQuantity < 0 {
		return ErrInvalidStock
	}
	if (p.AuthorID != nil && *p.AuthorID <= 0) || (p.CategoryID != nil && *p.CategoryID <= 0) {
		return ErrInvalidReference
	}

	return nil
}

// roundPrice keeps two decimal places
func roundPrice(p float64) float64 {
	return math.Round(p*100) / 100
}

func (p BookParams) apply(book *database.Book) {
	book.Title = strings.TrimSpace(p.Title)
	book.AuthorID = p.AuthorID
	book.CategoryID = p.CategoryID
	book.ISBN = p.ISBN
	book.Price = roundPrice(p.Price)
	book.Description = p.Description
	book.StockQuantity = p.StockQuantity
	book.PublishedDate = p.PublishedDate
}

func (a *App) bookDetailQuery() *gorm.DB {
	return a.DB.Table("books").
		Select("books.*, authors.author_name AS author_name, categories.category_name AS category_name").
		Joins("LEFT JOIN authors ON authors.id = books.author_id").
		Joins("LEFT JOIN categories ON categories.id = books.category_id")
}

// attachCover reads the cover file of the book. A cover that cannot be read
// is left empty and the book is still returned.
func (a *App) attachCover(b *BookDetail) {
	if b.CoverImage == nil || *b.CoverImage == "" {
		return
	}

	data, found, err := a.Assets.Load(*b.CoverImage)
	if err != nil {
		log.WithFields(log.Fields{
			"book_id":     b.ID,
			"cover_image": *b.CoverImage,
		}).ErrorWrap(err, "reading cover image")
		return
	}
	if !found {
		log.WithFields(log.Fields{
			"book_id":     b.ID,
			"cover_image": *b.CoverImage,
		}).Warn("cover image file is missing")
		return
	}

	b.CoverImageData = data
}

func (a *App) removeCover(name string) {
	if err := a.Assets.Remove(name); err != nil {
		log.WithFields(log.Fields{
			"cover_image": name,
		}).WarnWrap(err, "removing cover image")
	}
}

// ListBooks returns every book with author and category names, newest first
func (a *App) ListBooks() ([]BookDetail, error) {
	books := []BookDetail{}
	if err := a.bookDetailQuery().Order("books.id DESC").Scan(&books).Error; err != nil {
		return nil, errors.Wrap(err, "finding books")
	}

	for i := range books {
		a.attachCover(&books[i])
	}

	return books, nil
}

// GetBook returns the book with the given id
func (a *App) GetBook(id int) (BookDetail, error) {
	var books []BookDetail
	if err := a.bookDetailQuery().Where("books.id = ?", id).Limit(1).Scan(&books).Error; err != nil {
		return BookDetail{}, errors.Wrap(err, "finding book")
	}
	if len(books) == 0 {
		return BookDetail{}, ErrNotFound
	}

	book := books[0]
	a.attachCover(&book)

	return book, nil
}

func (a *App) findBook(id int) (database.Book, error) {
	var book database.Book
	err := a.DB.Where("id = ?", id).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return book, ErrNotFound
	} else if err != nil {
		return book, errors.Wrap(err, "finding book")
	}

	return book, nil
}

// CreateBook stores the cover, if any, and inserts the book. The cover file is
// removed again if the book cannot be inserted.
func (a *App) CreateBook(p BookParams, cover *assets.Upload) (database.Book, error) {
	if err := p.validate(); err != nil {
		return database.Book{}, err
	}

	var book database.Book
	p.apply(&book)

	if cover != nil {
		name, err := a.Assets.Save(*cover)
		if err != nil {
			return database.Book{}, errors.Wrap(err, "saving cover image")
		}
		book.CoverImage = &name
	}

	if err := a.DB.Create(&book).Error; err != nil {
		if book.CoverImage != nil {
			a.removeCover(*book.CoverImage)
		}
		return database.Book{}, errors.Wrap(err, "inserting book")
	}

	return book, nil
}

// UpdateBook replaces the editable fields of the book. When a new cover is
// given, the previous cover file is removed only after the row is updated.
func (a *App) UpdateBook(id int, p BookParams, cover *assets.Upload) (database.Book, error) {
	if err := p.validate(); err != nil {
		return database.Book{}, err
	}

	book, err := a.findBook(id)
	if err != nil {
		return database.Book{}, err
	}

	previousCover := book.CoverImage
	p.apply(&book)

	var newCover string
	if cover != nil {
		newCover, err = a.Assets.Save(*cover)
		if err != nil {
			return database.Book{}, errors.Wrap(err, "saving cover image")
		}
		book.CoverImage = &newCover
	}

	if err := a.DB.Save(&book).Error; err != nil {
		if newCover != "" {
			a.removeCover(newCover)
		}
		return database.Book{}, errors.Wrap(err, "updating book")
	}

	if newCover != "" && previousCover != nil && *previousCover != "" {
		a.removeCover(*previousCover)
	}

	return book, nil
}

// DeleteBook deletes the book and then its cover file
func (a *App) DeleteBook(id int) error {
	book, err := a.findBook(id)
	if err != nil {
		return err
	}

	if err := a.DB.Delete(&database.Book{}, book.ID).Error; err != nil {
		return errors.Wrap(err, "deleting book")
	}

	if book.CoverImage != nil && *book.CoverImage != "" {
		a.removeCover(*book.CoverImage)
	}

	return nil
}
