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
	"strings"

	"github.com/dnote/bookstore/pkg/server/database"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Catalog is a list of author and category names to be seeded
type Catalog struct {
	Authors    []string `yaml:"authors"`
	Categories []string `yaml:"categories"`
}

// SeedResult reports how many records a seed created
type SeedResult struct {
	AuthorsCreated    int
	CategoriesCreated int
}

// ListCategories returns every category in insertion order
func (a *App) ListCategories() ([]database.Category, error) {
	categories := []database.Category{}
	if err := a.DB.Order("id ASC").Find(&categories).Error; err != nil {
		return nil, errors.Wrap(err, "finding categories")
	}

	return categories, nil
}

// ListAuthors returns every author ordered by name
func (a *App) ListAuthors() ([]database.Author, error) {
	authors := []database.Author{}
	if err := a.DB.Order("author_name ASC, id ASC").Find(&authors).Error; err != nil {
		return nil, errors.Wrap(err, "finding authors")
	}

	return authors, nil
}

func createAuthor(tx *gorm.DB, name string) (database.Author, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return database.Author{}, false, ErrNameRequired
	}

	var author database.Author
	err := tx.Where("author_name = ?", name).First(&author).Error
	if err == nil {
		return author, false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return author, false, errors.Wrap(err, "finding author")
	}

	author = database.Author{AuthorName: name}
	if err := tx.Create(&author).Error; err != nil {
		return author, false, errors.Wrap(err, "inserting author")
	}

	return author, true, nil
}

func createCategory(tx *gorm.DB, name string) (database.Category, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return database.Category{}, false, ErrNameRequired
	}

	var category database.Category
	err := tx.Where("category_name = ?", name).First(&category).Error
	if err == nil {
		return category, false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return category, false, errors.Wrap(err, "finding category")
	}

	category = database.Category{CategoryName: name}
	if err := tx.Create(&category).Error; err != nil {
		return category, false, errors.Wrap(err, "inserting category")
	}

	return category, true, nil
}

// CreateAuthor returns the author with the given name, creating it if needed.
// The boolean reports whether a new author was inserted.
func (a *App) CreateAuthor(name string) (database.Author, bool, error) {
	return createAuthor(a.DB, name)
}

// CreateCategory returns the category with the given name, creating it if needed.
// The boolean reports whether a new category was inserted.
func (a *App) CreateCategory(name string) (database.Category, bool, error) {
	return createCategory(a.DB, name)
}

// Seed creates the authors and categories of the catalog that do not exist yet
func (a *App) Seed(c Catalog) (SeedResult, error) {
	var result SeedResult

	err := a.DB.Transaction(func(tx *gorm.DB) error {
		for _, name := range c.Authors {
			_, created, err := createAuthor(tx, name)
			if err != nil {
				return errors.Wrapf(err, "seeding author '%s'", name)
			}
			if created {
				result.AuthorsCreated++
			}
		}

		for _, name := range c.Categories {
			_, created, err := createCategory(tx, name)
			if err != nil {
				return errors.Wrapf(err, "seeding category '%s'", name)
			}
			if created {
				result.CategoriesCreated++
			}
		}

		return nil
	})
	if err != nil {
		return SeedResult{}, err
	}

	return result, nil
}
