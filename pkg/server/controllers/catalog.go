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
	"github.com/dnote/bookstore/pkg/server/presenters"
)

// NewCatalog creates a new Catalog controller
func NewCatalog(app *app.App) *Catalog {
	return &Catalog{
		app: app,
	}
}

// Catalog is a controller for authors and categories
type Catalog struct {
	app *app.App
}

// Categories handles GET /api/books/categories
func (c *Catalog) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.app.ListCategories()
	if err != nil {
		handleHTTPError(w, "listing categories", err)
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentCategories(categories))
}

// Authors handles GET /api/authors
func (c *Catalog) Authors(w http.ResponseWriter, r *http.Request) {
	authors, err := c.app.ListAuthors()
	if err != nil {
		handleHTTPError(w, "listing authors", err)
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentAuthors(authors))
}
