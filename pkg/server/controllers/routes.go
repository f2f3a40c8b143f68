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
	mw "github.com/dnote/bookstore/pkg/server/middleware"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

// Route represents a single route
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// NewAPIRoutes returns the routes served under /api
func NewAPIRoutes(a *app.App, c *Controllers) []Route {
	return []Route{
		{"POST", "/auth/login", c.Auth.Login},
		{"GET", "/auth/verify", mw.Auth(a.Tokens, c.Auth.Verify)},

		// registered before /books/{id} so that it is not taken for an id
		{"GET", "/books/categories", c.Catalog.Categories},
		{"GET", "/books", c.Books.Index},
		{"GET", "/books/{id}", c.Books.Show},
		{"POST", "/books", mw.AdminOnly(a.Tokens, c.Books.Create)},
		{"PUT", "/books/{id}", mw.AdminOnly(a.Tokens, c.Books.Update)},
		{"DELETE", "/books/{id}", mw.AdminOnly(a.Tokens, c.Books.Delete)},

		{"GET", "/authors", c.Catalog.Authors},
		{"GET", "/dashboard/stats", mw.AdminOnly(a.Tokens, c.Dashboard.Stats)},
	}
}

func registerRoutes(router *mux.Router, routes []Route) {
	for _, route := range routes {
		router.
			Handle(route.Pattern, route.Handler).
			Methods(route.Method)
	}
}

// NewRouter creates and returns a new router
func NewRouter(a *app.App, c *Controllers, apiRoutes []Route) (http.Handler, error) {
	if err := a.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating the app parameters")
	}

	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(notFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.NotFoundHandler = http.HandlerFunc(notFound)
	apiRouter.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	registerRoutes(apiRouter, apiRoutes)

	router.HandleFunc("/health", c.Health.Index).Methods("GET")

	return mw.Global(router, a.CORSOrigins), nil
}
