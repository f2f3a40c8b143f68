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

// NewDashboard creates a new Dashboard controller
func NewDashboard(app *app.App) *Dashboard {
	return &Dashboard{
		app: app,
	}
}

// Dashboard is a controller for the admin dashboard
type Dashboard struct {
	app *app.App
}

// Stats handles GET /api/dashboard/stats
func (d *Dashboard) Stats(w http.ResponseWriter, r *http.Request) {
	stats := d.app.GetDashboardStats(r.Context())

	respondJSON(w, http.StatusOK, presenters.PresentDashboardStats(stats))
}
