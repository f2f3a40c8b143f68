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
	"context"
	"testing"

	"github.com/dnote/bookstore/pkg/assert"
	"github.com/dnote/bookstore/pkg/server/database"
	"github.com/dnote/bookstore/pkg/server/testutils"
)

func TestGetDashboardStats(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		a := NewTest(t)

		stats := a.GetDashboardStats(context.Background())
		assert.Equal(t, stats, DashboardStats{}, "stats mismatch")
	})

	t.Run("counts", func(t *testing.T) {
		a := NewTest(t)

		testutils.SetupAuthor(t, a.DB, "Frank Herbert")
		testutils.SetupCategory(t, a.DB, "Science Fiction")
		testutils.SetupCategory(t, a.DB, "Fantasy")
		for _, stock := range []int{0, 9, 10, 50} {
			testutils.SetupBook(t, a.DB, database.Book{Title: "Book", StockQuantity: stock})
		}

		stats := a.GetDashboardStats(context.Background())
		assert.Equal(t, stats, DashboardStats{
			TotalBooks:      4,
			TotalCategories: 2,
			TotalAuthors:    1,
			LowStock:        2,
		}, "stats mismatch")
	})

	t.Run("failed count is zero", func(t *testing.T) {
		a := NewTest(t)

		testutils.SetupAuthor(t, a.DB, "Frank Herbert")
		testutils.SetupBook(t, a.DB, database.Book{Title: "Book", StockQuantity: 1})
		if err := a.DB.Migrator().DropTable(&database.Category{}); err != nil {
			t.Fatal(err)
		}

		stats := a.GetDashboardStats(context.Background())
		assert.Equal(t, stats, DashboardStats{
			TotalBooks:      1,
			TotalCategories: 0,
			TotalAuthors:    1,
			LowStock:        1,
		}, "stats mismatch")
	})
}
