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

	"github.com/dnote/bookstore/pkg/server/database"
	"github.com/dnote/bookstore/pkg/server/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// LowStockThreshold is the stock quantity below which a book counts as low in stock
const LowStockThreshold = 10

// DashboardStats holds the counts shown on the admin dashboard
type DashboardStats struct {
	TotalBooks      int64
	TotalCategories int64
	TotalAuthors    int64
	LowStock        int64
}

// GetDashboardStats counts books, categories, authors and low stock books
// concurrently. A count that fails is logged and reported as zero.
func (a *App) GetDashboardStats(ctx context.Context) DashboardStats {
	var stats DashboardStats
	var g errgroup.Group

	count := func(dst *int64, stat string, scope func(*gorm.DB) *gorm.DB) {
		g.Go(func() error {
			var n int64
			if err := scope(a.DB.WithContext(ctx)).Count(&n).Error; err != nil {
				log.WithFields(log.Fields{
					"stat": stat,
				}).ErrorWrap(err, "counting dashboard stat")
				return nil
			}

			*dst = n
			return nil
		})
	}

	count(&stats.TotalBooks, "totalBooks", func(db *gorm.DB) *gorm.DB {
		return db.Model(&database.Book{})
	})
	count(&stats.TotalCategories, "totalCategories", func(db *gorm.DB) *gorm.DB {
		return db.Model(&database.Category{})
	})
	count(&stats.TotalAuthors, "totalAuthors", func(db *gorm.DB) *gorm.DB {
		return db.Model(&database.Author{})
	})
	count(&stats.LowStock, "lowStock", func(db *gorm.DB) *gorm.DB {
		return db.Model(&database.Book{}).Where("stock_quantity < ?", LowStockThreshold)
	})

	// every goroutine reports its own failure
	_ = g.Wait()

	return stats
}
