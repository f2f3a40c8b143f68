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

package database

import (
	"time"
)

// Model is the base model definition
type Model struct {
	ID        int       `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Book is a model for a book in the catalog. AuthorID and CategoryID are weak
// references: no foreign key constraint is declared and nothing cascades.
type Book struct {
	Model
	Title         string     `gorm:"type:varchar(255);not null"`
	AuthorID      *int       `gorm:"index"`
	CategoryID    *int       `gorm:"index"`
	ISBN          *string    `gorm:"column:isbn;type:varchar(20)"`
	Price         float64    `gorm:"type:decimal(10,2);not null;default:0"`
	Description   string     `gorm:"type:text;not null;default:''"`
	CoverImage    *string    `gorm:"type:varchar(255)"`
	StockQuantity int        `gorm:"not null;default:0"`
	PublishedDate *time.Time `gorm:"type:date"`
}

// Author is a model for an author
type Author struct {
	Model
	AuthorName string `gorm:"type:varchar(255);not null"`
}

// Category is a model for a book category
type Category struct {
	Model
	CategoryName string `gorm:"type:varchar(255);not null"`
}
