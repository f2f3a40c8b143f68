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
	"fmt"
	"testing"

	"github.com/dnote/bookstore/pkg/assert"
	"github.com/dnote/bookstore/pkg/server/log"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm/logger"
)

func TestGetDBLogLevel(t *testing.T) {
	testCases := []struct {
		level    string
		expected logger.LogLevel
	}{
		{level: log.LevelDebug, expected: logger.Info},
		{level: log.LevelInfo, expected: logger.Silent},
		{level: log.LevelWarn, expected: logger.Warn},
		{level: log.LevelError, expected: logger.Error},
		{level: "", expected: logger.Silent},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("level %q", tc.level), func(t *testing.T) {
			assert.Equal(t, getDBLogLevel(tc.level), tc.expected, "log level mismatch")
		})
	}
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open("mysql", "root@/bookstore", log.LevelInfo)
	assert.NotEqual(t, err, nil, "expected an error for an unsupported driver")
}

func TestInit(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := Init(DriverSQLite, dsn, log.LevelInfo)
	if err != nil {
		t.Fatal(errors.Wrap(err, "initializing database"))
	}
	defer Close(db)

	for _, table := range []string{"books", "authors", "categories", MigrationTableName} {
		assert.Equal(t, db.Migrator().HasTable(table), true, fmt.Sprintf("table %s should exist", table))
	}

	assert.Equal(t, db.Migrator().HasIndex(&Book{}, "idx_books_stock_quantity"), true, "stock index should exist")

	var applied int64
	if err := db.Table(MigrationTableName).Count(&applied).Error; err != nil {
		t.Fatal(errors.Wrap(err, "counting migrations"))
	}
	assert.Equal(t, applied, int64(3), "applied migration count mismatch")

	// running again is a no-op
	if err := Migrate(db, DriverSQLite); err != nil {
		t.Fatal(errors.Wrap(err, "re-running migrations"))
	}
	if err := db.Table(MigrationTableName).Count(&applied).Error; err != nil {
		t.Fatal(errors.Wrap(err, "counting migrations"))
	}
	assert.Equal(t, applied, int64(3), "applied migration count mismatch after rerun")
}

func TestValidateMigrationFilename(t *testing.T) {
	testCases := []struct {
		name    string
		isValid bool
	}{
		{name: "001-index-books.sql", isValid: true},
		{name: "010-x.sql", isValid: true},
		{name: "1-index.sql", isValid: false},
		{name: "abc-index.sql", isValid: false},
		{name: "001-.sql", isValid: false},
		{name: "001index.sql", isValid: false},
		{name: "001-index.txt", isValid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateMigrationFilename(tc.name)
			assert.Equal(t, err == nil, tc.isValid, "validity mismatch")
		})
	}
}
