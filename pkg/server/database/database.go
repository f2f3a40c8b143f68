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
	"os"
	"path/filepath"
	"strings"

	"github.com/dnote/bookstore/pkg/server/log"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	// lib/pq backs the "postgres" database/sql driver used by the gorm dialector
	_ "github.com/lib/pq"
)

const (
	// DriverSQLite is the driver name for SQLite
	DriverSQLite = "sqlite"
	// DriverPostgres is the driver name for PostgreSQL
	DriverPostgres = "postgres"
)

// InitSchema migrates database schema to reflect the latest model definition
func InitSchema(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&Author{},
		&Category{},
		&Book{},
	); err != nil {
		return errors.Wrap(err, "auto-migrating schema")
	}

	return nil
}

// getDBLogLevel maps the application log level to the gorm log level.
// SQL statements are only traced in debug mode.
func getDBLogLevel(level string) logger.LogLevel {
	switch level {
	case log.LevelDebug:
		return logger.Info
	case log.LevelWarn:
		return logger.Warn
	case log.LevelError:
		return logger.Error
	default:
		return logger.Silent
	}
}

func dialector(driver, url string) (gorm.Dialector, error) {
	switch driver {
	case DriverSQLite:
		// in-memory and URI style DSNs have no directory to prepare
		if url != ":memory:" && !strings.HasPrefix(url, "file:") {
			dir := filepath.Dir(url)
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, errors.Wrapf(err, "creating database directory at %s", dir)
			}
		}

		return sqlite.Open(url), nil
	case DriverPostgres:
		return postgres.New(postgres.Config{
			DriverName: "postgres",
			DSN:        url,
		}), nil
	default:
		return nil, errors.Errorf("unsupported database driver '%s'", driver)
	}
}

// Open initializes the database connection for the given driver
func Open(driver, url, logLevel string) (*gorm.DB, error) {
	d, err := dialector(driver, url)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(d, &gorm.Config{
		Logger: logger.Default.LogMode(getDBLogLevel(logLevel)),
	})
	if err != nil {
		return nil, errors.Wrap(err, "opening database connection")
	}

	return db, nil
}

// Close closes the underlying connection pool
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "getting the connection pool")
	}

	return sqlDB.Close()
}
