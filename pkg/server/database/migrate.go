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
	"io/fs"
	"strings"

	"github.com/dnote/bookstore/pkg/server/database/migrations"
	"github.com/dnote/bookstore/pkg/server/log"
	"github.com/pkg/errors"
	migrate "github.com/rubenv/sql-migrate"
	"gorm.io/gorm"
)

var (
	// MigrationTableName is the name of the table that keeps track of migrations
	MigrationTableName = "migrations"
)

// validateMigrationFilename checks if filename follows format: NNN-description.sql
func validateMigrationFilename(name string) error {
	if !strings.HasSuffix(name, ".sql") {
		return errors.Errorf("invalid migration filename %s: must end with .sql", name)
	}

	parts := strings.SplitN(strings.TrimSuffix(name, ".sql"), "-", 2)
	if len(parts) != 2 || parts[1] == "" {
		return errors.Errorf("invalid migration filename %s: must be NNN-description.sql", name)
	}

	version := parts[0]
	if len(version) != 3 {
		return errors.Errorf("invalid migration filename %s: version must be 3 digits", name)
	}
	for _, c := range version {
		if c < '0' || c > '9' {
			return errors.Errorf("invalid migration filename %s: version must be numeric", name)
		}
	}

	return nil
}

func validateMigrationFiles(fsys fs.FS) error {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return errors.Wrap(err, "reading migration directory")
	}

	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		if err := validateMigrationFilename(e.Name()); err != nil {
			return err
		}
	}

	return nil
}

// migrationDialect returns the sql-migrate dialect name for the given driver
func migrationDialect(driver string) (string, error) {
	switch driver {
	case DriverSQLite:
		return "sqlite3", nil
	case DriverPostgres:
		return "postgres", nil
	default:
		return "", errors.Errorf("unsupported database driver '%s'", driver)
	}
}

// Migrate applies the pending embedded SQL migrations
func Migrate(db *gorm.DB, driver string) error {
	if err := validateMigrationFiles(migrations.Files); err != nil {
		return err
	}

	dialect, err := migrationDialect(driver)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "getting the connection pool")
	}

	source := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrations.Files,
		Root:       ".",
	}
	set := migrate.MigrationSet{TableName: MigrationTableName}

	n, err := set.Exec(sqlDB, dialect, source, migrate.Up)
	if err != nil {
		return errors.Wrap(err, "running migrations")
	}

	log.WithFields(log.Fields{
		"applied": n,
	}).Info("Database migrated.")

	return nil
}

// Init opens the database, brings the schema up to date and returns the connection
func Init(driver, url, logLevel string) (*gorm.DB, error) {
	db, err := Open(driver, url, logLevel)
	if err != nil {
		return nil, err
	}

	if err := InitSchema(db); err != nil {
		return nil, err
	}
	if err := Migrate(db, driver); err != nil {
		return nil, err
	}

	return db, nil
}
