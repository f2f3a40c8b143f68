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

package cmd

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dnote/bookstore/pkg/assert"
	"github.com/dnote/bookstore/pkg/server/config"
	"github.com/dnote/bookstore/pkg/server/database"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	root := NewRoot()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.Execute()

	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(errors.Wrap(err, "writing file"))
	}

	return path
}

func setRequiredEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD", "admin123")
}

func TestVersion(t *testing.T) {
	out, err := runRoot(t, "version")
	if err != nil {
		t.Fatal(errors.Wrap(err, "running version"))
	}

	assert.Equal(t, strings.HasPrefix(out, "bookstore-server-"), true, "output mismatch")
}

func TestHashPassword(t *testing.T) {
	t.Run("prints a bcrypt hash", func(t *testing.T) {
		out, err := runRoot(t, "hash-password", "--password", "s3cret", "--cost", "4")
		if err != nil {
			t.Fatal(errors.Wrap(err, "running hash-password"))
		}

		lines := strings.Split(strings.TrimSpace(out), "\n")
		hash := lines[len(lines)-1]

		assert.Equal(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")), nil, "hash should match the password")
	})

	t.Run("requires a password", func(t *testing.T) {
		_, err := runRoot(t, "hash-password")
		assert.NotEqual(t, err, nil, "should fail")
	})
}

func TestReadCatalog(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid", func(t *testing.T) {
		path := writeFile(t, dir, "catalog.yml", "authors:\n  - Frank Herbert\ncategories:\n  - Science Fiction\n  - Fantasy\n")

		c, err := readCatalog(path)
		if err != nil {
			t.Fatal(errors.Wrap(err, "reading catalog"))
		}

		assert.DeepEqual(t, c.Authors, []string{"Frank Herbert"}, "authors mismatch")
		assert.DeepEqual(t, c.Categories, []string{"Science Fiction", "Fantasy"}, "categories mismatch")
	})

	t.Run("unknown key", func(t *testing.T) {
		path := writeFile(t, dir, "bad.yml", "publishers:\n  - Chilton\n")

		_, err := readCatalog(path)
		assert.NotEqual(t, err, nil, "should fail")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := readCatalog(filepath.Join(dir, "nope.yml"))
		assert.NotEqual(t, err, nil, "should fail")
	})
}

func TestSeed(t *testing.T) {
	setRequiredEnv(t)

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "db", "bookstore.db")
	catalog := writeFile(t, dir, "catalog.yml", "authors:\n  - Frank Herbert\n  - Isaac Asimov\ncategories:\n  - Science Fiction\n")

	args := []string{"seed", "--file", catalog, "--db-url", dbPath, "--asset-dir", filepath.Join(dir, "uploads"), "--log-level", "error"}

	out, err := runRoot(t, args...)
	if err != nil {
		t.Fatal(errors.Wrap(err, "running seed"))
	}
	assert.Equal(t, strings.Contains(out, "2 created, 0 skipped"), true, "first run output mismatch")

	out, err = runRoot(t, args...)
	if err != nil {
		t.Fatal(errors.Wrap(err, "running seed again"))
	}
	assert.Equal(t, strings.Contains(out, "0 created, 2 skipped"), true, "second run output mismatch")

	db, err := database.Open(database.DriverSQLite, dbPath, "error")
	if err != nil {
		t.Fatal(errors.Wrap(err, "opening database"))
	}
	defer database.Close(db)

	var authorCount, categoryCount int64
	if err := db.Model(&database.Author{}).Count(&authorCount).Error; err != nil {
		t.Fatal(errors.Wrap(err, "counting authors"))
	}
	if err := db.Model(&database.Category{}).Count(&categoryCount).Error; err != nil {
		t.Fatal(errors.Wrap(err, "counting categories"))
	}

	assert.Equal(t, authorCount, int64(2), "author count mismatch")
	assert.Equal(t, categoryCount, int64(1), "category count mismatch")
}

func TestSeedWithoutServerSettings(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ADMIN_USERNAME", "")
	t.Setenv("ADMIN_PASSWORD", "")

	dir := t.TempDir()
	catalog := writeFile(t, dir, "catalog.yml", "authors:\n  - Frank Herbert\n")

	out, err := runRoot(t, "seed", "--file", catalog, "--db-url", filepath.Join(dir, "bookstore.db"), "--log-level", "error")
	if err != nil {
		t.Fatal(errors.Wrap(err, "running seed"))
	}
	assert.Equal(t, strings.Contains(out, "1 created, 0 skipped"), true, "output mismatch")
}

func TestSeedInvalidDriver(t *testing.T) {
	dir := t.TempDir()
	catalog := writeFile(t, dir, "catalog.yml", "authors:\n  - Frank Herbert\n")

	_, err := runRoot(t, "seed", "--file", catalog, "--db-driver", "mysql")
	assert.Equal(t, errors.Cause(err), config.ErrDBDriverInvalid, "error mismatch")
}

func TestServe(t *testing.T) {
	srv := &http.Server{
		Addr: "127.0.0.1:0",
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, srv)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.Equal(t, err, nil, "serve should stop cleanly")
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
