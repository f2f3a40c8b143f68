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

// Package assets stores the cover images of the books. Files live flat under
// a single asset root and are addressed by their generated filename.
package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dnote/bookstore/pkg/clock"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/pkg/errors"
)

// maxNameAttempts bounds the retries when a generated filename is already taken
const maxNameAttempts = 16

var (
	// ErrInvalidName is returned for filenames that could escape the asset root
	ErrInvalidName = errors.New("invalid asset filename")
	// ErrEmptyUpload is returned when an upload carries no bytes
	ErrEmptyUpload = errors.New("upload is empty")
)

// Upload is an uploaded file waiting to be stored
type Upload struct {
	// Name is the original filename supplied by the client
	Name string
	Data []byte
}

// Store keeps the cover image files
type Store struct {
	fs    billy.Filesystem
	clock clock.Clock
}

// NewStore returns a store writing into the given filesystem
func NewStore(fs billy.Filesystem, c clock.Clock) *Store {
	return &Store{
		fs:    fs,
		clock: c,
	}
}

// NewOSStore returns a store rooted at the given directory on disk. It creates
// the directory if it does not exist.
func NewOSStore(root string, c clock.Clock) (*Store, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, errors.Wrapf(err, "creating asset directory at %s", root)
	}

	return NewStore(osfs.New(root), c), nil
}

// NewMemoryStore returns a store backed by memory
func NewMemoryStore(c clock.Clock) *Store {
	return NewStore(memfs.New(), c)
}

// validateName rejects anything that is not a bare filename
func validateName(name string) error {
	if name == "" || name == "." || name == ".." {
		return ErrInvalidName
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return ErrInvalidName
	}

	return nil
}

// baseName strips any directory components a client may have sent along
// with the original filename
func baseName(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")

	if name == "." || name == "/" || name == "" {
		return "cover"
	}

	return name
}

// filename builds "<original name>_<unix millis><original extension>"
func filename(original string, millis int64) string {
	return fmt.Sprintf("%s_%d%s", original, millis, filepath.Ext(original))
}

// Save writes the upload under a newly generated unique filename and returns it
func (s *Store) Save(u Upload) (string, error) {
	if len(u.Data) == 0 {
		return "", ErrEmptyUpload
	}

	original := baseName(u.Name)
	millis := s.clock.Now().UnixMilli()

	for i := 0; i < maxNameAttempts; i++ {
		name := filename(original, millis+int64(i))

		f, err := s.fs.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if os.IsExist(err) {
			continue
		}
		if err != nil {
			return "", errors.Wrapf(err, "creating %s", name)
		}

		if _, err := f.Write(u.Data); err != nil {
			f.Close()
			s.fs.Remove(name)
			return "", errors.Wrapf(err, "writing %s", name)
		}
		if err := f.Close(); err != nil {
			s.fs.Remove(name)
			return "", errors.Wrapf(err, "closing %s", name)
		}

		return name, nil
	}

	return "", errors.Errorf("could not find a free filename for %s", original)
}

// Load reads the file of the given name. A missing file is reported with
// found=false and no error.
func (s *Store) Load(name string) ([]byte, bool, error) {
	if err := validateName(name); err != nil {
		return nil, false, err
	}

	data, err := util.ReadFile(s.fs, name)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "reading %s", name)
	}

	return data, true, nil
}

// Exists reports whether a file of the given name is stored
func (s *Store) Exists(name string) (bool, error) {
	if err := validateName(name); err != nil {
		return false, err
	}

	_, err := s.fs.Stat(name)
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, errors.Wrapf(err, "stat %s", name)
	}
}

// Remove deletes the file of the given name. Removing a missing file is not an error.
func (s *Store) Remove(name string) error {
	if err := validateName(name); err != nil {
		return err
	}

	err := s.fs.Remove(name)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "removing %s", name)
	}

	return nil
}
