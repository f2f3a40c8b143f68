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

// Package dirs resolves the base directories the server keeps its data in
package dirs

import (
	"os"
	"os/user"
	"path/filepath"

	"github.com/pkg/errors"
)

const envDataHome = "XDG_DATA_HOME"

var (
	// Home is the home directory of the user running the server
	Home string
	// DataHome is the full path to the directory in which user-specific data
	// files should be written. It follows the XDG base directory specification.
	DataHome string
)

func init() {
	Reload()
}

// Reload reloads the directory definitions from the environment
func Reload() {
	Home = getHomeDir()
	DataHome = readPath(envDataHome, filepath.Join(Home, ".local", "share"))
}

// DataPath joins the given elements onto DataHome
func DataPath(elem ...string) string {
	return filepath.Join(append([]string{DataHome}, elem...)...)
}

func getHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return home
	}

	usr, err := user.Current()
	if err != nil {
		panic(errors.Wrap(err, "getting home dir"))
	}

	return usr.HomeDir
}

func readPath(envName, defaultPath string) string {
	if dir := os.Getenv(envName); dir != "" {
		return dir
	}

	return defaultPath
}
