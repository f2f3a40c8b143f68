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
	"github.com/spf13/cobra"
)

// NewRoot returns the root command with every subcommand registered
func NewRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "bookstore-server",
		Short:         "Bookstore server - a catalog API for a bookstore",
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "path to a YAML config file")
	flags.String("db-driver", "", "database driver: sqlite or postgres (env: DB_DRIVER, default: sqlite)")
	flags.String("db-url", "", "database file path or connection url (env: DB_URL, default: $XDG_DATA_HOME/bookstore/bookstore.db)")
	flags.String("asset-dir", "", "directory for cover images (env: ASSET_DIR, default: $XDG_DATA_HOME/bookstore/uploads)")
	flags.String("log-level", "", "log level: debug, info, warn, or error (env: LOG_LEVEL, default: info)")

	root.AddCommand(newStartCmd())
	root.AddCommand(newSeedCmd())
	root.AddCommand(newHashPasswordCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// Execute runs the main command
func Execute() error {
	return NewRoot().Execute()
}
