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
	"os"

	"github.com/dnote/bookstore/pkg/server/app"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

func newSeedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load authors and categories from a YAML file",
		Long: `Load authors and categories from a YAML file of the form

  authors:
    - Frank Herbert
  categories:
    - Science Fiction

Names that already exist are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, file)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "path to the catalog YAML file (required)")
	cmd.MarkFlagRequired("file")

	return cmd
}

// readCatalog reads a seed catalog from the YAML file at the given path
func readCatalog(path string) (app.Catalog, error) {
	var c app.Catalog

	b, err := os.ReadFile(path)
	if err != nil {
		return c, errors.Wrapf(err, "reading %s", path)
	}

	if err := yaml.UnmarshalStrict(b, &c); err != nil {
		return c, errors.Wrapf(err, "parsing %s", path)
	}

	return c, nil
}

func runSeed(cmd *cobra.Command, file string) error {
	catalog, err := readCatalog(file)
	if err != nil {
		return err
	}

	cfg, err := loadDBConfig(cmd.Flags())
	if err != nil {
		return err
	}

	db, err := initDB(cfg)
	if err != nil {
		return err
	}
	defer closeDB(db)

	a := app.App{DB: db}
	result, err := a.Seed(catalog)
	if err != nil {
		return errors.Wrap(err, "seeding catalog")
	}

	out := cmd.OutOrStdout()
	green := color.New(color.FgGreen)
	green.Fprintf(out, "Seeded catalog from %s\n", file)
	color.New(color.Bold).Fprintf(out, "  authors:    %d created, %d skipped\n", result.AuthorsCreated, len(catalog.Authors)-result.AuthorsCreated)
	color.New(color.Bold).Fprintf(out, "  categories: %d created, %d skipped\n", result.CategoriesCreated, len(catalog.Categories)-result.CategoriesCreated)

	return nil
}
