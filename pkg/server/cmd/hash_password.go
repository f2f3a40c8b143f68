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
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

func newHashPasswordCmd() *cobra.Command {
	var password string
	var cost int

	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Print a bcrypt hash to use as ADMIN_PASSWORD_HASH",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				return errors.New("--password is required")
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
			if err != nil {
				return errors.Wrap(err, "hashing password")
			}

			out := cmd.OutOrStdout()
			color.New(color.Faint).Fprintln(out, "Set the following as ADMIN_PASSWORD_HASH:")
			color.New(color.FgGreen).Fprintln(out, string(hash))

			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "the password to hash (required)")
	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost")

	return cmd
}
