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
	"github.com/dnote/bookstore/pkg/clock"
	"github.com/dnote/bookstore/pkg/server/app"
	"github.com/dnote/bookstore/pkg/server/assets"
	"github.com/dnote/bookstore/pkg/server/config"
	"github.com/dnote/bookstore/pkg/server/database"
	"github.com/dnote/bookstore/pkg/server/log"
	"github.com/dnote/bookstore/pkg/server/token"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"gorm.io/gorm"
)

// loadConfig loads the configuration and applies the log level
func loadConfig(flags *pflag.FlagSet) (config.Config, error) {
	cfg, err := config.Load(flags)
	if err != nil {
		return config.Config{}, errors.Wrap(err, "loading config")
	}

	log.SetLevel(cfg.LogLevel)

	return cfg, nil
}

// loadDBConfig loads the database settings only, for commands that do not
// serve requests
func loadDBConfig(flags *pflag.FlagSet) (config.Config, error) {
	cfg, err := config.LoadDB(flags)
	if err != nil {
		return config.Config{}, errors.Wrap(err, "loading config")
	}

	log.SetLevel(cfg.LogLevel)

	return cfg, nil
}

func initDB(cfg config.Config) (*gorm.DB, error) {
	db, err := database.Init(cfg.DBDriver, cfg.DBURL, cfg.LogLevel)
	if err != nil {
		return nil, errors.Wrap(err, "initializing database")
	}

	return db, nil
}

func initApp(cfg config.Config) (app.App, error) {
	c := clock.New()

	creds, err := app.NewCredentials(cfg.AdminUsername, cfg.AdminPassword, cfg.AdminPasswordHash)
	if err != nil {
		return app.App{}, errors.Wrap(err, "preparing admin credentials")
	}

	tokens, err := token.NewIssuer(cfg.JWTSecret, cfg.TokenTTL, c)
	if err != nil {
		return app.App{}, errors.Wrap(err, "preparing token issuer")
	}

	store, err := assets.NewOSStore(cfg.AssetDir, c)
	if err != nil {
		return app.App{}, errors.Wrap(err, "preparing asset store")
	}

	db, err := initDB(cfg)
	if err != nil {
		return app.App{}, err
	}

	return app.App{
		DB:            db,
		Clock:         c,
		Assets:        store,
		Tokens:        tokens,
		Admin:         creds,
		Port:          cfg.Port,
		MaxUploadSize: cfg.MaxUploadSize,
		CORSOrigins:   cfg.CORSOrigins,
	}, nil
}

func closeDB(db *gorm.DB) {
	if err := database.Close(db); err != nil {
		log.ErrorWrap(err, "closing database")
	}
}
