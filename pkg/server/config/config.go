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

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dnote/bookstore/pkg/dirs"
	"github.com/dnote/bookstore/pkg/server/database"
	"github.com/dnote/bookstore/pkg/server/log"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// AppEnvProduction represents an app environment for production.
	AppEnvProduction string = "PRODUCTION"
	// DefaultDataDir is the default directory name for the bookstore data
	DefaultDataDir = "bookstore"
	// DefaultDBFilename is the default database filename
	DefaultDBFilename = "bookstore.db"
	// DefaultAssetDirname is the default directory name for uploaded covers
	DefaultAssetDirname = "uploads"
	// DefaultPort is the default port of the server
	DefaultPort = "5000"
	// DefaultTokenTTL is the default lifetime of an access token
	DefaultTokenTTL = 24 * time.Hour
	// DefaultMaxUploadSize is the default size limit of a book form
	DefaultMaxUploadSize int64 = 10 << 20
)

var (
	// DefaultCORSOrigins are the origins allowed by default
	DefaultCORSOrigins = []string{"http://localhost:3000", "http://localhost:5000"}
)

var (
	// ErrJWTSecretMissing is an error for a configuration without a token secret
	ErrJWTSecretMissing = errors.New("JWT_SECRET is not set")
	// ErrAdminMissing is an error for a configuration without admin credentials
	ErrAdminMissing = errors.New("ADMIN_USERNAME and ADMIN_PASSWORD or ADMIN_PASSWORD_HASH must be set")
	// ErrPortInvalid is an error for an incomplete configuration with invalid port
	ErrPortInvalid = errors.New("Invalid Port")
	// ErrDBDriverInvalid is an error for an unsupported database driver
	ErrDBDriverInvalid = errors.New("Invalid DB driver")
	// ErrDBMissingURL is an error for an incomplete configuration missing the database url
	ErrDBMissingURL = errors.New("DB URL is empty")
	// ErrAssetDirMissing is an error for an incomplete configuration missing the asset directory
	ErrAssetDirMissing = errors.New("Asset directory is empty")
	// ErrLogLevelInvalid is an error for an unknown log level
	ErrLogLevelInvalid = errors.New("Invalid log level")
	// ErrTokenTTLInvalid is an error for a token lifetime that is not positive
	ErrTokenTTLInvalid = errors.New("Invalid token TTL")
	// ErrMaxUploadSizeInvalid is an error for an upload limit that is not positive
	ErrMaxUploadSizeInvalid = errors.New("Invalid max upload size")
)

// DefaultDBPath returns the default path to the SQLite database file
func DefaultDBPath() string {
	return dirs.DataPath(DefaultDataDir, DefaultDBFilename)
}

// DefaultAssetDir returns the default directory for uploaded covers
func DefaultAssetDir() string {
	return dirs.DataPath(DefaultDataDir, DefaultAssetDirname)
}

// Config is an application configuration
type Config struct {
	AppEnv            string
	Port              string
	DBDriver          string
	DBURL             string
	AssetDir          string
	JWTSecret         string
	AdminUsername     string
	AdminPassword     string
	AdminPasswordHash string
	LogLevel          string
	TokenTTL          time.Duration
	MaxUploadSize     int64
	CORSOrigins       []string
}

// Params are the configuration parameters for creating a new Config.
// Zero values fall back to the defaults.
type Params struct {
	AppEnv            string
	Port              string
	DBDriver          string
	DBURL             string
	AssetDir          string
	JWTSecret         string
	AdminUsername     string
	AdminPassword     string
	AdminPasswordHash string
	LogLevel          string
	TokenTTL          time.Duration
	MaxUploadSize     int64
	CORSOrigins       []string
}

func orDefault(value, defaultVal string) string {
	if value != "" {
		return value
	}

	return defaultVal
}

func withDefaults(p Params) Config {
	c := Config{
		AppEnv:            orDefault(p.AppEnv, AppEnvProduction),
		Port:              orDefault(p.Port, DefaultPort),
		DBDriver:          orDefault(p.DBDriver, database.DriverSQLite),
		DBURL:             p.DBURL,
		AssetDir:          orDefault(p.AssetDir, DefaultAssetDir()),
		JWTSecret:         p.JWTSecret,
		AdminUsername:     p.AdminUsername,
		AdminPassword:     p.AdminPassword,
		AdminPasswordHash: p.AdminPasswordHash,
		LogLevel:          orDefault(p.LogLevel, log.LevelInfo),
		TokenTTL:          p.TokenTTL,
		MaxUploadSize:     p.MaxUploadSize,
		CORSOrigins:       p.CORSOrigins,
	}

	// only the sqlite driver has a sensible default location
	if c.DBURL == "" && c.DBDriver == database.DriverSQLite {
		c.DBURL = DefaultDBPath()
	}
	if c.TokenTTL == 0 {
		c.TokenTTL = DefaultTokenTTL
	}
	if c.MaxUploadSize == 0 {
		c.MaxUploadSize = DefaultMaxUploadSize
	}
	if len(c.CORSOrigins) == 0 {
		c.CORSOrigins = DefaultCORSOrigins
	}

	return c
}

// New constructs and returns a new validated config.
func New(p Params) (Config, error) {
	c := withDefaults(p)

	if err := validate(c); err != nil {
		return Config{}, err
	}

	return c, nil
}

// NewDB constructs a config for commands that only work with the database.
// Only the database and log settings are validated.
func NewDB(p Params) (Config, error) {
	c := withDefaults(p)

	if err := validateDB(c); err != nil {
		return Config{}, err
	}

	return c, nil
}

// IsProd checks if the app environment is configured to be production.
func (c Config) IsProd() bool {
	return c.AppEnv == AppEnvProduction
}

func validatePort(port string) error {
	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return errors.Wrapf(ErrPortInvalid, "'%s'", port)
	}

	return nil
}

func validateDB(c Config) error {
	if c.DBDriver != database.DriverSQLite && c.DBDriver != database.DriverPostgres {
		return errors.Wrapf(ErrDBDriverInvalid, "'%s'", c.DBDriver)
	}
	if c.DBURL == "" {
		return ErrDBMissingURL
	}
	if !log.IsValidLevel(c.LogLevel) {
		return errors.Wrapf(ErrLogLevelInvalid, "'%s'", c.LogLevel)
	}

	return nil
}

func validate(c Config) error {
	if c.JWTSecret == "" {
		return ErrJWTSecretMissing
	}
	if c.AdminUsername == "" || (c.AdminPassword == "" && c.AdminPasswordHash == "") {
		return ErrAdminMissing
	}
	if err := validatePort(c.Port); err != nil {
		return err
	}
	if err := validateDB(c); err != nil {
		return err
	}
	if c.AssetDir == "" {
		return ErrAssetDirMissing
	}
	if c.TokenTTL < 0 {
		return ErrTokenTTLInvalid
	}
	if c.MaxUploadSize < 0 {
		return ErrMaxUploadSizeInvalid
	}

	return nil
}

// keys maps the configuration keys to their environment variables
var keys = map[string]string{
	"app_env":             "APP_ENV",
	"port":                "PORT",
	"db_driver":           "DB_DRIVER",
	"db_url":              "DB_URL",
	"asset_dir":           "ASSET_DIR",
	"jwt_secret":          "JWT_SECRET",
	"admin_username":      "ADMIN_USERNAME",
	"admin_password":      "ADMIN_PASSWORD",
	"admin_password_hash": "ADMIN_PASSWORD_HASH",
	"log_level":           "LOG_LEVEL",
	"token_ttl":           "TOKEN_TTL",
	"max_upload_size":     "MAX_UPLOAD_SIZE",
	"cors_origins":        "CORS_ORIGINS",
}

// flagKeys maps command line flags to configuration keys
var flagKeys = map[string]string{
	"port":      "port",
	"db-driver": "db_driver",
	"db-url":    "db_url",
	"asset-dir": "asset_dir",
	"log-level": "log_level",
}

// parseOrigins reads origins given either as a comma separated string or a list
func parseOrigins(v interface{}) []string {
	var raw []string

	switch t := v.(type) {
	case string:
		raw = strings.Split(t, ",")
	case []string:
		raw = t
	case []interface{}:
		for _, item := range t {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	}

	var ret []string
	for _, o := range raw {
		if o = strings.TrimSpace(o); o != "" {
			ret = append(ret, o)
		}
	}

	return ret
}

// read collects the configuration parameters from the .env file, the
// environment, an optional YAML file given by the "config" flag and the
// command line flags, in increasing order of precedence.
func read(flags *pflag.FlagSet) (Params, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Params{}, errors.Wrap(err, "loading .env")
	}

	v := viper.New()
	for key, env := range keys {
		if err := v.BindEnv(key, env); err != nil {
			return Params{}, errors.Wrapf(err, "binding %s", env)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Params{}, errors.Wrapf(err, "binding flag %s", name)
				}
			}
		}

		if f := flags.Lookup("config"); f != nil && f.Value.String() != "" {
			v.SetConfigFile(f.Value.String())
			if err := v.ReadInConfig(); err != nil {
				return Params{}, errors.Wrapf(err, "reading config file %s", f.Value.String())
			}
		}
	}

	return Params{
		AppEnv:            v.GetString("app_env"),
		Port:              v.GetString("port"),
		DBDriver:          v.GetString("db_driver"),
		DBURL:             v.GetString("db_url"),
		AssetDir:          v.GetString("asset_dir"),
		JWTSecret:         v.GetString("jwt_secret"),
		AdminUsername:     v.GetString("admin_username"),
		AdminPassword:     v.GetString("admin_password"),
		AdminPasswordHash: v.GetString("admin_password_hash"),
		LogLevel:          v.GetString("log_level"),
		TokenTTL:          v.GetDuration("token_ttl"),
		MaxUploadSize:     v.GetInt64("max_upload_size"),
		CORSOrigins:       parseOrigins(v.Get("cors_origins")),
	}, nil
}

// Load reads the configuration and returns a config validated for running
// the server.
func Load(flags *pflag.FlagSet) (Config, error) {
	p, err := read(flags)
	if err != nil {
		return Config{}, err
	}

	return New(p)
}

// LoadDB reads the configuration and returns a config validated only for
// database access.
func LoadDB(flags *pflag.FlagSet) (Config, error) {
	p, err := read(flags)
	if err != nil {
		return Config{}, err
	}

	return NewDB(p)
}
