// Package config loads the application configuration.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
)

// EnvPrefix is the prefix for all environment variables, e.g. BUDGET_API_URL for api.url.
const EnvPrefix = "BUDGET_"

var (
	ErrAPIURLMissing = errors.New("api.url must be set, e.g. with the environment variable BUDGET_API_URL")
	ErrAPIURLInvalid = errors.New("api.url is not a valid URL")
	ErrLocaleInvalid = errors.New("locale is not a valid BCP 47 language tag")
)

type Config struct {
	API    API    `koanf:"api"`
	Data   Data   `koanf:"data"`
	Port   int    `koanf:"port"`   // Port the HTTP server listens on
	Locale string `koanf:"locale"` // Locale for currency formatting, e.g. en-US
	CORS   CORS   `koanf:"cors"`
	Pprof  bool   `koanf:"pprof"`  // Serve pprof profiles under /debug/pprof
	Gin    Gin    `koanf:"gin"`
	Log    Log    `koanf:"log"`
}

type API struct {
	URL string `koanf:"url"` // External URL of the API, used for links
}

type Data struct {
	Dir string `koanf:"dir"` // Directory for the database file
}

type CORS struct {
	Origins string `koanf:"origins"` // Space separated list of allowed origins
}

type Gin struct {
	Mode string `koanf:"mode"`
}

type Log struct {
	Format string `koanf:"format"` // "human" or "json". Defaults to human in gin debug mode.
}

func defaults() Config {
	return Config{
		Data: Data{
			Dir: "data",
		},
		Port:   8080,
		Locale: "en-US",
		Gin: Gin{
			Mode: "release",
		},
	}
}

// Load reads the configuration from the defaults, the YAML file at path if it
// exists and the environment, in that order.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	err := k.Load(structs.Provider(defaults(), "koanf"), nil)
	if err != nil {
		return Config{}, fmt.Errorf("error loading config defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("error loading config from YAML: %w", err)
			}
			log.Debug().Str("path", path).Msg("config file not found, using defaults and environment variables")
		} else {
			log.Debug().Str("path", path).Msg("loaded configuration from file")
		}
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, EnvPrefix)), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("error loading config from environment: %w", err)
	}

	var c Config
	if err := k.Unmarshal("", &c); err != nil {
		return Config{}, fmt.Errorf("error parsing config: %w", err)
	}

	return c, c.validate()
}

func (c Config) validate() error {
	if c.API.URL == "" {
		return ErrAPIURLMissing
	}

	if _, err := c.URL(); err != nil {
		return err
	}

	if _, err := c.Language(); err != nil {
		return err
	}

	return nil
}

// URL returns the parsed API URL.
func (c Config) URL() (*url.URL, error) {
	u, err := url.Parse(c.API.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: '%s'", ErrAPIURLInvalid, c.API.URL)
	}

	return u, nil
}

// Language returns the parsed locale.
func (c Config) Language() (language.Tag, error) {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("%w: '%s'", ErrLocaleInvalid, c.Locale)
	}

	return tag, nil
}

// DSN returns the data source name for the SQLite database with foreign keys enabled.
func (c Config) DSN() string {
	return fmt.Sprintf("%s?_pragma=foreign_keys(1)", filepath.Join(c.Data.Dir, "budget.db"))
}

// Origins returns the allowed CORS origins.
func (c Config) Origins() []string {
	return strings.Fields(c.CORS.Origins)
}
