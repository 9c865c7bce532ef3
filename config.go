package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/dnldd/chartboard/fetch"
	"github.com/dnldd/chartboard/shared"
	"github.com/joho/godotenv"
)

const (
	// defaultListenAddr is the default dashboard address.
	defaultListenAddr = "localhost:8080"
	// defaultFixtureAddr is the default fixture server address, matching the chart api default.
	defaultFixtureAddr = "localhost:8000"
)

// Config is the configuration struct for the service.
type Config struct {
	// APIBaseURL is the chart api host.
	APIBaseURL string
	// ListenAddr is the address the dashboard is served on.
	ListenAddr string
	// Mode is the acquisition mode, concurrent (default) or sequential.
	Mode string
	// TimeoutMS bounds each chart data request in milliseconds.
	TimeoutMS int
	// Fixtures serves sample chart data alongside the dashboard.
	Fixtures bool
	// FixtureAddr is the address sample chart data is served on.
	FixtureAddr string
	// FixtureFile is an optional json file replacing the served sample data.
	FixtureFile string

	registeredFlags map[string]bool
}

// Validate asserts the config sane inputs.
func (cfg *Config) Validate() error {
	var errs error

	_, err := shared.ParseAcquisitionMode(cfg.Mode)
	if err != nil {
		errs = errors.Join(errs, err)
	}
	if cfg.TimeoutMS < 0 {
		errs = errors.Join(errs, fmt.Errorf("timeout cannot be negative"))
	}
	if cfg.ListenAddr == "" {
		errs = errors.Join(errs, fmt.Errorf("listen address cannot be an empty string"))
	}

	switch cfg.Fixtures {
	case true:
		if cfg.FixtureAddr == "" {
			errs = errors.Join(errs, fmt.Errorf("fixture address cannot be an empty string"))
		}
	case false:
		if cfg.APIBaseURL == "" {
			errs = errors.Join(errs, fmt.Errorf("api base url cannot be an empty string"))
		}
		if cfg.FixtureFile != "" {
			errs = errors.Join(errs, fmt.Errorf("fixture file requires fixtures to be served"))
		}
	}

	if cfg.APIBaseURL != "" && !strings.HasPrefix(cfg.APIBaseURL, "http://") &&
		!strings.HasPrefix(cfg.APIBaseURL, "https://") {
		errs = errors.Join(errs, fmt.Errorf("api base url must be an http(s) url"))
	}

	return errs
}

// AcquisitionMode returns the configured acquisition mode.
func (cfg *Config) AcquisitionMode() shared.AcquisitionMode {
	mode, _ := shared.ParseAcquisitionMode(cfg.Mode)
	return mode
}

// Timeout returns the configured request timeout.
func (cfg *Config) Timeout() time.Duration {
	return time.Duration(cfg.TimeoutMS) * time.Millisecond
}

// applyDefaults fills in unset addresses.
func (cfg *Config) applyDefaults() {
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = defaultListenAddr
	}

	switch cfg.Fixtures {
	case true:
		if cfg.FixtureAddr == "" {
			cfg.FixtureAddr = defaultFixtureAddr
		}
	case false:
		if cfg.APIBaseURL == "" {
			cfg.APIBaseURL = fetch.DefaultBaseURL
		}
	}
}

// registerFlag registers command line arguments of any type and tracks them to avoid reregistration.
func (cfg *Config) registerFlag(name string, value interface{}, usage string) error {
	if cfg.registeredFlags == nil {
		cfg.registeredFlags = make(map[string]bool)
	}

	if cfg.registeredFlags[name] {
		return nil
	}

	cfg.registeredFlags[name] = true

	defValue := os.Getenv(name)
	val := reflect.ValueOf(value)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("%s: value must be a non-nil pointer", name)
	}

	switch val.Elem().Kind() {
	case reflect.String:
		flag.StringVar(value.(*string), name, defValue, usage)
	case reflect.Bool:
		var def bool
		if defValue != "" {
			def, _ = strconv.ParseBool(defValue)
		}
		flag.BoolVar(value.(*bool), name, def, usage)
	case reflect.Int:
		var def int
		if defValue != "" {
			def, _ = strconv.Atoi(defValue)
		}
		flag.IntVar(value.(*int), name, def, usage)
	default:
		return fmt.Errorf("%s: unsupported type", name)
	}

	return nil
}

// loadConfig loads the configuration from environment variables and command line flags.
func loadConfig(cfg *Config, path string) error {
	if path == "" {
		path = ".env"
	}

	// Check if the expected .env file exists before loading it.
	_, err := os.Stat(path)
	if err == nil {
		err := godotenv.Load(path)
		if err != nil {
			return fmt.Errorf("loading .env file: %w", err)
		}
	}

	// Register command line arguments using loaded environment variables as defaults.
	err = cfg.registerFlag("apibaseurl", &cfg.APIBaseURL, "the chart api base url")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("listenaddr", &cfg.ListenAddr, "the dashboard listen address")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("mode", &cfg.Mode, "the acquisition mode: concurrent (default) fetches every chart independently, sequential fetches in order and stops at the first failure")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("timeoutms", &cfg.TimeoutMS, "the chart data request timeout in milliseconds")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("fixtures", &cfg.Fixtures, "serve sample chart data")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("fixtureaddr", &cfg.FixtureAddr, "the sample chart data listen address")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("fixturefile", &cfg.FixtureFile, "the sample chart data json file")
	if err != nil {
		return err
	}

	// Parse command-line flags.
	flag.Parse()

	cfg.applyDefaults()

	return cfg.Validate()
}
