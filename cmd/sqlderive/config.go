package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the configuration of a sqlderive run. Every key can be set in
// the config file, as a SQLDERIVE_* environment variable (dots become
// underscores, e.g. SQLDERIVE_GEN_TARGET) or with the matching flag.
type Config struct {
	Driver        string        `mapstructure:"driver"`
	DSN           string        `mapstructure:"dsn"`
	Schemas       string        `mapstructure:"schemas"`
	LogLevel      string        `mapstructure:"log_level"`
	Snapshot      string        `mapstructure:"snapshot"`
	SlowThreshold time.Duration `mapstructure:"slow_threshold"`

	Gen struct {
		Target  string `mapstructure:"target"`
		Package string `mapstructure:"package"`
		Header  string `mapstructure:"header"`
		Workers int    `mapstructure:"workers"`
	} `mapstructure:"gen"`

	Verify struct {
		AllowExtraColumns bool `mapstructure:"allow_extra_columns"`
		StrictTypes       bool `mapstructure:"strict_types"`
	} `mapstructure:"verify"`
}

// bindings maps config keys to their flags.
var bindings = map[string]string{
	"driver":                     "driver",
	"dsn":                        "dsn",
	"schemas":                    "schemas",
	"log_level":                  "log-level",
	"snapshot":                   "snapshot",
	"slow_threshold":             "slow-threshold",
	"gen.target":                 "target",
	"gen.package":                "package",
	"gen.header":                 "header",
	"gen.workers":                "workers",
	"verify.allow_extra_columns": "allow-extra-columns",
	"verify.strict_types":        "strict-types",
}

func newFlagSet(stderr io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet("sqlderive", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	fs.StringP("config", "c", "", "config file (yaml or json)")
	fs.String("driver", "sqlite", "database/sql driver: sqlite, postgres, pgx or mysql")
	fs.String("dsn", "", "data source name of the database")
	fs.StringP("schemas", "s", "schema", "schema directory, schema file or snapshot")
	fs.String("log-level", "info", "log level: debug, info, warn or error")
	fs.String("snapshot", "", "file the snapshot command writes to (default stdout)")
	fs.Duration("slow-threshold", 100*time.Millisecond, "statements slower than this are logged")
	fs.StringP("target", "o", "models", "output directory of gen")
	fs.String("package", "", "package name of the generated code (default: base name of target)")
	fs.String("header", "", "header comment of generated files")
	fs.Int("workers", 0, "number of files generated in parallel (default GOMAXPROCS)")
	fs.Bool("allow-extra-columns", false, "verify: do not report columns the record does not declare")
	fs.Bool("strict-types", false, "verify: report column type drift as an error")
	return fs
}

// loadConfig parses the arguments and returns the configuration and the
// positional arguments, the first of which is the command.
func loadConfig(args []string, stderr io.Writer) (*Config, []string, error) {
	fs := newFlagSet(stderr)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	v := viper.New()
	v.SetEnvPrefix("SQLDERIVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key, name := range bindings {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return nil, nil, fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	if path, _ := fs.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, fs.Args(), nil
}

// logger returns the logger of the configured level, writing text to w.
func (c *Config) logger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}
