// Package config loads the CLI configuration.
//
// The configuration is a CUE file unified with the embedded #Config schema,
// which supplies every default. HOOKS_ENV, when set, overrides the
// environment field after validation against the same schema.
package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

//go:embed schema.cue
var schemaCUE string

// EnvVar overrides the environment field.
const EnvVar = "HOOKS_ENV"

// Config is the decoded configuration.
type Config struct {
	AppName     string
	Environment string
	Logging     Logging

	// Money is nil when calcMoney has no implementation.
	Money *Money

	// StorePath is empty when no database is configured.
	StorePath string
}

// Logging selects the slog handler.
type Logging struct {
	Level  string
	Format string
}

// Money configures the fixed calcMoney implementation.
type Money struct {
	Fixed int64
}

// SlogLevel maps Logging.Level onto slog.
func (l Logging) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Error is a configuration problem, positioned in the CUE source when
// possible.
type Error struct {
	Path    string
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// fromCUE converts the first CUE error into an *Error.
func fromCUE(path string, err error) *Error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &Error{Path: path, Message: err.Error()}
	}
	first := errs[0]
	format, args := first.Msg()
	return &Error{
		Path:    strings.Join(first.Path(), "."),
		Message: fmt.Sprintf(format, args...),
		Pos:     first.Position(),
	}
}

// Default returns the configuration with every schema default applied.
func Default() (*Config, error) {
	return Load("")
}

// Load reads the CUE file at path, or only the schema defaults when path
// is empty.
func Load(path string) (*Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	v := def
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &Error{Path: path, Message: fmt.Sprintf("read config: %v", err)}
		}
		user := ctx.CompileBytes(data, cue.Filename(path))
		if err := user.Err(); err != nil {
			return nil, fromCUE(path, err)
		}
		v = def.Unify(user)
	}

	if err := v.Validate(); err != nil {
		return nil, fromCUE(path, err)
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}

	if env := os.Getenv(EnvVar); env != "" {
		check := def.LookupPath(cue.ParsePath("environment")).Unify(ctx.Encode(env))
		if err := check.Err(); err != nil {
			return nil, &Error{Path: "environment", Message: fmt.Sprintf("%s=%q is not a valid environment", EnvVar, env)}
		}
		cfg.Environment = env
	}
	return cfg, nil
}

func decode(v cue.Value) (*Config, error) {
	cfg := &Config{}
	var err error

	if cfg.AppName, err = lookupString(v, "app_name"); err != nil {
		return nil, err
	}
	if cfg.Environment, err = lookupString(v, "environment"); err != nil {
		return nil, err
	}
	if cfg.Logging.Level, err = lookupString(v, "logging.level"); err != nil {
		return nil, err
	}
	if cfg.Logging.Format, err = lookupString(v, "logging.format"); err != nil {
		return nil, err
	}

	// Fields() skips optional fields, so only sections the user actually
	// wrote show up here.
	iter, err := v.Fields()
	if err != nil {
		return nil, fromCUE("", err)
	}
	for iter.Next() {
		switch iter.Label() {
		case "money":
			n, err := iter.Value().LookupPath(cue.ParsePath("fixed")).Int64()
			if err != nil {
				return nil, fromCUE("money.fixed", err)
			}
			cfg.Money = &Money{Fixed: n}
		case "store":
			p, err := iter.Value().LookupPath(cue.ParsePath("path")).String()
			if err != nil {
				return nil, fromCUE("store.path", err)
			}
			cfg.StorePath = p
		}
	}
	return cfg, nil
}

// lookupString reads a concrete string, resolving defaults.
func lookupString(v cue.Value, path string) (string, error) {
	field := v.LookupPath(cue.ParsePath(path))
	if !field.Exists() {
		return "", &Error{Path: path, Message: "missing field"}
	}
	if d, ok := field.Default(); ok {
		field = d
	}
	s, err := field.String()
	if err != nil {
		return "", fromCUE(path, err)
	}
	return s, nil
}
