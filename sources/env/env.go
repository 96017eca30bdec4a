// Package env implements a koanf provider over environment variables with
// support for indexed keys, so APP_SERVERS__0__HOST style variables become
// arrays. Captured variables are assembled into a JSON document through sjson
// and parsed back by the koanf JSON parser.
package env

import (
	"errors"
	"os"
	"strings"

	"github.com/tidwall/sjson"
)

// TransformFunc rewrites a captured variable after the standard key
// normalization ran. Returning an empty key drops the variable; the value may
// be replaced with any JSON-encodable type, e.g. a slice split from a
// comma-separated string.
type TransformFunc func(key, value string) (string, any)

// Env implements an environment variables provider. Keys are normalized
// before assembly: the prefix is stripped, the name lowercased, and every
// occurrence of the environment delimiter replaced with the path separator,
// so APP_DB__DSN with delimiter "__" and separator "." captures as "db.dsn".
type Env struct {
	prefix    string
	delim     string
	pathSep   string
	transform TransformFunc
	environ   func() []string
}

// Provider returns a provider capturing variables with the case-sensitive
// prefix, splitting nested keys on delim and joining them with pathSep.
func Provider(prefix, delim, pathSep string) *Env {
	return &Env{
		prefix:  prefix,
		delim:   delim,
		pathSep: pathSep,
		environ: os.Environ,
	}
}

// WithTransform installs a rewrite hook run after key normalization.
func (e *Env) WithTransform(fn TransformFunc) *Env {
	e.transform = fn
	return e
}

// WithEnviron replaces the variable source, for tests that should not touch
// the process environment.
func (e *Env) WithEnviron(fn func() []string) *Env {
	if fn != nil {
		e.environ = fn
	}
	return e
}

// ReadBytes assembles the captured variables into a JSON document.
func (e *Env) ReadBytes() ([]byte, error) {
	out := "{}"

	for _, raw := range e.environ() {
		if e.prefix != "" && !strings.HasPrefix(raw, e.prefix) {
			continue
		}

		name, value, _ := strings.Cut(raw, "=")
		key := e.normalize(name)

		var v any = value
		if e.transform != nil {
			key, v = e.transform(key, value)
			if key == "" {
				continue
			}
		}

		next, err := sjson.Set(out, e.path(key), v)
		if err != nil {
			return nil, err
		}
		out = next
	}

	return []byte(out), nil
}

// Read is not supported; use ReadBytes with a JSON parser.
func (e *Env) Read() (map[string]any, error) {
	return nil, errors.New("env provider does not support this method")
}

func (e *Env) normalize(name string) string {
	key := strings.ToLower(strings.TrimPrefix(name, e.prefix))
	if e.delim != "" {
		key = strings.ReplaceAll(key, e.delim, e.pathSep)
	}
	return key
}

// path converts a normalized key into an sjson path, which always uses dots.
func (e *Env) path(key string) string {
	if e.pathSep == "" || e.pathSep == "." {
		return key
	}
	return strings.ReplaceAll(key, e.pathSep, ".")
}
