package sources

import (
	"encoding/base64"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/v2"
)

// Solver transforms gathered option values in place before they reach the
// resolver, e.g. interpolating references to other options or pulling file
// contents.
type Solver interface {
	Solve(*koanf.Koanf) *koanf.Koanf
}

type delimiters struct {
	Start string
	End   string
}

type variables struct {
	delimiters *delimiters
}

// NewVariablesSolver interpolates references to other gathered options, e.g.
// "${db.host}:5432" with delimiters "${" and "}".
func NewVariablesSolver(s, e string) Solver {
	return &variables{
		delimiters: &delimiters{
			Start: s,
			End:   e,
		},
	}
}

func (s variables) Solve(values *koanf.Koanf) *koanf.Koanf {
	for key, val := range values.All() {
		v2, ok := val.(string)
		if !ok {
			continue
		}
		s.keypath(key, v2, values)
	}

	return values
}

func (s variables) keypath(key, val string, values *koanf.Koanf) {
	start := strings.Index(val, s.delimiters.Start)
	if start == -1 {
		return
	}
	start += len(s.delimiters.Start)

	end := strings.Index(val[start:], s.delimiters.End)
	if end == -1 {
		return
	}
	end += start

	path := val[start:end]
	if path == val {
		return
	}

	if !values.Exists(path) {
		return
	}

	newVal := values.Get(path)
	if len(s.delimiters.Start)+len(path)+len(s.delimiters.End) != len(val) {
		before := val[:start-len(s.delimiters.Start)]
		after := val[end+len(s.delimiters.End):]
		values.Set(key, before+toString(newVal)+after)
		return
	}

	values.Set(key, newVal)
}

type uris struct {
	fs         fs.FS
	delimiters *delimiters
}

// NewURISolver replaces protocol-tagged values with external content, e.g.
// "@file://secrets/token.txt" with delimiters "@" and "://".
func NewURISolver(s, e string) Solver {
	return NewURISolverWithFS(s, e, os.DirFS("."))
}

func NewURISolverWithFS(s, e string, f fs.FS) Solver {
	return &uris{
		fs: f,
		delimiters: &delimiters{
			Start: s,
			End:   e,
		},
	}
}

func (s uris) Solve(values *koanf.Koanf) *koanf.Koanf {
	for key, val := range values.All() {
		v2, ok := val.(string)
		if !ok {
			continue
		}
		s.keypath(key, v2, values)
	}

	return values
}

func (s uris) keypath(key, val string, values *koanf.Koanf) {
	start := strings.Index(val, s.delimiters.Start)
	if start != 0 {
		return
	}

	end := strings.Index(val, s.delimiters.End)
	if end < start {
		return
	}

	start += len(s.delimiters.Start)
	protocol := val[start:end]
	uri := val[end+len(s.delimiters.End):]

	switch protocol {
	case "file":
		if content, err := solveFileProtocol(s.fs, uri); err == nil {
			values.Set(key, content)
		}
	case "base64":
		if content, err := solveBase64Protocol(uri); err == nil {
			values.Set(key, content)
		}
	}
}

func solveFileProtocol(f fs.FS, uri string) (string, error) {
	b, err := fs.ReadFile(f, uri)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(b), "\n"), nil
}

func solveBase64Protocol(uri string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(uri)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
