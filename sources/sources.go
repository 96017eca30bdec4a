// Package sources gathers caller-supplied option values from layered inputs
// (literal maps, files, environment variables, command line flags, structs)
// into the flat name to value mapping a resolver consumes. Higher priority
// sources overwrite lower ones, mirroring how layered configuration loads.
package sources

import (
	"context"
	goerrors "errors"
	"os"
	"syscall"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-resolve/sources/env"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

type SourceType string

const (
	SourceTypeValues SourceType = "values"
	SourceTypeFile   SourceType = "file"
	SourceTypeEnv    SourceType = "env"
	SourceTypeFlags  SourceType = "pflag"
	SourceTypeStruct SourceType = "struct"
)

func (s SourceType) String() string {
	return string(s)
}

func (s SourceType) validate() error {
	switch s {
	case SourceTypeValues, SourceTypeFile, SourceTypeEnv, SourceTypeFlags, SourceTypeStruct:
		return nil
	default:
		return errors.New("invalid source type", errors.CategoryValidation).
			WithTextCode("INVALID_SOURCE_TYPE").
			WithMetadata(map[string]any{
				"source_type": string(s),
				"valid_types": []string{
					string(SourceTypeValues),
					string(SourceTypeFile),
					string(SourceTypeEnv),
					string(SourceTypeFlags),
					string(SourceTypeStruct),
				},
			})
	}
}

// Source loads option values into the shared koanf instance.
type Source interface {
	Type() SourceType
	Priority() int
	Validate() error
	Load(context.Context, *koanf.Koanf) error
}

// Builder constructs a Source against the collector that will run it.
type Builder func(*Collector) (Source, error)

// Loader is the canonical Source implementation.
type Loader struct {
	order      int
	sourceType SourceType
	load       func(context.Context, *koanf.Koanf) error
}

func (l *Loader) Priority() int {
	return l.order
}

func (l *Loader) Type() SourceType {
	return l.sourceType
}

func (l *Loader) Load(ctx context.Context, k *koanf.Koanf) error {
	return l.load(ctx, k)
}

func (l *Loader) Validate() error {
	return l.sourceType.validate()
}

type Priority int

// WithOffset nudges a base priority, so two sources of the same kind can be
// ordered relative to each other:
//
//	collector.WithSource(File("base.json", int(PriorityFile)))
//	collector.WithSource(File("local.json", int(PriorityFile.WithOffset(10))))
func (p Priority) WithOffset(offset int) Priority {
	return Priority(int(p) + offset)
}

var (
	PriorityValues Priority = 0
	PriorityStruct Priority = 10
	PriorityFile   Priority = 20
	PriorityEnv    Priority = 30
	PriorityFlags  Priority = 40
)

var (
	DefaultEnvPrefix    = "APP_"
	DefaultEnvDelimiter = "__"
)

// Values supplies a literal map of option values.
func Values(values map[string]any, order ...int) Builder {
	return func(c *Collector) (Source, error) {
		prv := &Loader{
			sourceType: SourceTypeValues,
			order:      getOrder(PriorityValues, order...),
			load: func(ctx context.Context, k *koanf.Koanf) error {
				if err := k.Load(confmap.Provider(values, c.delimiter), nil); err != nil {
					return errors.Wrap(err, errors.CategoryOperation, "failed to load option values").
						WithTextCode("VALUES_LOAD_FAILED").
						WithMetadata(map[string]any{
							"values_count": len(values),
						})
				}
				return nil
			},
		}
		return prv, nil
	}
}

// File supplies option values from a JSON, YAML, or TOML file inferred from
// the extension.
func File(filepath string, order ...int) Builder {
	filetype := inferFileType(filepath)

	return func(c *Collector) (Source, error) {
		parser := filetype.Parser()
		kprovider := file.Provider(filepath)

		p := &Loader{
			sourceType: SourceTypeFile,
			order:      getOrder(PriorityFile, order...),
			load: func(ctx context.Context, k *koanf.Koanf) error {
				c.logger.Debug("file source: %s", filepath)
				if err := k.Load(kprovider, parser); err != nil {
					return errors.Wrap(err, errors.CategoryOperation, "failed to load option values from file").
						WithTextCode("FILE_LOAD_FAILED").
						WithMetadata(map[string]any{
							"filepath":  filepath,
							"file_type": string(filetype),
						})
				}
				return nil
			},
		}
		return p, nil
	}
}

// Env supplies option values from environment variables. APP_DB__HOST with
// delim "__" becomes option "db.host".
func Env(prefix, delim string, order ...int) Builder {
	return func(c *Collector) (Source, error) {
		prv := &Loader{
			sourceType: SourceTypeEnv,
			order:      getOrder(PriorityEnv, order...),
			load: func(ctx context.Context, k *koanf.Koanf) error {
				c.logger.Debug("env source: %s", prefix)
				kprov := env.Provider(prefix, delim, c.delimiter)
				if err := k.Load(kprov, json.Parser()); err != nil {
					return errors.Wrap(err, errors.CategoryOperation, "failed to load option values from environment").
						WithTextCode("ENV_LOAD_FAILED").
						WithMetadata(map[string]any{
							"prefix":    prefix,
							"delimiter": delim,
						})
				}
				return nil
			},
		}
		return prv, nil
	}
}

// Flags supplies option values from a parsed pflag set; flag names are
// option names.
func Flags(flagset *pflag.FlagSet, order ...int) Builder {
	return func(c *Collector) (Source, error) {
		if flagset == nil {
			return &Loader{}, errors.New("flagset cannot be nil", errors.CategoryBadInput).
				WithTextCode("NIL_FLAGSET")
		}

		prv := &Loader{
			sourceType: SourceTypeFlags,
			order:      getOrder(PriorityFlags, order...),
			load: func(ctx context.Context, k *koanf.Koanf) error {
				c.logger.Debug("flags source")
				prv := posflag.Provider(flagset, c.delimiter, k)
				if err := k.Load(prv, nil); err != nil {
					return errors.Wrap(err, errors.CategoryOperation, "failed to load option values from flags").
						WithTextCode("FLAGS_LOAD_FAILED").
						WithMetadata(map[string]any{
							"delimiter": c.delimiter,
						})
				}
				return nil
			},
		}
		return prv, nil
	}
}

// Struct supplies option values from a tagged struct; field tags under
// "resolve" name the options.
func Struct(v any, order ...int) Builder {
	if v == nil {
		return func(c *Collector) (Source, error) {
			return &Loader{}, errors.New("struct cannot be nil", errors.CategoryBadInput).
				WithTextCode("NIL_STRUCT")
		}
	}

	return func(c *Collector) (Source, error) {
		kprv := structs.Provider(v, "resolve")

		prv := &Loader{
			sourceType: SourceTypeStruct,
			order:      getOrder(PriorityStruct, order...),
			load: func(ctx context.Context, k *koanf.Koanf) error {
				c.logger.Debug("struct source")
				if err := k.Load(kprv, nil); err != nil {
					return errors.Wrap(err,
						errors.CategoryOperation,
						"failed to load option values from struct",
					).
						WithTextCode("STRUCT_LOAD_FAILED")
				}
				return nil
			},
		}
		return prv, nil
	}
}

type ErrorFilter func(err error) bool

// DefaultErrorFilter ignores absent files but surfaces everything else, so a
// missing optional overrides file does not abort gathering while a parse
// failure still does.
func DefaultErrorFilter(allowedErrors ...error) ErrorFilter {
	return func(err error) bool {
		if err == nil {
			return false
		}

		if len(allowedErrors) == 0 {
			return os.IsNotExist(err) || goerrors.Is(err, syscall.ENOENT)
		}

		for _, allowed := range allowedErrors {
			if goerrors.Is(err, allowed) {
				return true
			}
		}

		return false
	}
}

// Optional wraps a builder so that errors matched by the filter are ignored.
func Optional(f Builder, errIgnoreFuncs ...ErrorFilter) Builder {
	errIgnore := DefaultErrorFilter()
	if len(errIgnoreFuncs) > 0 {
		errIgnore = errIgnoreFuncs[0]
	}

	return func(c *Collector) (Source, error) {
		base, err := f(c)
		if err != nil {
			return &Loader{}, err
		}

		p := &Loader{
			sourceType: base.Type(),
			order:      base.Priority(),
			load: func(ctx context.Context, k *koanf.Koanf) error {
				if err := base.Load(ctx, k); !errIgnore(err) {
					return err
				}
				return nil
			},
		}
		return p, nil
	}
}

func getOrder(defaultOrder Priority, orders ...int) int {
	if len(orders) > 0 {
		return orders[0]
	}
	return int(defaultOrder)
}
