package resolve

import (
	"sort"

	"github.com/goliatone/go-resolve/logger"
	"github.com/goliatone/go-resolve/slots"
)

// View is the resolved-so-far window lazy defaults read from.
type View = slots.View

// Compute is a lazy default: a pure function of the resolved view.
type Compute = slots.Compute

// Overload is a lazy default that also receives the previous value held by
// its own slot before the redeclaration.
type Overload = slots.Overload

// Normalizer adjusts a resolved value before allowed-value validation. It
// may read sibling options through the view.
type Normalizer func(v View, value any) (any, error)

// Resolver validates and resolves a caller-supplied option set against a
// declared schema of required, optional, and defaulted options. Every
// instance is independent; there is no process-wide state.
//
// Schema mutators return the resolver for chaining and are idempotent under
// repeated identical calls. Mutator errors (for example allowed values for
// an undeclared option) are deferred and surface from the next Resolve call.
type Resolver struct {
	known    map[string]struct{}
	required map[string]struct{}
	defaults *slots.Store

	allowed      map[string][]any
	allowedOrder []string

	normalizers     map[string]Normalizer
	normalizerOrder []string

	schemaErr error
	logger    logger.Logger
}

// New returns an empty resolver.
func New() *Resolver {
	return &Resolver{
		known:       map[string]struct{}{},
		required:    map[string]struct{}{},
		defaults:    slots.NewStore(),
		allowed:     map[string][]any{},
		normalizers: map[string]Normalizer{},
		logger:      logger.NewDefaultLogger("resolve"),
	}
}

// WithLogger replaces the resolver logger.
func (r *Resolver) WithLogger(l logger.Logger) *Resolver {
	if l != nil {
		r.logger = l
	}
	return r
}

// SetDefaults declares default values. Plain values install concrete
// defaults. A Compute installs a lazy default evaluated against the resolved
// view. An Overload additionally receives the value the option held before
// this declaration, resolved on demand. Each declared name becomes known and
// is no longer required.
func (r *Resolver) SetDefaults(defaults map[string]any) *Resolver {
	for name, value := range defaults {
		r.defaults.Set(name, value)
		r.know(name)
		delete(r.required, name)
	}
	return r
}

// ReplaceDefaults declares default values discarding any prior default
// history: an Overload installed through this call observes a nil previous
// value. Otherwise identical to SetDefaults.
func (r *Resolver) ReplaceDefaults(defaults map[string]any) *Resolver {
	for name, value := range defaults {
		r.defaults.Replace(name, value)
		r.know(name)
		delete(r.required, name)
	}
	return r
}

// SetOptional declares option names that callers may supply. Names only; no
// value can be attached through this call.
func (r *Resolver) SetOptional(names ...string) *Resolver {
	for _, name := range names {
		r.know(name)
	}
	return r
}

// SetRequired declares option names that callers must supply unless a
// default exists. Declaring a name that already has a default is a no-op for
// required-ness.
func (r *Resolver) SetRequired(names ...string) *Resolver {
	for _, name := range names {
		r.know(name)
		if !r.defaults.Has(name) {
			r.required[name] = struct{}{}
		}
	}
	return r
}

// SetAllowedValues replaces the allowed-value sequence for each named
// option. Every name must already be known; violations surface from the next
// Resolve call.
func (r *Resolver) SetAllowedValues(allowed map[string][]any) *Resolver {
	if err := r.checkAllowedNames(allowed); err != nil {
		return r.fail(err)
	}
	for name, values := range allowed {
		if _, ok := r.allowed[name]; !ok {
			r.allowedOrder = append(r.allowedOrder, name)
		}
		r.allowed[name] = append([]any{}, values...)
	}
	return r
}

// AddAllowedValues appends to the allowed-value sequence for each named
// option, creating it when absent and preserving duplicates. Every name must
// already be known.
func (r *Resolver) AddAllowedValues(allowed map[string][]any) *Resolver {
	if err := r.checkAllowedNames(allowed); err != nil {
		return r.fail(err)
	}
	for name, values := range allowed {
		if _, ok := r.allowed[name]; !ok {
			r.allowedOrder = append(r.allowedOrder, name)
		}
		r.allowed[name] = append(r.allowed[name], values...)
	}
	return r
}

// SetNormalizers registers per-option normalizers applied to resolved values
// before allowed-value validation. Every name must already be known.
func (r *Resolver) SetNormalizers(normalizers map[string]Normalizer) *Resolver {
	unknown := r.unknownNames(namesOf(normalizers))
	if len(unknown) > 0 {
		return r.fail(newUnknownOptionsError(unknown, r.KnownOptions()))
	}
	for name, fn := range normalizers {
		if fn == nil {
			continue
		}
		if _, ok := r.normalizers[name]; !ok {
			r.normalizerOrder = append(r.normalizerOrder, name)
		}
		r.normalizers[name] = fn
	}
	return r
}

// IsKnown reports whether name was declared via default, optional, or
// required declaration.
func (r *Resolver) IsKnown(name string) bool {
	_, ok := r.known[name]
	return ok
}

// IsRequired reports whether callers must supply name, i.e. it was declared
// required and still lacks a default.
func (r *Resolver) IsRequired(name string) bool {
	_, ok := r.required[name]
	return ok
}

// HasDefault reports whether name currently holds a default, concrete or
// lazy.
func (r *Resolver) HasDefault(name string) bool {
	return r.defaults.Has(name)
}

// KnownOptions returns every declared option name, sorted.
func (r *Resolver) KnownOptions() []string {
	return sortedNames(r.known)
}

// RequiredOptions returns every currently required option name, sorted.
func (r *Resolver) RequiredOptions() []string {
	return sortedNames(r.required)
}

// Err returns the first deferred schema error, if any. Resolve returns the
// same error; Err allows checking eagerly after a chain of mutators.
func (r *Resolver) Err() error {
	return r.schemaErr
}

func (r *Resolver) know(name string) {
	r.known[name] = struct{}{}
}

func (r *Resolver) fail(err error) *Resolver {
	if r.schemaErr == nil {
		r.schemaErr = err
	}
	return r
}

func (r *Resolver) checkAllowedNames(allowed map[string][]any) error {
	unknown := r.unknownNames(namesOf(allowed))
	if len(unknown) > 0 {
		return newUnknownOptionsError(unknown, r.KnownOptions())
	}
	return nil
}

func (r *Resolver) unknownNames(names []string) []string {
	var unknown []string
	for _, name := range names {
		if !r.IsKnown(name) {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	return unknown
}

func sortedNames(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func namesOf[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	return names
}
