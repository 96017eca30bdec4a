package resolve

import (
	"reflect"
	"sort"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-resolve/slots"
)

// Resolve validates supplied against the declared schema, merges it over the
// defaults, resolves every lazy default, and returns the final mapping.
//
// The pipeline runs existence, completeness, merge, resolution, normalizer,
// and allowed-value stages in that order; the first failing stage aborts the
// call with no partial result. Resolve never mutates the resolver's
// persistent schema or default store: each call works on an independent
// clone, so repeated calls with identical inputs return identical mappings.
func (r *Resolver) Resolve(supplied map[string]any) (map[string]any, error) {
	if r.schemaErr != nil {
		return nil, r.schemaErr
	}

	if err := r.checkExistence(supplied); err != nil {
		return nil, err
	}
	if err := r.checkCompleteness(supplied); err != nil {
		return nil, err
	}

	work := r.defaults.Clone()
	for name, value := range supplied {
		work.Merge(name, value)
	}

	r.logger.Debug("resolving %d slots (%d supplied)", work.Len(), len(supplied))
	resolved, err := work.ResolveAll()
	if err != nil {
		var cycle *slots.CycleError
		if errors.As(err, &cycle) {
			return nil, newDefinitionCycleError(cycle)
		}
		return nil, newDefaultComputeError(err)
	}

	if err := r.normalize(resolved); err != nil {
		return nil, err
	}
	if err := r.checkAllowedValues(resolved); err != nil {
		return nil, err
	}

	return resolved, nil
}

// MustResolve is Resolve panicking on error, for schema bootstrap paths.
func (r *Resolver) MustResolve(supplied map[string]any) map[string]any {
	resolved, err := r.Resolve(supplied)
	if err != nil {
		panic(err)
	}
	return resolved
}

func (r *Resolver) checkExistence(supplied map[string]any) error {
	var unknown []string
	for name := range supplied {
		if !r.IsKnown(name) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return newUnknownOptionsError(unknown, r.KnownOptions())
}

func (r *Resolver) checkCompleteness(supplied map[string]any) error {
	// required is mutually exclusive with defaulted by construction, so the
	// only satisfying source left is the supplied set
	var missing []string
	for name := range r.required {
		if _, ok := supplied[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return newMissingOptionsError(missing)
}

func (r *Resolver) normalize(resolved map[string]any) error {
	view := mapView(resolved)
	for _, name := range r.normalizerOrder {
		value, ok := resolved[name]
		if !ok {
			continue
		}
		next, err := r.normalizers[name](view, value)
		if err != nil {
			return newNormalizerError(name, err)
		}
		resolved[name] = next
	}
	return nil
}

// checkAllowedValues runs in schema insertion order and stops at the first
// offending option.
func (r *Resolver) checkAllowedValues(resolved map[string]any) error {
	for _, name := range r.allowedOrder {
		value, ok := resolved[name]
		if !ok {
			continue
		}
		if !valueAllowed(value, r.allowed[name]) {
			return newDisallowedValueError(name, value, r.allowed[name])
		}
	}
	return nil
}

func valueAllowed(value any, allowed []any) bool {
	for _, candidate := range allowed {
		if strictEqual(value, candidate) {
			return true
		}
	}
	return false
}

// strictEqual compares without coercion: mismatched dynamic types never
// match. Runtime-comparable values use ==, everything else falls back to
// structural equality. The runtime check matters: a comparable struct type
// can still hold an uncomparable value in an interface field, and == would
// panic on it.
func strictEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	if reflect.ValueOf(a).Comparable() && reflect.ValueOf(b).Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

// mapView adapts a fully resolved mapping into the View normalizers read
// from. Everything is already concrete, so Get never triggers evaluation.
type mapView map[string]any

func (m mapView) Get(name string) (any, error) {
	value, ok := m[name]
	if !ok {
		return nil, &slots.NoSlotError{Option: name}
	}
	return value, nil
}

func (m mapView) Has(name string) bool {
	_, ok := m[name]
	return ok
}
