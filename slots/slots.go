package slots

import (
	"github.com/mitchellh/copystructure"
)

// View is the resolved-so-far window handed to lazy computations. Reading an
// option through Get triggers its resolution on demand; the result is
// memoized for the remainder of the pass.
type View interface {
	Get(name string) (any, error)
	Has(name string) bool
}

// Compute produces a default value lazily, reading sibling options through
// the view. Computations must be pure: they run at most once per resolution
// pass and the engine relies on that.
type Compute func(v View) (any, error)

// Overload produces a default value with access to whatever the slot held
// before it was redeclared. The previous value is resolved first (evaluating
// the old computation if the prior slot was lazy) and passed as prev. A nil
// prev means the slot had no prior definition.
type Overload func(v View, prev any) (any, error)

type slotKind int

const (
	kindConcrete slotKind = iota
	kindLazy
)

type slot struct {
	kind  slotKind
	value any
	fn    Compute
}

// Store holds one value slot per option name. Slots are installed via Set,
// Replace, or Merge; ResolveAll turns every slot into a concrete value.
type Store struct {
	slots map[string]*slot
	order []string
}

// NewStore returns an empty slot store.
func NewStore() *Store {
	return &Store{
		slots: map[string]*slot{},
	}
}

// Set installs a slot for name. A Compute argument installs a lazy slot, an
// Overload argument wraps the previous slot (captured now, before the
// overwrite) so the new computation can read its resolved value, and any
// other value is stored concrete as-is.
func (s *Store) Set(name string, v any) {
	switch fn := v.(type) {
	case Compute:
		s.install(name, &slot{kind: kindLazy, fn: fn})
	case Overload:
		old := s.slots[name]
		s.install(name, &slot{kind: kindLazy, fn: wrapOverload(fn, old)})
	default:
		s.install(name, &slot{kind: kindConcrete, value: v})
	}
}

// Replace installs a slot for name discarding any prior definition first,
// position in the insertion order included. An Overload passed here observes
// a nil previous value since the history is explicitly unavailable.
func (s *Store) Replace(name string, v any) {
	s.remove(name)
	s.Set(name, v)
}

// Merge installs a concrete slot unconditionally, overwriting whatever was
// there. Caller-supplied values go through Merge so they always win and are
// never treated as computations, regardless of their type.
func (s *Store) Merge(name string, value any) {
	s.install(name, &slot{kind: kindConcrete, value: value})
}

// Has reports whether name currently holds a slot.
func (s *Store) Has(name string) bool {
	_, ok := s.slots[name]
	return ok
}

// Len returns the number of installed slots.
func (s *Store) Len() int {
	return len(s.slots)
}

// Names returns the slot names in insertion order.
func (s *Store) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Clone produces an independent copy of the store. Concrete values are deep
// copied so resolution passes cannot contaminate each other through shared
// mutable values; values copystructure cannot handle are shared by
// reference. Lazy computations are copied by reference. Evaluation state is
// never kept on the store, so clones start unresolved by construction.
func (s *Store) Clone() *Store {
	out := &Store{
		slots: make(map[string]*slot, len(s.slots)),
		order: make([]string, len(s.order)),
	}
	copy(out.order, s.order)
	for name, sl := range s.slots {
		if sl.kind == kindLazy {
			out.slots[name] = &slot{kind: kindLazy, fn: sl.fn}
			continue
		}
		value := sl.value
		if cloned, err := copystructure.Copy(value); err == nil {
			value = cloned
		}
		out.slots[name] = &slot{kind: kindConcrete, value: value}
	}
	return out
}

func (s *Store) remove(name string) {
	if _, ok := s.slots[name]; !ok {
		return
	}
	delete(s.slots, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Store) install(name string, sl *slot) {
	if _, ok := s.slots[name]; !ok {
		s.order = append(s.order, name)
	}
	s.slots[name] = sl
}

// wrapOverload binds the new computation to the captured prior slot. The old
// slot is resolved directly, not through a named lookup, so reading "my own
// previous value" does not trip the cycle detector; that path is the only
// sanctioned self-reference.
func wrapOverload(fn Overload, old *slot) Compute {
	return func(v View) (any, error) {
		var prev any
		if old != nil {
			if old.kind == kindConcrete {
				prev = old.value
			} else {
				resolved, err := old.fn(v)
				if err != nil {
					return nil, err
				}
				prev = resolved
			}
		}
		return fn(v, prev)
	}
}
