package slots

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCycle marks cyclic dependencies among lazy computations.
	ErrCycle = errors.New("slots: cyclic dependency detected")
	// ErrNoSlot marks reads of option names that hold no slot.
	ErrNoSlot = errors.New("slots: no slot for option")
)

// CycleError reports a lazy computation that, directly or transitively,
// required its own unresolved value. Chain lists the evaluation stack from
// the first in-flight option down to the re-entered one.
type CycleError struct {
	Option string
	Chain  []string
}

func (e *CycleError) Error() string {
	if len(e.Chain) > 0 {
		return fmt.Sprintf("cyclic dependency for option %q (%s)", e.Option, strings.Join(e.Chain, " -> "))
	}
	return fmt.Sprintf("cyclic dependency for option %q", e.Option)
}

func (e *CycleError) Unwrap() error {
	return ErrCycle
}

// NoSlotError reports a computation reading an option that was never given a
// value or default.
type NoSlotError struct {
	Option string
}

func (e *NoSlotError) Error() string {
	return fmt.Sprintf("no value slot for option %q", e.Option)
}

func (e *NoSlotError) Unwrap() error {
	return ErrNoSlot
}

type resolveState int

const (
	stateUnresolved resolveState = iota
	stateResolving
	stateResolved
)

// evaluation tracks one ResolveAll pass. The tri-state map and stack are
// local to the pass so concurrent passes over independent clones cannot
// interfere, and a fresh pass over the same store starts unresolved.
type evaluation struct {
	store *Store
	state map[string]resolveState
	memo  map[string]any
	stack []string
}

// ResolveAll evaluates every slot exactly once, in first-touch dependency
// order, and returns the fully concrete mapping. A computation that
// (transitively) requires its own unresolved value fails with a CycleError;
// no partial mapping is returned.
func (s *Store) ResolveAll() (map[string]any, error) {
	ev := &evaluation{
		store: s,
		state: make(map[string]resolveState, len(s.slots)),
		memo:  make(map[string]any, len(s.slots)),
	}
	for _, name := range s.order {
		if _, err := ev.Get(name); err != nil {
			return nil, err
		}
	}
	out := make(map[string]any, len(ev.memo))
	for name, value := range ev.memo {
		out[name] = value
	}
	return out, nil
}

// Get resolves name on demand. Already-resolved slots return their memo;
// re-entering a slot that is currently resolving is a cycle and fails
// immediately without unwinding partial state.
func (ev *evaluation) Get(name string) (any, error) {
	switch ev.state[name] {
	case stateResolved:
		return ev.memo[name], nil
	case stateResolving:
		return nil, &CycleError{Option: name, Chain: ev.chain(name)}
	}

	sl, ok := ev.store.slots[name]
	if !ok {
		return nil, &NoSlotError{Option: name}
	}

	if sl.kind == kindConcrete {
		ev.state[name] = stateResolved
		ev.memo[name] = sl.value
		return sl.value, nil
	}

	ev.state[name] = stateResolving
	ev.stack = append(ev.stack, name)
	value, err := sl.fn(ev)
	if err != nil {
		return nil, err
	}
	ev.stack = ev.stack[:len(ev.stack)-1]
	ev.state[name] = stateResolved
	ev.memo[name] = value
	return value, nil
}

// Has reports whether name can be read through the view.
func (ev *evaluation) Has(name string) bool {
	if ev.state[name] == stateResolved {
		return true
	}
	_, ok := ev.store.slots[name]
	return ok
}

func (ev *evaluation) chain(reentered string) []string {
	chain := make([]string, 0, len(ev.stack)+1)
	chain = append(chain, ev.stack...)
	return append(chain, reentered)
}
