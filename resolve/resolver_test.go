package resolve

import (
	"testing"
)

func TestResolverKnownAndRequired(t *testing.T) {
	r := New().
		SetRequired("host").
		SetOptional("port").
		SetDefaults(map[string]any{"debug": false})

	for _, name := range []string{"host", "port", "debug"} {
		if !r.IsKnown(name) {
			t.Fatalf("expected %q to be known", name)
		}
	}
	if r.IsKnown("ghost") {
		t.Fatalf("undeclared option reported known")
	}

	if !r.IsRequired("host") {
		t.Fatalf("expected host to be required")
	}
	if r.IsRequired("port") || r.IsRequired("debug") {
		t.Fatalf("optional and defaulted options must not be required")
	}
}

func TestResolverDefaultClearsRequired(t *testing.T) {
	r := New().
		SetRequired("host").
		SetDefaults(map[string]any{"host": "localhost"})

	if r.IsRequired("host") {
		t.Fatalf("declaring a default must clear required-ness")
	}

	out, err := r.Resolve(map[string]any{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["host"] != "localhost" {
		t.Fatalf("unexpected host: %v", out["host"])
	}
}

func TestResolverRequiredAfterDefaultIsNoop(t *testing.T) {
	r := New().
		SetDefaults(map[string]any{"host": "localhost"}).
		SetRequired("host")

	if r.IsRequired("host") {
		t.Fatalf("required on a defaulted option must be a no-op")
	}
}

func TestResolverMutatorsIdempotent(t *testing.T) {
	r := New().
		SetRequired("host", "host").
		SetOptional("port", "port").
		SetDefaults(map[string]any{"debug": false}).
		SetDefaults(map[string]any{"debug": false})

	if got := r.KnownOptions(); len(got) != 3 {
		t.Fatalf("expected 3 known options, got %v", got)
	}
	if got := r.RequiredOptions(); len(got) != 1 || got[0] != "host" {
		t.Fatalf("expected required [host], got %v", got)
	}
}

func TestResolverKnownOptionsSorted(t *testing.T) {
	r := New().SetOptional("zeta", "alpha", "mid")

	got := r.KnownOptions()
	want := []string{"alpha", "mid", "zeta"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected sorted names %v, got %v", want, got)
		}
	}
}

func TestResolverAllowedValuesUnknownOptionDeferred(t *testing.T) {
	r := New().
		SetOptional("mode").
		SetAllowedValues(map[string][]any{"ghost": {1}})

	if r.Err() == nil {
		t.Fatalf("expected deferred schema error")
	}
	if !IsUnknownOptions(r.Err()) {
		t.Fatalf("expected unknown-options error, got %v", r.Err())
	}

	if _, err := r.Resolve(map[string]any{}); err == nil {
		t.Fatalf("resolve must surface the deferred schema error")
	}
}

func TestResolverAddAllowedValuesUnknownOptionDeferred(t *testing.T) {
	r := New().AddAllowedValues(map[string][]any{"ghost": {1}})

	if !IsUnknownOptions(r.Err()) {
		t.Fatalf("expected unknown-options error, got %v", r.Err())
	}
}

func TestResolverNormalizerUnknownOptionDeferred(t *testing.T) {
	r := New().SetNormalizers(map[string]Normalizer{
		"ghost": func(v View, value any) (any, error) { return value, nil },
	})

	if !IsUnknownOptions(r.Err()) {
		t.Fatalf("expected unknown-options error, got %v", r.Err())
	}
}

func TestResolverHasDefault(t *testing.T) {
	r := New().
		SetDefaults(map[string]any{"host": "localhost"}).
		SetOptional("port")

	if !r.HasDefault("host") {
		t.Fatalf("expected host to have a default")
	}
	if r.HasDefault("port") {
		t.Fatalf("port must not have a default")
	}
}

func TestResolverIndependentInstances(t *testing.T) {
	a := New().SetOptional("a")
	b := New().SetOptional("b")

	if a.IsKnown("b") || b.IsKnown("a") {
		t.Fatalf("resolver instances must not share schema state")
	}
}
