package env

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func fixedEnviron(vars ...string) func() []string {
	return func() []string { return vars }
}

func TestProviderNestedKeys(t *testing.T) {
	p := Provider("OPTS_", "__", ".").WithEnviron(fixedEnviron(
		"OPTS_HOST=localhost",
		"OPTS_DB__DSN=postgres://x",
		"IGNORED=1",
	))

	raw, err := p.ReadBytes()
	assert.NoError(t, err)

	var out map[string]any
	assert.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "localhost", out["host"])

	db, ok := out["db"].(map[string]any)
	assert.True(t, ok, "expected nested db map, got %T", out["db"])
	assert.Equal(t, "postgres://x", db["dsn"])
}

func TestProviderArrays(t *testing.T) {
	p := Provider("OPTS_", "__", ".").WithEnviron(fixedEnviron(
		"OPTS_SERVERS__0__HOST=a",
		"OPTS_SERVERS__1__HOST=b",
	))

	raw, err := p.ReadBytes()
	assert.NoError(t, err)

	var out map[string]any
	assert.NoError(t, json.Unmarshal(raw, &out))

	servers, ok := out["servers"].([]any)
	assert.True(t, ok, "expected servers array, got %T", out["servers"])
	assert.Len(t, servers, 2)
}

func TestProviderCustomPathSeparator(t *testing.T) {
	p := Provider("OPTS_", "__", "/").WithEnviron(fixedEnviron(
		"OPTS_DB__DSN=d",
	))

	raw, err := p.ReadBytes()
	assert.NoError(t, err)

	var out map[string]any
	assert.NoError(t, json.Unmarshal(raw, &out))

	db, ok := out["db"].(map[string]any)
	assert.True(t, ok, "expected nesting on the custom separator, got %T", out["db"])
	assert.Equal(t, "d", db["dsn"])
}

func TestProviderTransformDropsKeys(t *testing.T) {
	p := Provider("OPTS_", "__", ".").
		WithEnviron(fixedEnviron("OPTS_KEEP=1", "OPTS_DROP=2")).
		WithTransform(func(key, value string) (string, any) {
			if key == "drop" {
				return "", nil
			}
			return key, value
		})

	raw, err := p.ReadBytes()
	assert.NoError(t, err)

	var out map[string]any
	assert.NoError(t, json.Unmarshal(raw, &out))
	assert.Contains(t, out, "keep")
	assert.NotContains(t, out, "drop")
}

func TestProviderTransformRewritesValues(t *testing.T) {
	p := Provider("OPTS_", "__", ".").
		WithEnviron(fixedEnviron("OPTS_TAGS=a,b,c")).
		WithTransform(func(key, value string) (string, any) {
			return key, strings.Split(value, ",")
		})

	raw, err := p.ReadBytes()
	assert.NoError(t, err)

	var out map[string]any
	assert.NoError(t, json.Unmarshal(raw, &out))

	tags, ok := out["tags"].([]any)
	assert.True(t, ok, "expected tags array, got %T", out["tags"])
	assert.Len(t, tags, 3)
}

func TestProviderReadUnsupported(t *testing.T) {
	p := Provider("OPTS_", "__", ".")
	_, err := p.Read()
	assert.Error(t, err)
}
