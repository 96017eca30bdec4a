package sources

import (
	"testing"
	"testing/fstest"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
)

func TestVariablesSolver_ReplacesFullMatch(t *testing.T) {
	values := map[string]any{
		"db": map[string]any{
			"host": "db.internal",
			"port": 5432,
		},
		"host": "${db.host}",
		"port": "${db.port}",
	}

	k := koanf.New(".")
	k.Load(confmap.Provider(values, "."), nil)

	solver := NewVariablesSolver("${", "}")
	out := solver.Solve(k)

	assert.Equal(t, "db.internal", out.Get("host"))
	assert.EqualValues(t, 5432, out.Get("port"))
}

func TestVariablesSolver_Interpolates(t *testing.T) {
	values := map[string]any{
		"db": map[string]any{
			"host": "db.internal",
		},
		"dsn": "postgres://${db.host}:5432",
	}

	k := koanf.New(".")
	k.Load(confmap.Provider(values, "."), nil)

	out := NewVariablesSolver("${", "}").Solve(k)

	assert.Equal(t, "postgres://db.internal:5432", out.Get("dsn"))
}

func TestVariablesSolver_LeavesUnknownReferences(t *testing.T) {
	values := map[string]any{
		"dsn": "${missing.path}",
	}

	k := koanf.New(".")
	k.Load(confmap.Provider(values, "."), nil)

	out := NewVariablesSolver("${", "}").Solve(k)

	assert.Equal(t, "${missing.path}", out.Get("dsn"))
}

func TestURISolver_File(t *testing.T) {
	fsys := fstest.MapFS{
		"secrets/token.txt": &fstest.MapFile{Data: []byte("s3cret\n")},
	}

	values := map[string]any{
		"token": "@file://secrets/token.txt",
	}

	k := koanf.New(".")
	k.Load(confmap.Provider(values, "."), nil)

	out := NewURISolverWithFS("@", "://", fsys).Solve(k)

	assert.Equal(t, "s3cret", out.Get("token"))
}

func TestURISolver_Base64(t *testing.T) {
	values := map[string]any{
		"password": "@base64://cGFzc3dvcmQ=",
	}

	k := koanf.New(".")
	k.Load(confmap.Provider(values, "."), nil)

	out := NewURISolver("@", "://").Solve(k)

	assert.Equal(t, "password", out.Get("password"))
}

func TestURISolver_IgnoresMissingFile(t *testing.T) {
	values := map[string]any{
		"token": "@file://missing.txt",
	}

	k := koanf.New(".")
	k.Load(confmap.Provider(values, "."), nil)

	out := NewURISolverWithFS("@", "://", fstest.MapFS{}).Solve(k)

	assert.Equal(t, "@file://missing.txt", out.Get("token"))
}
