package sources

import (
	"testing"
)

func TestInferFileType(t *testing.T) {
	cases := []struct {
		path string
		want FileType
	}{
		{"options.json", FileTypeJSON},
		{"options.yaml", FileTypeYAML},
		{"options.yml", FileTypeYAML},
		{"options.toml", FileTypeTOML},
		{"OPTIONS.JSON", FileTypeJSON},
		{"no-extension", FileTypeJSON},
	}

	for _, tc := range cases {
		if got := inferFileType(tc.path); got != tc.want {
			t.Errorf("inferFileType(%q) = %s, want %s", tc.path, got, tc.want)
		}
	}
}

func TestInferFileTypeFallback(t *testing.T) {
	if got := inferFileType("no-extension", FileTypeYAML); got != FileTypeYAML {
		t.Errorf("expected fallback yaml, got %s", got)
	}
}

func TestFileTypeValid(t *testing.T) {
	for _, ft := range []FileType{FileTypeJSON, FileTypeYAML, FileTypeTOML} {
		if err := ft.Valid(); err != nil {
			t.Errorf("expected %s to be valid: %v", ft, err)
		}
	}
	if err := FileType("ini").Valid(); err == nil {
		t.Errorf("expected ini to be invalid")
	}
}
