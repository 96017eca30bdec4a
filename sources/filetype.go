package sources

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/v2"
)

type FileType string

const (
	FileTypeYAML FileType = "yaml"
	FileTypeTOML FileType = "toml"
	FileTypeJSON FileType = "json"
)

var fileTypeParsers = map[FileType]func() koanf.Parser{
	FileTypeJSON: func() koanf.Parser { return json.Parser() },
	FileTypeYAML: func() koanf.Parser { return yaml.Parser() },
	FileTypeTOML: func() koanf.Parser { return toml.Parser() },
}

var fileTypeExtensions = map[string]FileType{
	".json": FileTypeJSON,
	".yaml": FileTypeYAML,
	".yml":  FileTypeYAML,
	".toml": FileTypeTOML,
}

func (f FileType) String() string {
	return string(f)
}

func (f FileType) Valid() error {
	if _, ok := fileTypeParsers[f]; ok {
		return nil
	}
	return errors.New("invalid options file type", errors.CategoryValidation).
		WithTextCode("INVALID_FILE_TYPE").
		WithMetadata(map[string]any{
			"file_type": string(f),
			"valid_types": []string{
				string(FileTypeJSON),
				string(FileTypeYAML),
				string(FileTypeTOML),
			},
		})
}

func (f FileType) Parser() koanf.Parser {
	mk, ok := fileTypeParsers[f]
	if !ok {
		panic(fmt.Errorf("invalid options file type: %s", f))
	}
	return mk()
}

func inferFileType(path string, fallback ...FileType) FileType {
	if ft, ok := fileTypeExtensions[strings.ToLower(filepath.Ext(path))]; ok {
		return ft
	}
	if len(fallback) > 0 {
		return fallback[0]
	}
	return FileTypeJSON
}
