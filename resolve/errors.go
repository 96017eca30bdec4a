package resolve

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-resolve/slots"
)

const (
	// TextCodeUnknownOptions marks supplied or referenced names outside the
	// declared schema.
	TextCodeUnknownOptions = "UNKNOWN_OPTIONS"
	// TextCodeMissingOptions marks required names with neither a supplied
	// value nor a default.
	TextCodeMissingOptions = "MISSING_OPTIONS"
	// TextCodeDisallowedValue marks a resolved value outside its option's
	// allowed sequence.
	TextCodeDisallowedValue = "DISALLOWED_VALUE"
	// TextCodeDefinitionCycle marks a cyclic dependency among lazy defaults.
	TextCodeDefinitionCycle = "OPTION_DEFINITION_CYCLE"
	// TextCodeDefaultCompute marks a lazy default computation that failed.
	TextCodeDefaultCompute = "DEFAULT_COMPUTE_FAILED"
	// TextCodeNormalizer marks a normalizer that failed.
	TextCodeNormalizer = "NORMALIZER_FAILED"
)

func newUnknownOptionsError(unknown, known []string) error {
	return errors.New(
		fmt.Sprintf("unknown options %s, known options are: %s", quoteJoin(unknown), quoteJoin(known)),
		errors.CategoryBadInput,
	).
		WithTextCode(TextCodeUnknownOptions).
		WithMetadata(map[string]any{
			"unknown_options": unknown,
			"known_options":   known,
		})
}

func newMissingOptionsError(missing []string) error {
	return errors.New(
		fmt.Sprintf("missing required options: %s", quoteJoin(missing)),
		errors.CategoryValidation,
	).
		WithTextCode(TextCodeMissingOptions).
		WithMetadata(map[string]any{
			"missing_options": missing,
		})
}

func newDisallowedValueError(name string, value any, allowed []any) error {
	return errors.New(
		fmt.Sprintf("option %q has disallowed value %v, allowed values are: %v", name, value, allowed),
		errors.CategoryValidation,
	).
		WithTextCode(TextCodeDisallowedValue).
		WithMetadata(map[string]any{
			"option":         name,
			"value":          value,
			"allowed_values": allowed,
		})
}

func newDefinitionCycleError(err *slots.CycleError) error {
	return errors.Wrap(err, errors.CategoryOperation, "cyclic dependency among lazy defaults").
		WithTextCode(TextCodeDefinitionCycle).
		WithMetadata(map[string]any{
			"option": err.Option,
			"chain":  err.Chain,
		})
}

func newDefaultComputeError(err error) error {
	return errors.Wrap(err, errors.CategoryOperation, "lazy default computation failed").
		WithTextCode(TextCodeDefaultCompute)
}

func newNormalizerError(name string, err error) error {
	return errors.Wrap(err, errors.CategoryOperation, "option normalizer failed").
		WithTextCode(TextCodeNormalizer).
		WithMetadata(map[string]any{
			"option": name,
		})
}

// IsUnknownOptions reports whether err describes supplied or referenced
// option names outside the declared schema.
func IsUnknownOptions(err error) bool {
	return hasTextCode(err, TextCodeUnknownOptions)
}

// IsMissingOptions reports whether err describes required options missing
// both a value and a default.
func IsMissingOptions(err error) bool {
	return hasTextCode(err, TextCodeMissingOptions)
}

// IsDisallowedValue reports whether err describes a resolved value outside
// its allowed sequence.
func IsDisallowedValue(err error) bool {
	return hasTextCode(err, TextCodeDisallowedValue)
}

// IsDefinitionError reports whether err describes a schema authoring bug in
// the lazy defaults, a cycle included.
func IsDefinitionError(err error) bool {
	return hasTextCode(err, TextCodeDefinitionCycle) ||
		hasTextCode(err, TextCodeDefaultCompute) ||
		errors.Is(err, slots.ErrCycle)
}

func hasTextCode(err error, code string) bool {
	var rich *errors.Error
	if !errors.As(err, &rich) {
		return false
	}
	return rich.TextCode == code
}

func quoteJoin(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = fmt.Sprintf("%q", name)
	}
	return strings.Join(quoted, ", ")
}
