package resolve

import (
	"encoding"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"github.com/goliatone/go-errors"
)

// BindOption tweaks decoding of a resolved mapping into a typed struct.
type BindOption func(*mapstructure.DecoderConfig)

// WithTagName overrides the struct tag key used while decoding.
func WithTagName(tag string) BindOption {
	return func(cfg *mapstructure.DecoderConfig) {
		if tag != "" {
			cfg.TagName = tag
		}
	}
}

// WithStrictKeys enables unused-key detection: resolved options without a
// matching struct field fail the decode.
func WithStrictKeys() BindOption {
	return func(cfg *mapstructure.DecoderConfig) {
		cfg.ErrorUnused = true
	}
}

// WithWeakTyping toggles weakly typed decoding.
func WithWeakTyping(enabled bool) BindOption {
	return func(cfg *mapstructure.DecoderConfig) {
		cfg.WeaklyTypedInput = enabled
	}
}

// Into decodes a resolved mapping into T. Duration strings and
// encoding.TextUnmarshaler targets decode transparently.
func Into[T any](resolved map[string]any, opts ...BindOption) (T, error) {
	var out T

	config := mapstructure.DecoderConfig{
		TagName:          "resolve",
		WeaklyTypedInput: true,
		Result:           bindTarget(&out),
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			textUnmarshalerHook(),
		),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&config)
		}
	}

	decoder, err := mapstructure.NewDecoder(&config)
	if err != nil {
		var zero T
		return zero, errors.Wrap(err, errors.CategoryOperation, "failed to configure option decoder").
			WithTextCode("BIND_DECODER_FAILED")
	}
	if err := decoder.Decode(resolved); err != nil {
		var zero T
		return zero, errors.Wrap(err, errors.CategoryOperation, "failed to decode resolved options").
			WithTextCode("BIND_DECODE_FAILED").
			WithMetadata(map[string]any{
				"options_count": len(resolved),
			})
	}
	return out, nil
}

// ResolveInto resolves supplied and decodes the result into T in one step.
func ResolveInto[T any](r *Resolver, supplied map[string]any, opts ...BindOption) (T, error) {
	resolved, err := r.Resolve(supplied)
	if err != nil {
		var zero T
		return zero, err
	}
	return Into[T](resolved, opts...)
}

func bindTarget[T any](result *T) any {
	val := reflect.ValueOf(result).Elem()
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			val.Set(reflect.New(val.Type().Elem()))
		}
		return val.Interface()
	}
	return val.Addr().Interface()
}

func textUnmarshalerHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String {
			return data, nil
		}
		result := reflect.New(to).Interface()
		unmarshaller, ok := result.(encoding.TextUnmarshaler)
		if !ok {
			return data, nil
		}
		if err := unmarshaller.UnmarshalText([]byte(reflect.ValueOf(data).String())); err != nil {
			return nil, err
		}
		return result, nil
	}
}
