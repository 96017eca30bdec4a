// Package resolve implements an options resolution engine: a declared schema
// of required, optional, and defaulted option names is resolved against a
// caller-supplied value set into one final name to value mapping, or fails
// with a precise diagnostic.
//
// Defaults may be lazy. A Compute reads sibling options through the resolved
// view and runs at most once per Resolve call; an Overload additionally
// receives the value its own slot held before the redeclaration. Cyclic
// dependencies among lazy defaults are detected and rejected rather than
// looping or returning partial results.
//
// API catalog:
//   - Schema: SetDefaults, ReplaceDefaults, SetOptional, SetRequired.
//   - Constraints: SetAllowedValues, AddAllowedValues, SetNormalizers.
//   - Resolution: Resolve, MustResolve, ResolveInto.
//   - Lazy defaults: Compute, Overload, Expr, ExprWithEvaluator.
//   - Typed decode: Into with WithTagName, WithStrictKeys, WithWeakTyping.
//   - Introspection: IsKnown, IsRequired, HasDefault, KnownOptions,
//     RequiredOptions, Err.
//   - Error predicates: IsUnknownOptions, IsMissingOptions,
//     IsDisallowedValue, IsDefinitionError.
//
// The sources package gathers supplied values from files, environment
// variables, flags, and structs when options arrive layered rather than as a
// single literal map.
package resolve
