// Package skema provides:
//
// - Composable, immutable schemas (String, Number, Boolean, Null, Any, Literal,
// Object, Array, Union, InstanceOf) with copy-on-write modifiers
// - A validation engine that returns a normalized value or every Issue found
// (JSON Pointer, code, message)
// - A structural JSON-Schema-like mirror of each schema (JSONSchema)
// - Raw-input entry points for JSON and YAML with duplicate-key, depth and size
// enforcement
//
// Design policy:
// - Schemas are values. Modifiers return new schemas and never touch the
// receiver; ObjectBuilder is the only mutable construction step.
// - Values are read through a Host so the engine stays agnostic of the value
// representation. NativeHost covers ordinary Go values.
// - Keep only public APIs in the root package; decoding internals live under
// internal/. The CLI lives under cmd/skema and cli/.
//
// Typical usage:
//
//	person := skema.Object().
//		AddProp("name", skema.String().MinLength(1)).
//		AddProp("age", skema.Number().Min(0).Optional()).
//		Build()
//
//	res := person.Validate(map[string]any{"name": ""})
//	// res.Issues[0].Message == "String shorter than 1", Path == ["name"]
//
//	v, err := skema.ParseJSON(ctx, person, data, skema.ParseOpt{MaxDepth: 32})
package skema
