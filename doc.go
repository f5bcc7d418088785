// Package witffi generates native FFI scaffolding from WIT interface
// definitions.
//
// Given a resolved WIT world, witffi emits two paired artifacts that
// must agree bit-for-bit on every layout decision: a Rust source body
// (idiomatic types, a capability trait for the library author to
// implement, extern "C" boundary wrappers, release functions, and
// thread-scoped error accessors) and a matching C header for consumers
// reached only through the flat C calling convention.
//
// # Architecture Overview
//
// The pipeline is a pure, single-pass transformation over a read-only
// input graph:
//
//	witffi/              Root package with Config and Language
//	├── loader/          WIT loading and world selection (front-end wrapper)
//	├── names/           Identifier translation between naming conventions
//	├── classify/        Ownership and representation analysis
//	├── rustgen/         Rust + C header generation (fully supported)
//	├── swiftgen/        Swift generation (partial)
//	├── errors/          Structured error types
//	└── cmd/witffi/      CLI: generate, inspect
//
// # Quick Start
//
// Generate bindings for a WIT package:
//
//	res, err := loader.Load("wit/eip681.wit")
//	world, err := loader.SelectWorld(res, "")
//	gen, err := rustgen.New(world, rustgen.Config{
//		CPrefix:     "zcash_eip681",
//		CTypePrefix: "Ffi",
//	})
//	err = gen.WriteArtifacts("out/")
//
// Or from the command line:
//
//	witffi generate --wit wit/ --lang rust --output out/ --c-prefix zcash_eip681
package witffi
