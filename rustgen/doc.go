// Package rustgen emits the fully supported target: a Rust extern "C"
// scaffolding body and a matching C header, generated together from
// one analysis so the two artifacts cannot disagree on layout.
//
// The Rust artifact contains, in order: the shared byte-slice/buffer
// primitives, one #[repr(C)] type per reachable WIT record, variant,
// enum and flags (plus synthesized aggregates for options, general
// lists and nested results), the idiomatic Rust types, a capability
// trait the library author implements, a witffi_register! macro that
// stamps out the #[no_mangle] boundary wrappers for a chosen trait
// implementation, release functions for every owned type, and three
// thread-scoped error accessors. The header declares the same surface
// in the same order.
//
// Generator construction runs the whole analysis — export walk,
// classification, naming — and is the only place generation can fail;
// rendering afterwards is deterministic, so generating twice from one
// world and configuration yields byte-identical artifacts.
package rustgen
