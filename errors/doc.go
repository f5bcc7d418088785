// Package errors provides structured error types for the witffi generator.
//
// Errors are categorized by Phase (which stage of the generation pass
// failed) and Kind (error category). Every error is fatal to the pass:
// generation either fully succeeds or fails before any output is
// finalized, so there is no retry or partial-result handling.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseClassify, errors.KindUnsupportedShape).
//		WitType("docs:example/types#tree-node").
//		Detail("self-referential record without an indirection point").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Collision("ffi_parse", "parse", "parse-")
//	err := errors.FlagOverflow("docs:example/types#permissions", 65)
//
// All errors implement the standard error interface and support
// errors.Is/As; two *Error values match when Phase and Kind agree.
package errors
