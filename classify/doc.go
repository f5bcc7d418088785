// Package classify analyzes WIT types and decides, for each, its
// memory-ownership class and binary representation.
//
// The classification drives everything the generator emits: which C
// aggregate a type becomes, whether a value crosses the boundary
// inline or behind a pointer, and which types need a generated release
// function.
//
// Ownership classes:
//
//	Value     no release obligation; copied across the boundary
//	Borrowed  caller-owned; the callee must not free it
//	Owned     callee-allocated; the caller must release it through the
//	          generated release function
//
// The rules are recursive: a record or variant is Owned as soon as any
// transitively reachable member is Owned (a string, a byte buffer, a
// nested Owned type). Byte lists are special-cased: borrowed slices as
// parameters, owned buffers as returns. option<T> keeps an explicit
// presence flag only when T is a Value type; otherwise absence
// collapses into a null reference.
//
// Classification is deterministic and cached per *wit.TypeDef. Shapes
// with no lowering (resources, futures, streams, tuples,
// self-referential records) fail with a diagnostic naming the fully
// qualified type.
package classify
