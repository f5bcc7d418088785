// Package loader wraps the go.bytecodealliance.org/wit front-end:
// loading WIT definitions, selecting the world to generate for, and
// walking its exports in declaration order.
//
// The resolved graph is consumed strictly read-only. WIT text files
// and directories are parsed through the front-end's embedded
// wasm-tools; pre-resolved wasm-tools JSON is accepted directly.
package loader
