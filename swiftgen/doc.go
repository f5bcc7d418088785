// Package swiftgen reserves the Swift target. It validates its inputs
// the same way rustgen does and then reports that Swift emission is
// not implemented yet, so the CLI surface is stable before the
// backend exists.
package swiftgen
