// Package names translates WIT kebab-case identifiers into the naming
// conventions of each generation role.
//
// WIT uses kebab-case (e.g. "transaction-request"). The generated
// artifacts need several conventions:
//
//   - Rust types: PascalCase ("TransactionRequest")
//   - Rust functions/fields: snake_case ("transaction_request"),
//     reserved words escaped with a trailing underscore ("type_")
//   - C types: PascalCase with the configured type prefix
//     ("FfiTransactionRequest")
//   - C functions: snake_case with the configured symbol prefix
//     ("zcash_eip681_parser_parse")
//   - C enum and variant-tag constants: SHOUTY_SNAKE_CASE
//     ("TRANSACTION_REQUEST_NATIVE")
//
// A Context holds the configured prefixes and derives identifiers; a
// Table records every derived identifier per (role, namespace) and
// reports a collision when two distinct source identifiers map to the
// same generated one. Generation fails on collision before any output
// is written.
package names
