// Package diff provides the default structural comparer and pairing
// strategy for the reconciliation engine.
//
// The comparer decodes both payloads as JSON when possible, applies the
// per-pair options (lower-cased field names, null folded into empty,
// excluded and included paths, list sort keys) and compares the RFC 8785
// canonical forms. When they differ, a field walk reports each differing
// path. Payloads that are not JSON are compared as text.
//
// Reference and decompression rules, and SQL body parsing for database
// payloads, are accepted but not applied by this comparer.
//
// Align pairs identical contents before positional diffing, so reordered
// but otherwise equal calls do not show up as differences.
package diff
