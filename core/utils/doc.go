// Package utils provides small helpers shared across packages: window
// truncation of fault messages and conversion of decoded trace payloads to
// the text handed to the structural diff.
package utils
