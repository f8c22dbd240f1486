// Package ptr has small helpers for working with pointers to values.
package ptr

// Ref returns a pointer to the value passed as argument.
//
// Useful for optional struct fields and literals in tests.
func Ref[T any](v T) *T {
	return &v
}
