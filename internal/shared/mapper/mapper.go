// Package mapper holds small generic helpers for converting slices between
// layers.
package mapper

import "fmt"

// Slice applies fn to each element. The result is never nil so that empty
// collections serialize as [] rather than null.
func Slice[T any, R any](items []T, fn func(T) R) []R {
	result := make([]R, 0, len(items))
	for _, item := range items {
		result = append(result, fn(item))
	}
	return result
}

// Rows converts scanned rows in place order, passing each element by address
// to avoid copying wide structs. Returns at the first failing row.
func Rows[T any, R any](rows []T, fn func(*T) (R, error)) ([]R, error) {
	result := make([]R, 0, len(rows))
	for i := range rows {
		mapped, err := fn(&rows[i])
		if err != nil {
			return nil, fmt.Errorf("failed to map row %d: %w", i, err)
		}
		result = append(result, mapped)
	}
	return result, nil
}
