// Package summary folds the eligible records of a query into the
// min/max/list output consumed by graphing pollers.
package summary

import (
	"fmt"
	"io"

	"ntp-stats/internal/models"
)

// Summary holds the result of folding one field over the eligible records
type Summary struct {
	Min    models.Value
	Max    models.Value
	Values []models.Value
}

// Summarize tracks the running min and max of values and keeps every
// value in order. Absent values are listed but never become min or max.
func Summarize(values []models.Value) Summary {
	var s Summary
	for _, v := range values {
		if !v.IsAbsent() {
			if s.Min.IsAbsent() || v.Less(s.Min) {
				s.Min = v
			}
			if s.Max.IsAbsent() || s.Max.Less(v) {
				s.Max = v
			}
		}
		s.Values = append(s.Values, v)
	}
	return s
}

// Field extracts key from each record
func Field[R models.Record](records []R, key string) []models.Value {
	values := make([]models.Value, 0, len(records))
	for _, r := range records {
		values = append(values, r.Field(key))
	}
	return values
}

// WriteTo prints min, max and then one value per line. With no values the
// third part is a single empty line.
func (s Summary) WriteTo(w io.Writer) (int64, error) {
	var total int64
	write := func(v any) error {
		n, err := fmt.Fprintln(w, v)
		total += int64(n)
		return err
	}

	if err := write(s.Min); err != nil {
		return total, err
	}
	if err := write(s.Max); err != nil {
		return total, err
	}
	if len(s.Values) == 0 {
		return total, write("")
	}
	for _, v := range s.Values {
		if err := write(v); err != nil {
			return total, err
		}
	}
	return total, nil
}

// Group buckets items by key and returns the buckets named in order,
// concatenated. Items keep their relative order inside a bucket and
// buckets not named in order are dropped.
func Group[T any, K comparable](items []T, key func(T) K, order []K) []T {
	buckets := make(map[K][]T)
	for _, item := range items {
		k := key(item)
		buckets[k] = append(buckets[k], item)
	}

	var result []T
	for _, k := range order {
		result = append(result, buckets[k]...)
	}
	return result
}
