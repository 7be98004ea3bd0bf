package models

import "context"

// Runner executes an external query tool and returns its standard output
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Record is one decoded time source as reported by a query tool
type Record interface {
	Field(key string) Value
}
