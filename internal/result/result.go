// Package result holds Result type which carries either value or failure
package result

// Result is either successful value or failure error
type Result[T any] struct {
	value T
	err   error
}

// Success builds successful Result
func Success[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Failure builds failed Result, err must not be nil
func Failure[T any](err error) Result[T] {
	return Result[T]{err: err}
}

// IsSuccess reports whether result holds value
func (r Result[T]) IsSuccess() bool {
	return r.err == nil
}

// IsFailure reports whether result holds failure
func (r Result[T]) IsFailure() bool {
	return r.err != nil
}

// Value returns value, zero value for failed result
func (r Result[T]) Value() T {
	return r.value
}

// Err returns failure, nil for successful result
func (r Result[T]) Err() error {
	return r.err
}

// Match calls succ or fail depending on result state
func Match[T, R any](r Result[T], succ func(T) R, fail func(error) R) R {
	if r.err != nil {
		return fail(r.err)
	}
	return succ(r.value)
}
