package service

// Result carries the outcome of a read that degrades instead of failing.
// Value is always usable (empty on failure); Err is set when the store could
// not be read, so callers can tell "nothing there" from "store unavailable".
type Result[T any] struct {
	Value T
	Err   error
}

func (r Result[T]) Unavailable() bool {
	return r.Err != nil
}

func available[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

func unavailable[T any](empty T, err error) Result[T] {
	return Result[T]{Value: empty, Err: err}
}
