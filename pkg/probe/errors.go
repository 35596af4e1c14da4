package probe

import "fmt"

// AssertionError is returned when the directory change doesn't return 0.
type AssertionError struct {
	Expr  string
	Path  string
	Ret   int
	Errno error
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("Assertion failed: %s (chdir %q returned %d: %v)", e.Expr, e.Path, e.Ret, e.Errno)
}

func (e *AssertionError) Unwrap() error { return e.Errno }

// QueryError is returned when the working directory cannot be queried into
// the buffer.
type QueryError struct {
	Capacity int
	Errno    error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("getcwd with a buffer of %d bytes: %v", e.Capacity, e.Errno)
}

func (e *QueryError) Unwrap() error { return e.Errno }
