package service

// Result carries the outcome of an operation that can fail for expected,
// client-facing reasons. Unexpected failures are returned as errors instead.
type Result[T any] struct {
	IsSuccess bool
	Message   string
	Data      T
	// Reason is the sentinel behind a failed Result.
	Reason error
}

func succeed[T any](message string, data T) Result[T] {
	return Result[T]{IsSuccess: true, Message: message, Data: data}
}

func fail[T any](reason error) Result[T] {
	return Result[T]{Message: reason.Error(), Reason: reason}
}
