package results

// OperationResult is the envelope returned by service operations. A business
// failure (lock rejected, store unavailable, validation) travels in Failure
// and does not surface as a Go error; infrastructure errors do.
type OperationResult[S any, F any] struct {
	Success *S
	Failure *F
}

// IsSuccess reports whether the operation produced a success payload.
func (r OperationResult[S, F]) IsSuccess() bool { return r.Success != nil }

// IsFailure reports whether the operation produced a failure payload.
func (r OperationResult[S, F]) IsFailure() bool { return r.Failure != nil }

// SuccessResult wraps a success payload.
func SuccessResult[S any, F any](s S) OperationResult[S, F] {
	return OperationResult[S, F]{Success: &s}
}

// FailureResult wraps a failure payload.
func FailureResult[S any, F any](f F) OperationResult[S, F] {
	return OperationResult[S, F]{Failure: &f}
}
