package service

// internalError hides cause from the caller; it is still reachable through
// errors.Unwrap for logging.
func internalError(cause error) error {
	if cause == nil {
		return ErrInternal
	}
	return ErrInternal.WithCause(cause)
}
