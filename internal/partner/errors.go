package partner

// ValidationError is a rejected form submission. It is recovered in the
// central error handler and rendered inline with a 400; nothing is written
// to the store when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
