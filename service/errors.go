package service

import "fmt"

// RequestError rejects a request whose loan parameters pass the loan gate
// but exceed a host limit, such as MaxTermYears or the recommendation
// search bounds.
type RequestError struct {
	Field string
	Msg   string
}

func (e *RequestError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}
