package domain

import "errors"

// ErrorKind classifies why a set of loan parameters was rejected.
type ErrorKind string

const (
	KindInvalidPrincipal ErrorKind = "invalid_principal"
	KindInvalidRate      ErrorKind = "invalid_rate"
	KindInvalidTerm      ErrorKind = "invalid_term"
)

const (
	msgInvalidPrincipal = "Principal must be positive"
	msgInvalidRate      = "Interest rate cannot be negative"
	msgInvalidTerm      = "Term must be at least one year"
)

// Sentinel errors, one per kind. Match with errors.Is; NewLoan never returns
// these values themselves, so changing them does not affect its messages.
var (
	ErrInvalidPrincipal = &LoanError{Kind: KindInvalidPrincipal, Msg: msgInvalidPrincipal}
	ErrInvalidRate      = &LoanError{Kind: KindInvalidRate, Msg: msgInvalidRate}
	ErrInvalidTerm      = &LoanError{Kind: KindInvalidTerm, Msg: msgInvalidTerm}
)

// LoanError is returned by NewLoan when a parameter is out of range.
// Msg is user facing and stable.
type LoanError struct {
	Kind ErrorKind
	Msg  string
}

func (e *LoanError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Msg
}

// Is reports whether target is a *LoanError of the same kind.
func (e *LoanError) Is(target error) bool {
	t, ok := target.(*LoanError)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind
}

// IsKind lets callers classify errors without comparing messages.
func IsKind(err error, kind ErrorKind) bool {
	var le *LoanError
	if errors.As(err, &le) {
		return le.Kind == kind
	}
	return false
}
