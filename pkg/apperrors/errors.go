package apperrors

import "errors"

var (
	ErrUnknownTable       = errors.New("unknown table")
	ErrUnresolvedTemplate = errors.New("sql template contains unresolved placeholder")
	ErrInjectionDetected  = errors.New("sql injection pattern detected in value")
	ErrMultipleStatements = errors.New("multiple SQL statements not allowed; only single statements are permitted")
)
