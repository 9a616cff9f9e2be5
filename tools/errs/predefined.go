package errs

// Engine error codes. Codes are stable across the wire; messages are not.
const (
	CodeInvalidArgument = 1400
	CodeUnauthorized    = 1401
	CodeForbidden       = 1403
	CodeNotFound        = 1404
	CodeInvalidState    = 1409
	CodeInternal        = 1500
	CodeTokenExpired    = 1501
)

var (
	ErrInvalidArgument = NewCodeError(CodeInvalidArgument, "invalid argument")
	ErrUnauthorized    = NewCodeError(CodeUnauthorized, "unauthorized")
	ErrForbidden       = NewCodeError(CodeForbidden, "forbidden")
	ErrNotFound        = NewCodeError(CodeNotFound, "not found")
	ErrInvalidState    = NewCodeError(CodeInvalidState, "invalid state")
	ErrInternal        = NewCodeError(CodeInternal, "internal error")
	ErrTokenExpired    = NewCodeError(CodeTokenExpired, "token expired")
)
