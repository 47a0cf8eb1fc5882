package handler

const (
	// RootPath is the root path the route group.
	RootPath = "/"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"

	// ErrMsgInvalidBody is returned when a request payload cannot be parsed.
	ErrMsgInvalidBody = "Invalid request body"
	// ErrMsgInvalidID is returned when the provided id parameter is invalid or non-positive.
	ErrMsgInvalidID = "Invalid id"
	// ErrMsgInternal is the generic message for unexpected failures.
	ErrMsgInternal = "Internal Server Error"
)
