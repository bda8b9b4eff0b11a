package errs

// ErrorKind identifies a kind of internal error.
// fully support for errors.Is and errors.As.
type ErrorKind string

const (
	// NotFound is returned when a requested item is not found.
	NotFound           = ErrorKind("Not Found")
	InvalidArgument    = ErrorKind("Invalid Argument")
	Unsupported        = ErrorKind("Unsupported")
	InternalError      = ErrorKind("Internal Error")
	SomethingWentWrong = ErrorKind("Something Went Wrong")
	Timeout            = ErrorKind("Timeout")

	// PreconditionFailed is returned when an explicit check (wallet, sale window, balance) fails.
	PreconditionFailed = ErrorKind("Precondition Failed")

	// Transport is returned when a remote collaborator can't be reached or didn't answer in time.
	Transport = ErrorKind("Remote Transport Error")

	// Rejected is returned when a remote collaborator answered but refused the request (e.g. contract revert).
	Rejected = ErrorKind("Remote Rejection")

	// Inconsistent is returned when remote data violates an invariant (e.g. minted supply above max supply).
	Inconsistent = ErrorKind("Data Inconsistency")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}
