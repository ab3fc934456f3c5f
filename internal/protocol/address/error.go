package address

// ErrorKind identifies a kind of error. It has full support for errors.Is
// and errors.As, so the caller can directly check against an error kind
// when determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrBase58 is returned when the text is not valid base58.
	ErrBase58 = ErrorKind("ErrBase58")

	// ErrLength is returned when the decoded payload is not 40 bytes.
	ErrLength = ErrorKind("ErrLength")

	// ErrChecksum is returned when the trailing four bytes do not match the
	// double SHA-256 of the payload.
	ErrChecksum = ErrorKind("ErrChecksum")

	// ErrVersion is returned when any of the three version bytes is wrong.
	ErrVersion = ErrorKind("ErrVersion")

	// ErrParity is returned when the parity byte is neither 0 nor 1.
	ErrParity = ErrorKind("ErrParity")

	// ErrCoordinate is returned when the x coordinate is not below p.
	ErrCoordinate = ErrorKind("ErrCoordinate")

	// ErrNotOnCurve is returned when no curve point has the x coordinate.
	ErrNotOnCurve = ErrorKind("ErrNotOnCurve")

	// ErrIdentity is returned when encoding the point at infinity.
	ErrIdentity = ErrorKind("ErrIdentity")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies an address error. It has full support for errors.Is and
// errors.As.
type Error struct {
	Err         error
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e Error) Unwrap() error {
	return e.Err
}

func addressError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}
