package sparsebitset

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Deserialize, following
// chronos-tachyon-go-peggy/peggyvm's style of package-level errors.New
// values rather than ad-hoc fmt.Errorf strings at each call site.
var (
	ErrTruncated          = errors.New("sparsebitset: truncated input")
	ErrBadMagic           = errors.New("sparsebitset: bad magic")
	ErrUnsupportedVersion = errors.New("sparsebitset: unsupported version")
	ErrReservedFlags      = errors.New("sparsebitset: non-zero reserved flags")
	ErrVarintOverflow     = errors.New("sparsebitset: varint overflow")
	ErrUnknownVariant     = errors.New("sparsebitset: unknown chunk variant tag")
	ErrPayloadOverrun     = errors.New("sparsebitset: chunk payload exceeds buffer")
)

// DecodeError reports a deserialization failure along with the byte offset
// at which it was detected, mirroring peggyvm.DisassembleError's shape for
// reporting "corrupt or hostile" input.
type DecodeError struct {
	Err    error
	Offset int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("github.com/chronos-tachyon/sparsebitset: decode error @ offset %d: %v", e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
