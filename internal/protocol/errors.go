package protocol

import "errors"

var (
	ErrInvalidMagic       = errors.New("protocol: invalid magic")
	ErrUnsupportedVersion = errors.New("protocol: unsupported version")
	ErrInvalidHeaderLen   = errors.New("protocol: invalid header length")
	ErrReservedNotZero    = errors.New("protocol: reserved header bytes not zero")
	ErrBodyTooLarge       = errors.New("protocol: body too large")
	ErrAuthTooLarge       = errors.New("protocol: auth block too large")
	ErrTruncated          = errors.New("protocol: truncated data")
	ErrInvalidLength      = errors.New("protocol: invalid length")
	ErrFieldTypeMismatch  = errors.New("protocol: field type mismatch")
	ErrUnknownOpcode      = errors.New("protocol: unknown opcode")
)
