package status

import (
	"errors"
	"fmt"
)

var ErrUnknownStatus = errors.New("status: unknown status")

// Status is the outcome carried in a response header.
type Status uint16

// Service status codes.
const (
	Success                         Status = 0
	WrongProviderID                 Status = 1
	ContentTypeNotSupported         Status = 2
	AcceptTypeNotSupported          Status = 3
	WireProtocolVersionNotSupported Status = 4
	ProviderNotRegistered           Status = 5
	ProviderDoesNotExist            Status = 6
	DeserializingBodyFailed         Status = 7
	SerializingBodyFailed           Status = 8
	OpcodeDoesNotExist              Status = 9
	ResponseTooLarge                Status = 10
	AuthenticationError             Status = 11
	AuthenticatorDoesNotExist       Status = 12
	AuthenticatorNotRegistered      Status = 13
	KeyInfoManagerError             Status = 14
	ConnectionError                 Status = 15
	InvalidEncoding                 Status = 16
	InvalidHeader                   Status = 17
	WrongProviderUUID               Status = 18
	NotAuthenticated                Status = 19
	BodySizeExceedsLimit            Status = 20
	AdminOperation                  Status = 21
)

// PSA status codes.
const (
	PsaErrorGenericError         Status = 1132
	PsaErrorNotPermitted         Status = 1133
	PsaErrorNotSupported         Status = 1134
	PsaErrorInvalidArgument      Status = 1135
	PsaErrorInvalidHandle        Status = 1136
	PsaErrorBadState             Status = 1137
	PsaErrorBufferTooSmall       Status = 1138
	PsaErrorAlreadyExists        Status = 1139
	PsaErrorDoesNotExist         Status = 1140
	PsaErrorInsufficientMemory   Status = 1141
	PsaErrorInsufficientStorage  Status = 1142
	PsaErrorInsufficientData     Status = 1143
	PsaErrorCommunicationFailure Status = 1145
	PsaErrorStorageFailure       Status = 1146
	PsaErrorHardwareFailure      Status = 1147
	PsaErrorInsufficientEntropy  Status = 1148
	PsaErrorInvalidSignature     Status = 1149
	PsaErrorInvalidPadding       Status = 1150
	PsaErrorCorruptionDetected   Status = 1151
	PsaErrorDataCorrupt          Status = 1152
)

var descriptions = map[Status]string{
	Success:                         "success",
	WrongProviderID:                 "wrong provider id",
	ContentTypeNotSupported:         "content type not supported",
	AcceptTypeNotSupported:          "accept type not supported",
	WireProtocolVersionNotSupported: "requested version is not supported by the backend",
	ProviderNotRegistered:           "provider not registered",
	ProviderDoesNotExist:            "provider does not exist",
	DeserializingBodyFailed:         "deserializing body failed",
	SerializingBodyFailed:           "serializing body failed",
	OpcodeDoesNotExist:              "opcode does not exist",
	ResponseTooLarge:                "response too large",
	AuthenticationError:             "authentication error",
	AuthenticatorDoesNotExist:       "authenticator does not exist",
	AuthenticatorNotRegistered:      "authenticator not registered",
	KeyInfoManagerError:             "internal error in the key info manager",
	ConnectionError:                 "generic input/output error",
	InvalidEncoding:                 "invalid value for this data type",
	InvalidHeader:                   "constant fields in header are invalid",
	WrongProviderUUID:               "the uuid vector needs to only contain 16 bytes",
	NotAuthenticated:                "request did not provide a required authentication",
	BodySizeExceedsLimit:            "request length specified in the header is above defined limit",
	AdminOperation:                  "the operation requires admin privilege",

	PsaErrorGenericError:         "generic error",
	PsaErrorNotPermitted:         "not permitted",
	PsaErrorNotSupported:         "not supported",
	PsaErrorInvalidArgument:      "invalid argument",
	PsaErrorInvalidHandle:        "invalid handle",
	PsaErrorBadState:             "bad state",
	PsaErrorBufferTooSmall:       "buffer too small",
	PsaErrorAlreadyExists:        "already exists",
	PsaErrorDoesNotExist:         "does not exist",
	PsaErrorInsufficientMemory:   "insufficient memory",
	PsaErrorInsufficientStorage:  "insufficient storage",
	PsaErrorInsufficientData:     "insufficient data",
	PsaErrorCommunicationFailure: "communication failure",
	PsaErrorStorageFailure:       "storage failure",
	PsaErrorHardwareFailure:      "hardware failure",
	PsaErrorInsufficientEntropy:  "insufficient entropy",
	PsaErrorInvalidSignature:     "invalid signature",
	PsaErrorInvalidPadding:       "invalid padding",
	PsaErrorCorruptionDetected:   "tampering detected",
	PsaErrorDataCorrupt:          "stored data has been corrupted",
}

// Valid reports whether s belongs to the closed status set.
func (s Status) Valid() bool {
	_, ok := descriptions[s]
	return ok
}

// Success reports whether s is the success outcome.
func (s Status) Success() bool {
	return s == Success
}

func (s Status) String() string {
	if d, ok := descriptions[s]; ok {
		return d
	}
	return fmt.Sprintf("status(%d)", uint16(s))
}

// Err returns nil for Success and a descriptive error for every failure category.
func (s Status) Err() error {
	if s == Success {
		return nil
	}
	if !s.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownStatus, uint16(s))
	}
	return &Error{Status: s}
}

// Error is the client-facing error for a failing response status.
type Error struct {
	Status Status
}

func (e *Error) Error() string {
	return fmt.Sprintf("status %d: %s", uint16(e.Status), e.Status.String())
}

// Encode maps s to its header code. The mapping is total over the closed set.
func Encode(s Status) (uint16, error) {
	if !s.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownStatus, uint16(s))
	}
	return uint16(s), nil
}

// Decode maps a header code back to its status.
func Decode(code uint16) (Status, error) {
	s := Status(code)
	if !s.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownStatus, code)
	}
	return s, nil
}

// All returns every status in ascending code order.
func All() []Status {
	out := make([]Status, 0, len(descriptions))
	for s := Success; s <= AdminOperation; s++ {
		out = append(out, s)
	}
	for s := PsaErrorGenericError; s <= PsaErrorDataCorrupt; s++ {
		if s.Valid() {
			out = append(out, s)
		}
	}
	return out
}
