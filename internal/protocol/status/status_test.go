package status

import (
	"errors"
	"testing"
)

func TestEncodeIsInjectiveOverClosedSet(t *testing.T) {
	seen := make(map[uint16]Status)
	for _, s := range All() {
		code, err := Encode(s)
		if err != nil {
			t.Fatalf("encode %v: %v", s, err)
		}
		if prev, ok := seen[code]; ok {
			t.Fatalf("code %d shared by %v and %v", code, prev, s)
		}
		seen[code] = s
		back, err := Decode(code)
		if err != nil || back != s {
			t.Fatalf("decode %d: got=%v err=%v", code, back, err)
		}
	}
	if len(seen) != 42 {
		t.Fatalf("expected 42 statuses, got %d", len(seen))
	}
}

func TestEncodeRejectsUnknown(t *testing.T) {
	for _, s := range []Status{22, 1131, 1144, 1153} {
		if _, err := Encode(s); !errors.Is(err, ErrUnknownStatus) {
			t.Fatalf("expected ErrUnknownStatus for %d, got %v", s, err)
		}
	}
	if _, err := Decode(999); !errors.Is(err, ErrUnknownStatus) {
		t.Fatalf("expected ErrUnknownStatus, got %v", err)
	}
}

func TestErrOnlyForFailures(t *testing.T) {
	if err := Success.Err(); err != nil {
		t.Fatalf("success should not error: %v", err)
	}
	err := PsaErrorNotSupported.Err()
	var statusErr *Error
	if !errors.As(err, &statusErr) || statusErr.Status != PsaErrorNotSupported {
		t.Fatalf("expected *Error for not supported, got %v", err)
	}
	if PsaErrorNotSupported.Success() {
		t.Fatalf("not supported must not be success")
	}
}

func TestWireValues(t *testing.T) {
	if uint16(AuthenticationError) != 11 {
		t.Fatalf("AuthenticationError must be 11, got %d", AuthenticationError)
	}
	if uint16(PsaErrorNotSupported) != 1134 {
		t.Fatalf("PsaErrorNotSupported must be 1134, got %d", PsaErrorNotSupported)
	}
	if uint16(WrongProviderID) != 1 {
		t.Fatalf("WrongProviderID must be 1, got %d", WrongProviderID)
	}
}
