package fixture

import (
	"errors"
	"fmt"
	"strings"

	"github.com/danmuck/parsecgen/internal/codec"
	"github.com/danmuck/parsecgen/internal/protocol"
	"github.com/danmuck/parsecgen/internal/protocol/status"
)

var (
	ErrInvariant       = errors.New("fixture: invariant violated")
	ErrDuplicateCase   = errors.New("fixture: duplicate case name")
	ErrEmptySuite      = errors.New("fixture: suite has no cases")
	ErrIncompleteSuite = errors.New("fixture: suite lacks a success or failure case")
)

// Case is one golden test vector. Field order is the artifact field order.
type Case struct {
	Name                  string `json:"name"`
	RequestData           any    `json:"request_data"`
	ExpectedRequestBinary string `json:"expected_request_binary"`
	ResponseBinary        string `json:"response_binary"`
	ExpectedResponse      any    `json:"expected_response"`
	ExpectSuccess         bool   `json:"expect_success"`
}

// Suite is the artifact for one opcode.
type Suite struct {
	OpCode protocol.Opcode `json:"op_code"`
	Tests  []Case          `json:"tests"`
}

// Scenario describes a case before framing. A nil Result marks a response
// without body and is required for failing statuses.
type Scenario struct {
	Name             string
	Operation        codec.Operation
	RequestData      any
	Status           status.Status
	Result           codec.Result
	ExpectedResponse any
	ExpectSuccess    bool
}

// InvariantError reports a scenario that cannot become a consistent case.
type InvariantError struct {
	Case   string
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%v: case %q: %s", ErrInvariant, e.Case, e.Reason)
}

func (e *InvariantError) Unwrap() error {
	return ErrInvariant
}

// DuplicateCaseError names the case that appears twice in a suite.
type DuplicateCaseError struct {
	OpCode protocol.Opcode
	Name   string
}

func (e *DuplicateCaseError) Error() string {
	return fmt.Sprintf("%v: %s: %q", ErrDuplicateCase, e.OpCode, e.Name)
}

func (e *DuplicateCaseError) Unwrap() error {
	return ErrDuplicateCase
}

// NewSuite assembles cases for op, preserving their order.
func NewSuite(op protocol.Opcode, cases ...Case) (Suite, error) {
	if len(cases) == 0 {
		return Suite{}, fmt.Errorf("%w: %s", ErrEmptySuite, op)
	}
	seen := make(map[string]struct{}, len(cases))
	for _, c := range cases {
		name := strings.TrimSpace(c.Name)
		if _, ok := seen[name]; ok {
			return Suite{}, &DuplicateCaseError{OpCode: op, Name: c.Name}
		}
		seen[name] = struct{}{}
	}
	tests := make([]Case, len(cases))
	copy(tests, cases)
	return Suite{OpCode: op, Tests: tests}, nil
}

// CheckCoverage requires at least one success and one failure case.
func (s Suite) CheckCoverage() error {
	var success, failure bool
	for _, c := range s.Tests {
		if c.ExpectSuccess {
			success = true
		} else {
			failure = true
		}
	}
	if !success || !failure {
		return fmt.Errorf("%w: %s (success=%t failure=%t)", ErrIncompleteSuite, s.OpCode, success, failure)
	}
	return nil
}
