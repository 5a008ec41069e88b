package fixture

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/danmuck/parsecgen/internal/codec"
	"github.com/danmuck/parsecgen/internal/protocol"
	"github.com/danmuck/parsecgen/internal/protocol/frame"
	"github.com/danmuck/parsecgen/internal/protocol/status"
)

// Fixed header values used by every fixture frame.
const (
	RequestProvider  = protocol.ProviderCore
	ResponseProvider = protocol.ProviderMbedCrypto
)

// Builder frames operation and result values into wire bytes.
type Builder struct {
	codecs *codec.Registry
	limits frame.Limits
}

func NewBuilder(codecs *codec.Registry) *Builder {
	return &Builder{codecs: codecs, limits: frame.DefaultLimits()}
}

// Codecs exposes the registry the builder encodes with.
func (b *Builder) Codecs() *codec.Registry {
	return b.codecs
}

// BuildRequest returns the full request frame for v with an empty auth section.
func (b *Builder) BuildRequest(op protocol.Opcode, v codec.Operation) ([]byte, error) {
	payload, err := b.codecs.EncodeOperation(op, v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	err = frame.WriteRequest(&buf, frame.Request{
		Header: frame.RequestHeader{
			Provider:    RequestProvider,
			ContentType: protocol.BodyProtobuf,
			AcceptType:  protocol.BodyProtobuf,
			AuthType:    protocol.AuthNoAuth,
			Opcode:      op,
		},
		Body: payload,
	}, b.limits)
	if err != nil {
		return nil, fmt.Errorf("frame %s request: %w", op, err)
	}
	return buf.Bytes(), nil
}

// BuildResponse returns the full response frame. A nil result yields an
// empty body.
func (b *Builder) BuildResponse(op protocol.Opcode, v codec.Result, st status.Status) ([]byte, error) {
	payload, err := b.codecs.EncodeResult(op, v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	err = frame.WriteResponse(&buf, frame.Response{
		Header: frame.ResponseHeader{
			Provider:    ResponseProvider,
			ContentType: protocol.BodyProtobuf,
			Opcode:      op,
			Status:      st,
		},
		Body: payload,
	}, b.limits)
	if err != nil {
		return nil, fmt.Errorf("frame %s response: %w", op, err)
	}
	return buf.Bytes(), nil
}

// Case frames a scenario into a golden case.
func (b *Builder) Case(s Scenario) (Case, error) {
	if strings.TrimSpace(s.Name) == "" {
		return Case{}, &InvariantError{Reason: "name is empty"}
	}
	if s.Operation == nil {
		return Case{}, &InvariantError{Case: s.Name, Reason: "operation is nil"}
	}
	op := s.Operation.Opcode()
	entry, ok := b.codecs.Lookup(op)
	if !ok {
		return Case{}, fmt.Errorf("case %q: %w: %s", s.Name, codec.ErrUnknownOpcode, op)
	}
	if !s.Status.Valid() {
		return Case{}, fmt.Errorf("case %q: %w: %d", s.Name, status.ErrUnknownStatus, uint16(s.Status))
	}

	expected := s.ExpectedResponse
	if s.Status.Success() {
		if s.Result == nil {
			return Case{}, &InvariantError{Case: s.Name, Reason: "success status requires a result"}
		}
		if expected == nil {
			return Case{}, &InvariantError{Case: s.Name, Reason: "success status requires an expected response"}
		}
	} else {
		if s.Result != nil {
			return Case{}, &InvariantError{Case: s.Name, Reason: fmt.Sprintf("status %q must not carry a result", s.Status)}
		}
		if s.ExpectSuccess {
			return Case{}, &InvariantError{Case: s.Name, Reason: fmt.Sprintf("status %q cannot expect success", s.Status)}
		}
		if expected == nil {
			expected = entry.Shape.Empty()
		}
		if !entry.Shape.IsEmpty(expected) {
			return Case{}, &InvariantError{Case: s.Name, Reason: fmt.Sprintf("failing case must expect an empty %s", entry.Shape)}
		}
	}

	req, err := b.BuildRequest(op, s.Operation)
	if err != nil {
		return Case{}, fmt.Errorf("case %q: %w", s.Name, err)
	}
	resp, err := b.BuildResponse(op, s.Result, s.Status)
	if err != nil {
		return Case{}, fmt.Errorf("case %q: %w", s.Name, err)
	}

	requestData := s.RequestData
	if requestData == nil {
		requestData = map[string]any{}
	}
	return Case{
		Name:                  s.Name,
		RequestData:           requestData,
		ExpectedRequestBinary: base64.StdEncoding.EncodeToString(req),
		ResponseBinary:        base64.StdEncoding.EncodeToString(resp),
		ExpectedResponse:      expected,
		ExpectSuccess:         s.ExpectSuccess,
	}, nil
}
