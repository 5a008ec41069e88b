package operations

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/danmuck/parsecgen/internal/operations/psa"
	"github.com/danmuck/parsecgen/internal/protocol"
	"github.com/danmuck/parsecgen/internal/protocol/body"
)

type PingOperation struct{ empty }

func (PingOperation) Opcode() protocol.Opcode { return protocol.OpPing }

func unmarshalPingOperation(body.Fields) (PingOperation, error) { return PingOperation{}, nil }

// PingResult reports the wire protocol version the service speaks.
type PingResult struct {
	VersionMajor uint8
	VersionMinor uint8
}

func (PingResult) Opcode() protocol.Opcode { return protocol.OpPing }

func (r PingResult) MarshalBody() ([]byte, error) {
	var e body.Encoder
	e.Uint32(1, uint32(r.VersionMajor))
	e.Uint32(2, uint32(r.VersionMinor))
	return e.Payload(), nil
}

func unmarshalPingResult(fs body.Fields) (PingResult, error) {
	major, err := fs.Uint32(1)
	if err != nil {
		return PingResult{}, err
	}
	minor, err := fs.Uint32(2)
	if err != nil {
		return PingResult{}, err
	}
	if major > 0xff || minor > 0xff {
		return PingResult{}, fmt.Errorf("%w: version %d.%d", protocol.ErrInvalidLength, major, minor)
	}
	return PingResult{VersionMajor: uint8(major), VersionMinor: uint8(minor)}, nil
}

type ListProvidersOperation struct{ empty }

func (ListProvidersOperation) Opcode() protocol.Opcode { return protocol.OpListProviders }

func unmarshalListProvidersOperation(body.Fields) (ListProvidersOperation, error) {
	return ListProvidersOperation{}, nil
}

// ProviderInfo describes one provider. UUID travels as lower-case
// hyphenated text.
type ProviderInfo struct {
	UUID        uuid.UUID
	Description string
	Vendor      string
	VersionMaj  uint32
	VersionMin  uint32
	VersionRev  uint32
	ID          protocol.ProviderID
}

func (p ProviderInfo) marshal() []byte {
	var e body.Encoder
	if p.UUID != uuid.Nil {
		e.String(1, p.UUID.String())
	}
	e.String(2, p.Description)
	e.String(3, p.Vendor)
	e.Uint32(4, p.VersionMaj)
	e.Uint32(5, p.VersionMin)
	e.Uint32(6, p.VersionRev)
	e.Uint32(7, uint32(p.ID))
	return e.Payload()
}

func unmarshalProviderInfo(fs body.Fields) (ProviderInfo, error) {
	var p ProviderInfo
	raw, err := fs.String(1)
	if err != nil {
		return ProviderInfo{}, err
	}
	if raw != "" {
		if p.UUID, err = uuid.Parse(raw); err != nil {
			return ProviderInfo{}, fmt.Errorf("provider uuid: %w", err)
		}
	}
	if p.Description, err = fs.String(2); err != nil {
		return ProviderInfo{}, err
	}
	if p.Vendor, err = fs.String(3); err != nil {
		return ProviderInfo{}, err
	}
	if p.VersionMaj, err = fs.Uint32(4); err != nil {
		return ProviderInfo{}, err
	}
	if p.VersionMin, err = fs.Uint32(5); err != nil {
		return ProviderInfo{}, err
	}
	if p.VersionRev, err = fs.Uint32(6); err != nil {
		return ProviderInfo{}, err
	}
	id, err := fs.Uint32(7)
	if err != nil {
		return ProviderInfo{}, err
	}
	p.ID = protocol.ProviderID(id)
	return p, nil
}

type ListProvidersResult struct {
	Providers []ProviderInfo
}

func (ListProvidersResult) Opcode() protocol.Opcode { return protocol.OpListProviders }

func (r ListProvidersResult) MarshalBody() ([]byte, error) {
	var e body.Encoder
	for _, p := range r.Providers {
		e.Message(1, p.marshal())
	}
	return e.Payload(), nil
}

func unmarshalListProvidersResult(fs body.Fields) (ListProvidersResult, error) {
	msgs, err := fs.Messages(1)
	if err != nil {
		return ListProvidersResult{}, err
	}
	var out ListProvidersResult
	for _, m := range msgs {
		p, err := unmarshalProviderInfo(m)
		if err != nil {
			return ListProvidersResult{}, err
		}
		out.Providers = append(out.Providers, p)
	}
	return out, nil
}

// ListOpcodesOperation asks which opcodes a provider supports.
type ListOpcodesOperation struct {
	ProviderID protocol.ProviderID
}

func (ListOpcodesOperation) Opcode() protocol.Opcode { return protocol.OpListOpcodes }

func (o ListOpcodesOperation) MarshalBody() ([]byte, error) {
	var e body.Encoder
	e.Uint32(1, uint32(o.ProviderID))
	return e.Payload(), nil
}

func unmarshalListOpcodesOperation(fs body.Fields) (ListOpcodesOperation, error) {
	id, err := fs.Uint32(1)
	if err != nil {
		return ListOpcodesOperation{}, err
	}
	return ListOpcodesOperation{ProviderID: protocol.ProviderID(id)}, nil
}

type ListOpcodesResult struct {
	Opcodes []protocol.Opcode
}

func (ListOpcodesResult) Opcode() protocol.Opcode { return protocol.OpListOpcodes }

func (r ListOpcodesResult) MarshalBody() ([]byte, error) {
	codes := make([]uint32, len(r.Opcodes))
	for i, op := range r.Opcodes {
		codes[i] = uint32(op)
	}
	var e body.Encoder
	e.PackedUint32(1, codes)
	return e.Payload(), nil
}

func unmarshalListOpcodesResult(fs body.Fields) (ListOpcodesResult, error) {
	codes, err := fs.PackedUint32(1)
	if err != nil {
		return ListOpcodesResult{}, err
	}
	var out ListOpcodesResult
	for _, c := range codes {
		out.Opcodes = append(out.Opcodes, protocol.Opcode(c))
	}
	return out, nil
}

type ListAuthenticatorsOperation struct{ empty }

func (ListAuthenticatorsOperation) Opcode() protocol.Opcode { return protocol.OpListAuthenticators }

func unmarshalListAuthenticatorsOperation(body.Fields) (ListAuthenticatorsOperation, error) {
	return ListAuthenticatorsOperation{}, nil
}

type AuthenticatorInfo struct {
	Description string
	VersionMaj  uint32
	VersionMin  uint32
	VersionRev  uint32
	ID          protocol.AuthType
}

func (a AuthenticatorInfo) marshal() []byte {
	var e body.Encoder
	e.String(1, a.Description)
	e.Uint32(2, a.VersionMaj)
	e.Uint32(3, a.VersionMin)
	e.Uint32(4, a.VersionRev)
	e.Uint32(5, uint32(a.ID))
	return e.Payload()
}

func unmarshalAuthenticatorInfo(fs body.Fields) (AuthenticatorInfo, error) {
	var a AuthenticatorInfo
	var err error
	if a.Description, err = fs.String(1); err != nil {
		return AuthenticatorInfo{}, err
	}
	if a.VersionMaj, err = fs.Uint32(2); err != nil {
		return AuthenticatorInfo{}, err
	}
	if a.VersionMin, err = fs.Uint32(3); err != nil {
		return AuthenticatorInfo{}, err
	}
	if a.VersionRev, err = fs.Uint32(4); err != nil {
		return AuthenticatorInfo{}, err
	}
	id, err := fs.Uint32(5)
	if err != nil {
		return AuthenticatorInfo{}, err
	}
	a.ID = protocol.AuthType(id)
	return a, nil
}

type ListAuthenticatorsResult struct {
	Authenticators []AuthenticatorInfo
}

func (ListAuthenticatorsResult) Opcode() protocol.Opcode { return protocol.OpListAuthenticators }

func (r ListAuthenticatorsResult) MarshalBody() ([]byte, error) {
	var e body.Encoder
	for _, a := range r.Authenticators {
		e.Message(1, a.marshal())
	}
	return e.Payload(), nil
}

func unmarshalListAuthenticatorsResult(fs body.Fields) (ListAuthenticatorsResult, error) {
	msgs, err := fs.Messages(1)
	if err != nil {
		return ListAuthenticatorsResult{}, err
	}
	var out ListAuthenticatorsResult
	for _, m := range msgs {
		a, err := unmarshalAuthenticatorInfo(m)
		if err != nil {
			return ListAuthenticatorsResult{}, err
		}
		out.Authenticators = append(out.Authenticators, a)
	}
	return out, nil
}

type ListKeysOperation struct{ empty }

func (ListKeysOperation) Opcode() protocol.Opcode { return protocol.OpListKeys }

func unmarshalListKeysOperation(body.Fields) (ListKeysOperation, error) {
	return ListKeysOperation{}, nil
}

type KeyInfo struct {
	ProviderID protocol.ProviderID
	Name       string
	Attributes psa.KeyAttributes
}

func (k KeyInfo) marshal() ([]byte, error) {
	attrs, err := k.Attributes.Marshal()
	if err != nil {
		return nil, fmt.Errorf("key %q: %w", k.Name, err)
	}
	var e body.Encoder
	e.Uint32(1, uint32(k.ProviderID))
	e.String(2, k.Name)
	e.Message(3, attrs)
	return e.Payload(), nil
}

func unmarshalKeyInfo(fs body.Fields) (KeyInfo, error) {
	var k KeyInfo
	id, err := fs.Uint32(1)
	if err != nil {
		return KeyInfo{}, err
	}
	k.ProviderID = protocol.ProviderID(id)
	if k.Name, err = fs.String(2); err != nil {
		return KeyInfo{}, err
	}
	attrs, _, err := fs.Message(3)
	if err != nil {
		return KeyInfo{}, err
	}
	if k.Attributes, err = psa.UnmarshalKeyAttributes(attrs); err != nil {
		return KeyInfo{}, fmt.Errorf("key %q: %w", k.Name, err)
	}
	return k, nil
}

type ListKeysResult struct {
	Keys []KeyInfo
}

func (ListKeysResult) Opcode() protocol.Opcode { return protocol.OpListKeys }

func (r ListKeysResult) MarshalBody() ([]byte, error) {
	var e body.Encoder
	for _, k := range r.Keys {
		b, err := k.marshal()
		if err != nil {
			return nil, err
		}
		e.Message(1, b)
	}
	return e.Payload(), nil
}

func unmarshalListKeysResult(fs body.Fields) (ListKeysResult, error) {
	msgs, err := fs.Messages(1)
	if err != nil {
		return ListKeysResult{}, err
	}
	var out ListKeysResult
	for _, m := range msgs {
		k, err := unmarshalKeyInfo(m)
		if err != nil {
			return ListKeysResult{}, err
		}
		out.Keys = append(out.Keys, k)
	}
	return out, nil
}

type ListClientsOperation struct{ empty }

func (ListClientsOperation) Opcode() protocol.Opcode { return protocol.OpListClients }

func unmarshalListClientsOperation(body.Fields) (ListClientsOperation, error) {
	return ListClientsOperation{}, nil
}

type ListClientsResult struct {
	Clients []string
}

func (ListClientsResult) Opcode() protocol.Opcode { return protocol.OpListClients }

func (r ListClientsResult) MarshalBody() ([]byte, error) {
	var e body.Encoder
	e.Strings(1, r.Clients)
	return e.Payload(), nil
}

func unmarshalListClientsResult(fs body.Fields) (ListClientsResult, error) {
	clients, err := fs.Strings(1)
	if err != nil {
		return ListClientsResult{}, err
	}
	return ListClientsResult{Clients: clients}, nil
}

// DeleteClientOperation is an admin operation removing every key a client owns.
type DeleteClientOperation struct {
	Client string
}

func (DeleteClientOperation) Opcode() protocol.Opcode { return protocol.OpDeleteClient }

func (o DeleteClientOperation) MarshalBody() ([]byte, error) {
	var e body.Encoder
	e.String(1, o.Client)
	return e.Payload(), nil
}

func unmarshalDeleteClientOperation(fs body.Fields) (DeleteClientOperation, error) {
	client, err := fs.String(1)
	if err != nil {
		return DeleteClientOperation{}, err
	}
	return DeleteClientOperation{Client: client}, nil
}

type DeleteClientResult struct{ empty }

func (DeleteClientResult) Opcode() protocol.Opcode { return protocol.OpDeleteClient }

func unmarshalDeleteClientResult(body.Fields) (DeleteClientResult, error) {
	return DeleteClientResult{}, nil
}
