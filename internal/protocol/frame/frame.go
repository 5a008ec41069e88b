package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/danmuck/parsecgen/internal/protocol"
	"github.com/danmuck/parsecgen/internal/protocol/status"
)

// RequestHeader is the non-body metadata of a request frame.
type RequestHeader struct {
	Provider    protocol.ProviderID
	Session     uint64
	ContentType protocol.BodyType
	AcceptType  protocol.BodyType
	AuthType    protocol.AuthType
	Opcode      protocol.Opcode
}

// ResponseHeader is the non-body metadata of a response frame.
type ResponseHeader struct {
	Provider    protocol.ProviderID
	Session     uint64
	ContentType protocol.BodyType
	Opcode      protocol.Opcode
	Status      status.Status
}

// Request is one complete request: header, body and auth payload.
type Request struct {
	Header RequestHeader
	Body   []byte
	Auth   []byte
}

// Response is one complete response: header and body.
type Response struct {
	Header ResponseHeader
	Body   []byte
}

// Limits constrains frame decode/encode memory use.
type Limits struct {
	MaxAuthBytes uint32
	MaxBodyBytes uint32
}

func DefaultLimits() Limits {
	return Limits{
		MaxAuthBytes: 64 * 1024,
		MaxBodyBytes: 1 << 20,
	}
}

// rawHeader mirrors the fixed 36-byte wire header field for field.
type rawHeader struct {
	Magic        uint32
	HeaderSize   uint16
	VersionMajor uint8
	VersionMinor uint8
	Flags        uint16
	Provider     uint8
	Session      uint64
	ContentType  uint8
	AcceptType   uint8
	AuthType     uint8
	BodyLen      uint32
	AuthLen      uint16
	Opcode       uint32
	Status       uint16
	Reserved1    uint8
	Reserved2    uint8
}

func WriteRequest(w io.Writer, req Request, limits Limits) error {
	if err := checkLimits(len(req.Body), len(req.Auth), limits); err != nil {
		return err
	}
	if len(req.Auth) > int(^uint16(0)) {
		return protocol.ErrAuthTooLarge
	}
	h := rawHeader{
		Provider:    uint8(req.Header.Provider),
		Session:     req.Header.Session,
		ContentType: uint8(req.Header.ContentType),
		AcceptType:  uint8(req.Header.AcceptType),
		AuthType:    uint8(req.Header.AuthType),
		BodyLen:     uint32(len(req.Body)),
		AuthLen:     uint16(len(req.Auth)),
		Opcode:      uint32(req.Header.Opcode),
	}
	if _, err := w.Write(encodeHeader(h)); err != nil {
		return err
	}
	if len(req.Body) > 0 {
		if _, err := w.Write(req.Body); err != nil {
			return err
		}
	}
	if len(req.Auth) > 0 {
		if _, err := w.Write(req.Auth); err != nil {
			return err
		}
	}
	return nil
}

func WriteResponse(w io.Writer, resp Response, limits Limits) error {
	if err := checkLimits(len(resp.Body), 0, limits); err != nil {
		return err
	}
	code, err := status.Encode(resp.Header.Status)
	if err != nil {
		return err
	}
	h := rawHeader{
		Provider:    uint8(resp.Header.Provider),
		Session:     resp.Header.Session,
		ContentType: uint8(resp.Header.ContentType),
		BodyLen:     uint32(len(resp.Body)),
		Opcode:      uint32(resp.Header.Opcode),
		Status:      code,
	}
	if _, err := w.Write(encodeHeader(h)); err != nil {
		return err
	}
	if len(resp.Body) > 0 {
		if _, err := w.Write(resp.Body); err != nil {
			return err
		}
	}
	return nil
}

func ReadRequest(r io.Reader, limits Limits) (Request, error) {
	h, err := readHeader(r)
	if err != nil {
		return Request{}, err
	}
	if err := checkLimits(int(h.BodyLen), int(h.AuthLen), limits); err != nil {
		return Request{}, err
	}
	body, err := readN(r, int(h.BodyLen))
	if err != nil {
		return Request{}, err
	}
	auth, err := readN(r, int(h.AuthLen))
	if err != nil {
		return Request{}, err
	}
	return Request{
		Header: RequestHeader{
			Provider:    protocol.ProviderID(h.Provider),
			Session:     h.Session,
			ContentType: protocol.BodyType(h.ContentType),
			AcceptType:  protocol.BodyType(h.AcceptType),
			AuthType:    protocol.AuthType(h.AuthType),
			Opcode:      protocol.Opcode(h.Opcode),
		},
		Body: body,
		Auth: auth,
	}, nil
}

func ReadResponse(r io.Reader, limits Limits) (Response, error) {
	h, err := readHeader(r)
	if err != nil {
		return Response{}, err
	}
	if h.AuthLen != 0 {
		return Response{}, fmt.Errorf("%w: response carries auth_len=%d", protocol.ErrInvalidLength, h.AuthLen)
	}
	if err := checkLimits(int(h.BodyLen), 0, limits); err != nil {
		return Response{}, err
	}
	st, err := status.Decode(h.Status)
	if err != nil {
		return Response{}, err
	}
	body, err := readN(r, int(h.BodyLen))
	if err != nil {
		return Response{}, err
	}
	return Response{
		Header: ResponseHeader{
			Provider:    protocol.ProviderID(h.Provider),
			Session:     h.Session,
			ContentType: protocol.BodyType(h.ContentType),
			Opcode:      protocol.Opcode(h.Opcode),
			Status:      st,
		},
		Body: body,
	}, nil
}

// encodeHeader fills the constant fields and packs h into its 36-byte wire form.
func encodeHeader(h rawHeader) []byte {
	buf := make([]byte, protocol.FixedHeaderLen)
	binary.LittleEndian.PutUint32(buf[0:4], protocol.Magic)
	binary.LittleEndian.PutUint16(buf[4:6], protocol.HeaderSize)
	buf[6] = protocol.VersionMajor
	buf[7] = protocol.VersionMinor
	binary.LittleEndian.PutUint16(buf[8:10], h.Flags)
	buf[10] = h.Provider
	binary.LittleEndian.PutUint64(buf[11:19], h.Session)
	buf[19] = h.ContentType
	buf[20] = h.AcceptType
	buf[21] = h.AuthType
	binary.LittleEndian.PutUint32(buf[22:26], h.BodyLen)
	binary.LittleEndian.PutUint16(buf[26:28], h.AuthLen)
	binary.LittleEndian.PutUint32(buf[28:32], h.Opcode)
	binary.LittleEndian.PutUint16(buf[32:34], h.Status)
	return buf
}

func decodeHeader(b []byte) (rawHeader, error) {
	if len(b) != protocol.FixedHeaderLen {
		return rawHeader{}, fmt.Errorf("frame: invalid fixed header length: %d", len(b))
	}
	h := rawHeader{
		Magic:        binary.LittleEndian.Uint32(b[0:4]),
		HeaderSize:   binary.LittleEndian.Uint16(b[4:6]),
		VersionMajor: b[6],
		VersionMinor: b[7],
		Flags:        binary.LittleEndian.Uint16(b[8:10]),
		Provider:     b[10],
		Session:      binary.LittleEndian.Uint64(b[11:19]),
		ContentType:  b[19],
		AcceptType:   b[20],
		AuthType:     b[21],
		BodyLen:      binary.LittleEndian.Uint32(b[22:26]),
		AuthLen:      binary.LittleEndian.Uint16(b[26:28]),
		Opcode:       binary.LittleEndian.Uint32(b[28:32]),
		Status:       binary.LittleEndian.Uint16(b[32:34]),
		Reserved1:    b[34],
		Reserved2:    b[35],
	}
	if h.Magic != protocol.Magic {
		return rawHeader{}, protocol.ErrInvalidMagic
	}
	if h.HeaderSize != protocol.HeaderSize {
		return rawHeader{}, protocol.ErrInvalidHeaderLen
	}
	if h.VersionMajor != protocol.VersionMajor || h.VersionMinor != protocol.VersionMinor {
		return rawHeader{}, protocol.ErrUnsupportedVersion
	}
	if h.Reserved1 != 0 || h.Reserved2 != 0 {
		return rawHeader{}, protocol.ErrReservedNotZero
	}
	return h, nil
}

func readHeader(r io.Reader) (rawHeader, error) {
	var fixed [protocol.FixedHeaderLen]byte
	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return rawHeader{}, protocol.ErrTruncated
		}
		return rawHeader{}, err
	}
	return decodeHeader(fixed[:])
}

func readN(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if n == 0 {
		return buf, nil
	}
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, protocol.ErrTruncated
	}
	return buf, nil
}

func checkLimits(bodyLen, authLen int, limits Limits) error {
	if uint64(bodyLen) > uint64(limits.MaxBodyBytes) {
		return protocol.ErrBodyTooLarge
	}
	if uint64(authLen) > uint64(limits.MaxAuthBytes) {
		return protocol.ErrAuthTooLarge
	}
	return nil
}
