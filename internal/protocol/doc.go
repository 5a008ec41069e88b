// Package protocol owns the Parsec wire contract shared by every fixture.
//
// Ownership boundary:
// - opcode, provider, body and auth identifiers
// - frame/header primitives (subpackage frame)
// - response status codes (subpackage status)
// - protobuf field primitives for bodies (subpackage body)
package protocol
