// Package client talks to the GophAuth gRPC API on behalf of the CLI.
//
// The Client interface is the transport-agnostic contract used by the CLI;
// GRPCClient implements it. GRPCClient keeps the token pair of the current
// session in memory, attaches the access token to every call, and when the
// server answers Unauthenticated with "token expired" renews the access token
// once with the refresh token and retries the call.
//
// gRPC status codes are mapped to sentinel errors (ErrUnavailable,
// ErrUnauthorized, ErrAlreadyRegistered, ErrRejected) that callers match with
// errors.Is.
package client
