// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package handshake

import (
	"context"
	"fmt"

	"github.com/btcsuite/dogeshake/wire"
	"github.com/pkg/errors"
)

// Kind groups error codes by who is at fault.
type Kind int

const (
	// FormatError means bytes received from the peer could not be
	// decoded.
	FormatError Kind = iota

	// IOError means the underlying stream failed or ended early.
	IOError

	// ProtocolError means the peer sent well formed bytes which are not
	// what the handshake expects at this point.
	ProtocolError

	// ParameterError means the caller supplied invalid input.
	ParameterError
)

var kindStrings = map[Kind]string{
	FormatError:    "FormatError",
	IOError:        "IOError",
	ProtocolError:  "ProtocolError",
	ParameterError: "ParameterError",
}

// String returns the Kind as a human-readable name.
func (k Kind) String() string {
	if s := kindStrings[k]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown Kind (%d)", int(k))
}

// ErrorCode identifies a kind of error.
type ErrorCode int

// These constants are used to identify a specific Error.
const (
	// ErrCodec indicates the wire codec rejected a message.  The wrapped
	// error is a *wire.MessageError.
	ErrCodec ErrorCode = iota

	// ErrShortRead indicates the stream ended before a full header or
	// payload could be read.
	ErrShortRead

	// ErrShortWrite indicates the stream accepted fewer bytes than the
	// encoded message.
	ErrShortWrite

	// ErrIO indicates the stream returned an error.
	ErrIO

	// ErrNonce indicates the nonce source failed.
	ErrNonce

	// ErrTimeout indicates the context deadline, or a stream deadline,
	// expired before the handshake completed.
	ErrTimeout

	// ErrCanceled indicates the context was canceled before the handshake
	// completed.
	ErrCanceled

	// ErrUnexpectedCommand indicates the peer sent a message other than
	// the one expected.  The wrapped error is an *UnexpectedCommandError.
	ErrUnexpectedCommand

	// ErrIncorrectResponse indicates the peer's acknowledgment did not
	// match the verack for the configured network.
	ErrIncorrectResponse

	// ErrPayloadTooLarge indicates a header announcing a payload larger
	// than wire.MaxMessagePayload.
	ErrPayloadTooLarge

	// ErrSelfConnection indicates the remote version carried a nonce we
	// sent, meaning we connected to ourselves.
	ErrSelfConnection

	// ErrStateConsumed indicates an operation was invoked on a handshake
	// state which had already been used.
	ErrStateConsumed

	// ErrInvalidConfig indicates a Config missing required fields.
	ErrInvalidConfig
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrCodec:             "ErrCodec",
	ErrShortRead:         "ErrShortRead",
	ErrShortWrite:        "ErrShortWrite",
	ErrIO:                "ErrIO",
	ErrNonce:             "ErrNonce",
	ErrTimeout:           "ErrTimeout",
	ErrCanceled:          "ErrCanceled",
	ErrUnexpectedCommand: "ErrUnexpectedCommand",
	ErrIncorrectResponse: "ErrIncorrectResponse",
	ErrPayloadTooLarge:   "ErrPayloadTooLarge",
	ErrSelfConnection:    "ErrSelfConnection",
	ErrStateConsumed:     "ErrStateConsumed",
	ErrInvalidConfig:     "ErrInvalidConfig",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// Error identifies a handshake failure.  It has full support for errors.Is
// and errors.As, so the caller can ascertain the specific reason for the
// error by checking the underlying error.
type Error struct {
	ErrorCode   ErrorCode
	Description string
	Err         error
}

// Error satisfies the error interface and prints human-readable errors.
func (e *Error) Error() string {
	if e.Err != nil {
		return e.Description + ": " + e.Err.Error()
	}
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Cause returns the underlying wrapped error for errors.Cause.
func (e *Error) Cause() error {
	return e.Err
}

// Kind classifies the error.  Codec errors are classified by the wire error
// code they carry.
func (e *Error) Kind() Kind {
	switch e.ErrorCode {
	case ErrCodec:
		var msgErr *wire.MessageError
		if errors.As(e.Err, &msgErr) && msgErr.ErrorCode.IsParameterError() {
			return ParameterError
		}
		return FormatError

	case ErrShortRead, ErrShortWrite, ErrIO, ErrNonce, ErrTimeout,
		ErrCanceled:
		return IOError

	case ErrUnexpectedCommand, ErrIncorrectResponse, ErrPayloadTooLarge,
		ErrSelfConnection:
		return ProtocolError
	}

	return ParameterError
}

// UnexpectedCommandError describes a message received in place of the one
// the handshake was waiting for.
type UnexpectedCommandError struct {
	Expected string
	Actual   string
}

// Error satisfies the error interface.
func (e *UnexpectedCommandError) Error() string {
	return fmt.Sprintf("expected [%s], got [%s]", e.Expected, e.Actual)
}

// handshakeError creates an Error given a set of arguments.
func handshakeError(c ErrorCode, desc string, err error) *Error {
	return &Error{ErrorCode: c, Description: desc, Err: err}
}

// codecError wraps an error returned by the wire package.
func codecError(op string, err error) *Error {
	return handshakeError(ErrCodec, op, err)
}

// contextError converts the error of a done context.  Only an expired
// deadline is a timeout.
func contextError(op string, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return handshakeError(ErrTimeout, op+": timed out", err)
	}
	return handshakeError(ErrCanceled, op+": canceled", err)
}

// IsErrorCode returns whether err is, or wraps, an *Error with the provided
// error code.
func IsErrorCode(err error, c ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.ErrorCode == c
}

// KindOf returns the Kind of err and whether err is, or wraps, an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return 0, false
	}
	return e.Kind(), true
}
