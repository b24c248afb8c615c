// Copyright (c) 2013-2015 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a kind of wire encoding or decoding error.
type ErrorCode int

// These constants are used to identify a specific MessageError.
const (
	// ErrUnknownMagic indicates four bytes which do not match the magic of
	// any supported dogecoin network.
	ErrUnknownMagic ErrorCode = iota

	// ErrStringTooLong indicates a variable length string whose length
	// can't be represented by a CompactSize prefix.
	ErrStringTooLong

	// ErrCommandTooLong indicates a command longer than CommandSize bytes.
	ErrCommandTooLong

	// ErrMessageTooLong indicates a payload whose length does not fit the
	// 32-bit length field of the message header, or exceeds
	// MaxMessagePayload.
	ErrMessageTooLong

	// ErrTooShort indicates fewer than MessageHeaderSize bytes were
	// supplied to the header parser.
	ErrTooShort

	// ErrUnknownNetworkType indicates a header carrying an unknown network
	// magic.
	ErrUnknownNetworkType

	// ErrCommandIsEmpty indicates a header command field consisting only
	// of NUL bytes.
	ErrCommandIsEmpty

	// ErrMessageSizeParseFailure indicates the payload length field of a
	// header could not be decoded.
	ErrMessageSizeParseFailure

	// ErrBufferTooShort indicates a payload or one of its fields was
	// truncated.
	ErrBufferTooShort

	// ErrUnknownBytes indicates bytes which are present but can't be
	// interpreted as the expected message.
	ErrUnknownBytes

	// ErrIntegerParsing indicates caller supplied data, such as an IPv4
	// literal, which could not be parsed.
	ErrIntegerParsing

	// ErrChecksumMismatch indicates a payload whose double sha256 does not
	// match the checksum carried in its header.
	ErrChecksumMismatch
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrUnknownMagic:            "ErrUnknownMagic",
	ErrStringTooLong:           "ErrStringTooLong",
	ErrCommandTooLong:          "ErrCommandTooLong",
	ErrMessageTooLong:          "ErrMessageTooLong",
	ErrTooShort:                "ErrTooShort",
	ErrUnknownNetworkType:      "ErrUnknownNetworkType",
	ErrCommandIsEmpty:          "ErrCommandIsEmpty",
	ErrMessageSizeParseFailure: "ErrMessageSizeParseFailure",
	ErrBufferTooShort:          "ErrBufferTooShort",
	ErrUnknownBytes:            "ErrUnknownBytes",
	ErrIntegerParsing:          "ErrIntegerParsing",
	ErrChecksumMismatch:        "ErrChecksumMismatch",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// IsParameterError returns whether the code describes invalid caller supplied
// data rather than malformed wire bytes.
func (e ErrorCode) IsParameterError() bool {
	return e == ErrIntegerParsing || e == ErrMessageTooLong
}

// MessageError describes an issue with a message.  The caller can use type
// assertions or errors.As to access the ErrorCode field and ascertain the
// specific reason for the failure.
type MessageError struct {
	Func        string    // Function name
	ErrorCode   ErrorCode // Describes the kind of error
	Description string    // Human readable description of the issue
}

// Error satisfies the error interface and prints human-readable errors.
func (e *MessageError) Error() string {
	if e.Func != "" {
		return fmt.Sprintf("%v: %v", e.Func, e.Description)
	}
	return e.Description
}

// messageError creates an error for the given function, code and description.
func messageError(f string, c ErrorCode, desc string) *MessageError {
	return &MessageError{Func: f, ErrorCode: c, Description: desc}
}

// IsErrorCode returns whether err is, or wraps, a *MessageError with the
// provided error code.
func IsErrorCode(err error, c ErrorCode) bool {
	var e *MessageError
	return errors.As(err, &e) && e.ErrorCode == c
}
