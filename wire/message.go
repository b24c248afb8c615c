// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// MessageHeaderSize is the number of bytes in a dogecoin message header.
// Dogecoin network (magic) 4 bytes + command 12 bytes + payload length 4 bytes +
// checksum 4 bytes.
const MessageHeaderSize = 24

// CommandSize is the fixed size of all commands in the common dogecoin message
// header.  Shorter commands must be zero padded.
const CommandSize = 12

// ChecksumSize is the number of bytes of the double sha256 of a payload which
// are carried in its header.
const ChecksumSize = 4

// MaxMessagePayload is the maximum bytes a message can be regardless of other
// individual limits imposed by messages themselves.
const MaxMessagePayload = (1024 * 1024 * 32) // 32MB

// Commands used in dogecoin message headers which describe the type of message.
const (
	CmdVersion = "version"
	CmdVerAck  = "verack"
)

// Message is an interface that describes a dogecoin message.  A type that
// implements Message has complete control over the representation of its data
// and may therefore contain additional or fewer fields than those which
// are used directly in the protocol encoded message.
type Message interface {
	BtcDecode(io.Reader) error
	BtcEncode(io.Writer) error
	Command() string
}

// MessageHeader defines the header structure for all dogecoin protocol
// messages.
type MessageHeader struct {
	Net      DogecoinNet        // 4 bytes
	Command  string             // 12 bytes
	Length   uint32             // 4 bytes
	Checksum [ChecksumSize]byte // 4 bytes
}

// Checksum returns the first four bytes of the double sha256 of payload.
func Checksum(payload []byte) [ChecksumSize]byte {
	var checksum [ChecksumSize]byte
	copy(checksum[:], chainhash.DoubleHashB(payload)[:ChecksumSize])
	return checksum
}

// VerifyChecksum checks payload against the checksum carried by hdr.
// ParseHeader and the message decoders never do this on their own; callers
// which need integrity guarantees must pair the header with its payload and
// call this explicitly.
func VerifyChecksum(hdr *MessageHeader, payload []byte) error {
	checksum := Checksum(payload)
	if checksum != hdr.Checksum {
		str := fmt.Sprintf("payload checksum failed - header "+
			"indicates %x, but actual checksum is %x.",
			hdr.Checksum[:], checksum[:])
		return messageError("VerifyChecksum", ErrChecksumMismatch, str)
	}
	return nil
}

// BuildHeader frames payload for the passed network and command and returns
// the MessageHeaderSize bytes which precede it on the wire.
func BuildHeader(net DogecoinNet, command string, payload []byte) ([]byte, error) {
	// Enforce max command size.
	if len(command) > CommandSize {
		str := fmt.Sprintf("command [%s] is too long [max %v]",
			command, CommandSize)
		return nil, messageError("BuildHeader", ErrCommandTooLong, str)
	}

	// The length field is only 32 bits wide.
	if uint64(len(payload)) > math.MaxUint32 {
		str := fmt.Sprintf("payload of %d bytes does not fit the "+
			"length field", len(payload))
		return nil, messageError("BuildHeader", ErrMessageTooLong, str)
	}

	var cmd [CommandSize]byte
	copy(cmd[:], command)

	hw := bytes.NewBuffer(make([]byte, 0, MessageHeaderSize))
	err := writeElements(hw, net.Magic(), cmd, uint32(len(payload)),
		Checksum(payload))
	if err != nil {
		return nil, err
	}
	return hw.Bytes(), nil
}

// ParseHeader decodes the first MessageHeaderSize bytes of b.  The checksum is
// copied verbatim and not checked against any payload.
func ParseHeader(b []byte) (*MessageHeader, error) {
	if len(b) < MessageHeaderSize {
		str := fmt.Sprintf("header needs %d bytes, have %d",
			MessageHeaderSize, len(b))
		return nil, messageError("ParseHeader", ErrTooShort, str)
	}

	var magic [4]byte
	copy(magic[:], b[0:4])
	net, err := NetFromMagic(magic)
	if err != nil {
		str := fmt.Sprintf("message from unknown network [%x]", magic[:])
		return nil, messageError("ParseHeader", ErrUnknownNetworkType, str)
	}

	// Strip trailing zeros from command string.
	command := string(bytes.TrimRight(b[4:4+CommandSize], "\x00"))
	if command == "" {
		return nil, messageError("ParseHeader", ErrCommandIsEmpty,
			"command is empty")
	}

	hdr := MessageHeader{Net: net, Command: command}
	err = readElement(bytes.NewReader(b[16:20]), &hdr.Length)
	if err != nil {
		str := fmt.Sprintf("unable to decode payload length: %v", err)
		return nil, messageError("ParseHeader",
			ErrMessageSizeParseFailure, str)
	}
	copy(hdr.Checksum[:], b[20:MessageHeaderSize])

	return &hdr, nil
}

// ReadMessageHeader reads exactly MessageHeaderSize bytes from r and parses
// them.  The number of bytes read is returned alongside any error so callers
// can tell a short read from a malformed header.
func ReadMessageHeader(r io.Reader) (int, *MessageHeader, error) {
	var headerBytes [MessageHeaderSize]byte
	n, err := io.ReadFull(r, headerBytes[:])
	if err != nil {
		return n, nil, err
	}

	hdr, err := ParseHeader(headerBytes[:])
	if err != nil {
		return n, nil, err
	}
	return n, hdr, nil
}

// EncodeMessage returns the full wire encoding of msg, header included, for
// the passed network.
func EncodeMessage(net DogecoinNet, msg Message) ([]byte, error) {
	var bw bytes.Buffer
	if err := msg.BtcEncode(&bw); err != nil {
		return nil, err
	}
	payload := bw.Bytes()

	hdr, err := BuildHeader(net, msg.Command(), payload)
	if err != nil {
		return nil, err
	}

	return append(hdr, payload...), nil
}

// decodeMessage parses the header at the start of b, ensures it announces
// msg's command and decodes the payload it describes into msg.
func decodeMessage(f string, b []byte, msg Message) (*MessageHeader, error) {
	hdr, err := ParseHeader(b)
	if err != nil {
		return nil, err
	}

	if hdr.Command != msg.Command() {
		str := fmt.Sprintf("expected command [%s], got [%s]",
			msg.Command(), hdr.Command)
		return nil, messageError(f, ErrUnknownBytes, str)
	}

	payload := b[MessageHeaderSize:]
	if uint64(len(payload)) < uint64(hdr.Length) {
		str := fmt.Sprintf("header indicates %d payload bytes, have %d",
			hdr.Length, len(payload))
		return nil, messageError(f, ErrBufferTooShort, str)
	}
	payload = payload[:hdr.Length]

	if err := msg.BtcDecode(bytes.NewReader(payload)); err != nil {
		return nil, err
	}
	return hdr, nil
}
