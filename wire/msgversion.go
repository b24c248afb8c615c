// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"
	"net"
)

const (
	// VersionFixedSize is the number of bytes of a version payload which
	// precede the user agent: protocol version 4 bytes + services 8 bytes +
	// timestamp 8 bytes + two addresses 26 bytes each + nonce 8 bytes.
	VersionFixedSize = 4 + 8 + 8 + 2*NetAddressSize + 8

	// VersionTrailerSize is the number of bytes which follow the user
	// agent: start height 4 bytes + relay 1 byte.
	VersionTrailerSize = 4 + 1

	// minVersionPayload is the smallest payload the decoder will look at:
	// the fixed region plus at least the user agent length prefix.
	minVersionPayload = VersionFixedSize + 1

	// MaxUserAgentLen is the longest user agent the reference client
	// accepts from a peer.
	MaxUserAgentLen = 256

	// localServices are the services advertised for the local node.
	localServices = SFNodeNetwork | SFNodeBloom
)

// MsgVersion implements the Message interface and represents a dogecoin
// version message.  It is used for a peer to advertise itself as soon as an
// outbound connection is made.  The remote peer then uses this information
// along with its own to negotiate.  The remote peer must then respond with a
// version message of its own containing the negotiated values followed by a
// verack message (MsgVerAck).
type MsgVersion struct {
	// Version of the protocol the node is using.
	ProtocolVersion uint32

	// Bitfield which identifies the enabled services.
	Services ServiceFlag

	// Time the message was generated, in seconds since the Unix epoch.
	Timestamp uint64

	// Address of the remote peer.
	AddrYou NetAddress

	// Address of the local peer.
	AddrMe NetAddress

	// Unique value associated with message that is used to detect self
	// connections.
	Nonce uint64

	// The user agent that generated message.  This is encoded as a
	// CompactSize string on the wire.
	UserAgent string

	// Last block seen by the generator of the version message.
	StartHeight uint32

	// Whether the remote peer should announce relayed transactions.
	Relay bool
}

// HasService returns whether the specified service is supported by the peer
// that generated the message.
func (msg *MsgVersion) HasService(service ServiceFlag) bool {
	return msg.Services&service == service
}

// lenReader is implemented by readers which know how many unread bytes they
// hold, such as *bytes.Reader and *bytes.Buffer.
type lenReader interface {
	Len() int
}

// BtcDecode decodes r using the dogecoin protocol encoding into the receiver.
// When r reports its remaining length, payloads shorter than the fixed region
// plus the user agent prefix are rejected up front.
// This is part of the Message interface implementation.
func (msg *MsgVersion) BtcDecode(r io.Reader) error {
	if lr, ok := r.(lenReader); ok && lr.Len() < minVersionPayload {
		str := fmt.Sprintf("version payload needs at least %d bytes, "+
			"have %d", minVersionPayload, lr.Len())
		return messageError("MsgVersion.BtcDecode", ErrBufferTooShort, str)
	}

	err := readElements(r, &msg.ProtocolVersion, &msg.Services,
		&msg.Timestamp)
	if err != nil {
		return err
	}

	err = readNetAddress(r, &msg.AddrYou)
	if err != nil {
		return err
	}

	err = readNetAddress(r, &msg.AddrMe)
	if err != nil {
		return err
	}

	err = readElement(r, &msg.Nonce)
	if err != nil {
		return err
	}

	userAgent, err := ReadVarString(r)
	if err != nil {
		return err
	}
	msg.UserAgent = userAgent

	return readElements(r, &msg.StartHeight, &msg.Relay)
}

// BtcEncode encodes the receiver to w using the dogecoin protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgVersion) BtcEncode(w io.Writer) error {
	err := writeElements(w, msg.ProtocolVersion, msg.Services,
		msg.Timestamp)
	if err != nil {
		return err
	}

	err = writeNetAddress(w, &msg.AddrYou)
	if err != nil {
		return err
	}

	err = writeNetAddress(w, &msg.AddrMe)
	if err != nil {
		return err
	}

	err = writeElement(w, msg.Nonce)
	if err != nil {
		return err
	}

	err = WriteVarString(w, msg.UserAgent)
	if err != nil {
		return err
	}

	return writeElements(w, msg.StartHeight, msg.Relay)
}

// Command returns the protocol command string for the message.  This is part
// of the Message interface implementation.
func (msg *MsgVersion) Command() string {
	return CmdVersion
}

// SerializeSize returns the number of bytes it would take to serialize the
// version payload.
func (msg *MsgVersion) SerializeSize() int {
	return VersionFixedSize + VarIntSerializeSize(uint64(len(msg.UserAgent))) +
		len(msg.UserAgent) + VersionTrailerSize
}

// NewMsgVersion returns a new dogecoin version message announcing the local
// node to the peer at targetIP:targetPort.  targetIP must be a dotted-quad
// IPv4 literal; ErrIntegerParsing is returned otherwise.
//
// The remote address is advertised as a full node.  The local address is
// left unspecified (all zero, port 0) since our reachability is unknown.
func NewMsgVersion(timestamp uint64, targetIP string, targetPort uint16,
	nonce uint64, userAgent string) (*MsgVersion, error) {

	ip, err := ParseIPv4(targetIP)
	if err != nil {
		return nil, err
	}

	unspecified := make(net.IP, net.IPv6len)
	return &MsgVersion{
		ProtocolVersion: ProtocolVersion,
		Services:        localServices,
		Timestamp:       timestamp,
		AddrYou:         *NewNetAddressIPPort(ip, targetPort, SFNodeNetwork),
		AddrMe:          *NewNetAddressIPPort(unspecified, 0, localServices),
		Nonce:           nonce,
		UserAgent:       userAgent,
		StartHeight:     0,
		Relay:           true,
	}, nil
}

// DecodeVersion decodes a full version message, header included, from b.  The
// header must announce the version command.  The header checksum is not
// verified; use VerifyChecksum for that.
func DecodeVersion(b []byte) (*MessageHeader, *MsgVersion, error) {
	var msg MsgVersion
	hdr, err := decodeMessage("DecodeVersion", b, &msg)
	if err != nil {
		return nil, nil, err
	}
	return hdr, &msg, nil
}
