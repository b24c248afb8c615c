// Copyright (c) 2013-2015 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"
)

// MsgVerAck defines a dogecoin verack message which is used for a peer to
// acknowledge a version message (MsgVersion) after it has used the information
// to negotiate parameters.  It implements the Message interface.
//
// This message has no payload.
type MsgVerAck struct{}

// BtcDecode decodes r using the dogecoin protocol encoding into the receiver.
// This is part of the Message interface implementation.
func (msg *MsgVerAck) BtcDecode(r io.Reader) error {
	return nil
}

// BtcEncode encodes the receiver to w using the dogecoin protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgVerAck) BtcEncode(w io.Writer) error {
	return nil
}

// Command returns the protocol command string for the message.  This is part
// of the Message interface implementation.
func (msg *MsgVerAck) Command() string {
	return CmdVerAck
}

// NewMsgVerAck returns a new dogecoin verack message that conforms to the
// Message interface.
func NewMsgVerAck() *MsgVerAck {
	return &MsgVerAck{}
}

// EncodeVerAck returns the MessageHeaderSize bytes of a verack message for the
// passed network.  The payload is always empty so the checksum is always
// 5d f6 e0 e2.
func EncodeVerAck(net DogecoinNet) []byte {
	// An empty payload and a short command can't fail to frame.
	b, _ := EncodeMessage(net, NewMsgVerAck())
	return b
}

// DecodeVerAck validates the verack header at the start of b.
func DecodeVerAck(b []byte) (*MessageHeader, error) {
	hdr, err := decodeMessage("DecodeVerAck", b, NewMsgVerAck())
	if err != nil {
		return nil, err
	}
	if hdr.Length != 0 {
		str := fmt.Sprintf("verack announces a %d byte payload",
			hdr.Length)
		return nil, messageError("DecodeVerAck", ErrUnknownBytes, str)
	}
	return hdr, nil
}
