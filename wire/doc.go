// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package wire implements the dogecoin wire protocol needed to open a connection
to a peer: the message header, CompactSize strings and the version and verack
messages.

Message Overview

Every message on the wire starts with a 24 byte header:

	magic     4 bytes  identifies the network (see DogecoinNet)
	command  12 bytes  ASCII, NUL padded
	length    4 bytes  payload length, little endian
	checksum  4 bytes  first 4 bytes of sha256(sha256(payload))

All multi-byte integers are little endian except the port of a NetAddress,
which is big endian.

Reading Messages

ParseHeader decodes a header without looking at the payload.  DecodeVersion
and DecodeVerAck decode a complete message.  None of these verify the checksum;
callers that want that guarantee call VerifyChecksum with the header and
exactly the payload it announces.

	hdr, msg, err := wire.DecodeVersion(buf)
	if err != nil {
		// Log and handle the error
	}
	payload := buf[wire.MessageHeaderSize : wire.MessageHeaderSize+int(hdr.Length)]
	if err := wire.VerifyChecksum(hdr, payload); err != nil {
		// Corrupted payload
	}

Writing Messages

	msg, err := wire.NewMsgVersion(uint64(time.Now().Unix()), "52.77.231.41",
		44556, nonce, wire.DefaultUserAgent)
	if err != nil {
		// Invalid target address
	}
	buf, err := wire.EncodeMessage(wire.TestNet, msg)

Errors

Errors returned by this package are of type *MessageError, whose ErrorCode
identifies the failure.  IsErrorCode tests for a specific code.
*/
package wire
