// Copyright (c) 2015-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package handshake drives the outbound dogecoin connection handshake over a
single stream.

The handshake is four exchanges in a fixed order: we send our version, read
the peer's version, send a verack and read the peer's verack.  Each step is a
method on the state which permits it and returns the next state, so steps
can't be run out of order:

	start, err := handshake.New(&handshake.Config{
		Net:        wire.TestNet,
		Conn:       conn,
		TargetIP:   "52.77.231.41",
		TargetPort: 44556,
	})
	sent, err := start.SendVersion(ctx)
	received, err := sent.ReceiveVersion(ctx)
	acked, err := received.SendVerAck(ctx)
	done, err := acked.ReadVerAck(ctx)

A state can be used once.  Calling its method again fails with
ErrStateConsumed.  Negotiate runs all four steps under a timeout.

Errors

All errors are of type *Error.  Kind reports whether the peer sent bytes that
could not be decoded (FormatError), the stream failed (IOError), the peer
deviated from the handshake (ProtocolError) or the caller passed bad input
(ParameterError).
*/
package handshake
