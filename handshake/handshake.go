// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package handshake

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/btcsuite/dogeshake/wire"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
)

// Clock returns the current time.  It stamps outgoing version messages.
type Clock func() time.Time

// NonceSource returns the nonce for an outgoing version message.
type NonceSource func() (uint64, error)

// Config is the struct to hold configuration options useful to a handshake.
type Config struct {
	// Net identifies the network whose magic frames every message.
	Net wire.DogecoinNet

	// Conn is the stream to the remote peer.  It is owned exclusively by
	// the handshake until it completes.  When it implements
	// SetDeadline(time.Time) error, as net.Conn does, context deadlines
	// are applied to it.
	Conn io.ReadWriter

	// TargetIP is the dotted-quad IPv4 address of the remote peer as
	// advertised in our version message.
	TargetIP string

	// TargetPort is the port of the remote peer.
	TargetPort uint16

	// UserAgent is advertised in our version message.  It defaults to
	// wire.DefaultUserAgent.
	UserAgent string

	// Clock defaults to time.Now.
	Clock Clock

	// Nonces defaults to wire.RandomUint64.
	Nonces NonceSource

	// SentNonces, when set, records every nonce we send and fails
	// ReceiveVersion with ErrSelfConnection when the remote version
	// carries one of them.
	SentNonces *NonceCache

	// VerifyChecksum makes ReceiveVersion check the payload of the remote
	// version against its header checksum.
	VerifyChecksum bool
}

// deadliner is implemented by streams which support I/O deadlines.
type deadliner interface {
	SetDeadline(time.Time) error
}

// conn holds what every handshake state shares: the configuration, the
// nonce we sent and the version the peer sent.
type conn struct {
	cfg           Config
	localNonce    uint64
	remoteVersion *wire.MsgVersion

	// deadlineSet is true while a context deadline is applied to the
	// stream.
	deadlineSet bool
}

// step is embedded in every state.  It enforces that each state is used at
// most once.
type step struct {
	c        *conn
	consumed bool
}

// invalidState returns the error for an operation on a state which was not
// produced by a handshake, including the nil state returned by a failed
// step.
func invalidState(op string) error {
	str := fmt.Sprintf("%s: invalid handshake state", op)
	return handshakeError(ErrStateConsumed, str, nil)
}

// take marks the state used, failing if it already was.  It also applies
// the deadline of ctx to the stream.
func (s *step) take(ctx context.Context, op string) (*conn, error) {
	if s.c == nil {
		return nil, invalidState(op)
	}
	if s.consumed {
		str := fmt.Sprintf("%s: handshake state already used", op)
		return nil, handshakeError(ErrStateConsumed, str, nil)
	}
	s.consumed = true

	if err := ctx.Err(); err != nil {
		return nil, contextError(op, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		if d, ok := s.c.cfg.Conn.(deadliner); ok {
			if err := d.SetDeadline(deadline); err != nil {
				str := fmt.Sprintf("%s: unable to set deadline", op)
				return nil, handshakeError(ErrIO, str,
					errors.WithStack(err))
			}
			s.c.deadlineSet = true
		}
	}
	return s.c, nil
}

// releaseDeadline clears a deadline applied by take so the stream can be used
// once the handshake is over.
func (c *conn) releaseDeadline() error {
	if !c.deadlineSet {
		return nil
	}
	c.deadlineSet = false
	return c.cfg.Conn.(deadliner).SetDeadline(time.Time{})
}

// Init is the state of a handshake which has not sent anything yet.
type Init struct{ step }

// VersionSent is the state after our version message was written.
type VersionSent struct{ step }

// VersionReceived is the state after the remote version message was read.
type VersionReceived struct{ step }

// AckSent is the state after our verack was written.
type AckSent struct{ step }

// Done is the state of a completed handshake.
type Done struct {
	remoteVersion *wire.MsgVersion
	localNonce    uint64
}

// New returns the initial state of a handshake over cfg.Conn.  Defaults are
// filled in for the optional fields of cfg.
func New(cfg *Config) (*Init, error) {
	if cfg == nil || cfg.Conn == nil {
		return nil, handshakeError(ErrInvalidConfig,
			"handshake requires a connection", nil)
	}
	if _, ok := dnNames[cfg.Net]; !ok {
		str := fmt.Sprintf("unsupported network %v", cfg.Net)
		return nil, handshakeError(ErrInvalidConfig, str, nil)
	}

	c := &conn{cfg: *cfg}
	if c.cfg.UserAgent == "" {
		c.cfg.UserAgent = wire.DefaultUserAgent
	}
	if c.cfg.Clock == nil {
		c.cfg.Clock = time.Now
	}
	if c.cfg.Nonces == nil {
		c.cfg.Nonces = wire.RandomUint64
	}
	return &Init{step{c: c}}, nil
}

// dnNames are the networks a handshake may run on.
var dnNames = map[wire.DogecoinNet]struct{}{
	wire.MainNet: {},
	wire.TestNet: {},
	wire.RegTest: {},
}

// isTimeout returns whether err is a stream deadline expiring.
func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// write sends b as a whole to the peer.
func (c *conn) write(op string, b []byte) error {
	n, err := c.cfg.Conn.Write(b)
	if isTimeout(err) {
		return handshakeError(ErrTimeout, op, errors.WithStack(err))
	}
	if err != nil {
		return handshakeError(ErrIO, op, errors.Wrapf(err,
			"wrote %d of %d bytes", n, len(b)))
	}
	if n != len(b) {
		str := fmt.Sprintf("%s: wrote %d of %d bytes", op, n, len(b))
		return handshakeError(ErrShortWrite, str, nil)
	}
	return nil
}

// read fills b from the peer.
func (c *conn) read(op string, b []byte) error {
	n, err := io.ReadFull(c.cfg.Conn, b)
	switch {
	case err == io.EOF || err == io.ErrUnexpectedEOF:
		str := fmt.Sprintf("%s: read %d of %d bytes", op, n, len(b))
		return handshakeError(ErrShortRead, str, err)
	case isTimeout(err):
		return handshakeError(ErrTimeout, op, errors.WithStack(err))
	case err != nil:
		return handshakeError(ErrIO, op, errors.Wrapf(err,
			"read %d of %d bytes", n, len(b)))
	}
	return nil
}

// SendVersion writes our version message, stamped with the current time and
// a fresh nonce.
func (s *Init) SendVersion(ctx context.Context) (*VersionSent, error) {
	if s == nil {
		return nil, invalidState("SendVersion")
	}
	c, err := s.take(ctx, "SendVersion")
	if err != nil {
		return nil, err
	}

	nonce, err := c.cfg.Nonces()
	if err != nil {
		return nil, handshakeError(ErrNonce, "SendVersion: nonce source",
			errors.WithStack(err))
	}
	c.localNonce = nonce

	timestamp := uint64(c.cfg.Clock().Unix())
	msg, err := wire.NewMsgVersion(timestamp, c.cfg.TargetIP,
		c.cfg.TargetPort, nonce, c.cfg.UserAgent)
	if err != nil {
		return nil, codecError("SendVersion", err)
	}
	b, err := wire.EncodeMessage(c.cfg.Net, msg)
	if err != nil {
		return nil, codecError("SendVersion", err)
	}

	// Record the nonce before it reaches the wire.
	if c.cfg.SentNonces != nil {
		c.cfg.SentNonces.Add(nonce)
	}

	log.Debugf("Sending version (pver %d, nonce %d) to %s:%d on %v",
		msg.ProtocolVersion, nonce, c.cfg.TargetIP, c.cfg.TargetPort,
		c.cfg.Net)
	log.Tracef("%v", newLogClosure(func() string {
		return spew.Sdump(msg)
	}))
	log.Tracef("%v", newLogClosure(func() string {
		return spew.Sdump(b)
	}))

	if err := c.write("SendVersion", b); err != nil {
		return nil, err
	}
	return &VersionSent{step{c: c}}, nil
}

// ReceiveVersion reads the remote version message.
func (s *VersionSent) ReceiveVersion(ctx context.Context) (*VersionReceived, error) {
	if s == nil {
		return nil, invalidState("ReceiveVersion")
	}
	c, err := s.take(ctx, "ReceiveVersion")
	if err != nil {
		return nil, err
	}

	buf := make([]byte, wire.MessageHeaderSize)
	if err := c.read("ReceiveVersion: header", buf); err != nil {
		return nil, err
	}
	hdr, err := wire.ParseHeader(buf)
	if err != nil {
		return nil, codecError("ReceiveVersion", err)
	}
	if hdr.Command != wire.CmdVersion {
		return nil, handshakeError(ErrUnexpectedCommand, "ReceiveVersion",
			&UnexpectedCommandError{
				Expected: wire.CmdVersion,
				Actual:   hdr.Command,
			})
	}
	if hdr.Length > wire.MaxMessagePayload {
		str := fmt.Sprintf("ReceiveVersion: payload of %d bytes "+
			"exceeds %d", hdr.Length, wire.MaxMessagePayload)
		return nil, handshakeError(ErrPayloadTooLarge, str, nil)
	}

	payload := make([]byte, hdr.Length)
	if err := c.read("ReceiveVersion: payload", payload); err != nil {
		return nil, err
	}

	log.Tracef("%v", newLogClosure(func() string {
		return spew.Sdump(buf, payload)
	}))

	if c.cfg.VerifyChecksum {
		if err := wire.VerifyChecksum(hdr, payload); err != nil {
			return nil, codecError("ReceiveVersion", err)
		}
	}

	_, msg, err := wire.DecodeVersion(append(buf, payload...))
	if err != nil {
		return nil, codecError("ReceiveVersion", err)
	}

	// Detect self connections.
	if c.cfg.SentNonces != nil && c.cfg.SentNonces.Contains(msg.Nonce) {
		str := fmt.Sprintf("ReceiveVersion: remote nonce %d is one "+
			"of ours", msg.Nonce)
		return nil, handshakeError(ErrSelfConnection, str, nil)
	}

	log.Debugf("Received version from %s:%d: pver %d, agent %s, "+
		"services %v, height %d", c.cfg.TargetIP, c.cfg.TargetPort,
		msg.ProtocolVersion, msg.UserAgent, msg.Services,
		msg.StartHeight)

	c.remoteVersion = msg
	return &VersionReceived{step{c: c}}, nil
}

// RemoteVersion returns the version message the peer sent.
func (s *VersionReceived) RemoteVersion() *wire.MsgVersion {
	if s == nil || s.c == nil {
		return nil
	}
	return s.c.remoteVersion
}

// SendVerAck acknowledges the remote version.
func (s *VersionReceived) SendVerAck(ctx context.Context) (*AckSent, error) {
	if s == nil {
		return nil, invalidState("SendVerAck")
	}
	c, err := s.take(ctx, "SendVerAck")
	if err != nil {
		return nil, err
	}

	log.Debugf("Sending verack to %s:%d", c.cfg.TargetIP, c.cfg.TargetPort)
	if err := c.write("SendVerAck", wire.EncodeVerAck(c.cfg.Net)); err != nil {
		return nil, err
	}
	return &AckSent{step{c: c}}, nil
}

// ReadVerAck reads the peer's acknowledgment of our version.  It must match
// the verack for the configured network byte for byte.
func (s *AckSent) ReadVerAck(ctx context.Context) (*Done, error) {
	if s == nil {
		return nil, invalidState("ReadVerAck")
	}
	c, err := s.take(ctx, "ReadVerAck")
	if err != nil {
		return nil, err
	}

	buf := make([]byte, wire.MessageHeaderSize)
	if err := c.read("ReadVerAck", buf); err != nil {
		return nil, err
	}
	want := wire.EncodeVerAck(c.cfg.Net)
	if !bytes.Equal(buf, want) {
		str := fmt.Sprintf("ReadVerAck: got %x, want %x", buf, want)
		return nil, handshakeError(ErrIncorrectResponse, str, nil)
	}

	log.Debugf("Received verack from %s:%d", c.cfg.TargetIP,
		c.cfg.TargetPort)

	if err := c.releaseDeadline(); err != nil {
		return nil, handshakeError(ErrIO, "ReadVerAck: unable to clear "+
			"deadline", errors.WithStack(err))
	}
	return &Done{
		remoteVersion: c.remoteVersion,
		localNonce:    c.localNonce,
	}, nil
}

// RemoteVersion returns the version message the peer sent.
func (d *Done) RemoteVersion() *wire.MsgVersion {
	if d == nil {
		return nil
	}
	return d.remoteVersion
}

// LocalNonce returns the nonce of the version message we sent.
func (d *Done) LocalNonce() uint64 {
	return d.localNonce
}
