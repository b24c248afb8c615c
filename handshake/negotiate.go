// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package handshake

import (
	"context"
	"fmt"
	"time"
)

// DefaultNegotiateTimeout is the duration of inactivity before Negotiate gives
// up on a peer that hasn't completed the handshake.
const DefaultNegotiateTimeout = 30 * time.Second

// negotiateResult is what the negotiation goroutine reports back.
type negotiateResult struct {
	done *Done
	err  error
}

// Negotiate runs a complete handshake over cfg.Conn: it sends our version,
// reads the remote version, acknowledges it and reads the remote
// acknowledgment.  The whole exchange is bounded by timeout, or
// DefaultNegotiateTimeout when timeout is zero, and by ctx.
//
// When the stream supports deadlines, the deadline applied during the
// exchange is cleared before Negotiate returns a result from the steps.
// On ErrTimeout or ErrCanceled the stream may still be in use by a blocked
// read.  The caller should close it.
func Negotiate(ctx context.Context, cfg *Config, timeout time.Duration) (*Done, error) {
	start, err := New(cfg)
	if err != nil {
		return nil, err
	}

	if timeout == 0 {
		timeout = DefaultNegotiateTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	negotiateResults := make(chan negotiateResult, 1)
	go func() {
		done, err := negotiate(ctx, start)
		negotiateResults <- negotiateResult{done, err}
	}()

	select {
	case r := <-negotiateResults:
		if err := start.c.releaseDeadline(); err != nil {
			log.Debugf("Unable to clear deadline for %s:%d: %v",
				cfg.TargetIP, cfg.TargetPort, err)
		}
		return r.done, r.err
	case <-ctx.Done():
		op := fmt.Sprintf("protocol negotiation with %s:%d",
			cfg.TargetIP, cfg.TargetPort)
		return nil, contextError(op, ctx.Err())
	}
}

// negotiate runs the four steps of an outbound handshake in order.
func negotiate(ctx context.Context, start *Init) (*Done, error) {
	versionSent, err := start.SendVersion(ctx)
	if err != nil {
		return nil, err
	}
	versionReceived, err := versionSent.ReceiveVersion(ctx)
	if err != nil {
		return nil, err
	}
	ackSent, err := versionReceived.SendVerAck(ctx)
	if err != nil {
		return nil, err
	}
	return ackSent.ReadVerAck(ctx)
}

// Summary returns a one line description of the remote peer suitable for
// logging.
func (d *Done) Summary() string {
	v := d.remoteVersion
	if v == nil {
		return "no remote version"
	}
	return fmt.Sprintf("agent %s, pver %d, services %v, height %d, "+
		"relay %v", v.UserAgent, v.ProtocolVersion, v.Services,
		v.StartHeight, v.Relay)
}
