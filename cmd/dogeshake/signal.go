// Copyright (c) 2013-2014 The btcsuite developers
// Copyright (c) 2015-2016 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/btcsuite/dogeshake/internal/log"
)

// interruptSignals defines the default signals to catch in order to abort
// the handshake.  This may be modified during init depending on the platform.
var interruptSignals = []os.Signal{os.Interrupt}

// withInterrupt returns a copy of ctx which is canceled when one of the
// interrupt signals is received or the returned cancel function is called.
func withInterrupt(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)

	interruptChannel := make(chan os.Signal, 1)
	signal.Notify(interruptChannel, interruptSignals...)
	go func() {
		defer signal.Stop(interruptChannel)

		select {
		case sig := <-interruptChannel:
			log.DogeLog.Infof("Received signal (%s).  Aborting...", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
