// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/dogeshake/handshake"
	"github.com/btcsuite/dogeshake/internal/log"
	"github.com/btcsuite/dogeshake/internal/version"
	"github.com/btcsuite/go-socks/socks"
	flags "github.com/jessevdk/go-flags"
)

// realMain is the real main function for the utility.  It is necessary to work
// around the fact that deferred functions do not run when os.Exit() is called.
func realMain() error {
	// Load configuration and parse command line.
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		// go-flags already reported its own errors.
		if _, ok := err.(*flags.Error); !ok {
			fmt.Fprintln(os.Stderr, err)
		}
		return err
	}

	// Setup logging.
	defer os.Stdout.Sync()
	if !cfg.NoFileLogging {
		logFile := filepath.Join(cfg.LogDir, defaultLogFilename)
		if err := log.InitLogRotator(logFile); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return err
		}
		defer log.LogRotator.Close()
	}
	log.SetLogLevels(cfg.DebugLevel)

	log.DogeLog.Infof("Version %s", version.String())

	ctx, cancel := withInterrupt(context.Background())
	defer cancel()

	addr := cfg.peerAddr()
	log.DogeLog.Infof("Connecting to %s on %v", addr, cfg.net)
	conn, err := cfg.dial("tcp", addr, cfg.Timeout)
	if err != nil {
		log.DogeLog.Errorf("Unable to connect to %s: %v", addr, err)
		return err
	}
	defer conn.Close()

	if proxied, ok := conn.RemoteAddr().(*socks.ProxiedAddr); ok {
		log.DogeLog.Debugf("Connected to %s:%d via proxy %s", proxied.Host,
			proxied.Port, cfg.Proxy)
	}

	done, err := handshake.Negotiate(ctx, &handshake.Config{
		Net:            cfg.net,
		Conn:           conn,
		TargetIP:       cfg.Args.Host,
		TargetPort:     cfg.port,
		UserAgent:      cfg.UserAgent,
		SentNonces:     handshake.NewNonceCache(0),
		VerifyChecksum: cfg.VerifyChecksum,
	}, cfg.Timeout)
	if err != nil {
		kind, _ := handshake.KindOf(err)
		log.DogeLog.Errorf("Handshake with %s failed (%v): %v", addr, kind, err)
		return err
	}

	log.DogeLog.Infof("Handshake with %s complete: %s", addr, done.Summary())
	remote := done.RemoteVersion()
	fmt.Printf("User agent:       %s\n", remote.UserAgent)
	fmt.Printf("Protocol version: %d\n", remote.ProtocolVersion)
	fmt.Printf("Services:         %v\n", remote.Services)
	fmt.Printf("Start height:     %d\n", remote.StartHeight)
	fmt.Printf("Relay:            %v\n", remote.Relay)
	return nil
}

func main() {
	// Work around defer not working after os.Exit()
	if err := realMain(); err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}
