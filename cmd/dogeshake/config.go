// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/dogeshake/internal/log"
	"github.com/btcsuite/dogeshake/internal/version"
	"github.com/btcsuite/dogeshake/wire"
	"github.com/btcsuite/go-socks/socks"
	flags "github.com/jessevdk/go-flags"
)

const (
	defaultLogFilename = "dogeshake.log"
	defaultLogLevel    = "info"
	defaultTimeout     = 30 * time.Second
)

var (
	dogeshakeHomeDir = btcutil.AppDataDir("dogeshake", false)
	defaultLogDir    = filepath.Join(dogeshakeHomeDir, "logs")
)

// config defines the configuration options for dogeshake.
//
// See loadConfig for details on the configuration load process.
type config struct {
	ShowVersion    bool          `short:"V" long:"version" description:"Display version information and exit"`
	MainNet        bool          `long:"mainnet" description:"Use the main network"`
	TestNet        bool          `long:"testnet" description:"Use the test network (default)"`
	RegTest        bool          `long:"regtest" description:"Use the regression test network"`
	UserAgent      string        `long:"useragent" description:"User agent advertised to the peer"`
	Timeout        time.Duration `long:"timeout" description:"Time allowed for connecting and completing the handshake"`
	Proxy          string        `long:"proxy" description:"Connect via SOCKS5 proxy (eg. 127.0.0.1:9050)"`
	ProxyUser      string        `long:"proxyuser" description:"Username for proxy server"`
	ProxyPass      string        `long:"proxypass" default-mask:"-" description:"Password for proxy server"`
	LogDir         string        `long:"logdir" description:"Directory to log output"`
	NoFileLogging  bool          `long:"nofilelogging" description:"Disable file logging"`
	DebugLevel     string        `short:"d" long:"debuglevel" description:"Logging level {trace, debug, info, warn, error, critical, off}"`
	VerifyChecksum bool          `long:"verifychecksum" description:"Reject a peer version whose payload does not match its checksum"`

	Args struct {
		Host string `positional-arg-name:"host" description:"IPv4 address of the peer"`
		Port string `positional-arg-name:"port" description:"Port of the peer"`
	} `positional-args:"yes" required:"yes"`

	net  wire.DogecoinNet
	port uint16
	dial func(network, addr string, timeout time.Duration) (net.Conn, error)
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		homeDir := filepath.Dir(dogeshakeHomeDir)
		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but they variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}

// loadConfig initializes and parses the config using command line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for the version flag
//  3. Parse the command line, which includes the peer host and port
//  4. Validate the network selection, peer address and log settings
func loadConfig(args []string) (*config, error) {
	// Pre-parse the command line options to see if the version was
	// requested.  Any errors aside from that are caught by the full parse
	// below, which requires the positional arguments.
	preCfg := struct {
		ShowVersion bool `short:"V" long:"version"`
	}{}
	preParser := flags.NewParser(&preCfg, flags.IgnoreUnknown)
	_, _ = preParser.ParseArgs(args)

	// Show the version and exit if the version flag was specified.
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	if preCfg.ShowVersion {
		fmt.Println(appName, "version", version.String())
		os.Exit(0)
	}

	// Default config.
	cfg := config{
		UserAgent:  wire.DefaultUserAgent,
		Timeout:    defaultTimeout,
		LogDir:     defaultLogDir,
		DebugLevel: defaultLogLevel,
	}

	// Parse command line options.
	parser := flags.NewParser(&cfg, flags.Default)
	_, err := parser.ParseArgs(args)
	if err != nil {
		if e, ok := err.(*flags.Error); !ok || e.Type != flags.ErrHelp {
			parser.WriteHelp(os.Stderr)
		}
		return nil, err
	}

	// Multiple networks can't be selected simultaneously.
	funcName := "loadConfig"
	numNets := 0
	cfg.net = wire.TestNet
	if cfg.MainNet {
		numNets++
		cfg.net = wire.MainNet
	}
	if cfg.TestNet {
		numNets++
		cfg.net = wire.TestNet
	}
	if cfg.RegTest {
		numNets++
		cfg.net = wire.RegTest
	}
	if numNets > 1 {
		str := "%s: the mainnet, testnet and regtest params can't be " +
			"used together -- choose one of the three"
		return nil, fmt.Errorf(str, funcName)
	}

	// The version message can only carry an IPv4 peer address.
	if _, err := wire.ParseIPv4(cfg.Args.Host); err != nil {
		str := "%s: the peer host [%v] is not an IPv4 address"
		return nil, fmt.Errorf(str, funcName, cfg.Args.Host)
	}
	port, err := strconv.ParseUint(cfg.Args.Port, 10, 16)
	if err != nil {
		str := "%s: the peer port [%v] is invalid"
		return nil, fmt.Errorf(str, funcName, cfg.Args.Port)
	}
	cfg.port = uint16(port)

	if cfg.Timeout <= 0 {
		str := "%s: the timeout [%v] must be positive"
		return nil, fmt.Errorf(str, funcName, cfg.Timeout)
	}

	if len(cfg.UserAgent) > wire.MaxUserAgentLen {
		str := "%s: the user agent is longer than %d bytes"
		return nil, fmt.Errorf(str, funcName, wire.MaxUserAgentLen)
	}

	// Validate debug log level.
	if !log.ValidLogLevel(cfg.DebugLevel) {
		str := "%s: the specified debug level [%v] is invalid"
		return nil, fmt.Errorf(str, funcName, cfg.DebugLevel)
	}

	// Append the network type to the log directory so it is "namespaced"
	// per network.
	cfg.LogDir = cleanAndExpandPath(cfg.LogDir)
	cfg.LogDir = filepath.Join(cfg.LogDir, strings.ToLower(cfg.net.String()))

	// Setup the dial function depending on the specified options.  The
	// default is to use the standard net.DialTimeout function.
	cfg.dial = net.DialTimeout
	if cfg.Proxy != "" {
		_, _, err := net.SplitHostPort(cfg.Proxy)
		if err != nil {
			str := "%s: proxy address '%s' is invalid: %v"
			return nil, fmt.Errorf(str, funcName, cfg.Proxy, err)
		}

		proxy := &socks.Proxy{
			Addr:     cfg.Proxy,
			Username: cfg.ProxyUser,
			Password: cfg.ProxyPass,
		}
		cfg.dial = proxy.DialTimeout
	}

	return &cfg, nil
}

// peerAddr returns the host:port of the configured peer.
func (cfg *config) peerAddr() string {
	return net.JoinHostPort(cfg.Args.Host, cfg.Args.Port)
}
