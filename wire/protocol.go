// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

const (
	// ProtocolVersion is the protocol version advertised in outgoing
	// version messages.  It is the only version this package speaks.
	ProtocolVersion uint32 = 70015

	// DefaultUserAgent is the user agent advertised by the reference
	// dogecoin client this package was written against.
	DefaultUserAgent = "/Shibetoshi:1.14.6/"
)

// ServiceFlag identifies services supported by a dogecoin peer.
type ServiceFlag uint64

const (
	// SFNodeNetwork is a flag used to indicate a peer is a full node.
	SFNodeNetwork ServiceFlag = 1 << iota

	// SFNodeGetUTXO is a flag used to indicate a peer supports the
	// getutxos and utxos commands (BIP0064).
	SFNodeGetUTXO

	// SFNodeBloom is a flag used to indicate a peer supports bloom
	// filtering.
	SFNodeBloom
)

// Map of service flags back to their constant names for pretty printing.
var sfStrings = map[ServiceFlag]string{
	SFNodeNetwork: "SFNodeNetwork",
	SFNodeGetUTXO: "SFNodeGetUTXO",
	SFNodeBloom:   "SFNodeBloom",
}

// orderedSFStrings is an ordered list of service flags from highest to
// lowest.
var orderedSFStrings = []ServiceFlag{
	SFNodeNetwork,
	SFNodeGetUTXO,
	SFNodeBloom,
}

// String returns the ServiceFlag in human-readable form.
func (f ServiceFlag) String() string {
	// No flags are set.
	if f == 0 {
		return "0x0"
	}

	// Add individual bit flags.
	s := ""
	for _, flag := range orderedSFStrings {
		if f&flag == flag {
			s += sfStrings[flag] + "|"
			f -= flag
		}
	}

	// Add any remaining flags which aren't accounted for as hex.
	s = strings.TrimRight(s, "|")
	if f != 0 {
		s += "|0x" + strconv.FormatUint(uint64(f), 16)
	}
	s = strings.TrimLeft(s, "|")
	return s
}

// DogecoinNet represents which dogecoin network a message belongs to.  The
// numeric value is the little endian reading of the 4 magic bytes that start
// every message on that network.
type DogecoinNet uint32

// Constants used to indicate the message dogecoin network.
const (
	// MainNet represents the main dogecoin network (C0 C0 C0 C0).
	MainNet DogecoinNet = 0xc0c0c0c0

	// TestNet represents the test network (FC C1 B7 DC).
	TestNet DogecoinNet = 0xdcb7c1fc

	// RegTest represents the regression test network (FA BF B5 DA).
	RegTest DogecoinNet = 0xdab5bffa
)

// dnStrings is a map of dogecoin networks back to their constant names for
// pretty printing.
var dnStrings = map[DogecoinNet]string{
	MainNet: "MainNet",
	TestNet: "TestNet",
	RegTest: "RegTest",
}

// String returns the DogecoinNet in human-readable form.
func (n DogecoinNet) String() string {
	if s, ok := dnStrings[n]; ok {
		return s
	}

	return fmt.Sprintf("Unknown DogecoinNet (%d)", uint32(n))
}

// Magic returns the 4 bytes which identify the network on the wire.
func (n DogecoinNet) Magic() [4]byte {
	var magic [4]byte
	binary.LittleEndian.PutUint32(magic[:], uint32(n))
	return magic
}

// NetFromMagic returns the network identified by the passed magic bytes.  The
// match is exact; ErrUnknownMagic is returned for anything else.
func NetFromMagic(magic [4]byte) (DogecoinNet, error) {
	n := DogecoinNet(binary.LittleEndian.Uint32(magic[:]))
	if _, ok := dnStrings[n]; !ok {
		str := fmt.Sprintf("unknown network magic %x", magic[:])
		return 0, messageError("NetFromMagic", ErrUnknownMagic, str)
	}
	return n, nil
}
