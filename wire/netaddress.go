// Copyright (c) 2013-2015 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
)

// NetAddressSize is the number of bytes of an encoded NetAddress as it
// appears in the version message: services 8 bytes + ip 16 bytes + port 2
// bytes.
const NetAddressSize = 26

// NetAddress defines information about a peer on the network including the
// services it supports, its IP address, and port.  The version message does
// not carry the last-seen timestamp other messages attach to addresses.
type NetAddress struct {
	// Bitfield which identifies the services supported by the address.
	Services ServiceFlag

	// IP address of the peer in its 16 byte form.  IPv4 addresses are
	// carried IPv4-mapped (::ffff:a.b.c.d).
	IP net.IP

	// Port the peer is using.  This is encoded in big endian on the wire
	// which differs from most everything else.
	Port uint16
}

// HasService returns whether the specified service is supported by the address.
func (na *NetAddress) HasService(service ServiceFlag) bool {
	return na.Services&service == service
}

// NewNetAddressIPPort returns a new NetAddress using the provided IP, port, and
// supported services.
func NewNetAddressIPPort(ip net.IP, port uint16, services ServiceFlag) *NetAddress {
	return &NetAddress{
		Services: services,
		IP:       ip,
		Port:     port,
	}
}

// readNetAddress reads an encoded NetAddress from r.
func readNetAddress(r io.Reader, na *NetAddress) error {
	var ip [16]byte
	err := readElements(r, &na.Services, &ip)
	if err != nil {
		return err
	}

	// Sigh.  Dogecoin protocol mixes little and big endian.
	var port [2]byte
	if err := readFull("readNetAddress", r, port[:]); err != nil {
		return err
	}

	*na = NetAddress{
		Services: na.Services,
		IP:       net.IP(ip[:]),
		Port:     bigEndian.Uint16(port[:]),
	}
	return nil
}

// writeNetAddress serializes a NetAddress to w.
func writeNetAddress(w io.Writer, na *NetAddress) error {
	// Ensure to always write 16 bytes even if the ip is nil.
	var ip [16]byte
	if na.IP != nil {
		copy(ip[:], na.IP.To16())
	}
	err := writeElements(w, na.Services, ip)
	if err != nil {
		return err
	}

	// Sigh.  Dogecoin protocol mixes little and big endian.
	var port [2]byte
	bigEndian.PutUint16(port[:], na.Port)
	_, err = w.Write(port[:])
	return err
}

// DecodeNetAddress decodes the NetAddressSize bytes at the start of b.
func DecodeNetAddress(b []byte) (*NetAddress, error) {
	if len(b) < NetAddressSize {
		str := fmt.Sprintf("address needs %d bytes, have %d",
			NetAddressSize, len(b))
		return nil, messageError("DecodeNetAddress", ErrBufferTooShort, str)
	}

	var na NetAddress
	if err := readNetAddress(bytes.NewReader(b[:NetAddressSize]), &na); err != nil {
		return nil, err
	}
	return &na, nil
}

// EncodeNetAddress returns the NetAddressSize byte encoding of na.
func EncodeNetAddress(na *NetAddress) ([]byte, error) {
	w := bytes.NewBuffer(make([]byte, 0, NetAddressSize))
	if err := writeNetAddress(w, na); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// ParseIPv4 parses a dotted-quad IPv4 literal made of exactly four decimal
// octets in the range 0-255 and returns it in its IPv4-mapped 16 byte form.
// Anything else, including literals net.ParseIP would accept such as IPv6
// addresses, fails with ErrIntegerParsing.
func ParseIPv4(literal string) (net.IP, error) {
	parts := strings.Split(literal, ".")
	if len(parts) != net.IPv4len {
		str := fmt.Sprintf("ip address %q does not have %d octets",
			literal, net.IPv4len)
		return nil, messageError("ParseIPv4", ErrIntegerParsing, str)
	}

	var octets [net.IPv4len]byte
	for i, part := range parts {
		// ParseUint rejects signs and empty octets.
		v, err := strconv.ParseUint(part, 10, 8)
		if err != nil {
			str := fmt.Sprintf("ip address %q has invalid octet %q",
				literal, part)
			return nil, messageError("ParseIPv4", ErrIntegerParsing, str)
		}
		octets[i] = uint8(v)
	}

	return net.IPv4(octets[0], octets[1], octets[2], octets[3]), nil
}
