// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

// TestChecksum ensures the header checksum matches known vectors.
func TestChecksum(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		want    [ChecksumSize]byte
	}{
		{"empty payload", nil, [ChecksumSize]byte{0x5d, 0xf6, 0xe0, 0xe2}},
		{"testnet version payload", testVersionPayload(),
			[ChecksumSize]byte{0xa2, 0xbb, 0x58, 0x1c}},
	}

	for _, test := range tests {
		if got := Checksum(test.payload); got != test.want {
			t.Errorf("%s: got %x, want %x", test.name, got, test.want)
		}
	}
}

// TestVerifyChecksum ensures checksums are only verified on request and that
// a mismatch is reported.
func TestVerifyChecksum(t *testing.T) {
	payload := testVersionPayload()
	hdr, err := ParseHeader(testVersionMessage)
	if err != nil {
		t.Fatalf("ParseHeader: unexpected error %v", err)
	}
	if err := VerifyChecksum(hdr, payload); err != nil {
		t.Fatalf("VerifyChecksum: unexpected error %v", err)
	}

	// Flip a bit of the payload.  Decoding still succeeds since the
	// decoders never look at the checksum.
	corrupt := append([]byte{}, testVersionMessage...)
	corrupt[len(corrupt)-2] ^= 0x01
	hdr, _, err = DecodeVersion(corrupt)
	if err != nil {
		t.Fatalf("DecodeVersion: unexpected error %v", err)
	}
	err = VerifyChecksum(hdr, corrupt[MessageHeaderSize:])
	if !IsErrorCode(err, ErrChecksumMismatch) {
		t.Fatalf("VerifyChecksum: got %v, want %v", err,
			ErrChecksumMismatch)
	}
}

// TestVerifyChecksumTrailingBytes ensures a buffer holding more than one
// message verifies when the payload is bounded by the header length.
func TestVerifyChecksumTrailingBytes(t *testing.T) {
	buf := append(append([]byte{}, testVersionMessage...),
		EncodeVerAck(TestNet)...)
	hdr, _, err := DecodeVersion(buf)
	if err != nil {
		t.Fatalf("DecodeVersion: unexpected error %v", err)
	}

	payload := buf[MessageHeaderSize : MessageHeaderSize+int(hdr.Length)]
	if err := VerifyChecksum(hdr, payload); err != nil {
		t.Fatalf("VerifyChecksum: unexpected error %v", err)
	}

	// The unbounded remainder includes the verack and must not verify.
	err = VerifyChecksum(hdr, buf[MessageHeaderSize:])
	if !IsErrorCode(err, ErrChecksumMismatch) {
		t.Fatalf("VerifyChecksum: got %v, want %v", err,
			ErrChecksumMismatch)
	}
}

// TestHeaderRoundTrip ensures BuildHeader and ParseHeader agree for a variety
// of networks, commands and payloads.
func TestHeaderRoundTrip(t *testing.T) {
	tests := []struct {
		net     DogecoinNet
		command string
		payload []byte
	}{
		{MainNet, CmdVersion, testVersionPayload()},
		{TestNet, CmdVerAck, nil},
		{RegTest, "a", []byte{0x00}},
		{MainNet, "twelve-chars", bytes.Repeat([]byte{0xfa}, 1000)},
		{TestNet, "sendheaders", []byte("much wow")},
	}

	t.Logf("Running %d tests", len(tests))
	for i, test := range tests {
		buf, err := BuildHeader(test.net, test.command, test.payload)
		if err != nil {
			t.Errorf("BuildHeader #%d error %v", i, err)
			continue
		}
		if len(buf) != MessageHeaderSize {
			t.Errorf("BuildHeader #%d got %d bytes, want %d", i,
				len(buf), MessageHeaderSize)
			continue
		}

		hdr, err := ParseHeader(buf)
		if err != nil {
			t.Errorf("ParseHeader #%d error %v", i, err)
			continue
		}
		want := &MessageHeader{
			Net:      test.net,
			Command:  test.command,
			Length:   uint32(len(test.payload)),
			Checksum: Checksum(test.payload),
		}
		if !reflect.DeepEqual(hdr, want) {
			t.Errorf("ParseHeader #%d\n got: %s want: %s", i,
				spew.Sdump(hdr), spew.Sdump(want))
			continue
		}
	}
}

// TestBuildHeaderVectors ensures exact header bytes for known messages.
func TestBuildHeaderVectors(t *testing.T) {
	verAckHeader := []byte{
		0xfc, 0xc1, 0xb7, 0xdc, // Magic
		'v', 'e', 'r', 'a', 'c', 'k', 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, // Length
		0x5d, 0xf6, 0xe0, 0xe2, // Checksum
	}
	buf, err := BuildHeader(TestNet, CmdVerAck, nil)
	if err != nil {
		t.Fatalf("BuildHeader: unexpected error %v", err)
	}
	if !bytes.Equal(buf, verAckHeader) {
		t.Fatalf("BuildHeader\n got: %s want: %s", spew.Sdump(buf),
			spew.Sdump(verAckHeader))
	}

	buf, err = BuildHeader(TestNet, CmdVersion, testVersionPayload())
	if err != nil {
		t.Fatalf("BuildHeader: unexpected error %v", err)
	}
	if !bytes.Equal(buf, testVersionMessage[:MessageHeaderSize]) {
		t.Fatalf("BuildHeader\n got: %s want: %s", spew.Sdump(buf),
			spew.Sdump(testVersionMessage[:MessageHeaderSize]))
	}
}

// TestBuildHeaderErrors ensures overlong commands are rejected.
func TestBuildHeaderErrors(t *testing.T) {
	_, err := BuildHeader(MainNet, "thirteenchars", nil)
	if !IsErrorCode(err, ErrCommandTooLong) {
		t.Fatalf("BuildHeader: got %v, want %v", err, ErrCommandTooLong)
	}
}

// TestParseHeaderErrors performs negative tests against header decoding.
func TestParseHeaderErrors(t *testing.T) {
	valid, err := BuildHeader(TestNet, CmdVerAck, nil)
	if err != nil {
		t.Fatalf("BuildHeader: unexpected error %v", err)
	}

	unknownNet := append([]byte{}, valid...)
	copy(unknownNet, []byte{0xf9, 0xbe, 0xb4, 0xd9})

	emptyCommand := append([]byte{}, valid...)
	copy(emptyCommand[4:16], make([]byte, CommandSize))

	tests := []struct {
		name string
		buf  []byte
		want ErrorCode
	}{
		{"nil buffer", nil, ErrTooShort},
		{"23 bytes", valid[:MessageHeaderSize-1], ErrTooShort},
		{"bitcoin magic", unknownNet, ErrUnknownNetworkType},
		{"all NUL command", emptyCommand, ErrCommandIsEmpty},
	}

	for _, test := range tests {
		_, err := ParseHeader(test.buf)
		if !IsErrorCode(err, test.want) {
			t.Errorf("%s: got %v, want %v", test.name, err, test.want)
		}
	}
}

// TestParseHeaderIgnoresPayload ensures only the first MessageHeaderSize bytes
// are looked at and that the command is stripped of its padding only.
func TestParseHeaderIgnoresPayload(t *testing.T) {
	buf := append([]byte{}, testVersionMessage...)
	hdr, err := ParseHeader(buf)
	if err != nil {
		t.Fatalf("ParseHeader: unexpected error %v", err)
	}
	want := &MessageHeader{
		Net:      TestNet,
		Command:  CmdVersion,
		Length:   105,
		Checksum: [ChecksumSize]byte{0xa2, 0xbb, 0x58, 0x1c},
	}
	if !reflect.DeepEqual(hdr, want) {
		t.Fatalf("ParseHeader\n got: %s want: %s", spew.Sdump(hdr),
			spew.Sdump(want))
	}
}

// TestReadMessageHeader ensures headers are read from a stream and that short
// streams report how much was read.
func TestReadMessageHeader(t *testing.T) {
	r := bytes.NewReader(testVersionMessage)
	n, hdr, err := ReadMessageHeader(r)
	if err != nil {
		t.Fatalf("ReadMessageHeader: unexpected error %v", err)
	}
	if n != MessageHeaderSize {
		t.Errorf("ReadMessageHeader: read %d bytes, want %d", n,
			MessageHeaderSize)
	}
	if hdr.Command != CmdVersion || hdr.Length != 105 {
		t.Errorf("ReadMessageHeader: got command %q length %d",
			hdr.Command, hdr.Length)
	}
	if r.Len() != len(testVersionMessage)-MessageHeaderSize {
		t.Errorf("ReadMessageHeader: consumed more than the header")
	}

	n, _, err = ReadMessageHeader(bytes.NewReader(testVersionMessage[:10]))
	if err != io.ErrUnexpectedEOF || n != 10 {
		t.Errorf("ReadMessageHeader: got n=%d err=%v, want n=10 err=%v",
			n, err, io.ErrUnexpectedEOF)
	}

	bad := append([]byte{}, testVersionMessage[:MessageHeaderSize]...)
	copy(bad[0:4], []byte{0xf9, 0xbe, 0xb4, 0xd9})
	n, _, err = ReadMessageHeader(bytes.NewReader(bad))
	if !IsErrorCode(err, ErrUnknownNetworkType) || n != MessageHeaderSize {
		t.Errorf("ReadMessageHeader: got n=%d err=%v, want %v", n, err,
			ErrUnknownNetworkType)
	}
}
