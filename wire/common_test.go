// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

// TestVarIntWire tests wire encode and decode for variable length integers
// across every size class boundary.
func TestVarIntWire(t *testing.T) {
	tests := []struct {
		in   uint64 // Value to encode
		buf  []byte // Wire encoding
		size int    // Expected serialize size
	}{
		// Single byte
		{0, []byte{0x00}, 1},
		{1, []byte{0x01}, 1},
		// Max single byte
		{0xfc, []byte{0xfc}, 1},
		// Min 2-byte
		{0xfd, []byte{0xfd, 0xfd, 0x00}, 3},
		// Max 2-byte
		{math.MaxUint16, []byte{0xfd, 0xff, 0xff}, 3},
		// Min 4-byte
		{0x10000, []byte{0xfe, 0x00, 0x00, 0x01, 0x00}, 5},
		// Max 4-byte
		{math.MaxUint32, []byte{0xfe, 0xff, 0xff, 0xff, 0xff}, 5},
		// Min 8-byte
		{
			0x100000000,
			[]byte{0xff, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00},
			9,
		},
		// Max 8-byte
		{
			math.MaxUint64,
			[]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
			9,
		},
	}

	t.Logf("Running %d tests", len(tests))
	for i, test := range tests {
		// Encode to wire format.
		var buf bytes.Buffer
		err := WriteVarInt(&buf, test.in)
		if err != nil {
			t.Errorf("WriteVarInt #%d error %v", i, err)
			continue
		}
		if !bytes.Equal(buf.Bytes(), test.buf) {
			t.Errorf("WriteVarInt #%d\n got: %s want: %s", i,
				spew.Sdump(buf.Bytes()), spew.Sdump(test.buf))
			continue
		}

		if size := VarIntSerializeSize(test.in); size != test.size {
			t.Errorf("VarIntSerializeSize #%d got: %d, want: %d", i,
				size, test.size)
			continue
		}

		// Decode from wire format.
		rbuf := bytes.NewReader(test.buf)
		val, err := ReadVarInt(rbuf)
		if err != nil {
			t.Errorf("ReadVarInt #%d error %v", i, err)
			continue
		}
		if val != test.in {
			t.Errorf("ReadVarInt #%d\n got: %d want: %d", i,
				val, test.in)
			continue
		}
	}
}

// TestVarIntWireErrors performs negative tests against wire encode and decode
// of variable length integers to confirm error paths work correctly.
func TestVarIntWireErrors(t *testing.T) {
	tests := []struct {
		in       uint64 // Value to encode
		buf      []byte // Wire encoding
		max      int    // Max size of fixed buffer to induce errors
		writeErr error  // Expected write error
	}{
		// Force errors on discriminant.
		{0, []byte{0x00}, 0, io.ErrShortWrite},
		// Force errors on 2-byte read/write.
		{0xfd, []byte{0xfd}, 2, io.ErrShortWrite},
		// Force errors on 4-byte read/write.
		{0x10000, []byte{0xfe}, 2, io.ErrShortWrite},
		// Force errors on 8-byte read/write.
		{0x100000000, []byte{0xff}, 2, io.ErrShortWrite},
	}

	t.Logf("Running %d tests", len(tests))
	for i, test := range tests {
		// Encode to wire format.
		w := newFixedWriter(test.max)
		err := WriteVarInt(w, test.in)
		if err != test.writeErr {
			t.Errorf("WriteVarInt #%d wrong error got: %v, want: %v",
				i, err, test.writeErr)
			continue
		}

		// Decode from wire format.
		r := newFixedReader(test.max, test.buf)
		_, err = ReadVarInt(r)
		if !IsErrorCode(err, ErrBufferTooShort) {
			t.Errorf("ReadVarInt #%d wrong error got: %v, want: %v",
				i, err, ErrBufferTooShort)
			continue
		}
	}
}

// TestVarStringWire tests wire encode and decode for variable length strings
// at the size class boundaries.
func TestVarStringWire(t *testing.T) {
	tests := []struct {
		length int    // Length of the string
		prefix []byte // Expected length prefix
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{252, []byte{0xfc}},
		{253, []byte{0xfd, 0xfd, 0x00}},
		{65535, []byte{0xfd, 0xff, 0xff}},
		{65536, []byte{0xfe, 0x00, 0x00, 0x01, 0x00}},
	}

	t.Logf("Running %d tests", len(tests))
	for i, test := range tests {
		str := strings.Repeat("d", test.length)
		want := append(append([]byte{}, test.prefix...), str...)

		// Encode to wire format.
		var buf bytes.Buffer
		err := WriteVarString(&buf, str)
		if err != nil {
			t.Errorf("WriteVarString #%d error %v", i, err)
			continue
		}
		if !bytes.Equal(buf.Bytes(), want) {
			t.Errorf("WriteVarString #%d wrong encoding - prefix "+
				"got: %x want: %x", i, buf.Bytes()[:len(test.prefix)],
				test.prefix)
			continue
		}

		size, err := VarStringSerializeSize(uint64(test.length))
		if err != nil || size != len(want) {
			t.Errorf("VarStringSerializeSize #%d got: %d (%v), "+
				"want: %d", i, size, err, len(want))
			continue
		}

		// Decode from wire format.
		val, err := ReadVarString(bytes.NewReader(want))
		if err != nil {
			t.Errorf("ReadVarString #%d error %v", i, err)
			continue
		}
		if val != str {
			t.Errorf("ReadVarString #%d got %d bytes, want %d", i,
				len(val), len(str))
			continue
		}

		// Decode from a larger buffer and check the consumed count.
		trailing := append(append([]byte{}, want...), 0xaa, 0xbb)
		val, n, err := DecodeVarString(trailing)
		if err != nil {
			t.Errorf("DecodeVarString #%d error %v", i, err)
			continue
		}
		if val != str || n != len(want) {
			t.Errorf("DecodeVarString #%d got %d bytes consuming "+
				"%d, want %d consuming %d", i, len(val), n,
				len(str), len(want))
			continue
		}
	}
}

// TestVarStringMaxClass ensures the largest 4-byte size class is sized and
// prefixed correctly without allocating the string itself.
func TestVarStringMaxClass(t *testing.T) {
	size, err := VarStringSerializeSize(math.MaxUint32)
	if err != nil {
		t.Fatalf("VarStringSerializeSize: unexpected error %v", err)
	}
	if want := uint64(5) + math.MaxUint32; uint64(size) != want {
		t.Fatalf("VarStringSerializeSize: got %d, want %d", size, want)
	}

	var buf bytes.Buffer
	if err := WriteVarInt(&buf, math.MaxUint32); err != nil {
		t.Fatalf("WriteVarInt: unexpected error %v", err)
	}
	wantPrefix := []byte{0xfe, 0xff, 0xff, 0xff, 0xff}
	if !bytes.Equal(buf.Bytes(), wantPrefix) {
		t.Fatalf("WriteVarInt: got %x, want %x", buf.Bytes(), wantPrefix)
	}

	// The prefix announces far more content than is present.
	encoded := append(buf.Bytes(), "much"...)
	_, _, err = DecodeVarString(encoded)
	if !IsErrorCode(err, ErrBufferTooShort) {
		t.Fatalf("DecodeVarString: got %v, want %v", err,
			ErrBufferTooShort)
	}

	_, err = VarStringSerializeSize(math.MaxUint64)
	if !IsErrorCode(err, ErrStringTooLong) {
		t.Fatalf("VarStringSerializeSize: got %v, want %v", err,
			ErrStringTooLong)
	}
}

// TestVarStringWireErrors performs negative tests against wire encode and
// decode of variable length strings to confirm error paths work correctly.
func TestVarStringWireErrors(t *testing.T) {
	str256 := strings.Repeat("test", 64)

	tests := []struct {
		in       string // Value to encode
		buf      []byte // Wire encoding
		max      int    // Max size of fixed buffer to induce errors
		writeErr error  // Expected write error
	}{
		// Force errors on empty string.
		{"", []byte{0x00}, 0, io.ErrShortWrite},
		// Force error on single byte varint + string.
		{"Test", []byte{0x04}, 2, io.ErrShortWrite},
		// Force errors on 2-byte varint + string.
		{str256, []byte{0xfd}, 2, io.ErrShortWrite},
	}

	t.Logf("Running %d tests", len(tests))
	for i, test := range tests {
		// Encode to wire format.
		w := newFixedWriter(test.max)
		err := WriteVarString(w, test.in)
		if err != test.writeErr {
			t.Errorf("WriteVarString #%d wrong error got: %v, want: %v",
				i, err, test.writeErr)
			continue
		}

		// Decode from wire format.
		r := newFixedReader(test.max, test.buf)
		_, err = ReadVarString(r)
		if !IsErrorCode(err, ErrBufferTooShort) {
			t.Errorf("ReadVarString #%d wrong error got: %v, want: %v",
				i, err, ErrBufferTooShort)
			continue
		}
	}
}

// TestDecodeVarStringErrors ensures truncated prefixes and contents are
// reported as ErrBufferTooShort.
func TestDecodeVarStringErrors(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
	}{
		{"empty buffer", nil},
		{"truncated 2-byte prefix", []byte{0xfd, 0x01}},
		{"truncated 4-byte prefix", []byte{0xfe, 0x01, 0x00}},
		{"truncated 8-byte prefix", []byte{0xff, 0x01, 0x00, 0x00}},
		{"truncated content", []byte{0x05, 'd', 'o', 'g'}},
		{"huge 8-byte length", []byte{0xff, 0xff, 0xff, 0xff, 0xff,
			0xff, 0xff, 0xff, 0xff, 'x'}},
	}

	for _, test := range tests {
		_, _, err := DecodeVarString(test.buf)
		if !IsErrorCode(err, ErrBufferTooShort) {
			t.Errorf("%s: got %v, want %v", test.name, err,
				ErrBufferTooShort)
		}
	}
}

// TestDecodeVarStringVerbatim ensures embedded NUL bytes are preserved.
func TestDecodeVarStringVerbatim(t *testing.T) {
	buf := []byte{0x04, 'a', 0x00, 'b', 0x00}
	val, n, err := DecodeVarString(buf)
	if err != nil {
		t.Fatalf("DecodeVarString: unexpected error %v", err)
	}
	if val != "a\x00b\x00" || n != 5 {
		t.Fatalf("DecodeVarString: got %q consuming %d", val, n)
	}
}

// TestRandomUint64Errors uses a fake reader to force error paths to be
// executed and checks the results accordingly.
func TestRandomUint64Errors(t *testing.T) {
	// Test short reads.
	_, err := randomUint64(bytes.NewReader([]byte{0x01, 0x02}))
	if err != io.ErrUnexpectedEOF {
		t.Errorf("randomUint64: wrong error got %v, want %v", err,
			io.ErrUnexpectedEOF)
	}

	nonce, err := randomUint64(bytes.NewReader([]byte{
		0x45, 0xdf, 0x74, 0xaf, 0xc8, 0x94, 0x63, 0xf8,
	}))
	if err != nil {
		t.Fatalf("randomUint64: unexpected error %v", err)
	}
	if nonce != 17898312933758525253 {
		t.Errorf("randomUint64: got %d, want %d", nonce,
			uint64(17898312933758525253))
	}
}
