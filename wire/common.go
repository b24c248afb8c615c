// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

const (
	// MaxVarIntPayload is the maximum payload size for a variable length
	// integer.
	MaxVarIntPayload = 9

	// varIntMarker16, varIntMarker32 and varIntMarker64 are the
	// discriminants which select a 2, 4 or 8 byte length field.
	varIntMarker16 = 0xfd
	varIntMarker32 = 0xfe
	varIntMarker64 = 0xff
)

// littleEndian is a convenience variable since binary.LittleEndian is quite
// long.
var littleEndian = binary.LittleEndian

// bigEndian is a convenience variable since binary.BigEndian is quite long.
var bigEndian = binary.BigEndian

// readFull reads exactly len(b) bytes from r.  A stream which ends early is
// reported as ErrBufferTooShort on behalf of the named function, any other
// error is returned as is.
func readFull(f string, r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		str := fmt.Sprintf("need %d bytes", len(b))
		return messageError(f, ErrBufferTooShort, str)
	}
	return err
}

// readElement reads the next sequence of bytes from r using little endian
// depending on the concrete type of element pointed to.
func readElement(r io.Reader, element interface{}) error {
	switch e := element.(type) {
	case *uint16:
		var b [2]byte
		if err := readFull("readElement", r, b[:]); err != nil {
			return err
		}
		*e = littleEndian.Uint16(b[:])
		return nil

	case *uint32:
		var b [4]byte
		if err := readFull("readElement", r, b[:]); err != nil {
			return err
		}
		*e = littleEndian.Uint32(b[:])
		return nil

	case *uint64:
		var b [8]byte
		if err := readFull("readElement", r, b[:]); err != nil {
			return err
		}
		*e = littleEndian.Uint64(b[:])
		return nil

	case *ServiceFlag:
		var v uint64
		if err := readElement(r, &v); err != nil {
			return err
		}
		*e = ServiceFlag(v)
		return nil

	case *bool:
		var b [1]byte
		if err := readFull("readElement", r, b[:]); err != nil {
			return err
		}
		*e = b[0] != 0x00
		return nil

	case *[4]byte:
		return readFull("readElement", r, e[:])

	case *[CommandSize]byte:
		return readFull("readElement", r, e[:])

	case *[16]byte:
		return readFull("readElement", r, e[:])
	}

	str := fmt.Sprintf("unsupported element type %T", element)
	return messageError("readElement", ErrUnknownBytes, str)
}

// readElements reads multiple items from r.  It is equivalent to multiple
// calls to readElement.
func readElements(r io.Reader, elements ...interface{}) error {
	for _, element := range elements {
		err := readElement(r, element)
		if err != nil {
			return err
		}
	}
	return nil
}

// writeElement writes the little endian representation of element to w.
func writeElement(w io.Writer, element interface{}) error {
	var err error
	switch e := element.(type) {
	case uint16:
		var b [2]byte
		littleEndian.PutUint16(b[:], e)
		_, err = w.Write(b[:])

	case uint32:
		var b [4]byte
		littleEndian.PutUint32(b[:], e)
		_, err = w.Write(b[:])

	case uint64:
		var b [8]byte
		littleEndian.PutUint64(b[:], e)
		_, err = w.Write(b[:])

	case ServiceFlag:
		err = writeElement(w, uint64(e))

	case bool:
		b := [1]byte{0x00}
		if e {
			b[0] = 0x01
		}
		_, err = w.Write(b[:])

	case [4]byte:
		_, err = w.Write(e[:])

	case [CommandSize]byte:
		_, err = w.Write(e[:])

	case [16]byte:
		_, err = w.Write(e[:])

	default:
		str := fmt.Sprintf("unsupported element type %T", element)
		err = messageError("writeElement", ErrUnknownBytes, str)
	}
	return err
}

// writeElements writes multiple items to w.  It is equivalent to multiple
// calls to writeElement.
func writeElements(w io.Writer, elements ...interface{}) error {
	for _, element := range elements {
		err := writeElement(w, element)
		if err != nil {
			return err
		}
	}
	return nil
}

// ReadVarInt reads a CompactSize variable length integer from r and returns
// it as a uint64.
func ReadVarInt(r io.Reader) (uint64, error) {
	var discriminant [1]byte
	if err := readFull("ReadVarInt", r, discriminant[:]); err != nil {
		return 0, err
	}

	var rv uint64
	switch discriminant[0] {
	case varIntMarker64:
		if err := readElement(r, &rv); err != nil {
			return 0, err
		}

	case varIntMarker32:
		var sv uint32
		if err := readElement(r, &sv); err != nil {
			return 0, err
		}
		rv = uint64(sv)

	case varIntMarker16:
		var sv uint16
		if err := readElement(r, &sv); err != nil {
			return 0, err
		}
		rv = uint64(sv)

	default:
		rv = uint64(discriminant[0])
	}

	return rv, nil
}

// WriteVarInt serializes val to w using a variable number of bytes depending
// on its value.
func WriteVarInt(w io.Writer, val uint64) error {
	if val < varIntMarker16 {
		_, err := w.Write([]byte{uint8(val)})
		return err
	}

	if val <= math.MaxUint16 {
		var b [3]byte
		b[0] = varIntMarker16
		littleEndian.PutUint16(b[1:], uint16(val))
		_, err := w.Write(b[:])
		return err
	}

	if val <= math.MaxUint32 {
		var b [5]byte
		b[0] = varIntMarker32
		littleEndian.PutUint32(b[1:], uint32(val))
		_, err := w.Write(b[:])
		return err
	}

	var b [9]byte
	b[0] = varIntMarker64
	littleEndian.PutUint64(b[1:], val)
	_, err := w.Write(b[:])
	return err
}

// VarIntSerializeSize returns the number of bytes it would take to serialize
// val as a variable length integer.
func VarIntSerializeSize(val uint64) int {
	// The value is small enough to be represented by itself, so it's
	// just 1 byte.
	if val < varIntMarker16 {
		return 1
	}

	// Discriminant 1 byte plus 2 bytes for the uint16.
	if val <= math.MaxUint16 {
		return 3
	}

	// Discriminant 1 byte plus 4 bytes for the uint32.
	if val <= math.MaxUint32 {
		return 5
	}

	// Discriminant 1 byte plus 8 bytes for the uint64.
	return 9
}

// VarStringSerializeSize returns the number of bytes it would take to
// serialize a string of the given length, length prefix included.
// ErrStringTooLong is returned for lengths no prefix can describe.
func VarStringSerializeSize(length uint64) (int, error) {
	if length >= math.MaxUint64 {
		str := fmt.Sprintf("string length %d can't be encoded", length)
		return 0, messageError("VarStringSerializeSize",
			ErrStringTooLong, str)
	}
	return VarIntSerializeSize(length) + int(length), nil
}

// ReadVarString reads a variable length string from r and returns it as a Go
// string.  A variable length string is encoded as a CompactSize integer
// containing the length of the string followed by the bytes that represent
// the string itself.  The bytes are kept verbatim.
func ReadVarString(r io.Reader) (string, error) {
	count, err := ReadVarInt(r)
	if err != nil {
		return "", err
	}

	// Prevent variable length strings that are larger than the maximum
	// message size.  It would be possible to cause memory exhaustion and
	// panics without a sane upper bound on this count.
	if count > MaxMessagePayload {
		str := fmt.Sprintf("variable length string is too long "+
			"[count %d, max %d]", count, MaxMessagePayload)
		return "", messageError("ReadVarString", ErrStringTooLong, str)
	}

	buf := make([]byte, count)
	if err := readFull("ReadVarString", r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// WriteVarString serializes str to w as a variable length integer containing
// the length of the string followed by the bytes that represent the string
// itself.
func WriteVarString(w io.Writer, str string) error {
	if _, err := VarStringSerializeSize(uint64(len(str))); err != nil {
		return err
	}
	err := WriteVarInt(w, uint64(len(str)))
	if err != nil {
		return err
	}
	_, err = w.Write([]byte(str))
	return err
}

// DecodeVarString decodes the variable length string at the start of b.  It
// returns the string along with the number of bytes consumed, marker, length
// field and content included, so callers can locate the fields which follow
// it in a larger buffer.
func DecodeVarString(b []byte) (string, int, error) {
	if len(b) == 0 {
		return "", 0, messageError("DecodeVarString", ErrBufferTooShort,
			"missing length prefix")
	}

	var offset int
	var length uint64
	switch b[0] {
	case varIntMarker16:
		offset = 3
	case varIntMarker32:
		offset = 5
	case varIntMarker64:
		offset = 9
	default:
		offset = 1
		length = uint64(b[0])
	}
	if len(b) < offset {
		str := fmt.Sprintf("length prefix needs %d bytes, have %d",
			offset, len(b))
		return "", 0, messageError("DecodeVarString", ErrBufferTooShort, str)
	}
	switch offset {
	case 3:
		length = uint64(littleEndian.Uint16(b[1:3]))
	case 5:
		length = uint64(littleEndian.Uint32(b[1:5]))
	case 9:
		length = littleEndian.Uint64(b[1:9])
	}

	if length > uint64(len(b)-offset) {
		str := fmt.Sprintf("string of length %d exceeds the %d bytes "+
			"available", length, len(b)-offset)
		return "", 0, messageError("DecodeVarString", ErrBufferTooShort, str)
	}

	end := offset + int(length)
	return string(b[offset:end]), end, nil
}

// randomUint64 returns a cryptographically random uint64 value.  This
// unexported version takes a reader primarily to ensure the error paths
// can be properly tested by passing a fake reader in the tests.
func randomUint64(r io.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return littleEndian.Uint64(b[:]), nil
}

// RandomUint64 returns a cryptographically random uint64 value.
func RandomUint64() (uint64, error) {
	return randomUint64(rand.Reader)
}
