package serialize

import (
	"encoding/binary"
	"fmt"
	"io"

	"gypsumc/internal/errors"
)

// Decoded is the structural mirror of what Write encodes: just enough
// of the binary package format (header, string table, per-function and
// per-class records) to let tests assert a round trip without pulling
// in a full VM-side loader, which is out of this backend's scope.
type Decoded struct {
	Major, Minor  int16
	Flags         int64
	Strings       []string
	Functions     []DecodedFunction
	Classes       []DecodedClass
	EntryFunction int
}

// DecodedType mirrors appendType's two-VBN encoding: a nullability flag
// followed by a class id.
type DecodedType struct {
	Nullable bool
	ClassID  int
}

type DecodedFunction struct {
	ReturnType     DecodedType
	ParameterTypes []DecodedType
	LocalsSize     int
	Instructions   []byte
	BlockOffsets   []int
}

type DecodedClass struct {
	Supertype      DecodedType
	FieldTypes     []DecodedType
	ConstructorIDs []int
	MethodIDs      []int
}

// Read decodes r back into a Decoded value, the inverse of Write. It
// reads the whole stream into memory first, matching Write's own
// build-a-buffer-then-emit style rather than an incremental bufio
// reader, since a compiled package is never large enough for streaming
// decode to matter here.
func Read(r io.Reader) (*Decoded, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "serialize: reading package")
	}
	d := &cursor{data: data}

	out := &Decoded{}
	magic := d.readUint32()
	if magic != magicNumber {
		return nil, fmt.Errorf("serialize: bad magic number %#x", magic)
	}
	out.Major = d.readInt16()
	out.Minor = d.readInt16()
	out.Flags = d.readInt64()
	numStrings := d.readInt64()
	numFunctions := d.readInt64()
	numClasses := d.readInt64()
	out.EntryFunction = int(d.readInt64())
	if d.err != nil {
		return nil, errors.Wrap(d.err, "serialize: reading header")
	}

	for i := int64(0); i < numStrings; i++ {
		out.Strings = append(out.Strings, d.readString())
	}
	for i := int64(0); i < numFunctions; i++ {
		out.Functions = append(out.Functions, d.readFunction())
	}
	for i := int64(0); i < numClasses; i++ {
		out.Classes = append(out.Classes, d.readClass())
	}
	if d.err != nil {
		return nil, errors.Wrap(d.err, "serialize: reading package body")
	}
	return out, nil
}

type cursor struct {
	data []byte
	pos  int
	err  error
}

func (d *cursor) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

func (d *cursor) need(n int) bool {
	if d.err != nil {
		return false
	}
	if d.pos+n > len(d.data) {
		d.fail(io.ErrUnexpectedEOF)
		return false
	}
	return true
}

func (d *cursor) readUint32() uint32 {
	if !d.need(4) {
		return 0
	}
	v := binary.LittleEndian.Uint32(d.data[d.pos:])
	d.pos += 4
	return v
}

func (d *cursor) readInt16() int16 {
	if !d.need(2) {
		return 0
	}
	v := int16(binary.LittleEndian.Uint16(d.data[d.pos:]))
	d.pos += 2
	return v
}

func (d *cursor) readInt64() int64 {
	if !d.need(8) {
		return 0
	}
	v := int64(binary.LittleEndian.Uint64(d.data[d.pos:]))
	d.pos += 8
	return v
}

// readVbn is writeVbn's mirror: decode one signed LEB128 value,
// sign-extending from the last byte's continuation-less payload bit.
func (d *cursor) readVbn() int64 {
	var result int64
	var shift uint
	for {
		if !d.need(1) {
			return 0
		}
		b := d.data[d.pos]
		d.pos++
		result |= int64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			if shift < 64 && b&0x40 != 0 {
				result |= -1 << shift
			}
			return result
		}
	}
}

// readString consumes the rune-length prefix only to advance past it
// (the wire format carries it for the runtime's string-indexing
// operations; this decoder has no subscripting to validate it against).
func (d *cursor) readString() string {
	d.readVbn()
	byteLen := d.readVbn()
	if !d.need(int(byteLen)) {
		return ""
	}
	s := string(d.data[d.pos : d.pos+int(byteLen)])
	d.pos += int(byteLen)
	return s
}

func (d *cursor) readType() DecodedType {
	flags := d.readVbn()
	classID := d.readVbn()
	return DecodedType{Nullable: flags == 1, ClassID: int(classID)}
}

func (d *cursor) readFunction() DecodedFunction {
	var fn DecodedFunction
	fn.ReturnType = d.readType()
	numParams := d.readVbn()
	for i := int64(0); i < numParams; i++ {
		fn.ParameterTypes = append(fn.ParameterTypes, d.readType())
	}
	fn.LocalsSize = int(d.readVbn())

	numInstBytes := d.readVbn()
	if d.need(int(numInstBytes)) {
		fn.Instructions = append([]byte(nil), d.data[d.pos:d.pos+int(numInstBytes)]...)
		d.pos += int(numInstBytes)
	}
	numOffsets := d.readVbn()
	for i := int64(0); i < numOffsets; i++ {
		fn.BlockOffsets = append(fn.BlockOffsets, int(d.readVbn()))
	}
	return fn
}

func (d *cursor) readClass() DecodedClass {
	var c DecodedClass
	c.Supertype = d.readType()

	numFields := d.readVbn()
	for i := int64(0); i < numFields; i++ {
		c.FieldTypes = append(c.FieldTypes, d.readType())
	}
	numCtors := d.readVbn()
	for i := int64(0); i < numCtors; i++ {
		c.ConstructorIDs = append(c.ConstructorIDs, int(d.readVbn()))
	}
	numMethods := d.readVbn()
	for i := int64(0); i < numMethods; i++ {
		c.MethodIDs = append(c.MethodIDs, int(d.readVbn()))
	}
	return c
}
