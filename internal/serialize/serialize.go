// Package serialize encodes a compiled *ir.Package into CodeSwitch's
// binary package format (spec section 4.6). Grounded field-for-field on
// original_source/compiler/serialize.py's Serializer: a fixed header,
// then the string table, then one record per function, then one record
// per class — the header's fields plain little-endian integers, every
// other value (including the counts inside each record) a signed VBN
// (internal/serialize/vbn.go), except f32/f64 literal operands, which
// are raw IEEE-754 bit patterns.
package serialize

import (
	"encoding/binary"
	"io"

	"gypsumc/internal/bytecode"
	"gypsumc/internal/builtins"
	"gypsumc/internal/errors"
	"gypsumc/internal/ir"
	"gypsumc/internal/irtypes"
)

const (
	magicNumber  = 0x676b7073
	majorVersion = 0
	minorVersion = 4
)

// Write serializes pkg to w. Any failure is an I/O error, not a
// CompileError — by the time a Package reaches this stage, CFG
// construction and object-model lowering have already validated it.
func Write(pkg *ir.Package, w io.Writer) error {
	s := &serializer{pkg: pkg, reg: builtins.Get()}
	return s.serialize(w)
}

type serializer struct {
	pkg *ir.Package
	reg *builtins.Registry
}

func (s *serializer) serialize(w io.Writer) error {
	if err := s.writeHeader(w); err != nil {
		return errors.Wrap(err, "serialize: writing header")
	}
	for _, str := range s.pkg.Strings() {
		if err := s.writeString(w, str); err != nil {
			return errors.Wrap(err, "serialize: writing string table")
		}
	}
	for _, fn := range s.pkg.Functions {
		if err := s.writeFunction(w, fn); err != nil {
			return errors.Wrap(err, "serialize: writing function "+fn.Name)
		}
	}
	for _, clas := range s.pkg.Classes {
		if err := s.writeClass(w, clas); err != nil {
			return errors.Wrap(err, "serialize: writing class "+clas.Name)
		}
	}
	return nil
}

func (s *serializer) writeHeader(w io.Writer) error {
	var buf []byte
	buf = appendUint32(buf, magicNumber)
	buf = appendInt16(buf, majorVersion)
	buf = appendInt16(buf, minorVersion)
	buf = appendInt64(buf, 0) // flags
	buf = appendInt64(buf, int64(len(s.pkg.Strings())))
	buf = appendInt64(buf, int64(len(s.pkg.Functions)))
	buf = appendInt64(buf, int64(len(s.pkg.Classes)))
	buf = appendInt64(buf, int64(s.pkg.EntryFunction))
	_, err := w.Write(buf)
	return err
}

func appendUint32(buf []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(buf, b[:]...)
}

func appendInt16(buf []byte, v int16) []byte {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], uint16(v))
	return append(buf, b[:]...)
}

func appendInt64(buf []byte, v int64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	return append(buf, b[:]...)
}

// writeString encodes a string as its rune length, its UTF-8 byte
// length, then the UTF-8 bytes themselves (serialize.py's writeString:
// Gypsum source strings are counted in code points, not bytes, for the
// runtime's string-indexing operations).
func (s *serializer) writeString(w io.Writer, str string) error {
	var buf []byte
	runeLen := int64(len([]rune(str)))
	encoded := []byte(str)
	buf = writeVbn(buf, runeLen)
	buf = writeVbn(buf, int64(len(encoded)))
	buf = append(buf, encoded...)
	_, err := w.Write(buf)
	return err
}

func (s *serializer) writeFunction(w io.Writer, fn *ir.Function) error {
	var buf []byte
	buf = s.appendType(buf, fn.ReturnType)
	buf = writeVbn(buf, int64(len(fn.ParameterTypes)))
	for _, ty := range fn.ParameterTypes {
		buf = s.appendType(buf, ty)
	}

	localsSize := 0
	for _, v := range fn.Variables {
		if v.Kind == ir.Local {
			localsSize += 8
		}
	}
	buf = writeVbn(buf, int64(localsSize))

	instructions, blockOffsets := s.encodeInstructions(fn)
	buf = writeVbn(buf, int64(len(instructions)))
	buf = append(buf, instructions...)
	buf = writeVbn(buf, int64(len(blockOffsets)))
	for _, off := range blockOffsets {
		buf = writeVbn(buf, int64(off))
	}

	_, err := w.Write(buf)
	return err
}

// encodeInstructions flattens fn's blocks into one byte stream and
// records each block's starting offset, matching serialize.py's
// encodeInstructions. Blocks must already be in final order (orderBlocks
// has run by the time a Function reaches here).
func (s *serializer) encodeInstructions(fn *ir.Function) ([]byte, []int) {
	var buf []byte
	offsets := make([]int, 0, len(fn.Blocks))
	for _, block := range fn.Blocks {
		offsets = append(offsets, len(buf))
		for _, inst := range block.Instructions {
			buf = append(buf, byte(inst.Op))
			if bytecode.IsFloatLiteral(inst.Op) {
				width := 32
				if inst.Op == bytecode.OpF64 {
					width = 64
				}
				buf = writeFloatBits(buf, inst.FloatBits, width)
			} else {
				for _, operand := range inst.Operands {
					buf = writeVbn(buf, int64(operand))
				}
			}
		}
	}
	return buf, offsets
}

func (s *serializer) writeClass(w io.Writer, clas *ir.Class) error {
	var buf []byte
	if len(clas.Supertypes) > 0 {
		buf = s.appendType(buf, clas.Supertypes[0])
	} else {
		buf = s.appendType(buf, irtypes.ClassType(s.reg.RootClass()))
	}

	buf = writeVbn(buf, int64(len(clas.Fields)))
	for _, field := range clas.Fields {
		buf = s.appendType(buf, field.Type)
	}

	buf = writeVbn(buf, int64(len(clas.Constructors)))
	for _, ctor := range clas.Constructors {
		buf = writeVbn(buf, int64(ctor.ID()))
	}

	buf = writeVbn(buf, int64(len(clas.Methods)))
	for _, method := range clas.Methods {
		buf = writeVbn(buf, int64(method.ID()))
	}

	_, err := w.Write(buf)
	return err
}

// appendType encodes a type as a nullable flag followed by the id of
// the builtin or package-owned class that backs it (spec section 4.6:
// "every encoded type is ultimately written as a class id" — type
// arguments on a generic class type aren't persisted, matching the
// original format's class-id-only type encoding).
func (s *serializer) appendType(buf []byte, ty irtypes.Type) []byte {
	flags := int64(0)
	if ty.IsNullable() {
		flags = 1
	}
	buf = writeVbn(buf, flags)
	clas := s.reg.ClassForType(ty)
	return writeVbn(buf, int64(clas.ID()))
}
