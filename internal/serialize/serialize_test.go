package serialize

import (
	"bytes"
	"testing"

	"gypsumc/internal/bytecode"
	"gypsumc/internal/ir"
	"gypsumc/internal/irtypes"
)

// buildTrivialPackage is a one-function package: def answer: i32 = { return 42 }
func buildTrivialPackage() *ir.Package {
	pkg := ir.NewPackage()
	fn := &ir.Function{
		Name:       "answer",
		ReturnType: irtypes.Integer(irtypes.W32),
	}
	pkg.AddFunction(fn)
	pkg.EntryFunction = fn.ID()

	block := fn.NewBlock()
	block.Emit(ir.Instruction{Op: bytecode.OpI32, Operands: []int{42}})
	block.Emit(ir.Instruction{Op: bytecode.OpRet})
	return pkg
}

func TestWriteHeader(t *testing.T) {
	pkg := buildTrivialPackage()
	var buf bytes.Buffer
	if err := Write(pkg, &buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	out := buf.Bytes()
	if len(out) < 4+2+2+8*5 {
		t.Fatalf("output too short for a header: %d bytes", len(out))
	}
	magic := uint32(out[0]) | uint32(out[1])<<8 | uint32(out[2])<<16 | uint32(out[3])<<24
	if magic != magicNumber {
		t.Errorf("magic = %#x, want %#x", magic, magicNumber)
	}
	major := int16(out[4]) | int16(out[5])<<8
	minor := int16(out[6]) | int16(out[7])<<8
	if major != majorVersion || minor != minorVersion {
		t.Errorf("version = %d.%d, want %d.%d", major, minor, majorVersion, minorVersion)
	}
}

func TestWriteNoStringsNoClasses(t *testing.T) {
	pkg := buildTrivialPackage()
	var buf bytes.Buffer
	if err := Write(pkg, &buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("Write produced no output")
	}
}

func TestWriteIncludesStringLiteral(t *testing.T) {
	pkg := ir.NewPackage()
	fn := &ir.Function{Name: "greet", ReturnType: irtypes.Integer(irtypes.W32)}
	pkg.AddFunction(fn)
	pkg.EntryFunction = fn.ID()
	idx := pkg.FindOrAddString("hello")
	block := fn.NewBlock()
	block.Emit(ir.Instruction{Op: bytecode.OpString, Operands: []int{idx}})
	block.Emit(ir.Instruction{Op: bytecode.OpDrop})
	block.Emit(ir.Instruction{Op: bytecode.OpI32, Operands: []int{0}})
	block.Emit(ir.Instruction{Op: bytecode.OpRet})

	var buf bytes.Buffer
	if err := Write(pkg, &buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("hello")) {
		t.Error("serialized output does not contain the string table entry")
	}
}

func TestWriteClassWithField(t *testing.T) {
	pkg := ir.NewPackage()
	clas := &ir.Class{Name: "Box"}
	clas.Fields = []*ir.Field{{Name: "value", Type: irtypes.Integer(irtypes.W32), Index: 0}}
	pkg.AddClass(clas)

	var buf bytes.Buffer
	if err := Write(pkg, &buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("Write produced no output for a class-only package")
	}
}
