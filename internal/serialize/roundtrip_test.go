package serialize

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"gypsumc/internal/builtins"
	"gypsumc/internal/bytecode"
	"gypsumc/internal/ir"
	"gypsumc/internal/irtypes"
)

// TestRoundTripTrivialPackage writes buildTrivialPackage and decodes it
// back, diffing the decoded header/instruction shape against what the
// package describes directly.
func TestRoundTripTrivialPackage(t *testing.T) {
	pkg := buildTrivialPackage()
	i32ID := builtins.Get().FindClass("I32").ID()

	var buf bytes.Buffer
	if err := Write(pkg, &buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	decoded, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	want := &Decoded{
		Major:         majorVersion,
		Minor:         minorVersion,
		EntryFunction: pkg.EntryFunction,
		Functions: []DecodedFunction{
			{
				ReturnType:   DecodedType{ClassID: i32ID},
				Instructions: []byte{byte(bytecode.OpI32), 42, byte(bytecode.OpRet)},
				BlockOffsets: []int{0},
			},
		},
	}
	if diff := cmp.Diff(want, decoded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

// TestRoundTripPreservesStringTableAndClasses exercises a package with
// a string literal and a field-carrying class, the two record kinds
// TestRoundTripTrivialPackage's function-only package doesn't reach.
func TestRoundTripPreservesStringTableAndClasses(t *testing.T) {
	pkg := ir.NewPackage()

	clas := &ir.Class{Name: "Box"}
	clas.Fields = []*ir.Field{{Name: "value", Type: irtypes.Integer(irtypes.W32), Index: 0}}
	pkg.AddClass(clas)

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
	decoded, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if diff := cmp.Diff([]string{"hello"}, decoded.Strings); diff != "" {
		t.Errorf("string table mismatch (-want +got):\n%s", diff)
	}
	if len(decoded.Classes) != 1 {
		t.Fatalf("expected 1 decoded class, got %d", len(decoded.Classes))
	}
	i32ID := builtins.Get().FindClass("I32").ID()
	wantClass := DecodedClass{
		Supertype:  DecodedType{ClassID: builtins.RootClassID},
		FieldTypes: []DecodedType{{ClassID: i32ID}},
	}
	if diff := cmp.Diff(wantClass, decoded.Classes[0]); diff != "" {
		t.Errorf("class mismatch (-want +got):\n%s", diff)
	}
}
