package builtins

import (
	"testing"

	"gypsumc/internal/ir"
	"gypsumc/internal/irtypes"
)

func TestWellKnownClassIDs(t *testing.T) {
	reg := Get()

	if reg.RootClass().ID() != RootClassID {
		t.Errorf("RootClass().ID() = %d, want %d", reg.RootClass().ID(), RootClassID)
	}
	if reg.NothingClass().ID() != NothingClassID {
		t.Errorf("NothingClass().ID() = %d, want %d", reg.NothingClass().ID(), NothingClassID)
	}
	if reg.ExceptionClass().ID() != ExceptionClassID {
		t.Errorf("ExceptionClass().ID() = %d, want %d", reg.ExceptionClass().ID(), ExceptionClassID)
	}
	if reg.TypeClass().ID() != TypeClassID {
		t.Errorf("TypeClass().ID() = %d, want %d", reg.TypeClass().ID(), TypeClassID)
	}
	if reg.StringClass().ID() != StringClassID {
		t.Errorf("StringClass().ID() = %d, want %d", reg.StringClass().ID(), StringClassID)
	}
}

func TestClassForType(t *testing.T) {
	reg := Get()

	if c := reg.ClassForType(irtypes.Unit()); c == nil || c.ID() != UnitClassID {
		t.Errorf("ClassForType(unit) = %v, want class %d", c, UnitClassID)
	}
	if c := reg.ClassForType(irtypes.Boolean()); c == nil || c.ID() != BooleanClassID {
		t.Errorf("ClassForType(boolean) = %v, want class %d", c, BooleanClassID)
	}
	if c := reg.ClassForType(irtypes.Integer(irtypes.W32)); c == nil || c.Name != "I32" {
		t.Errorf("ClassForType(i32) = %v, want I32", c)
	}
	if c := reg.ClassForType(irtypes.Float(irtypes.W64)); c == nil || c.Name != "F64" {
		t.Errorf("ClassForType(f64) = %v, want F64", c)
	}

	bounded := &ir.TypeParameter{Name: "T", UpperBound: irtypes.ClassType(reg.RootClass())}
	if c := reg.ClassForType(irtypes.Variable(bounded)); c == nil || c.ID() != RootClassID {
		t.Errorf("ClassForType(T <: Object) = %v, want the root class (erasure)", c)
	}
}

func TestBuiltinIDsAreNegativeAndUnique(t *testing.T) {
	reg := Get()
	seen := make(map[int]string)
	for _, c := range reg.Classes() {
		if !IsBuiltinID(c.ID()) {
			t.Errorf("class %s has non-negative id %d", c.Name, c.ID())
		}
		if other, ok := seen[c.ID()]; ok {
			t.Errorf("class id %d reused by both %s and %s", c.ID(), other, c.Name)
		}
		seen[c.ID()] = c.Name
	}
}

func TestI32AddInlineInst(t *testing.T) {
	reg := Get()
	i32 := reg.FindClass("I32")
	if i32 == nil {
		t.Fatal("FindClass(I32) returned nil")
	}
	add := i32.GetMethod("+")
	if add == nil {
		t.Fatal("I32 has no + method")
	}
	if len(add.Insts) != 1 || string(add.Insts[0].Op) != "addi32" {
		t.Errorf("I32.+ insts = %v, want [addi32]", add.Insts)
	}
	if !IsBuiltinID(add.ID()) {
		t.Errorf("I32.+ id %d is not negative", add.ID())
	}
}

func TestExceptionInheritsObjectMethods(t *testing.T) {
	reg := Get()
	exc := reg.FindClass("Exception")
	if exc == nil {
		t.Fatal("FindClass(Exception) returned nil")
	}
	if exc.GetMethod("toString") == nil {
		t.Error("Exception should have its own toString override")
	}
	if exc.GetMethod("typeof") == nil {
		t.Error("Exception should inherit Object.typeof")
	}
}
