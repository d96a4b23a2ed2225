package bytecode

import "testing"

func TestArity(t *testing.T) {
	tests := []struct {
		op   OpCode
		want int
	}{
		{OpUnit, 0},
		{OpI32, 1},
		{OpLdLocal, 1},
		{OpAllocArrI, 2},
		{OpCallg, 2},
		{OpBranch, 1},
		{OpBranchIf, 2},
		{OpRet, 0},
		{OpAddI32, 0},
	}
	for _, tt := range tests {
		if got := Arity(tt.op); got != tt.want {
			t.Errorf("Arity(%v) = %d, want %d", tt.op, got, tt.want)
		}
	}
}

func TestIsBlockOperand(t *testing.T) {
	if !IsBlockOperand(OpBranch, 0) {
		t.Error("OpBranch operand 0 should be a block id")
	}
	if IsBlockOperand(OpCallg, 0) {
		t.Error("OpCallg operand 0 is an arity count, not a block id")
	}
	if !IsBlockOperand(OpBranchIf, 1) {
		t.Error("OpBranchIf operand 1 should be a block id")
	}
}

func TestIsTerminator(t *testing.T) {
	for _, op := range []OpCode{OpBranch, OpBranchIf, OpRet, OpThrow, OpPushTry, OpPopTry} {
		if !IsTerminator(op) {
			t.Errorf("IsTerminator(%v) = false, want true", op)
		}
	}
	for _, op := range []OpCode{OpDup, OpAddI32, OpLdLocal} {
		if IsTerminator(op) {
			t.Errorf("IsTerminator(%v) = true, want false", op)
		}
	}
}

func TestIsFloatLiteral(t *testing.T) {
	if !IsFloatLiteral(OpF32) || !IsFloatLiteral(OpF64) {
		t.Error("OpF32/OpF64 should be float literals")
	}
	if IsFloatLiteral(OpI32) {
		t.Error("OpI32 is not a float literal")
	}
}

func TestByNameRoundTrip(t *testing.T) {
	names := []string{"addi32", "subf64", "eqi8", "strconcat", "notb"}
	for _, name := range names {
		op, ok := ByName(name)
		if !ok {
			t.Fatalf("ByName(%q) not found", name)
		}
		if op.String() != name {
			t.Errorf("ByName(%q).String() = %q, want %q", name, op.String(), name)
		}
	}
	if _, ok := ByName("nope"); ok {
		t.Error("ByName(\"nope\") should not be found")
	}
}
