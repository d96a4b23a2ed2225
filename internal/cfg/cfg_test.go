package cfg

import (
	"testing"

	"gypsumc/internal/ast"
	"gypsumc/internal/builtins"
	"gypsumc/internal/bytecode"
	"gypsumc/internal/ir"
	"gypsumc/internal/irtypes"
)

func opSequence(fn *ir.Function) []bytecode.OpCode {
	var ops []bytecode.OpCode
	for _, block := range fn.Blocks {
		for _, inst := range block.Instructions {
			ops = append(ops, inst.Op)
		}
	}
	return ops
}

func equalOps(got []bytecode.OpCode, want ...bytecode.OpCode) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// TestCompileInlineOperator covers a free function whose body is a
// single binary-operator call on a builtin class (spec section 4.4's
// "Method" call shape: inline instructions splice in place of a call).
func TestCompileInlineOperator(t *testing.T) {
	reg := builtins.Get()
	i32 := irtypes.Integer(irtypes.W32)
	i32Class := reg.FindClass("I32")
	add := i32Class.GetMethod("+")

	a := &ir.Variable{Name: "a", Kind: ir.Parameter, Type: i32}
	b := &ir.Variable{Name: "b", Kind: ir.Parameter, Type: i32}
	fn := &ir.Function{
		Name:           "add",
		ReturnType:     i32,
		ParameterTypes: []irtypes.Type{i32, i32},
		Variables:      []*ir.Variable{a, b},
	}

	body := &ast.Block{
		Statements: []ast.Stmt{
			&ast.Return{
				Value: &ast.Call{
					Callee: &ast.Property{Receiver: &ast.VariableRef{Defn: a}, Defn: add},
					Args:   []ast.Expr{&ast.VariableRef{Defn: b}},
				},
			},
		},
	}

	builder := NewBuilder(nil, fn, reg, nil)
	if err := builder.Compile(&FunctionBody{Parameters: []*ir.Variable{a, b}, Body: body}); err != nil {
		t.Fatalf("Compile: %v", err)
	}

	ops := opSequence(fn)
	want := []bytecode.OpCode{bytecode.OpLdLocal, bytecode.OpLdLocal, bytecode.OpAddI32, bytecode.OpRet}
	if !equalOps(ops, want...) {
		t.Errorf("op sequence = %v, want %v", ops, want)
	}
	if a.Index != 0 || b.Index != 1 {
		t.Errorf("parameter indices = %d, %d, want 0, 1", a.Index, b.Index)
	}
}

// TestCompileIfBranchesAndRejoins exercises visitIf's two-target join
// (spec section 2.1).
func TestCompileIfBranchesAndRejoins(t *testing.T) {
	reg := builtins.Get()
	boolean := irtypes.Boolean()
	cond := &ir.Variable{Name: "cond", Kind: ir.Parameter, Type: boolean}
	fn := &ir.Function{
		Name:           "pick",
		ReturnType:     irtypes.Integer(irtypes.W32),
		ParameterTypes: []irtypes.Type{boolean},
		Variables:      []*ir.Variable{cond},
	}

	body := &ast.Block{
		Statements: []ast.Stmt{
			&ast.Return{
				Value: &ast.If{
					Condition: &ast.VariableRef{Defn: cond},
					TrueExpr:  &ast.Literal{Kind: ast.LitInteger, Width: irtypes.W32, Int: 1},
					FalseExpr: &ast.Literal{Kind: ast.LitInteger, Width: irtypes.W32, Int: 0},
				},
			},
		},
	}

	builder := NewBuilder(nil, fn, reg, nil)
	if err := builder.Compile(&FunctionBody{Parameters: []*ir.Variable{cond}, Body: body}); err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if len(fn.Blocks) != 4 {
		t.Fatalf("expected 4 blocks (entry, true, false, join), got %d", len(fn.Blocks))
	}
	entry := fn.Blocks[0]
	if term, ok := entry.Terminator(); !ok || term.Op != bytecode.OpBranchIf {
		t.Errorf("entry block should terminate in branchif, got %v (ok=%v)", term.Op, ok)
	}
}

// countOp counts how many times op appears across every block of fn.
func countOp(fn *ir.Function, op bytecode.OpCode) int {
	count := 0
	for _, got := range opSequence(fn) {
		if got == op {
			count++
		}
	}
	return count
}

// TestCompileTryFinallyRunsOnBothExits covers a try/finally with no
// catch clause (spec section 4.3, scenario 4): finally must run once
// on normal completion and once on the rethrow path, never skipped on
// either.
func TestCompileTryFinallyRunsOnBothExits(t *testing.T) {
	reg := builtins.Get()
	fn := &ir.Function{Name: "f", ReturnType: irtypes.Unit()}

	body := &ast.Block{
		Statements: []ast.Stmt{
			&ast.TryCatch{
				Try:     &ast.Literal{Kind: ast.LitInteger, Width: irtypes.W16, Int: 1},
				Finally: &ast.Literal{Kind: ast.LitInteger, Width: irtypes.W8, Int: 9},
			},
			&ast.Return{},
		},
	}

	builder := NewBuilder(nil, fn, reg, nil)
	if err := builder.Compile(&FunctionBody{Body: body}); err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if got := countOp(fn, bytecode.OpI8); got != 2 {
		t.Errorf("finally marker (OpI8) appears %d times, want 2 (normal exit + rethrow)", got)
	}
	if got := countOp(fn, bytecode.OpThrow); got != 1 {
		t.Errorf("OpThrow appears %d times, want 1 (rethrow with no catch)", got)
	}
}

// TestCompileTryCatchFinallyRunsOnAllExits covers try/catch/finally:
// finally must run after a successful catch match too, in addition to
// normal completion and the no-match rethrow (spec section 4.3).
func TestCompileTryCatchFinallyRunsOnAllExits(t *testing.T) {
	reg := builtins.Get()
	exc := &ir.Variable{Name: "e", Kind: ir.Local, Type: irtypes.ClassType(reg.RootClass())}
	fn := &ir.Function{Name: "g", ReturnType: irtypes.Unit(), Variables: []*ir.Variable{exc}}

	body := &ast.Block{
		Statements: []ast.Stmt{
			&ast.TryCatch{
				Try: &ast.Literal{Kind: ast.LitInteger, Width: irtypes.W16, Int: 1},
				Catch: &ast.PartialFunction{
					Cases: []ast.PartialFunctionCase{
						{
							Pattern: &ast.VariablePattern{Var: exc},
							Expr:    &ast.Literal{Kind: ast.LitUnit},
						},
					},
				},
				Finally: &ast.Literal{Kind: ast.LitInteger, Width: irtypes.W8, Int: 9},
			},
			&ast.Return{},
		},
	}

	builder := NewBuilder(nil, fn, reg, nil)
	if err := builder.Compile(&FunctionBody{Body: body}); err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if got := countOp(fn, bytecode.OpI8); got != 3 {
		t.Errorf("finally marker (OpI8) appears %d times, want 3 (normal exit + caught exit + rethrow)", got)
	}
	if got := countOp(fn, bytecode.OpThrow); got != 1 {
		t.Errorf("OpThrow appears %d times, want 1 (no-match rethrow)", got)
	}
}

// TestCompilePrimaryConstructor mirrors cmd/gypsumc/sample.go's
// Counter class: a single field stored by the primary constructor.
func TestCompilePrimaryConstructor(t *testing.T) {
	reg := builtins.Get()
	i32 := irtypes.Integer(irtypes.W32)

	clas := &ir.Class{Name: "Box", Supertypes: []irtypes.Type{irtypes.ClassType(reg.RootClass())}}
	field := &ir.Field{Name: "value", Type: i32, Index: 0}
	clas.Fields = []*ir.Field{field}

	this := &ir.Variable{Name: "this", Kind: ir.Parameter, Type: irtypes.ClassType(clas)}
	value := &ir.Variable{Name: "value", Kind: ir.Parameter, Type: i32}
	ctor := &ir.Function{
		Name:           "$constructor",
		ReturnType:     irtypes.Unit(),
		ParameterTypes: []irtypes.Type{irtypes.ClassType(clas), i32},
		Variables:      []*ir.Variable{this, value},
		Clas:           clas,
	}
	clas.Constructors = []*ir.Function{ctor}

	builder := NewBuilder(nil, ctor, reg, nil)
	err := builder.Compile(&FunctionBody{PrimaryCtorFields: []*ir.Variable{value}, Body: &ast.Block{}})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if value.Index != 1 {
		t.Errorf("primary-ctor field parameter index = %d, want 1", value.Index)
	}

	ops := opSequence(ctor)
	// default super-ctor call (loadThis, callg, drop), field store
	// (ldlocal, loadThis, st32), implicit unit return.
	want := []bytecode.OpCode{
		bytecode.OpLdLocal, bytecode.OpCallg, bytecode.OpDrop,
		bytecode.OpLdLocal, bytecode.OpLdLocal, bytecode.OpSt32,
		bytecode.OpUnit, bytecode.OpRet,
	}
	if !equalOps(ops, want...) {
		t.Errorf("op sequence = %v, want %v", ops, want)
	}
}
