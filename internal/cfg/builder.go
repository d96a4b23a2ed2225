package cfg

import (
	"gypsumc/internal/ast"
	"gypsumc/internal/builtins"
	"gypsumc/internal/bytecode"
	"gypsumc/internal/ir"
	"gypsumc/internal/irtypes"
)

// Builder lowers one Function's AST body into its CFG. It owns the
// Function's Blocks exclusively; it only reads the shared, frozen
// Package metadata and builtins registry (spec section 5: "compiling
// independent functions in parallel is permitted because each builder
// owns its Function and its Blocks exclusively").
type Builder struct {
	pkg *ir.Package
	fn  *ir.Function
	reg *builtins.Registry

	current     *ir.BasicBlock
	unreachable bool

	// contexts maps a lexical scope id to the Variable or Field that
	// holds the context object reachable from the current function for
	// that scope (the closure/context annotations an external scope
	// analysis pass would attach). A scope with no entry here means
	// "no boxing needed, use `this` directly".
	contexts map[int]ast.Defn
}

// NewBuilder creates a Builder for fn. contexts may be nil.
func NewBuilder(pkg *ir.Package, fn *ir.Function, reg *builtins.Registry, contexts map[int]ast.Defn) *Builder {
	b := &Builder{pkg: pkg, fn: fn, reg: reg, contexts: contexts}
	fn.Blocks = nil
	b.current = fn.NewBlock()
	return b
}

// emit appends inst to the current block, unless the builder is
// compiling unreachable code, in which case it's silently dropped
// (compiler.py's `add`).
func (b *Builder) emit(inst ir.Instruction) {
	if b.unreachable {
		return
	}
	b.current.Emit(inst)
}

// newBlock creates a fresh block, or a throwaway placeholder while
// compiling unreachable code (compiler.py's `newBlock`: a block created
// while unreachable is never appended to the function and never
// becomes a real jump target).
func (b *Builder) newBlock() *ir.BasicBlock {
	if b.unreachable {
		return &ir.BasicBlock{}
	}
	return b.fn.NewBlock()
}

func (b *Builder) setCurrentBlock(block *ir.BasicBlock) {
	if b.unreachable {
		return
	}
	b.current = block
}

func (b *Builder) dropForEffect(mode Mode) {
	if mode == ForEffect {
		b.drop()
	}
}

// --- instruction helpers, one per opcode shape used directly by the
// expression/call/match/closure lowering in this package. ---

func (b *Builder) unit()         { b.emit(ir.Instruction{Op: bytecode.OpUnit}) }
func (b *Builder) null()         { b.emit(ir.Instruction{Op: bytecode.OpNull}) }
func (b *Builder) true_()        { b.emit(ir.Instruction{Op: bytecode.OpTrue}) }
func (b *Builder) false_()       { b.emit(ir.Instruction{Op: bytecode.OpFalse}) }
func (b *Builder) uninitialized() { b.emit(ir.Instruction{Op: bytecode.OpUnit}) }

func (b *Builder) i8(v int64)  { b.emit(ir.Instruction{Op: bytecode.OpI8, Operands: []int{int(v)}}) }
func (b *Builder) i16(v int64) { b.emit(ir.Instruction{Op: bytecode.OpI16, Operands: []int{int(v)}}) }
func (b *Builder) i32(v int64) { b.emit(ir.Instruction{Op: bytecode.OpI32, Operands: []int{int(v)}}) }
func (b *Builder) i64(v int64) { b.emit(ir.Instruction{Op: bytecode.OpI64, Operands: []int{int(v)}}) }

func (b *Builder) f32(bits uint64) {
	b.emit(ir.Instruction{Op: bytecode.OpF32, FloatBits: bits})
}
func (b *Builder) f64(bits uint64) {
	b.emit(ir.Instruction{Op: bytecode.OpF64, FloatBits: bits})
}

func (b *Builder) str(id int) { b.emit(ir.Instruction{Op: bytecode.OpString, Operands: []int{id}}) }

func (b *Builder) dup()  { b.emit(ir.Instruction{Op: bytecode.OpDup}) }
func (b *Builder) drop() { b.emit(ir.Instruction{Op: bytecode.OpDrop}) }

func (b *Builder) ldlocal(i int) { b.emit(ir.Instruction{Op: bytecode.OpLdLocal, Operands: []int{i}}) }
func (b *Builder) stlocal(i int) { b.emit(ir.Instruction{Op: bytecode.OpStLocal, Operands: []int{i}}) }

func (b *Builder) allocobj(classID int) {
	b.emit(ir.Instruction{Op: bytecode.OpAllocObj, Operands: []int{classID}})
}
func (b *Builder) tycs(classID int) { b.emit(ir.Instruction{Op: bytecode.OpTycs, Operands: []int{classID}}) }
func (b *Builder) tyvs(paramID int) { b.emit(ir.Instruction{Op: bytecode.OpTyvs, Operands: []int{paramID}}) }

func (b *Builder) callg(argCount, functionID int) {
	b.emit(ir.Instruction{Op: bytecode.OpCallg, Operands: []int{argCount, functionID}})
}
func (b *Builder) callv(argCount, methodIndex int) {
	b.emit(ir.Instruction{Op: bytecode.OpCallv, Operands: []int{argCount, methodIndex}})
}
func (b *Builder) ret()      { b.emit(ir.Instruction{Op: bytecode.OpRet}); b.unreachable = true }
func (b *Builder) throwOp()  { b.emit(ir.Instruction{Op: bytecode.OpThrow}); b.unreachable = true }

func (b *Builder) branch(target int) {
	b.emit(ir.Instruction{Op: bytecode.OpBranch, Operands: []int{target}})
}
func (b *Builder) branchif(trueTarget, falseTarget int) {
	b.emit(ir.Instruction{Op: bytecode.OpBranchIf, Operands: []int{trueTarget, falseTarget}})
}
func (b *Builder) pushtry(tryTarget, catchTarget int) {
	b.emit(ir.Instruction{Op: bytecode.OpPushTry, Operands: []int{tryTarget, catchTarget}})
}
func (b *Builder) poptry(target int) {
	b.emit(ir.Instruction{Op: bytecode.OpPopTry, Operands: []int{target}})
}

func (b *Builder) loadThis() {
	b.ldlocal(0)
}

func (b *Builder) loadField(field *ir.Field) {
	ty := field.Type
	var op bytecode.OpCode
	switch {
	case ty.IsObject():
		if ty.IsNullable() {
			op = bytecode.OpLdp
		} else {
			op = bytecode.OpLdpc
		}
	case ty.Width == irtypes.W8:
		op = bytecode.OpLd8
	case ty.Width == irtypes.W16:
		op = bytecode.OpLd16
	case ty.Width == irtypes.W32:
		op = bytecode.OpLd32
	default:
		op = bytecode.OpLd64
	}
	b.emit(ir.Instruction{Op: op, Operands: []int{field.Index}})
}

func (b *Builder) storeField(field *ir.Field) {
	ty := field.Type
	var op bytecode.OpCode
	switch {
	case ty.IsObject():
		op = bytecode.OpStp
	case ty.Width == irtypes.W8:
		op = bytecode.OpSt8
	case ty.Width == irtypes.W16:
		op = bytecode.OpSt16
	case ty.Width == irtypes.W32:
		op = bytecode.OpSt32
	default:
		op = bytecode.OpSt64
	}
	b.emit(ir.Instruction{Op: op, Operands: []int{field.Index}})
}
