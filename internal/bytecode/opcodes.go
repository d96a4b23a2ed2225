// Package bytecode is CodeSwitch's opcode catalogue: adapted from the
// teacher's internal/bytecode/opcodes.go (an OpCode byte + iota list for
// a scripting-language stack machine) but replaced with the operand
// shapes CodeSwitch actually needs — stack-height-neutral local/field
// access, virtual and global calls, block-id branch targets, and the
// per-width primitive arithmetic a builtin method's inline instruction
// sequence splices at a call site (spec section 4.4).
package bytecode

// OpCode identifies a single CodeSwitch instruction.
type OpCode byte

const (
	// Constants and literals.
	OpUnit OpCode = iota
	OpNull
	OpTrue
	OpFalse
	OpI8
	OpI16
	OpI32
	OpI64
	OpF32
	OpF64
	OpString

	// Stack shuffling.
	OpDup
	OpDrop
	OpSwap  // swap top two stack slots
	OpSwap2 // rotate the top three stack slots (a b c -> b c a); available
	// to a field-store sequence that needs to re-order a receiver and a
	// value without re-evaluating either (internal/cfg's lvalue lowering
	// instead re-evaluates the receiver expression, accepting the
	// simplification this avoids — see DESIGN.md).

	// Locals and fields.
	OpLdLocal
	OpStLocal
	OpLdp  // load nullable-object field
	OpLdpc // load non-nullable-object field
	OpStp  // store object field, nullable or not (spec 9: same opcode
	// for both — the asymmetry with Ldp/Ldpc is called out as an
	// open question the VM spec, not this compiler, must resolve)
	OpLd8
	OpLd16
	OpLd32
	OpLd64
	OpSt8
	OpSt16
	OpSt32
	OpSt64

	// Object/type construction.
	OpAllocObj
	OpAllocArrI // allocate a fixed-length array-like object
	OpCls       // push a class id as a value
	OpTycs      // push a static ClassType type argument (class id operand)
	OpTyvs      // push a static VariableType type argument (type-parameter id operand)

	// Calls and returns.
	OpCallg // static/global call: arity, function id
	OpCallv // virtual call: arity, method index
	OpRet
	OpThrow

	// Control flow (terminators).
	OpBranch   // unconditional: target block id
	OpBranchIf // conditional: true block id, false block id
	OpPushTry  // enter try region: try block id, catch block id
	OpPopTry   // leave try region normally: continuation block id

	// Reference comparison of two pointer values.
	OpEqp

	// Per-width integer arithmetic/comparison, spliced inline for
	// primitive-class operator methods (section 4.4: "if the function
	// has inline instruction hints ... splice those").
	OpAddI8
	OpSubI8
	OpMulI8
	OpDivI8
	OpModI8
	OpNegI8
	OpEqI8
	OpNeI8
	OpLtI8
	OpLeI8
	OpGtI8
	OpGeI8

	OpAddI16
	OpSubI16
	OpMulI16
	OpDivI16
	OpModI16
	OpNegI16
	OpEqI16
	OpNeI16
	OpLtI16
	OpLeI16
	OpGtI16
	OpGeI16

	OpAddI32
	OpSubI32
	OpMulI32
	OpDivI32
	OpModI32
	OpNegI32
	OpEqI32
	OpNeI32
	OpLtI32
	OpLeI32
	OpGtI32
	OpGeI32

	OpAddI64
	OpSubI64
	OpMulI64
	OpDivI64
	OpModI64
	OpNegI64
	OpEqI64
	OpNeI64
	OpLtI64
	OpLeI64
	OpGtI64
	OpGeI64

	OpAddF32
	OpSubF32
	OpMulF32
	OpDivF32
	OpNegF32
	OpEqF32
	OpNeF32
	OpLtF32
	OpLeF32
	OpGtF32
	OpGeF32

	OpAddF64
	OpSubF64
	OpMulF64
	OpDivF64
	OpNegF64
	OpEqF64
	OpNeF64
	OpLtF64
	OpLeF64
	OpGtF64
	OpGeF64

	OpNotB
	OpEqB
	OpNeB

	OpStrConcat
)

// kind classifies each operand slot of an instruction: a plain signed
// integer, or a basic-block id that orderBlocks must rewrite.
type kind int

const (
	operandInt kind = iota
	operandBlockID
)

var operandShapes = map[OpCode][]kind{
	OpUnit: {}, OpNull: {}, OpTrue: {}, OpFalse: {},
	OpI8: {operandInt}, OpI16: {operandInt}, OpI32: {operandInt}, OpI64: {operandInt},
	OpF32: {operandInt}, OpF64: {operandInt}, // operand carries the IEEE bit pattern, see ir.Instruction
	OpString: {operandInt},

	OpDup: {}, OpDrop: {}, OpSwap: {}, OpSwap2: {},

	OpLdLocal: {operandInt}, OpStLocal: {operandInt},
	OpLdp: {operandInt}, OpLdpc: {operandInt}, OpStp: {operandInt},
	OpLd8: {operandInt}, OpLd16: {operandInt}, OpLd32: {operandInt}, OpLd64: {operandInt},
	OpSt8: {operandInt}, OpSt16: {operandInt}, OpSt32: {operandInt}, OpSt64: {operandInt},

	OpAllocObj:  {operandInt},
	OpAllocArrI: {operandInt, operandInt},
	OpCls:       {operandInt},
	OpTycs:      {operandInt},
	OpTyvs:      {operandInt},

	OpCallg: {operandInt, operandInt},
	OpCallv: {operandInt, operandInt},
	OpRet:   {},
	OpThrow: {},

	OpBranch:   {operandBlockID},
	OpBranchIf: {operandBlockID, operandBlockID},
	OpPushTry:  {operandBlockID, operandBlockID},
	OpPopTry:   {operandBlockID},

	OpEqp: {},

	OpNotB: {}, OpEqB: {}, OpNeB: {}, OpStrConcat: {},
}

func init() {
	for _, op := range []OpCode{
		OpAddI8, OpSubI8, OpMulI8, OpDivI8, OpModI8, OpEqI8, OpNeI8, OpLtI8, OpLeI8, OpGtI8, OpGeI8,
		OpAddI16, OpSubI16, OpMulI16, OpDivI16, OpModI16, OpEqI16, OpNeI16, OpLtI16, OpLeI16, OpGtI16, OpGeI16,
		OpAddI32, OpSubI32, OpMulI32, OpDivI32, OpModI32, OpEqI32, OpNeI32, OpLtI32, OpLeI32, OpGtI32, OpGeI32,
		OpAddI64, OpSubI64, OpMulI64, OpDivI64, OpModI64, OpEqI64, OpNeI64, OpLtI64, OpLeI64, OpGtI64, OpGeI64,
		OpAddF32, OpSubF32, OpMulF32, OpDivF32, OpEqF32, OpNeF32, OpLtF32, OpLeF32, OpGtF32, OpGeF32,
		OpAddF64, OpSubF64, OpMulF64, OpDivF64, OpEqF64, OpNeF64, OpLtF64, OpLeF64, OpGtF64, OpGeF64,
		OpNegI8, OpNegI16, OpNegI32, OpNegI64, OpNegF32, OpNegF64,
	} {
		operandShapes[op] = []kind{}
	}
}

// Arity returns the number of operands op takes.
func Arity(op OpCode) int {
	shape, ok := operandShapes[op]
	if !ok {
		panic("bytecode: unknown opcode")
	}
	return len(shape)
}

// IsBlockOperand reports whether operand index i of op is a block id.
func IsBlockOperand(op OpCode, i int) bool {
	return operandShapes[op][i] == operandBlockID
}

// IsTerminator reports whether op ends a basic block.
func IsTerminator(op OpCode) bool {
	switch op {
	case OpBranch, OpBranchIf, OpRet, OpThrow, OpPushTry, OpPopTry:
		return true
	default:
		return false
	}
}

// IsFloatLiteral reports whether op is f32/f64, whose single operand is
// encoded as a raw IEEE-754 bit pattern rather than a signed VBN
// (section 4.6, "Instruction encoding").
func IsFloatLiteral(op OpCode) bool {
	return op == OpF32 || op == OpF64
}

// byName supports the builtins catalogue's optional inline "insts" list
// (section 6), where a primitive method's body is named opcodes instead
// of a compiled AST.
var byName = map[string]OpCode{
	"addi8": OpAddI8, "subi8": OpSubI8, "muli8": OpMulI8, "divi8": OpDivI8, "modi8": OpModI8, "negi8": OpNegI8,
	"eqi8": OpEqI8, "nei8": OpNeI8, "lti8": OpLtI8, "lei8": OpLeI8, "gti8": OpGtI8, "gei8": OpGeI8,

	"addi16": OpAddI16, "subi16": OpSubI16, "muli16": OpMulI16, "divi16": OpDivI16, "modi16": OpModI16, "negi16": OpNegI16,
	"eqi16": OpEqI16, "nei16": OpNeI16, "lti16": OpLtI16, "lei16": OpLeI16, "gti16": OpGtI16, "gei16": OpGeI16,

	"addi32": OpAddI32, "subi32": OpSubI32, "muli32": OpMulI32, "divi32": OpDivI32, "modi32": OpModI32, "negi32": OpNegI32,
	"eqi32": OpEqI32, "nei32": OpNeI32, "lti32": OpLtI32, "lei32": OpLeI32, "gti32": OpGtI32, "gei32": OpGeI32,

	"addi64": OpAddI64, "subi64": OpSubI64, "muli64": OpMulI64, "divi64": OpDivI64, "modi64": OpModI64, "negi64": OpNegI64,
	"eqi64": OpEqI64, "nei64": OpNeI64, "lti64": OpLtI64, "lei64": OpLeI64, "gti64": OpGtI64, "gei64": OpGeI64,

	"addf32": OpAddF32, "subf32": OpSubF32, "mulf32": OpMulF32, "divf32": OpDivF32, "negf32": OpNegF32,
	"eqf32": OpEqF32, "nef32": OpNeF32, "ltf32": OpLtF32, "lef32": OpLeF32, "gtf32": OpGtF32, "gef32": OpGeF32,

	"addf64": OpAddF64, "subf64": OpSubF64, "mulf64": OpMulF64, "divf64": OpDivF64, "negf64": OpNegF64,
	"eqf64": OpEqF64, "nef64": OpNeF64, "ltf64": OpLtF64, "lef64": OpLeF64, "gtf64": OpGtF64, "gef64": OpGeF64,

	"notb": OpNotB, "eqb": OpEqB, "neb": OpNeB,
	"strconcat": OpStrConcat,
}

// ByName looks up an opcode by its catalogue name, for inline-instruction
// splicing (internal/cfg resolves a builtin method's Insts names here).
func ByName(name string) (OpCode, bool) {
	op, ok := byName[name]
	return op, ok
}
