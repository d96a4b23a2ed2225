package bytecode

// mnemonics names every opcode for disassembly (the dump-ir CLI command,
// SPEC_FULL "Supplemented features"). Adapted from the teacher's
// internal/bytecode/chunk.go, which paired a flat byte Chunk with a
// DebugInfo side table; CodeSwitch's typed ir.Instruction (internal/ir/
// block.go) carries its own operands, so the only piece worth keeping
// here is the name table a disassembler needs.
var mnemonics = map[OpCode]string{
	OpUnit: "unit", OpNull: "null", OpTrue: "true", OpFalse: "false",
	OpI8: "i8", OpI16: "i16", OpI32: "i32", OpI64: "i64",
	OpF32: "f32", OpF64: "f64", OpString: "string",

	OpDup: "dup", OpDrop: "drop", OpSwap: "swap", OpSwap2: "swap2",

	OpLdLocal: "ldlocal", OpStLocal: "stlocal",
	OpLdp: "ldp", OpLdpc: "ldpc", OpStp: "stp",
	OpLd8: "ld8", OpLd16: "ld16", OpLd32: "ld32", OpLd64: "ld64",
	OpSt8: "st8", OpSt16: "st16", OpSt32: "st32", OpSt64: "st64",

	OpAllocObj: "allocobj", OpAllocArrI: "allocarri",
	OpCls: "cls", OpTycs: "tycs", OpTyvs: "tyvs",

	OpCallg: "callg", OpCallv: "callv", OpRet: "ret", OpThrow: "throw",

	OpBranch: "branch", OpBranchIf: "branchif",
	OpPushTry: "pushtry", OpPopTry: "poptry",

	OpEqp: "eqp",
}

func init() {
	for name, op := range byName {
		if _, ok := mnemonics[op]; !ok {
			mnemonics[op] = name
		}
	}
}

// String returns op's disassembly mnemonic, or "op?" for an opcode
// with no mnemonic.
func (op OpCode) String() string {
	if name, ok := mnemonics[op]; ok {
		return name
	}
	return "op?"
}
