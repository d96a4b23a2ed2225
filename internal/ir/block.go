package ir

import "gypsumc/internal/bytecode"

// Instruction is one CFG instruction: an opcode plus its operands.
// Operands are plain ints except for f32/f64 literals, whose operand is
// the IEEE-754 bit pattern stored in FloatBits (section 4.6).
//
// Block-id operands (branch targets, try regions) are ordinary entries
// in Operands; bytecode.IsBlockOperand tells a caller which index is
// which, which is what orderBlocks (internal/cfg/order.go) uses to
// rewrite them after reverse-post-order renumbering.
type Instruction struct {
	Op        bytecode.OpCode
	Operands  []int
	FloatBits uint64
}

// SuccessorIDs returns the block ids this instruction branches to, in
// operand order (empty for non-terminators).
func (inst Instruction) SuccessorIDs() []int {
	shape := bytecode.Arity(inst.Op)
	if shape == 0 {
		return nil
	}
	var out []int
	for i := 0; i < shape && i < len(inst.Operands); i++ {
		if bytecode.IsBlockOperand(inst.Op, i) {
			out = append(out, inst.Operands[i])
		}
	}
	return out
}

// SetSuccessorIDs rewrites this instruction's block-id operands in
// place, in the same order SuccessorIDs returned them.
func (inst *Instruction) SetSuccessorIDs(ids []int) {
	j := 0
	for i := range inst.Operands {
		if bytecode.IsBlockOperand(inst.Op, i) {
			inst.Operands[i] = ids[j]
			j++
		}
	}
}

// IsTerminator reports whether this instruction ends its basic block.
func (inst Instruction) IsTerminator() bool { return bytecode.IsTerminator(inst.Op) }

// BasicBlock is a straight-line instruction sequence ending in exactly
// one terminator (section 2). Id is assigned at creation time by
// Function.NewBlock and is stable until orderBlocks renumbers the whole
// function's block list; Parameters holds block-parameter variable
// indices, which internal/cfg neither fills nor reads (FOR-MATCH
// pattern binding stores into ordinary variables).
type BasicBlock struct {
	id           int
	Instructions []Instruction
	Parameters   []int
}

func (b *BasicBlock) ID() int { return b.id }

// Renumber overwrites this block's id. Only orderBlocks
// (internal/cfg/order.go) calls this, once, while rebuilding a
// function's block list in reverse-post-order.
func (b *BasicBlock) Renumber(id int) { b.id = id }

// Terminator returns the block's terminating instruction, or false if
// the block is still open (no terminator emitted yet).
func (b *BasicBlock) Terminator() (Instruction, bool) {
	if len(b.Instructions) == 0 {
		return Instruction{}, false
	}
	last := b.Instructions[len(b.Instructions)-1]
	if !last.IsTerminator() {
		return Instruction{}, false
	}
	return last, true
}

// Successors returns the ids of the blocks this block branches to.
func (b *BasicBlock) Successors() []int {
	term, ok := b.Terminator()
	if !ok {
		return nil
	}
	return term.SuccessorIDs()
}

// Emit appends inst to the block. It panics if the block already ends
// in a terminator — callers (internal/cfg) must check IsTerminated
// first, matching the original compiler's append-to-closed-block
// assertion (compiler.py's BasicBlock.append).
func (b *BasicBlock) Emit(inst Instruction) {
	if _, closed := b.Terminator(); closed {
		panic("ir: emit into a block that already has a terminator")
	}
	b.Instructions = append(b.Instructions, inst)
}

// IsTerminated reports whether the block already ends in a terminator.
func (b *BasicBlock) IsTerminated() bool {
	_, ok := b.Terminator()
	return ok
}

// NewBlock creates a new, empty basic block owned by f and appends it
// to f.Blocks. The returned id is f.Blocks' length at the time of
// insertion, exactly like Package's id-assignment methods, but blocks
// are locally scoped to f and are NOT considered programmer-error
// panics to re-add — orderBlocks legitimately replaces f.Blocks
// wholesale with a reordered, renumbered copy.
func (f *Function) NewBlock() *BasicBlock {
	b := &BasicBlock{id: len(f.Blocks)}
	f.Blocks = append(f.Blocks, b)
	return b
}
