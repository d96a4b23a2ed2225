package cfg

import (
	"golang.org/x/exp/slices"

	"gypsumc/internal/ir"
)

// OrderBlocks renumbers b.fn's blocks into reverse-post-order and drops
// every block not reachable from the entry block (compiler.py's
// orderBlocks). Visiting a block's successors in reverse means the
// earlier-numbered successor after the final reversal is whichever one
// was visited FIRST in forward order — i.e. a branch's true target
// keeps a lower (closer) number than its false target, since
// Instruction.SuccessorIDs() always returns [trueTarget, falseTarget]
// for OpBranchIf.
//
// Blocks created while compiling unreachable code (internal/cfg/
// builder.go's newBlock) were never appended to fn.Blocks in the first
// place, so they're already excluded; this pass additionally drops
// blocks that were appended but never reached by any live control-flow
// edge (e.g. the far side of a branch whose condition is now a
// constant the compiler folded away upstream).
func (b *Builder) OrderBlocks() {
	fn := b.fn
	n := len(fn.Blocks)
	if n == 0 {
		return
	}

	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make([]int, n)
	postOrder := make([]int, 0, n)

	var visit func(id int)
	visit = func(id int) {
		if id < 0 || id >= n || state[id] != unvisited {
			return
		}
		state[id] = visiting
		succs := fn.Blocks[id].Successors()
		for i := len(succs) - 1; i >= 0; i-- {
			visit(succs[i])
		}
		state[id] = done
		postOrder = append(postOrder, id)
	}
	visit(0)

	// postOrder was built depth-first-last; slices.Reverse turns it into
	// reverse-post-order, which is already the final block numbering.
	slices.Reverse(postOrder)
	order := postOrder
	live := len(order)
	newID := make([]int, n)
	for i := range newID {
		newID[i] = -1
	}
	for newIdx, oldID := range order {
		newID[oldID] = newIdx
	}

	newBlocks := make([]*ir.BasicBlock, live)
	for newIdx, oldID := range order {
		blk := fn.Blocks[oldID]
		if term, ok := blk.Terminator(); ok {
			oldSuccs := term.SuccessorIDs()
			if len(oldSuccs) > 0 {
				newSuccs := make([]int, len(oldSuccs))
				for i, s := range oldSuccs {
					newSuccs[i] = newID[s]
				}
				term.SetSuccessorIDs(newSuccs)
				blk.Instructions[len(blk.Instructions)-1] = term
			}
		}
		blk.Renumber(newIdx)
		newBlocks[newIdx] = blk
	}
	fn.Blocks = newBlocks
}
