// Package cfg builds a Function's control-flow graph from its annotated
// AST (spec section 2): basic blocks, terminators, and the stack-height/
// compile-mode bookkeeping that decides whether an expression leaves a
// value behind. Grounded on original_source/compiler/compiler.py's
// CompileVisitor, generalized from Python's visitor-dispatch-by-method-
// name to an explicit Go type switch over ast.Node (design note 9.1).
package cfg

// Mode selects how an expression is compiled (spec section 2.1).
type Mode int

const (
	// ForValue leaves the expression's result on the stack.
	ForValue Mode = iota
	// ForEffect runs the expression only for its side effects and
	// leaves the stack as it found it.
	ForEffect
	// ForMatch compiles a pattern, branching to a success or failure
	// block depending on whether the scrutinee matches.
	ForMatch
	// ForUninitialized binds a variable without an initial value.
	ForUninitialized
)
