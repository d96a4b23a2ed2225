// Package layout assigns field indices to classes before CFG
// construction begins (spec section 3/4.3). Grounded on
// original_source/compiler/compiler.py's assignFieldIndices: a field's
// index is its position in its class's (already-inherited-and-appended)
// Fields list.
package layout

import "gypsumc/internal/ir"

// AssignFieldIndices walks pkg's classes and sets each field's Index to
// its position in the class's Fields list. Declaration analysis (an
// external collaborator, spec section 1) is expected to have already
// built each class's Fields list as parent-fields-then-own-fields, so
// this step only needs to stamp positions. It overwrites every Index
// unconditionally, so re-running it is harmless; an Index assigned
// earlier that differs from the field's position is not detected.
func AssignFieldIndices(pkg *ir.Package) {
	for _, clas := range pkg.Classes {
		AssignClassFieldIndices(clas)
	}
}

// AssignClassFieldIndices assigns indices for a single class, in case a
// caller lowers classes outside of a full package walk (e.g. a builtin
// catalogue class defined with its fields already in final order).
func AssignClassFieldIndices(clas *ir.Class) {
	for i, f := range clas.Fields {
		f.Index = i
	}
}

// AssignMethodIndices returns a map from each of clas's method names to
// that method's position in clas.Methods, the index a virtual call
// uses; it does not modify clas. If two methods share a name, the later
// position wins. internal/builtins builds Methods by copying the
// superclass's slice, putting each override in the slot of the method
// it overrides and appending new methods, so an override shares its
// superclass method's index.
func AssignMethodIndices(clas *ir.Class) map[string]int {
	indices := make(map[string]int, len(clas.Methods))
	for i, m := range clas.Methods {
		indices[m.Name] = i
	}
	return indices
}
