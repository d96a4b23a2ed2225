package layout

import (
	"testing"

	"gypsumc/internal/ir"
	"gypsumc/internal/irtypes"
)

func TestAssignClassFieldIndices(t *testing.T) {
	clas := &ir.Class{Name: "Point"}
	clas.Fields = []*ir.Field{
		{Name: "x", Type: irtypes.Integer(irtypes.W32)},
		{Name: "y", Type: irtypes.Integer(irtypes.W32)},
	}
	AssignClassFieldIndices(clas)
	for i, f := range clas.Fields {
		if f.Index != i {
			t.Errorf("field %s index = %d, want %d", f.Name, f.Index, i)
		}
	}
}

func TestAssignFieldIndicesInheritedPrefix(t *testing.T) {
	base := &ir.Class{Name: "Base"}
	base.Fields = []*ir.Field{{Name: "id", Type: irtypes.Integer(irtypes.W32)}}

	derived := &ir.Class{Name: "Derived", Supertypes: []irtypes.Type{irtypes.ClassType(base)}}
	derived.Fields = append(append([]*ir.Field(nil), base.Fields...), &ir.Field{Name: "extra", Type: irtypes.Integer(irtypes.W32)})

	pkg := ir.NewPackage()
	pkg.AddClass(base)
	pkg.AddClass(derived)
	AssignFieldIndices(pkg)

	if derived.Fields[0].Index != 0 || derived.Fields[1].Index != 1 {
		t.Errorf("derived field indices = %d, %d, want 0, 1", derived.Fields[0].Index, derived.Fields[1].Index)
	}
}

func TestAssignMethodIndices(t *testing.T) {
	clas := &ir.Class{Name: "Shape"}
	area := &ir.Function{Name: "area", Clas: clas}
	perimeter := &ir.Function{Name: "perimeter", Clas: clas}
	clas.Methods = []*ir.Function{area, perimeter}

	indices := AssignMethodIndices(clas)
	if indices["area"] != 0 || indices["perimeter"] != 1 {
		t.Errorf("AssignMethodIndices = %v, want area:0 perimeter:1", indices)
	}
}
