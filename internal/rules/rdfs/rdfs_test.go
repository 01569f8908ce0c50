package rdfs

import (
	"testing"

	"github.com/diregraph/dire/internal/collection"
	"github.com/diregraph/dire/internal/ident"
)

const (
	k     = ident.MaxConst
	emp   = k + 1
	fac   = k + 2
	fp    = k + 3
	prof  = k + 4
	ho    = k + 5
	mo    = k + 6
	wf    = k + 7
	em    = k + 8
	to    = k + 9
	crs   = k + 10
	fp7   = k + 11
	fp8   = k + 12
	fp9   = k + 13
	fp10  = k + 14
	dep0  = k + 15
	crs10 = k + 16
)

func scenarioATBox() collection.Collection[ident.Triple] {
	return collection.New(
		ident.Triple{S: emp, P: ident.Type, O: ident.Class},
		ident.Triple{S: fac, P: ident.Type, O: ident.Class},
		ident.Triple{S: fac, P: ident.SubClassOf, O: emp},
		ident.Triple{S: fp, P: ident.Type, O: ident.Class},
		ident.Triple{S: fp, P: ident.SubClassOf, O: prof},
		ident.Triple{S: prof, P: ident.Type, O: ident.Class},
		ident.Triple{S: prof, P: ident.SubClassOf, O: fac},
		ident.Triple{S: ho, P: ident.Type, O: ident.ObjectProperty},
		ident.Triple{S: ho, P: ident.SubPropertyOf, O: wf},
		ident.Triple{S: mo, P: ident.Type, O: ident.ObjectProperty},
		ident.Triple{S: wf, P: ident.Type, O: ident.ObjectProperty},
		ident.Triple{S: wf, P: ident.SubPropertyOf, O: mo},
		ident.Triple{S: wf, P: ident.Type, O: ident.TransitiveProperty},
		ident.Triple{S: em, P: ident.Type, O: ident.ObjectProperty},
		ident.Triple{S: em, P: ident.InverseOf, O: wf},
		ident.Triple{S: to, P: ident.Type, O: ident.ObjectProperty},
		ident.Triple{S: to, P: ident.Domain, O: fac},
		ident.Triple{S: to, P: ident.Range, O: crs},
	)
}

func scenarioAABox() collection.Collection[ident.Triple] {
	return collection.New(
		ident.Triple{S: fp7, P: ho, O: dep0},
		ident.Triple{S: fp7, P: ident.Type, O: fp},
		ident.Triple{S: fp7, P: to, O: crs10},
		ident.Triple{S: fp7, P: wf, O: fp8},
		ident.Triple{S: fp8, P: wf, O: fp9},
		ident.Triple{S: fp9, P: wf, O: fp10},
	)
}

func TestScenarioA(t *testing.T) {
	tboxClosure, lists := TBoxClosure(scenarioATBox())
	abox := scenarioAABox()
	closure := ABoxClosure(tboxClosure, lists, abox)

	expectedExtra := []ident.Triple{
		{S: fp7, P: wf, O: dep0},
		{S: fp7, P: mo, O: dep0},
		{S: fp7, P: mo, O: fp8},
		{S: fp8, P: mo, O: fp9},
		{S: fp9, P: mo, O: fp10},
		{S: fp7, P: ident.Type, O: prof},
		{S: fp7, P: ident.Type, O: fac},
		{S: fp7, P: ident.Type, O: emp},
		{S: crs10, P: ident.Type, O: crs},
	}
	for _, want := range expectedExtra {
		if closure[want] != 1 {
			t.Errorf("expected derived triple %+v with multiplicity 1, got %d", want, closure[want])
		}
	}
	for t2, mult := range abox {
		if closure[t2] < mult {
			t.Errorf("original abox triple %+v missing from closure", t2)
		}
	}
	// RDFS must not derive the RDFS++-only transitive/inverse facts.
	notExpected := []ident.Triple{
		{S: fp7, P: wf, O: fp9},
		{S: dep0, P: em, O: fp7},
	}
	for _, t2 := range notExpected {
		if closure[t2] != 0 {
			t.Errorf("RDFS profile unexpectedly derived RDFS++-only triple %+v", t2)
		}
	}
}

func TestScenarioDRetraction(t *testing.T) {
	tbox := scenarioATBox()
	abox := scenarioAABox()

	before := ABoxClosure(firstOf(TBoxClosure(tbox)), nil, abox)

	tbox.Add(ident.Triple{S: fp, P: ident.SubClassOf, O: prof}, -1)
	after := ABoxClosure(firstOf(TBoxClosure(tbox)), nil, abox)

	deltas := collection.Diff(before, after)
	removed := map[ident.Triple]int64{}
	for _, d := range deltas {
		removed[d.Elem] = d.Delta
	}

	for _, t2 := range []ident.Triple{
		{S: fp7, P: ident.Type, O: prof},
		{S: fp7, P: ident.Type, O: fac},
		{S: fp7, P: ident.Type, O: emp},
	} {
		if removed[t2] != -1 {
			t.Errorf("expected %+v to be retracted with delta -1, got %d", t2, removed[t2])
		}
	}
	if after[ident.Triple{S: fp7, P: ident.Type, O: fp}] != 1 {
		t.Errorf("expected (fp7,type,fp) to remain after retraction")
	}
}

func firstOf(c collection.Collection[ident.Triple], _ []ident.List) collection.Collection[ident.Triple] {
	return c
}
