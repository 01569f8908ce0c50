package owl2rl

import (
	"testing"

	"github.com/diregraph/dire/internal/collection"
	"github.com/diregraph/dire/internal/ident"
)

const (
	a uint32 = ident.MaxConst + 1
	b uint32 = ident.MaxConst + 2
	c uint32 = ident.MaxConst + 3
)

func TestScenarioCSameAs(t *testing.T) {
	tbox := collection.New(
		ident.Triple{S: a, P: ident.SameAs, O: b},
		ident.Triple{S: b, P: ident.SameAs, O: c},
	)
	closure, _ := TBoxClosure(tbox)

	expected := []ident.Triple{
		{S: a, P: ident.SameAs, O: c},
		{S: b, P: ident.SameAs, O: a},
		{S: c, P: ident.SameAs, O: a},
		{S: c, P: ident.SameAs, O: b},
	}
	for _, want := range expected {
		if closure[want] != 1 {
			t.Errorf("expected %+v in sameAs closure, got %d", want, closure[want])
		}
	}
}

func TestScenarioEPropertyChain(t *testing.T) {
	const (
		hasUncle   uint32 = ident.MaxConst + 10
		hasParent  uint32 = ident.MaxConst + 11
		hasBrother uint32 = ident.MaxConst + 12
		listHead   uint32 = ident.MaxConst + 13
		listTail   uint32 = ident.MaxConst + 14
		x          uint32 = ident.MaxConst + 20
		y          uint32 = ident.MaxConst + 21
		z          uint32 = ident.MaxConst + 22
	)
	tbox := collection.New(
		ident.Triple{S: hasUncle, P: ident.PropertyChainAxiom, O: listHead},
		ident.Triple{S: listHead, P: ident.First, O: hasParent},
		ident.Triple{S: listHead, P: ident.Rest, O: listTail},
		ident.Triple{S: listTail, P: ident.First, O: hasBrother},
		ident.Triple{S: listTail, P: ident.Rest, O: ident.Nil},
	)
	abox := collection.New(
		ident.Triple{S: x, P: hasParent, O: y},
		ident.Triple{S: y, P: hasBrother, O: z},
	)

	tboxClosure, expanded := TBoxClosure(tbox)
	closure := ABoxClosure(tboxClosure, expanded, abox)

	want := ident.Triple{S: x, P: hasUncle, O: z}
	if closure[want] != 1 {
		t.Errorf("expected property-chain derivation %+v, got %d", want, closure[want])
	}
}

func TestEmptyInputYieldsOnlyBootstrapFacts(t *testing.T) {
	closure, _ := TBoxClosure(collection.New[ident.Triple]())
	if closure[ident.Triple{S: ident.Thing, P: ident.Type, O: ident.Class}] != 1 {
		t.Fatalf("expected cls-thing bootstrap fact over empty input")
	}
	if closure[ident.Triple{S: ident.Nothing, P: ident.Type, O: ident.Class}] != 1 {
		t.Fatalf("expected cls-nothing1 bootstrap fact over empty input")
	}
	bootstrap := map[uint32]bool{ident.Thing: true, ident.Nothing: true, ident.Class: true}
	for tr := range closure {
		if !bootstrap[tr.S] || !bootstrap[tr.O] {
			t.Fatalf("expected only bootstrap facts over empty input, got %+v", tr)
		}
	}
}
