package lists

import (
	"reflect"
	"testing"

	"github.com/diregraph/dire/internal/ident"
)

func tb(triples ...ident.Triple) map[ident.Triple]int64 {
	m := make(map[ident.Triple]int64, len(triples))
	for _, t := range triples {
		m[t] = 1
	}
	return m
}

func TestExpandScenarioF(t *testing.T) {
	const h, r1, r2, a, b, c = 100, 101, 102, 200, 201, 202
	tbox := tb(
		ident.Triple{S: h, P: ident.First, O: a},
		ident.Triple{S: h, P: ident.Rest, O: r1},
		ident.Triple{S: r1, P: ident.First, O: b},
		ident.Triple{S: r1, P: ident.Rest, O: r2},
		ident.Triple{S: r2, P: ident.First, O: c},
		ident.Triple{S: r2, P: ident.Rest, O: ident.Nil},
	)

	got := Expand(tbox)
	want := []ident.List{{Head: h, Members: []uint32{a, b, c}}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestExpandDanglingChainNotEmitted(t *testing.T) {
	const h = 100
	tbox := tb(
		ident.Triple{S: h, P: ident.First, O: 1},
		ident.Triple{S: h, P: ident.Rest, O: 999}, // 999 is never defined as a cell
	)
	if got := Expand(tbox); len(got) != 0 {
		t.Fatalf("expected no lists for a dangling chain, got %+v", got)
	}
}

func TestExpandCyclicChainNotEmitted(t *testing.T) {
	const h, r1 = 100, 101
	tbox := tb(
		ident.Triple{S: h, P: ident.First, O: 1},
		ident.Triple{S: h, P: ident.Rest, O: r1},
		ident.Triple{S: r1, P: ident.First, O: 2},
		ident.Triple{S: r1, P: ident.Rest, O: h}, // cycle back to head
	)
	if got := Expand(tbox); len(got) != 0 {
		t.Fatalf("expected no lists for a cyclic chain, got %+v", got)
	}
}
