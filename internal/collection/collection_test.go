package collection

import "testing"

func TestMapFilterConcat(t *testing.T) {
	c := New(1, 2, 3)
	doubled := Map(c, func(x int) int { return x * 2 })
	if doubled[2] != 1 || doubled[4] != 1 || doubled[6] != 1 {
		t.Fatalf("unexpected doubled collection: %v", doubled)
	}

	even := Filter(doubled, func(x int) bool { return x%4 == 0 })
	if len(even) != 1 || even[4] != 1 {
		t.Fatalf("unexpected filtered collection: %v", even)
	}

	union := Concat(c, New(3, 4))
	if union[3] != 2 || union[4] != 1 || union[1] != 1 {
		t.Fatalf("unexpected concat: %v", union)
	}
}

func TestDistinctDropsNonPositive(t *testing.T) {
	c := Collection[int]{1: 2, 2: 0, 3: -1}
	d := Distinct(c)
	if len(d) != 1 || d[1] != 1 {
		t.Fatalf("expected only element 1 with multiplicity 1, got %v", d)
	}
}

func TestIterateConverges(t *testing.T) {
	// Transitive closure of a small successor chain: 1->2->3->4.
	succ := map[int]int{1: 2, 2: 3, 3: 4}
	init := New(1)
	closure := Iterate(init, func(cur Collection[int]) Collection[int] {
		next := cur.Clone()
		for x := range cur {
			if n, ok := succ[x]; ok {
				next.Add(n, 1)
			}
		}
		return next
	})
	for _, want := range []int{1, 2, 3, 4} {
		if closure[want] != 1 {
			t.Fatalf("expected %d in closure, got %v", want, closure)
		}
	}
}

func TestDiff(t *testing.T) {
	prev := Collection[string]{"a": 1, "b": 1}
	cur := Collection[string]{"b": 1, "c": 1}
	deltas := Diff(prev, cur)
	got := map[string]int64{}
	for _, d := range deltas {
		got[d.Elem] = d.Delta
	}
	if got["a"] != -1 || got["c"] != 1 {
		t.Fatalf("unexpected diff: %v", got)
	}
	if _, ok := got["b"]; ok {
		t.Fatalf("b should be stable, got delta %v", got["b"])
	}
}

func TestJoinCoreMultipliesMultiplicities(t *testing.T) {
	left := Collection[KV[int, string]]{
		{Key: 1, Val: "x"}: 2,
	}
	right := Collection[KV[int, string]]{
		{Key: 1, Val: "y"}: 3,
	}
	arr := ArrangeByKey(right)
	out := JoinCore(left, arr, func(k int, a, b string) (string, bool) {
		return a + b, true
	})
	if out["xy"] != 6 {
		t.Fatalf("expected multiplicity 6, got %v", out)
	}
}

func TestAntiJoin(t *testing.T) {
	cells := Collection[KV[int, string]]{
		{Key: 1, Val: "a"}: 1,
		{Key: 2, Val: "b"}: 1,
	}
	tails := New(2)
	arr := ArrangeBySelf(tails)
	core := AntiJoin(cells, arr)
	if len(core) != 1 {
		t.Fatalf("expected one core head, got %v", core)
	}
	if _, ok := core[KV[int, string]{Key: 1, Val: "a"}]; !ok {
		t.Fatalf("expected head 1 to survive anti-join, got %v", core)
	}
}
