// Package lists materializes RDF collections (linked first/rest/nil cell
// chains) into ordered (head, members) pairs, the auxiliary collection
// OWL 2 RL rules consume for intersectionOf, unionOf, oneOf and
// propertyChainAxiom.
package lists

import "github.com/diregraph/dire/internal/ident"

type cell struct {
	member uint32
	tail   uint32
}

// Expand walks every first/rest cell chain in tbox and returns one List
// per core head: a cell identifier that is itself a list head rather than
// some other cell's tail.
//
// This performs the same four logical steps as the keyed-variable
// algorithm it is modeled on (join first/rest by cell, anti-join against
// tails to find core heads, walk the chain re-keying by current tail,
// keep only chains that reach nil) but as a direct pointer chase rather
// than a generic iterate-to-fixpoint over an arranged index: list chains
// are finite and have no feedback into any other rule, so there is
// nothing a keyed join buys here that a bounded walk does not.
func Expand(tbox map[ident.Triple]int64) []ident.List {
	cells := make(map[uint32]cell)
	isTail := make(map[uint32]bool)

	// Pass 1: collect first/rest assertions per cell.
	firsts := make(map[uint32]uint32)
	rests := make(map[uint32]uint32)
	for t, mult := range tbox {
		if mult <= 0 {
			continue
		}
		switch t.P {
		case ident.First:
			firsts[t.S] = t.O
		case ident.Rest:
			rests[t.S] = t.O
			isTail[t.O] = true
		}
	}
	for c, member := range firsts {
		tail, ok := rests[c]
		if !ok {
			continue
		}
		cells[c] = cell{member: member, tail: tail}
	}

	// Pass 2: core heads are cells that never appear as another cell's
	// tail (the anti-join against the tail set).
	var coreHeads []uint32
	for c := range cells {
		if !isTail[c] {
			coreHeads = append(coreHeads, c)
		}
	}

	var out []ident.List
	for _, h := range coreHeads {
		seq, ok := walk(cells, h)
		if ok {
			out = append(out, ident.List{Head: h, Members: seq})
		}
	}
	return out
}

// walk follows the cell chain from head until it reaches nil, returning
// the ordered members and whether the chain terminated cleanly. A chain
// that revisits a cell (a malformed, cyclic list) or dangles on a missing
// cell is reported as not-converged, matching step 4 of the algorithm:
// only chains whose current tail is nil are retained.
func walk(cells map[uint32]cell, head uint32) ([]uint32, bool) {
	var seq []uint32
	visited := make(map[uint32]bool)
	cur := head
	for cur != ident.Nil {
		if visited[cur] {
			return nil, false
		}
		visited[cur] = true
		c, ok := cells[cur]
		if !ok {
			return nil, false
		}
		seq = append(seq, c.member)
		cur = c.tail
	}
	return seq, true
}
