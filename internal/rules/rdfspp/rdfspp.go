// Package rdfspp implements the RDFS++ profile: RDFS plus inverseOf
// (prp-inv1/2) and per-property transitivity (prp-trp), both closed in
// the same recursive scope as rdfs7 so that properties introduced via
// subPropertyOf transport are themselves eligible for transitive closure.
package rdfspp

import (
	"github.com/diregraph/dire/internal/collection"
	"github.com/diregraph/dire/internal/ident"
	"github.com/diregraph/dire/internal/rules/common"
)

type triple = ident.Triple

// TBoxClosure reuses the RDFS schema closure unchanged; RDFS++ only adds
// instance-level rules.
func TBoxClosure(tbox collection.Collection[triple]) (collection.Collection[triple], []ident.List) {
	return common.TBoxSchemaClosure(tbox), nil
}

// ABoxClosure folds rdfs7, per-property transitivity, and inverseOf
// propagation into one recursive variable keyed by property, with
// distinct applied on every feedback step, and layers rdfs2/rdfs3/cax-sco
// on top exactly as in the RDFS profile.
func ABoxClosure(tboxClosure collection.Collection[triple], lists []ident.List, abox collection.Collection[triple]) collection.Collection[triple] {
	transitiveProps := propertiesWithType(tboxClosure, ident.TransitiveProperty)
	inversePairs := inverseOfPairs(tboxClosure)

	current := collection.Distinct(abox)
	for {
		rdfs7 := common.PropertyTransport(tboxClosure, current)
		trans := transitiveStep(current, transitiveProps)
		inv := inverseStep(current, inversePairs)

		next := collection.Distinct(collection.Concat(current, rdfs7, trans, inv))
		if collection.Equal(current, next) {
			current = next
			break
		}
		current = next
	}

	// rdfs2/rdfs3/cax-sco are not part of the recursive property/inverse
	// feedback (they only add type assertions, never properties), so they
	// run once more to a fixpoint on top, as in the RDFS profile.
	for {
		domainRange := common.DomainAndRangeType(tboxClosure, current)
		upward := common.TypeUpwardClosure(tboxClosure, current)
		next := collection.Distinct(collection.Concat(current, domainRange, upward))
		if collection.Equal(current, next) {
			return next
		}
		current = next
	}
}

func propertiesWithType(tboxClosure collection.Collection[triple], typ uint32) map[uint32]bool {
	props := make(map[uint32]bool)
	for t, mult := range tboxClosure {
		if mult > 0 && t.P == ident.Type && t.O == typ {
			props[t.S] = true
		}
	}
	return props
}

// transitiveStep computes, for every property p marked TransitiveProperty,
// (s, p, o') from (s, p, o) and (o, p, o').
func transitiveStep(abox collection.Collection[triple], transitiveProps map[uint32]bool) collection.Collection[triple] {
	if len(transitiveProps) == 0 {
		return nil
	}
	bySO := make(map[uint32]map[uint32][]uint32) // p -> subject -> objects
	for t, mult := range abox {
		if mult <= 0 || !transitiveProps[t.P] {
			continue
		}
		if bySO[t.P] == nil {
			bySO[t.P] = make(map[uint32][]uint32)
		}
		bySO[t.P][t.S] = append(bySO[t.P][t.S], t.O)
	}
	out := make(collection.Collection[triple])
	for t, mult := range abox {
		if mult <= 0 || !transitiveProps[t.P] {
			continue
		}
		for _, oPrime := range bySO[t.P][t.O] {
			out.Add(triple{S: t.S, P: t.P, O: oPrime}, 1)
		}
	}
	return out
}

// inverseOfPairs returns the set of (p1, p2) pairs asserted via inverseOf.
func inverseOfPairs(tboxClosure collection.Collection[triple]) [][2]uint32 {
	var pairs [][2]uint32
	for t, mult := range tboxClosure {
		if mult > 0 && t.P == ident.InverseOf {
			pairs = append(pairs, [2]uint32{t.S, t.O})
		}
	}
	return pairs
}

// inverseStep implements prp-inv1/2: for each (p1, inverseOf, p2) and
// (x, p1, y), derive (y, p2, x), symmetrically for (x, p2, y).
func inverseStep(abox collection.Collection[triple], pairs [][2]uint32) collection.Collection[triple] {
	out := make(collection.Collection[triple])
	for _, pair := range pairs {
		p1, p2 := pair[0], pair[1]
		for t, mult := range abox {
			if mult <= 0 {
				continue
			}
			if t.P == p1 {
				out.Add(triple{S: t.O, P: p2, O: t.S}, 1)
			}
			if t.P == p2 {
				out.Add(triple{S: t.O, P: p1, O: t.S}, 1)
			}
		}
	}
	return out
}
