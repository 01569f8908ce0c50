package owl2rl

import (
	"github.com/diregraph/dire/internal/collection"
	"github.com/diregraph/dire/internal/ident"
	"github.com/diregraph/dire/internal/rules/common"
)

// ABoxClosure runs the prp-/cax-/cls-/eq- instance rules to a fixpoint,
// against the OWL 2 RL TBox closure and expanded lists as a read-only
// arrangement. sameAs facts in the ABox are closed (eq-sym/eq-trans) and
// substituted (eq-rep) within the ABox only: the TBox closure and the
// schema index built from it stay fixed for the whole fixpoint, so ABox
// sameAs facts are not fed back into the TBox.
func ABoxClosure(tboxClosure collection.Collection[triple], expanded []ident.List, abox collection.Collection[triple]) collection.Collection[triple] {
	schema := newSchemaIndex(tboxClosure, expanded)

	current := collection.Distinct(abox)
	for {
		next := collection.Concat(
			current,
			common.PropertyTransport(tboxClosure, current), // prp-spo1
			common.DomainAndRangeType(tboxClosure, current), // prp-dom/prp-rng
			common.TypeUpwardClosure(tboxClosure, current),  // cax-sco
			eqRep(current),
			common.SameAsClosureStep(current), // eq-sym/eq-trans
			prpFunctional(current, schema),
			prpSymmetric(current, schema),
			prpTransitive(current, schema),
			prpInverse(current, schema),
			prpChain(current, schema),
			clsIntersection(current, schema),
			clsRestrictions(current, schema),
			clsOneOf(current, schema),
		)
		next = collection.Distinct(next)
		if collection.Equal(current, next) {
			return next
		}
		current = next
	}
}

// schemaIndex precomputes the TBox-derived lookups the ABox rules join
// against, so each fixpoint iteration does not re-scan the TBox closure
// per rule.
type schemaIndex struct {
	functional        map[uint32]bool
	inverseFunctional map[uint32]bool
	symmetric         map[uint32]bool
	transitive        map[uint32]bool
	inversePairs      [][2]uint32
	chains            map[uint32][]uint32 // property -> chain member properties
	intersections     map[uint32][]uint32 // class -> member classes
	oneOfs            map[uint32][]uint32 // class -> individuals
	restrictionsBy     map[uint32][]restriction
}

type restriction struct {
	onProperty uint32
	kind       uint32
	filler     uint32
}

func newSchemaIndex(tboxClosure collection.Collection[triple], expanded []ident.List) *schemaIndex {
	byHead := make(map[uint32][]uint32, len(expanded))
	for _, l := range expanded {
		byHead[l.Head] = l.Members
	}

	idx := &schemaIndex{
		functional:        make(map[uint32]bool),
		inverseFunctional: make(map[uint32]bool),
		symmetric:         make(map[uint32]bool),
		transitive:        make(map[uint32]bool),
		chains:            make(map[uint32][]uint32),
		intersections:     make(map[uint32][]uint32),
		oneOfs:            make(map[uint32][]uint32),
		restrictionsBy:    make(map[uint32][]restriction),
	}

	restrictions := make(map[uint32]restriction)
	for t, mult := range tboxClosure {
		if mult <= 0 {
			continue
		}
		switch t.P {
		case ident.Type:
			switch t.O {
			case ident.FunctionalProperty:
				idx.functional[t.S] = true
			case ident.InverseFunctionalProperty:
				idx.inverseFunctional[t.S] = true
			case ident.SymmetricProperty:
				idx.symmetric[t.S] = true
			case ident.TransitiveProperty:
				idx.transitive[t.S] = true
			}
		case ident.InverseOf:
			idx.inversePairs = append(idx.inversePairs, [2]uint32{t.S, t.O})
		case ident.PropertyChainAxiom:
			idx.chains[t.S] = byHead[t.O]
		case ident.IntersectionOf:
			idx.intersections[t.S] = byHead[t.O]
		case ident.OneOf:
			idx.oneOfs[t.S] = byHead[t.O]
		case ident.OnProperty:
			r := restrictions[t.S]
			r.onProperty = t.O
			restrictions[t.S] = r
		case ident.SomeValuesFrom, ident.AllValuesFrom, ident.HasValue:
			r := restrictions[t.S]
			r.kind = t.P
			r.filler = t.O
			restrictions[t.S] = r
		}
	}
	for cls, r := range restrictions {
		idx.restrictionsBy[r.onProperty] = append(idx.restrictionsBy[r.onProperty], restriction{onProperty: cls, kind: r.kind, filler: r.filler})
	}
	return idx
}

// eqRep implements eq-rep-s/p/o: wherever x sameAs y, substitute y for x in
// every triple position.
func eqRep(abox collection.Collection[triple]) collection.Collection[triple] {
	var pairs [][2]uint32
	for t, mult := range abox {
		if mult > 0 && t.P == ident.SameAs {
			pairs = append(pairs, [2]uint32{t.S, t.O})
		}
	}
	if len(pairs) == 0 {
		return nil
	}
	out := make(collection.Collection[triple])
	for t, mult := range abox {
		if mult <= 0 {
			continue
		}
		for _, pair := range pairs {
			x, y := pair[0], pair[1]
			if t.S == x {
				out.Add(triple{S: y, P: t.P, O: t.O}, 1)
			}
			if t.P == x {
				out.Add(triple{S: t.S, P: y, O: t.O}, 1)
			}
			if t.O == x {
				out.Add(triple{S: t.S, P: t.P, O: y}, 1)
			}
		}
	}
	return out
}

// prpFunctional implements prp-fp/prp-ifp: a functional property relating
// one subject to two distinct objects (or inverse-functional, two
// subjects to one object) makes those objects (subjects) sameAs.
func prpFunctional(abox collection.Collection[triple], schema *schemaIndex) collection.Collection[triple] {
	out := make(collection.Collection[triple])
	bySubjectProp := make(map[triple][]uint32) // (s,p) -> objects
	byObjectProp := make(map[triple][]uint32)  // (o,p) -> subjects
	for t, mult := range abox {
		if mult <= 0 {
			continue
		}
		if schema.functional[t.P] {
			key := triple{S: t.S, P: t.P}
			bySubjectProp[key] = append(bySubjectProp[key], t.O)
		}
		if schema.inverseFunctional[t.P] {
			key := triple{S: t.O, P: t.P}
			byObjectProp[key] = append(byObjectProp[key], t.S)
		}
	}
	for _, objs := range bySubjectProp {
		for i := 0; i < len(objs); i++ {
			for j := 0; j < len(objs); j++ {
				if objs[i] != objs[j] {
					out.Add(triple{S: objs[i], P: ident.SameAs, O: objs[j]}, 1)
				}
			}
		}
	}
	for _, subs := range byObjectProp {
		for i := 0; i < len(subs); i++ {
			for j := 0; j < len(subs); j++ {
				if subs[i] != subs[j] {
					out.Add(triple{S: subs[i], P: ident.SameAs, O: subs[j]}, 1)
				}
			}
		}
	}
	return out
}

// prpSymmetric implements prp-symp.
func prpSymmetric(abox collection.Collection[triple], schema *schemaIndex) collection.Collection[triple] {
	out := make(collection.Collection[triple])
	for t, mult := range abox {
		if mult > 0 && schema.symmetric[t.P] {
			out.Add(triple{S: t.O, P: t.P, O: t.S}, 1)
		}
	}
	return out
}

// prpTransitive implements prp-trp: pairwise closure per transitive
// property.
func prpTransitive(abox collection.Collection[triple], schema *schemaIndex) collection.Collection[triple] {
	if len(schema.transitive) == 0 {
		return nil
	}
	bySubject := make(map[triple][]uint32) // (p,s) -> objects
	for t, mult := range abox {
		if mult > 0 && schema.transitive[t.P] {
			key := triple{S: t.S, P: t.P}
			bySubject[key] = append(bySubject[key], t.O)
		}
	}
	out := make(collection.Collection[triple])
	for t, mult := range abox {
		if mult <= 0 || !schema.transitive[t.P] {
			continue
		}
		for _, oPrime := range bySubject[triple{S: t.O, P: t.P}] {
			out.Add(triple{S: t.S, P: t.P, O: oPrime}, 1)
		}
	}
	return out
}

// prpInverse implements prp-inv1/2.
func prpInverse(abox collection.Collection[triple], schema *schemaIndex) collection.Collection[triple] {
	out := make(collection.Collection[triple])
	for _, pair := range schema.inversePairs {
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

// prpChain implements prp-spo2: for (p, propertyChainAxiom, [p0..pn-1]),
// a walk u0 -p0-> u1 -p1-> ... -> un derives (u0, p, un). Implemented as
// a direct beam search over the chain rather than the inner
// iteration-index sub-scope the source algorithm uses: the chain length
// is fixed and known up front, so each step just filters the current set
// of partial walks by one more hop.
func prpChain(abox collection.Collection[triple], schema *schemaIndex) collection.Collection[triple] {
	out := make(collection.Collection[triple])
	for p, chain := range schema.chains {
		if len(chain) == 0 {
			continue
		}
		type walk struct {
			start, cur uint32
		}
		var walks []walk
		for t, mult := range abox {
			if mult > 0 && t.P == chain[0] {
				walks = append(walks, walk{start: t.S, cur: t.O})
			}
		}
		for _, step := range chain[1:] {
			var next []walk
			for _, w := range walks {
				for t, mult := range abox {
					if mult > 0 && t.P == step && t.S == w.cur {
						next = append(next, walk{start: w.start, cur: t.O})
					}
				}
			}
			walks = next
		}
		for _, w := range walks {
			out.Add(triple{S: w.start, P: p, O: w.cur}, 1)
		}
	}
	return out
}

// clsIntersection implements cls-int1: if c is intersectionOf [c0..cn-1]
// and x has type c_i for every i, derive (x, type, c).
func clsIntersection(abox collection.Collection[triple], schema *schemaIndex) collection.Collection[triple] {
	out := make(collection.Collection[triple])
	typesByX := make(map[uint32]map[uint32]bool)
	for t, mult := range abox {
		if mult > 0 && t.P == ident.Type {
			if typesByX[t.S] == nil {
				typesByX[t.S] = make(map[uint32]bool)
			}
			typesByX[t.S][t.O] = true
		}
	}
	for c, members := range schema.intersections {
		if len(members) == 0 {
			continue
		}
		for x, types := range typesByX {
			all := true
			for _, m := range members {
				if !types[m] {
					all = false
					break
				}
			}
			if all {
				out.Add(triple{S: x, P: ident.Type, O: c}, 1)
			}
		}
	}
	return out
}

// clsRestrictions implements cls-svf1/2, cls-avf and cls-hv1/2.
func clsRestrictions(abox collection.Collection[triple], schema *schemaIndex) collection.Collection[triple] {
	out := make(collection.Collection[triple])
	for p, restrictions := range schema.restrictionsBy {
		for t, mult := range abox {
			if mult <= 0 || t.P != p {
				continue
			}
			for _, r := range restrictions {
				switch r.kind {
				case ident.SomeValuesFrom:
					// cls-svf1: (x,p,y), (y,type,valuesFrom-class) => (x,type,restriction)
					// cls-svf2: (x,p,y) with valuesFrom owl:Thing => (x,type,restriction)
					if r.filler == ident.Thing || abox[triple{S: t.O, P: ident.Type, O: r.filler}] > 0 {
						out.Add(triple{S: t.S, P: ident.Type, O: r.onProperty}, 1)
					}
				case ident.AllValuesFrom:
					// cls-avf: (x,type,restriction), (x,p,y) => (y,type,valuesFrom-class)
					if abox[triple{S: t.S, P: ident.Type, O: r.onProperty}] > 0 {
						out.Add(triple{S: t.O, P: ident.Type, O: r.filler}, 1)
					}
				case ident.HasValue:
					// cls-hv2: (x,p,value) => (x,type,restriction)
					if t.O == r.filler {
						out.Add(triple{S: t.S, P: ident.Type, O: r.onProperty}, 1)
					}
				}
			}
		}
		// cls-hv1: (x,type,restriction) => (x,p,value)
		for _, r := range restrictions {
			if r.kind != ident.HasValue {
				continue
			}
			for t, mult := range abox {
				if mult > 0 && t.P == ident.Type && t.O == r.onProperty {
					out.Add(triple{S: t.S, P: p, O: r.filler}, 1)
				}
			}
		}
	}
	return out
}

// clsOneOf implements cls-oo: every member of a oneOf list has type the
// enclosing class.
func clsOneOf(_ collection.Collection[triple], schema *schemaIndex) collection.Collection[triple] {
	out := make(collection.Collection[triple])
	for c, members := range schema.oneOfs {
		for _, m := range members {
			out.Add(triple{S: m, P: ident.Type, O: c}, 1)
		}
	}
	return out
}
