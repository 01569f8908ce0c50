// Package owl2rl implements the OWL 2 RL/RDF rule profile: the scm-/eq-
// schema rules over the TBox, and the prp-/cax-/cls-/eq- instance rules
// over the ABox.
package owl2rl

import (
	"github.com/diregraph/dire/internal/collection"
	"github.com/diregraph/dire/internal/ident"
	"github.com/diregraph/dire/internal/lists"
	"github.com/diregraph/dire/internal/rules/common"
)

type triple = ident.Triple

// TBoxClosure runs the scm- and eq- rule groups in a single recursive
// scope over the TBox, returning the converged closure and the expanded
// RDF lists OWL 2 RL consumes for intersectionOf/unionOf.
func TBoxClosure(tbox collection.Collection[triple]) (collection.Collection[triple], []ident.List) {
	expanded := lists.Expand(tbox)

	// cls-thing / cls-nothing1: unconditional bootstrap facts, present
	// even over an empty input.
	current := collection.Distinct(tbox)
	current.Add(triple{S: ident.Thing, P: ident.Type, O: ident.Class}, 1)
	current.Add(triple{S: ident.Nothing, P: ident.Type, O: ident.Class}, 1)
	for {
		next := collection.Concat(
			current,
			scmCls(current),
			scmScoTransitive(current),
			scmEqc(current),
			scmOp(current),
			scmSpoTransitive(current),
			scmEqp(current),
			scmDomRng(current),
			scmRestrictions(current),
			scmIntUni(current, expanded),
			eqSymTrans(current),
		)
		next = collection.Distinct(next)
		if collection.Equal(current, next) {
			return next, expanded
		}
		current = next
	}
}

// scmCls implements scm-cls: every OWL class is a subclass of itself, of
// Thing, equivalent to itself, and Nothing is a subclass of it.
func scmCls(tbox collection.Collection[triple]) collection.Collection[triple] {
	out := make(collection.Collection[triple])
	for t, mult := range tbox {
		if mult <= 0 || t.P != ident.Type || t.O != ident.Class {
			continue
		}
		c := t.S
		out.Add(triple{S: c, P: ident.SubClassOf, O: c}, 1)
		out.Add(triple{S: c, P: ident.EquivalentClass, O: c}, 1)
		out.Add(triple{S: c, P: ident.SubClassOf, O: ident.Thing}, 1)
		out.Add(triple{S: ident.Nothing, P: ident.SubClassOf, O: c}, 1)
	}
	return out
}

// scmScoTransitive implements scm-sco: subClassOf transitivity.
func scmScoTransitive(tbox collection.Collection[triple]) collection.Collection[triple] {
	return byPredTransitive(tbox, ident.SubClassOf)
}

// scmSpoTransitive implements scm-spo: subPropertyOf transitivity.
func scmSpoTransitive(tbox collection.Collection[triple]) collection.Collection[triple] {
	return byPredTransitive(tbox, ident.SubPropertyOf)
}

func byPredTransitive(tbox collection.Collection[triple], pred uint32) collection.Collection[triple] {
	out := make(collection.Collection[triple])
	for a, amult := range tbox {
		if amult <= 0 || a.P != pred {
			continue
		}
		for b, bmult := range tbox {
			if bmult <= 0 || b.P != pred || b.S != a.O {
				continue
			}
			out.Add(triple{S: a.S, P: pred, O: b.O}, 1)
		}
	}
	return out
}

// scmEqc implements scm-eqc1/2: equivalentClass is bidirectional
// subClassOf.
func scmEqc(tbox collection.Collection[triple]) collection.Collection[triple] {
	out := make(collection.Collection[triple])
	for t, mult := range tbox {
		if mult <= 0 {
			continue
		}
		if t.P == ident.EquivalentClass {
			out.Add(triple{S: t.S, P: ident.SubClassOf, O: t.O}, 1)
			out.Add(triple{S: t.O, P: ident.SubClassOf, O: t.S}, 1)
		}
	}
	for a, amult := range tbox {
		if amult <= 0 || a.P != ident.SubClassOf {
			continue
		}
		for b, bmult := range tbox {
			if bmult <= 0 || b.P != ident.SubClassOf || b.S != a.O || b.O != a.S {
				continue
			}
			out.Add(triple{S: a.S, P: ident.EquivalentClass, O: a.O}, 1)
		}
	}
	return out
}

// scmOp implements scm-op: every ObjectProperty is sub/equivalent to
// itself.
func scmOp(tbox collection.Collection[triple]) collection.Collection[triple] {
	out := make(collection.Collection[triple])
	for t, mult := range tbox {
		if mult <= 0 || t.P != ident.Type || t.O != ident.ObjectProperty {
			continue
		}
		out.Add(triple{S: t.S, P: ident.SubPropertyOf, O: t.S}, 1)
		out.Add(triple{S: t.S, P: ident.EquivalentProperty, O: t.S}, 1)
	}
	return out
}

// scmEqp implements scm-eqp1/2: equivalentProperty is bidirectional
// subPropertyOf.
func scmEqp(tbox collection.Collection[triple]) collection.Collection[triple] {
	out := make(collection.Collection[triple])
	for t, mult := range tbox {
		if mult <= 0 {
			continue
		}
		if t.P == ident.EquivalentProperty {
			out.Add(triple{S: t.S, P: ident.SubPropertyOf, O: t.O}, 1)
			out.Add(triple{S: t.O, P: ident.SubPropertyOf, O: t.S}, 1)
		}
	}
	for a, amult := range tbox {
		if amult <= 0 || a.P != ident.SubPropertyOf {
			continue
		}
		for b, bmult := range tbox {
			if bmult <= 0 || b.P != ident.SubPropertyOf || b.S != a.O || b.O != a.S {
				continue
			}
			out.Add(triple{S: a.S, P: ident.EquivalentProperty, O: a.O}, 1)
		}
	}
	return out
}

// scmDomRng implements scm-dom1/2 and scm-rng1/2: domain/range propagated
// along subPropertyOf (a more specific property inherits the domain/range
// of anything it is a sub-property of) and along subClassOf (the domain or
// range class can itself be generalized).
func scmDomRng(tbox collection.Collection[triple]) collection.Collection[triple] {
	out := make(collection.Collection[triple])
	for dr, drmult := range tbox {
		if drmult <= 0 || (dr.P != ident.Domain && dr.P != ident.Range) {
			continue
		}
		for spo, spomult := range tbox {
			if spomult <= 0 || spo.P != ident.SubPropertyOf || spo.O != dr.S {
				continue
			}
			out.Add(triple{S: spo.S, P: dr.P, O: dr.O}, 1)
		}
		for sco, scomult := range tbox {
			if scomult <= 0 || sco.P != ident.SubClassOf || sco.S != dr.O {
				continue
			}
			out.Add(triple{S: dr.S, P: dr.P, O: sco.O}, 1)
		}
	}
	return out
}

// scmRestrictions implements an abridged scm-hv/scm-svf1/2/scm-avf1/2:
// two restriction classes that share an onProperty and whose fillers are
// themselves related by subClassOf (someValuesFrom/allValuesFrom) or equal
// (hasValue) are placed in the corresponding subClassOf relationship.
func scmRestrictions(tbox collection.Collection[triple]) collection.Collection[triple] {
	type restriction struct {
		onProperty uint32
		filler     uint32
		kind       uint32 // ident.SomeValuesFrom, ident.AllValuesFrom or ident.HasValue
	}
	restrictions := make(map[uint32]restriction)
	for t, mult := range tbox {
		if mult <= 0 {
			continue
		}
		switch t.P {
		case ident.OnProperty:
			r := restrictions[t.S]
			r.onProperty = t.O
			restrictions[t.S] = r
		case ident.SomeValuesFrom, ident.AllValuesFrom, ident.HasValue:
			r := restrictions[t.S]
			r.filler = t.O
			r.kind = t.P
			restrictions[t.S] = r
		}
	}

	out := make(collection.Collection[triple])
	for x, rx := range restrictions {
		for z, rz := range restrictions {
			if x == z || rx.kind != rz.kind || rx.onProperty != rz.onProperty {
				continue
			}
			switch rx.kind {
			case ident.SomeValuesFrom, ident.AllValuesFrom:
				if fillerSubClass(tbox, rx.filler, rz.filler) {
					out.Add(triple{S: x, P: ident.SubClassOf, O: z}, 1)
				}
			case ident.HasValue:
				if rx.filler == rz.filler {
					out.Add(triple{S: x, P: ident.SubClassOf, O: z}, 1)
				}
			}
		}
	}
	return out
}

func fillerSubClass(tbox collection.Collection[triple], a, b uint32) bool {
	if a == b {
		return true
	}
	return tbox[triple{S: a, P: ident.SubClassOf, O: b}] > 0
}

// scmIntUni implements scm-int/scm-uni: a class that is intersectionOf(L)
// is subClassOf each member of L; each member of unionOf(L) is subClassOf
// the parent.
func scmIntUni(tbox collection.Collection[triple], expanded []ident.List) collection.Collection[triple] {
	byHead := make(map[uint32][]uint32, len(expanded))
	for _, l := range expanded {
		byHead[l.Head] = l.Members
	}
	out := make(collection.Collection[triple])
	for t, mult := range tbox {
		if mult <= 0 {
			continue
		}
		switch t.P {
		case ident.IntersectionOf:
			for _, m := range byHead[t.O] {
				out.Add(triple{S: t.S, P: ident.SubClassOf, O: m}, 1)
			}
		case ident.UnionOf:
			for _, m := range byHead[t.O] {
				out.Add(triple{S: m, P: ident.SubClassOf, O: t.S}, 1)
			}
		}
	}
	return out
}

// eqSymTrans implements eq-sym/eq-trans: symmetry and transitivity of
// sameAs facts asserted at the schema level (as in the sameAs round-trip
// scenario), closed inside the TBox recursive scope. sameAs facts derived
// in the ABox do not reach this scope.
func eqSymTrans(tbox collection.Collection[triple]) collection.Collection[triple] {
	return common.SameAsClosureStep(tbox)
}
