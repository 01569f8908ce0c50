// Package common implements the schema-closure building block shared by
// the RDFS and RDFS++ profiles (subClassOf/subPropertyOf transitivity) and
// the RDFS-level ABox derivations (rdfs2, rdfs3, cax-sco) that OWL 2 RL
// also reuses underneath its richer rule set.
package common

import (
	"github.com/diregraph/dire/internal/collection"
	"github.com/diregraph/dire/internal/ident"
)

type triple = ident.Triple

// TBoxSchemaClosure computes the transitive closure of subClassOf and
// subPropertyOf over tbox, leaving every other TBox triple untouched.
//
// Modeled on the two-recursive-variable iterative scope described for
// TBox schema closure: SCO and SPO each start at their direct assertions
// and are extended one hop per step by joining the assertion set keyed by
// object against the current variable keyed by subject, with distinct
// applied on feedback.
func TBoxSchemaClosure(tbox collection.Collection[triple]) collection.Collection[triple] {
	scoDirect := directBySubject(tbox, ident.SubClassOf)
	spoDirect := directBySubject(tbox, ident.SubPropertyOf)

	sco := closeTransitively(scoDirect)
	spo := closeTransitively(spoDirect)

	out := tbox.Clone()
	for so := range sco {
		out.Add(triple{S: so.Key, P: ident.SubClassOf, O: so.Val}, 1)
	}
	for so := range spo {
		out.Add(triple{S: so.Key, P: ident.SubPropertyOf, O: so.Val}, 1)
	}
	return collection.Distinct(out)
}

// directBySubject extracts (subject, object) pairs for triples with the
// given predicate.
func directBySubject(tbox collection.Collection[triple], pred uint32) collection.Collection[collection.KV[uint32, uint32]] {
	out := make(collection.Collection[collection.KV[uint32, uint32]])
	for t, mult := range tbox {
		if mult > 0 && t.P == pred {
			out.Add(collection.KV[uint32, uint32]{Key: t.S, Val: t.O}, 1)
		}
	}
	return out
}

// closeTransitively computes the transitive closure of a binary relation
// given as (subject, object) pairs: sco_{n+1} = direct ⋈ sco_n, joined on
// the subject of the current variable against the object of a direct
// assertion, with the direct pairs arranged by object so each step is a
// single keyed join.
func closeTransitively(direct collection.Collection[collection.KV[uint32, uint32]]) collection.Collection[collection.KV[uint32, uint32]] {
	byObject := make(collection.Collection[collection.KV[uint32, uint32]])
	for kv, mult := range direct {
		byObject.Add(collection.KV[uint32, uint32]{Key: kv.Val, Val: kv.Key}, mult)
	}
	arrByObject := collection.ArrangeByKey(byObject)

	return collection.Iterate(direct, func(cur collection.Collection[collection.KV[uint32, uint32]]) collection.Collection[collection.KV[uint32, uint32]] {
		step := collection.JoinCore(cur, arrByObject, func(o uint32, oPrime uint32, s uint32) (collection.KV[uint32, uint32], bool) {
			return collection.KV[uint32, uint32]{Key: s, Val: oPrime}, true
		})
		return collection.Concat(direct, step)
	})
}

// DomainAndRangeType implements rdfs2 (domain inference) and rdfs3 (range
// inference): for each (p, domain, C) and (s, p, o), derive (s, type, C);
// for each (p, range, C) and (s, p, o), derive (o, type, C).
func DomainAndRangeType(tbox, abox collection.Collection[triple]) collection.Collection[triple] {
	out := make(collection.Collection[triple])
	for t, mult := range tbox {
		if mult <= 0 {
			continue
		}
		switch t.P {
		case ident.Domain:
			for a, amult := range abox {
				if amult > 0 && a.P == t.S {
					out.Add(triple{S: a.S, P: ident.Type, O: t.O}, 1)
				}
			}
		case ident.Range:
			for a, amult := range abox {
				if amult > 0 && a.P == t.S {
					out.Add(triple{S: a.O, P: ident.Type, O: t.O}, 1)
				}
			}
		}
	}
	return out
}

// TypeUpwardClosure implements cax-sco: for each (C1, subClassOf, C2) and
// (x, type, C1), derive (x, type, C2).
func TypeUpwardClosure(tboxClosure, typeAssertions collection.Collection[triple]) collection.Collection[triple] {
	out := make(collection.Collection[triple])
	for t, mult := range tboxClosure {
		if mult <= 0 || t.P != ident.SubClassOf {
			continue
		}
		for a, amult := range typeAssertions {
			if amult > 0 && a.P == ident.Type && a.O == t.S {
				out.Add(triple{S: a.S, P: ident.Type, O: t.O}, 1)
			}
		}
	}
	return out
}

// SameAsClosureStep implements eq-sym and eq-trans: symmetry and
// transitivity of owl:sameAs. Shared between the OWL 2 RL TBox and ABox
// stages since sameAs facts can originate in either and must close the
// same way wherever they are asserted.
func SameAsClosureStep(c collection.Collection[triple]) collection.Collection[triple] {
	out := make(collection.Collection[triple])
	for t, mult := range c {
		if mult <= 0 || t.P != ident.SameAs {
			continue
		}
		out.Add(triple{S: t.O, P: ident.SameAs, O: t.S}, 1)
	}
	for a, amult := range c {
		if amult <= 0 || a.P != ident.SameAs {
			continue
		}
		for b, bmult := range c {
			if bmult <= 0 || b.P != ident.SameAs || b.S != a.O {
				continue
			}
			out.Add(triple{S: a.S, P: ident.SameAs, O: b.O}, 1)
		}
	}
	return out
}

// PropertyTransport implements rdfs7: for each (p1, subPropertyOf, p2) and
// each (s, p1, o), derive (s, p2, o).
func PropertyTransport(tboxClosure, abox collection.Collection[triple]) collection.Collection[triple] {
	out := make(collection.Collection[triple])
	for t, mult := range tboxClosure {
		if mult <= 0 || t.P != ident.SubPropertyOf {
			continue
		}
		for a, amult := range abox {
			if amult > 0 && a.P == t.S {
				out.Add(triple{S: a.S, P: t.O, O: a.O}, 1)
			}
		}
	}
	return out
}
