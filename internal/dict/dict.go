// Package dict implements the constant dictionary: the bidirectional
// mapping between external IRI/literal strings and the uint32 identifiers
// the reasoner operates on. It is an external collaborator per the
// reasoner's own scope (the engine only ever sees integers) and stands
// alone here: the CLI reads pre-encoded integer triples and does not use
// this package.
//
// Storage is an in-memory buntdb database, never touching disk, which
// keeps "no persistent on-disk store" intact while still giving the
// dictionary an embedded, indexed key/value store rather than a bespoke
// map type — the same shape aistore uses buntdb for.
package dict

import (
	"fmt"
	"strconv"

	"github.com/diregraph/dire/internal/ident"
	"github.com/tidwall/buntdb"
)

const (
	forwardPrefix = "fwd:"
	reversePrefix = "rev:"
)

// Dict is a bidirectional IRI<->uint32 table seeded with the reserved
// vocabulary (0-46) on construction.
type Dict struct {
	db   *buntdb.DB
	next uint32
}

// Open creates a new in-memory dictionary seeded with the reserved
// identifier table.
func Open() (*Dict, error) {
	db, err := buntdb.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("dict: open in-memory store: %w", err)
	}
	d := &Dict{db: db, next: ident.OneOf + 1}
	if err := d.seedReserved(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// Close releases the underlying store.
func (d *Dict) Close() error {
	return d.db.Close()
}

var reserved = map[string]uint32{
	"rdfs:subClassOf":           ident.SubClassOf,
	"rdfs:subPropertyOf":        ident.SubPropertyOf,
	"rdfs:domain":               ident.Domain,
	"rdfs:range":                ident.Range,
	"rdf:type":                  ident.Type,
	"rdfs:comment":              ident.Comment,
	"rdf:rest":                  ident.Rest,
	"rdf:first":                 ident.First,
	"rdfs:label":                ident.Label,
	"rdf:nil":                   ident.Nil,
	"rdfs:Literal":              ident.Literal,
	"owl:TransitiveProperty":    ident.TransitiveProperty,
	"owl:inverseOf":             ident.InverseOf,
	"owl:Thing":                 ident.Thing,
	"owl:maxQualifiedCardinality": ident.MaxQualifiedCardinality,
	"owl:someValuesFrom":        ident.SomeValuesFrom,
	"owl:equivalentClass":       ident.EquivalentClass,
	"owl:intersectionOf":        ident.IntersectionOf,
	"owl:members":               ident.Members,
	"owl:equivalentProperty":    ident.EquivalentProperty,
	"owl:onProperty":            ident.OnProperty,
	"owl:propertyChainAxiom":    ident.PropertyChainAxiom,
	"owl:disjointWith":          ident.DisjointWith,
	"owl:propertyDisjointWith":  ident.PropertyDisjointWith,
	"owl:unionOf":               ident.UnionOf,
	"owl:hasKey":                ident.HasKey,
	"owl:allValuesFrom":         ident.AllValuesFrom,
	"owl:complementOf":          ident.ComplementOf,
	"owl:onClass":               ident.OnClass,
	"owl:distinctMembers":       ident.DistinctMembers,
	"owl:FunctionalProperty":    ident.FunctionalProperty,
	"owl:NamedIndividual":       ident.NamedIndividual,
	"owl:ObjectProperty":        ident.ObjectProperty,
	"owl:Class":                 ident.Class,
	"owl:AllDisjointClasses":    ident.AllDisjointClasses,
	"owl:Restriction":           ident.Restriction,
	"owl:DatatypeProperty":      ident.DatatypeProperty,
	"owl:Ontology":              ident.Ontology,
	"owl:AsymmetricProperty":    ident.AsymmetricProperty,
	"owl:SymmetricProperty":     ident.SymmetricProperty,
	"owl:IrreflexiveProperty":   ident.IrreflexiveProperty,
	"owl:AllDifferent":          ident.AllDifferent,
	"owl:InverseFunctionalProperty": ident.InverseFunctionalProperty,
	"owl:sameAs":                ident.SameAs,
	"owl:hasValue":              ident.HasValue,
	"owl:Nothing":               ident.Nothing,
	"owl:oneOf":                 ident.OneOf,
}

func (d *Dict) seedReserved() error {
	return d.db.Update(func(tx *buntdb.Tx) error {
		for iri, id := range reserved {
			if err := set(tx, iri, id); err != nil {
				return err
			}
		}
		return nil
	})
}

func set(tx *buntdb.Tx, iri string, id uint32) error {
	idStr := strconv.FormatUint(uint64(id), 10)
	if _, _, err := tx.Set(forwardPrefix+iri, idStr, nil); err != nil {
		return err
	}
	if _, _, err := tx.Set(reversePrefix+idStr, iri, nil); err != nil {
		return err
	}
	return nil
}

// Encode returns the identifier for iri, allocating a fresh one above
// ident.MaxConst if it has not been seen before.
func (d *Dict) Encode(iri string) (uint32, error) {
	var id uint32
	err := d.db.Update(func(tx *buntdb.Tx) error {
		if val, err := tx.Get(forwardPrefix + iri); err == nil {
			parsed, perr := strconv.ParseUint(val, 10, 32)
			if perr != nil {
				return fmt.Errorf("dict: corrupt forward entry for %q: %w", iri, perr)
			}
			id = uint32(parsed)
			return nil
		} else if err != buntdb.ErrNotFound {
			return err
		}
		id = d.next
		d.next++
		return set(tx, iri, id)
	})
	if err != nil {
		return 0, fmt.Errorf("dict: encode %q: %w", iri, err)
	}
	return id, nil
}

// Decode returns the IRI previously assigned to id, if any.
func (d *Dict) Decode(id uint32) (string, bool, error) {
	var iri string
	var found bool
	idStr := strconv.FormatUint(uint64(id), 10)
	err := d.db.View(func(tx *buntdb.Tx) error {
		val, err := tx.Get(reversePrefix + idStr)
		if err == buntdb.ErrNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		iri, found = val, true
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("dict: decode %d: %w", id, err)
	}
	return iri, found, nil
}
