// Package ident defines the triple and update types the reasoner operates
// over, along with the reserved vocabulary identifiers every rule profile
// is written against.
package ident

// MaxConst is the highest identifier reserved for a well-known vocabulary
// term. IRIs and literals outside this range are externally encoded
// (see internal/dict) to integers above MaxConst.
const MaxConst = 45

// Reserved RDF/RDFS vocabulary identifiers.
const (
	SubClassOf    uint32 = 0
	SubPropertyOf uint32 = 1
	Domain        uint32 = 2
	Range         uint32 = 3
	Type          uint32 = 4
	Comment       uint32 = 5
	Rest          uint32 = 6
	First         uint32 = 7
	Label         uint32 = 8
	Nil           uint32 = 9
	Literal       uint32 = 10
)

// Reserved OWL vocabulary identifiers.
const (
	TransitiveProperty        uint32 = 11
	InverseOf                 uint32 = 12
	Thing                     uint32 = 13
	MaxQualifiedCardinality   uint32 = 14
	SomeValuesFrom            uint32 = 15
	EquivalentClass           uint32 = 16
	IntersectionOf            uint32 = 17
	Members                   uint32 = 18
	EquivalentProperty        uint32 = 19
	OnProperty                uint32 = 20
	PropertyChainAxiom        uint32 = 21
	DisjointWith              uint32 = 22
	PropertyDisjointWith      uint32 = 23
	UnionOf                   uint32 = 24
	HasKey                    uint32 = 25
	AllValuesFrom             uint32 = 26
	ComplementOf              uint32 = 27
	OnClass                   uint32 = 28
	DistinctMembers           uint32 = 29
	FunctionalProperty        uint32 = 30
	NamedIndividual           uint32 = 31
	ObjectProperty            uint32 = 32
	Class                     uint32 = 33
	AllDisjointClasses        uint32 = 34
	Restriction               uint32 = 35
	DatatypeProperty          uint32 = 36
	Ontology                  uint32 = 37
	AsymmetricProperty        uint32 = 38
	SymmetricProperty         uint32 = 39
	IrreflexiveProperty       uint32 = 40
	AllDifferent              uint32 = 41
	InverseFunctionalProperty uint32 = 42
	SameAs                    uint32 = 43
	HasValue                  uint32 = 44
	Nothing                   uint32 = 45

	// OneOf is carried over from the source model exactly as found there:
	// it exceeds MaxConst even though it names a reserved OWL term. This
	// is a known inconsistency in the system this reasoner is based on,
	// reproduced rather than silently corrected.
	OneOf uint32 = 46
)

// Triple is the unit of RDF the engine reasons over: three opaque 32-bit
// identifiers with no ordering semantics between them.
type Triple struct {
	S, P, O uint32
}

// Update is an input event: delta > 0 asserts the triple, delta < 0
// retracts it.
type Update struct {
	Triple Triple
	Delta  int64
}

// TimedDelta is an output event: the net change to a triple's multiplicity
// observed at the given logical epoch.
type TimedDelta struct {
	Triple Triple
	Epoch  uint64
	Delta  int64
}

// List is the materialized form of an RDF collection: an ordered sequence
// of members rooted at Head.
type List struct {
	Head    uint32
	Members []uint32
}
