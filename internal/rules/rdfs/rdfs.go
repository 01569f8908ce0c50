// Package rdfs implements the RDFS rule profile: subClassOf/subPropertyOf
// transitivity at the schema level, and rdfs2/rdfs3/rdfs7/cax-sco at the
// instance level.
package rdfs

import (
	"github.com/diregraph/dire/internal/collection"
	"github.com/diregraph/dire/internal/ident"
	"github.com/diregraph/dire/internal/rules/common"
)

// TBoxClosure computes the RDFS schema closure and an empty auxiliary
// list collection (list expansion is an OWL 2 RL-only concern).
func TBoxClosure(tbox collection.Collection[ident.Triple]) (collection.Collection[ident.Triple], []ident.List) {
	return common.TBoxSchemaClosure(tbox), nil
}

// ABoxClosure derives rdfs7 (property transport), rdfs2/rdfs3 (domain and
// range typing) and cax-sco (type upward closure along subClassOf) over
// abox using the TBox closure as a read-only arrangement, and returns the
// union with the original ABox, consolidated.
func ABoxClosure(tboxClosure collection.Collection[ident.Triple], _ []ident.List, abox collection.Collection[ident.Triple]) collection.Collection[ident.Triple] {
	propertyAssertions := common.PropertyTransport(tboxClosure, abox)

	// rdfs7 can itself feed further rdfs7/domain/range/cax-sco derivations
	// once folded back in (a property derived via subPropertyOf may carry
	// its own domain/range or further subPropertyOf assertions), so the
	// instance-level rules run to a fixpoint over abox ∪ derivations.
	current := collection.Concat(abox, propertyAssertions)
	for {
		domainRange := common.DomainAndRangeType(tboxClosure, current)
		upward := common.TypeUpwardClosure(tboxClosure, current)
		transport := common.PropertyTransport(tboxClosure, current)
		next := collection.Distinct(collection.Concat(current, domainRange, upward, transport))
		if collection.Equal(current, next) {
			current = next
			break
		}
		current = next
	}
	return current
}
