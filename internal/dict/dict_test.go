package dict

import (
	"testing"

	"github.com/diregraph/dire/internal/ident"
)

func TestReservedSeeded(t *testing.T) {
	d, err := Open()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer d.Close()

	id, err := d.Encode("rdf:type")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if id != ident.Type {
		t.Fatalf("expected rdf:type to encode to %d, got %d", ident.Type, id)
	}

	iri, found, err := d.Decode(ident.SubClassOf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !found || iri != "rdfs:subClassOf" {
		t.Fatalf("expected rdfs:subClassOf, got %q (found=%v)", iri, found)
	}
}

func TestEncodeAllocatesAboveMaxConst(t *testing.T) {
	d, err := Open()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer d.Close()

	id1, err := d.Encode("http://example.org/Alice")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if id1 <= ident.MaxConst {
		t.Fatalf("expected allocated id above MaxConst, got %d", id1)
	}

	id2, err := d.Encode("http://example.org/Alice")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("expected stable id on re-encode, got %d then %d", id1, id2)
	}
}
