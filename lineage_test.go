package taxoset

import (
	"errors"
	"testing"
)

func TestParseLineageFull(t *testing.T) {
	l, err := ParseLineage("Bacteria; Firmicutes; Bacilli; Bacillales; Bacillaceae; Bacillus; Bacillus subtilis")
	if err != nil {
		t.Fatal(err)
	}

	expected := map[Rank]string{
		Domain:  "Bacteria",
		Phylum:  "Firmicutes",
		Class:   "Bacilli",
		Order:   "Bacillales",
		Family:  "Bacillaceae",
		Genus:   "Bacillus",
		Species: "Bacillus subtilis",
	}
	for rank, label := range expected {
		if got := l.At(rank); got != label {
			t.Errorf("%s: got %q, expected %q", rank, got, label)
		}
	}
}

func TestParseLineagePreservesNATokens(t *testing.T) {
	l, err := ParseLineage("Bacteria; Acidobacteria; NA; NA; NA; NA; NA")
	if err != nil {
		t.Fatal(err)
	}

	if l.At(Domain) != "Bacteria" || l.At(Phylum) != "Acidobacteria" {
		t.Errorf("unexpected leading labels: %+v", l)
	}
	for r := Class; r <= Species; r++ {
		if l.At(r) != Missing {
			t.Errorf("%s: got %q, expected the missing marker", r, l.At(r))
		}
	}
}

func TestParseLineageShortPads(t *testing.T) {
	l, err := ParseLineage("Unassigned")
	if err != nil {
		t.Fatal(err)
	}

	if l.At(Domain) != "Unassigned" {
		t.Errorf("Domain: got %q, expected Unassigned", l.At(Domain))
	}
	for r := Phylum; r <= Species; r++ {
		if l.At(r) != Missing {
			t.Errorf("%s: got %q, expected the missing marker", r, l.At(r))
		}
	}
}

func TestParseLineageTooManyLabels(t *testing.T) {
	_, err := ParseLineage("a; b; c; d; e; f; g; h")
	if err == nil {
		t.Fatal("expected an error for 8 labels")
	}

	var formatErr TaxonomyFormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("expected TaxonomyFormatError, got %T: %v", err, err)
	}
	if formatErr.Labels != 8 {
		t.Errorf("got %d labels, expected 8", formatErr.Labels)
	}
}

func TestLineageRoundTrip(t *testing.T) {
	for _, s := range []string{
		"Bacteria; Firmicutes; Bacilli; Bacillales; Bacillaceae; Bacillus; Bacillus subtilis",
		"Bacteria; Acidobacteria; NA; NA; NA; NA; NA",
		"Archaea; Euryarchaeota; Methanobacteria; Methanobacteriales; NA; NA; NA",
	} {
		l, err := ParseLineage(s)
		if err != nil {
			t.Fatal(err)
		}
		if got := l.String(); got != s {
			t.Errorf("round trip changed the lineage:\ngot      %q\nexpected %q", got, s)
		}
	}
}

func TestLineageTruncateAndPrefix(t *testing.T) {
	l, err := ParseLineage("Bacteria; Firmicutes; Bacilli; Bacillales; Bacillaceae; Bacillus; Bacillus subtilis")
	if err != nil {
		t.Fatal(err)
	}

	trunc := l.Truncate(Class)
	if trunc.String() != "Bacteria; Firmicutes; Bacilli; NA; NA; NA; NA" {
		t.Errorf("unexpected truncation: %q", trunc.String())
	}

	if got := l.Prefix(Phylum); got != "Bacteria; Firmicutes" {
		t.Errorf("unexpected prefix: %q", got)
	}
}

func TestMissingAt(t *testing.T) {
	l, err := ParseLineage("Bacteria; Firmicutes; Clostridia; NA; NA; NA; NA")
	if err != nil {
		t.Fatal(err)
	}

	if l.MissingAt(Class) {
		t.Error("lineage is resolved through Class but was reported missing")
	}
	if !l.MissingAt(Order) {
		t.Error("lineage is unresolved at Order but was not reported missing")
	}
}

func TestParseRank(t *testing.T) {
	r, err := ParseRank("phylum")
	if err != nil {
		t.Fatal(err)
	}
	if r != Phylum {
		t.Errorf("got %v, expected Phylum", r)
	}

	if _, err := ParseRank("kingdom"); err == nil {
		t.Error("expected an error for an unknown rank name")
	}
}
