package taxoset

import (
	"fmt"
	"strings"
)

// Rank is one level of the fixed seven-level taxonomic hierarchy.
type Rank int

const (
	Domain Rank = iota
	Phylum
	Class
	Order
	Family
	Genus
	Species
)

// NumRanks is the depth of the taxonomic hierarchy.
const NumRanks = 7

// Missing is the marker used for an unresolved rank label. Classifier output
// uses the same token inside lineage strings, so parsed NA tokens and padded
// trailing ranks are indistinguishable downstream.
const Missing = "NA"

// lineageSep is the delimiter between rank labels in a lineage string.
const lineageSep = "; "

var rankNames = [NumRanks]string{"Domain", "Phylum", "Class", "Order", "Family", "Genus", "Species"}

func (r Rank) String() string {
	if r < Domain || r > Species {
		return fmt.Sprintf("Rank(%d)", int(r))
	}

	return rankNames[r]
}

// ParseRank maps a rank name (case-insensitive) to its Rank.
func ParseRank(name string) (Rank, error) {
	for i, v := range rankNames {
		if strings.EqualFold(name, v) {
			return Rank(i), nil
		}
	}

	return 0, fmt.Errorf("unknown rank %q (expected one of %s)", name, strings.Join(rankNames[:], ", "))
}

// Lineage holds the seven rank labels for one taxon, Domain first.
type Lineage [NumRanks]string

// ParseLineage splits a "; "-delimited lineage string into its seven rank
// labels. Strings with fewer than seven labels (e.g. an "Unassigned" sentinel
// row) are padded with the Missing marker. More than seven labels make the
// split ambiguous and yield a TaxonomyFormatError.
func ParseLineage(s string) (Lineage, error) {
	var l Lineage

	labels := strings.Split(s, ";")
	if len(labels) > NumRanks {
		return l, TaxonomyFormatError{Taxon: s, Labels: len(labels)}
	}

	for i := range l {
		if i < len(labels) {
			if label := strings.TrimSpace(labels[i]); label != "" {
				l[i] = label
				continue
			}
		}
		l[i] = Missing
	}

	return l, nil
}

// String rejoins the lineage with the canonical delimiter. For a well-formed
// seven-label input, ParseLineage followed by String reproduces the original.
func (l Lineage) String() string {
	return strings.Join(l[:], lineageSep)
}

// At returns the label at rank r.
func (l Lineage) At(r Rank) string {
	return l[r]
}

// MissingAt reports whether the label at or above (shallower than) rank r is
// the Missing marker.
func (l Lineage) MissingAt(r Rank) bool {
	for i := Domain; i <= r; i++ {
		if l[i] == Missing {
			return true
		}
	}

	return false
}

// Truncate returns a copy with every label below (deeper than) rank r
// replaced by the Missing marker.
func (l Lineage) Truncate(r Rank) Lineage {
	out := l
	for i := r + 1; i < NumRanks; i++ {
		out[i] = Missing
	}

	return out
}

// Prefix joins the labels from Domain through rank r inclusive. Two taxa
// belong to the same glom group at rank r exactly when their prefixes match.
func (l Lineage) Prefix(r Rank) string {
	return strings.Join(l[:r+1], lineageSep)
}
