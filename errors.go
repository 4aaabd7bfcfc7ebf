package taxoset

import (
	"fmt"
	"strings"
)

// MalformedInputError indicates a structurally invalid input file: a missing
// header, ragged rows, duplicate keys, or non-numeric tokens in a count
// column. Line is 1-based and 0 when the problem is not tied to one row.
type MalformedInputError struct {
	Path   string
	Line   int
	Reason string
}

func (e MalformedInputError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed input %s, line %d: %s", e.Path, e.Line, e.Reason)
	}

	return fmt.Sprintf("malformed input %s: %s", e.Path, e.Reason)
}

// TaxonomyFormatError indicates a taxonomy string that cannot be split
// unambiguously into the seven ranks (more than seven labels). Strings with
// fewer than seven labels are padded, not rejected.
type TaxonomyFormatError struct {
	Taxon  string
	Labels int
}

func (e TaxonomyFormatError) Error() string {
	return fmt.Sprintf("taxonomy %q has %d labels, expected at most %d", e.Taxon, e.Labels, NumRanks)
}

// KeyMismatchError indicates a referential-integrity violation between two
// tables that must share a key space. Both sides of the symmetric difference
// are reported so the offending keys can be found in either file.
type KeyMismatchError struct {
	Dimension string // e.g. "taxon" or "sample"
	// OnlyLeft holds keys present in the first table but not the second;
	// OnlyRight the reverse.
	OnlyLeft  []string
	OnlyRight []string
}

func (e KeyMismatchError) Error() string {
	b := strings.Builder{}
	fmt.Fprintf(&b, "%s keys disagree", e.Dimension)
	if len(e.OnlyLeft) > 0 {
		fmt.Fprintf(&b, "; only in first table: %s", strings.Join(e.OnlyLeft, ", "))
	}
	if len(e.OnlyRight) > 0 {
		fmt.Fprintf(&b, "; only in second table: %s", strings.Join(e.OnlyRight, ", "))
	}

	return b.String()
}

// EmptySampleError indicates a sample column whose counts sum to zero, which
// would make relativization divide by zero.
type EmptySampleError struct {
	Sample string
}

func (e EmptySampleError) Error() string {
	return fmt.Sprintf("sample %q has zero total counts and cannot be relativized", e.Sample)
}

// DegenerateMatrixError indicates an all-zero sample column feeding a
// dissimilarity computation, for which the distance is undefined.
type DegenerateMatrixError struct {
	Sample string
}

func (e DegenerateMatrixError) Error() string {
	return fmt.Sprintf("sample %q is all-zero; dissimilarity is undefined", e.Sample)
}
