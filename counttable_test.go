package taxoset

import (
	"math"
	"testing"
)

func TestNewCountTableRejectsNonFiniteCells(t *testing.T) {
	for name, bad := range map[string]float64{
		"nan":          math.NaN(),
		"inf":          math.Inf(1),
		"negative inf": math.Inf(-1),
	} {
		_, err := NewCountTable([]string{"a"}, []string{"S1", "S2"}, [][]float64{{10, bad}})
		if err == nil {
			t.Errorf("%s cell was accepted", name)
		}
	}
}

func TestNewCountTableRejectsNegativeCells(t *testing.T) {
	if _, err := NewCountTable([]string{"a"}, []string{"S1"}, [][]float64{{-1}}); err == nil {
		t.Error("negative cell was accepted")
	}
}

func TestNewCountTableRejectsDuplicateKeys(t *testing.T) {
	if _, err := NewCountTable([]string{"a", "a"}, []string{"S1"}, [][]float64{{1}, {2}}); err == nil {
		t.Error("duplicate taxon key was accepted")
	}
	if _, err := NewCountTable([]string{"a"}, []string{"S1", "S1"}, [][]float64{{1, 2}}); err == nil {
		t.Error("duplicate sample key was accepted")
	}
}
