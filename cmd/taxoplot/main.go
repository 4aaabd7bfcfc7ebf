// taxoplot runs the full abundance-table pipeline: it loads a feature table
// (lineage strings + per-sample counts) and a sample-metadata table, binds
// them into one container, relativizes, ordinates the samples (NMDS or PCoA
// over Bray-Curtis), collapses taxa to a chosen rank, buckets low-abundance
// labels, and renders the ordination scatter and stacked composition bar as
// PNGs alongside TSV exports of the plotted values.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/carbocation/pfx"

	"github.com/mbiome/taxoset"
	"github.com/mbiome/taxoset/ordination"
)

func main() {
	var countsPath, samplesPath, factor, rankName, method, outPrefix string
	var threshold float64
	var dim int

	flag.StringVar(&countsPath, "counts", "", "Tab-delimited feature table. First column: 7-level '; '-delimited lineage. Remaining columns: one per sample, integer read counts.")
	flag.StringVar(&samplesPath, "samples", "", "Tab-delimited sample metadata. First column: sample ID matching the feature table's columns.")
	flag.StringVar(&factor, "factor", "", "Metadata factor used to color the ordination and group the composition bars.")
	flag.StringVar(&rankName, "rank", "Phylum", "(Optional) Taxonomic rank for the composition chart.")
	flag.StringVar(&method, "method", "nmds", "(Optional) Ordination method: nmds or pcoa.")
	flag.Float64Var(&threshold, "threshold", 1.0, "(Optional) Relative-abundance percentage below which taxa are bucketed in the composition chart.")
	flag.IntVar(&dim, "dim", 2, "(Optional) Number of ordination dimensions.")
	flag.StringVar(&outPrefix, "out", "taxoplot", "(Optional) Prefix for the output PNG and TSV files.")
	flag.Parse()

	if countsPath == "" || samplesPath == "" || factor == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(countsPath, samplesPath, factor, rankName, method, outPrefix, threshold, dim); err != nil {
		log.Fatalln(pfx.Err(err))
	}
}

func run(countsPath, samplesPath, factor, rankName, method, outPrefix string, threshold float64, dim int) error {
	countsPath, err := taxoset.ExpandHome(countsPath)
	if err != nil {
		return err
	}
	samplesPath, err = taxoset.ExpandHome(samplesPath)
	if err != nil {
		return err
	}

	rank, err := taxoset.ParseRank(rankName)
	if err != nil {
		return err
	}

	features, err := taxoset.ReadRawTable(countsPath)
	if err != nil {
		return err
	}
	samples, err := taxoset.ReadRawTable(samplesPath)
	if err != nil {
		return err
	}

	exp, err := taxoset.BuildExperiment(features, samples)
	if err != nil {
		return err
	}
	log.Println("Loaded", exp.Counts.NTaxa(), "taxa across", exp.Counts.NSamples(), "samples")

	rel, err := taxoset.Relativize(exp)
	if err != nil {
		return err
	}

	coords, err := ordinate(rel, method, dim)
	if err != nil {
		return err
	}

	if err := plotOrdination(coords, rel.Samples, factor, method, outPrefix+"_ordination.png"); err != nil {
		return err
	}
	if err := writeCoordinates(coords, rel.Samples, factor, outPrefix+"_coordinates.tsv"); err != nil {
		return err
	}

	obs, labels, err := composition(rel, rank, threshold)
	if err != nil {
		return err
	}

	if err := plotComposition(obs, labels, rank, outPrefix+"_composition.png"); err != nil {
		return err
	}
	if err := writeObservations(obs, outPrefix+"_composition.tsv"); err != nil {
		return err
	}

	log.Println("Wrote", outPrefix+"_ordination.png,", outPrefix+"_composition.png, and TSV exports")

	return nil
}

func ordinate(rel *taxoset.Experiment, method string, dim int) (*ordination.Coordinates, error) {
	dis, sampleOrder, err := ordination.BrayCurtis(rel.Counts)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(method) {
	case "nmds":
		coords, err := ordination.NMDS(dis, sampleOrder, dim, nil)
		if err != nil {
			return nil, err
		}
		log.Printf("NMDS converged after %d iterations with stress %.4f\n", coords.Iterations, coords.Stress)
		return coords, nil
	case "pcoa":
		return ordination.PCoA(dis, sampleOrder, dim)
	}

	return nil, fmt.Errorf("unknown ordination method %q (expected nmds or pcoa)", method)
}

// composition prepares the long-form data behind the stacked bar chart:
// collapse to the target rank (missing lineages merged into one bucket, the
// upstream default, spelled out here so it is visible), melt, relabel
// low-abundance and unassigned entries, and order labels by mean abundance
// so stacking is deterministic.
func composition(rel *taxoset.Experiment, rank taxoset.Rank, threshold float64) ([]taxoset.Observation, []string, error) {
	glommed, err := taxoset.Glom(rel, rank, taxoset.MergeMissing)
	if err != nil {
		return nil, nil, err
	}

	obs := taxoset.Bucket(taxoset.Melt(glommed, rank), threshold)

	labels, err := taxoset.LabelsByMeanAbundance(obs)
	if err != nil {
		return nil, nil, err
	}

	return obs, labels, nil
}
