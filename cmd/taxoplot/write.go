package main

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/mbiome/taxoset"
	"github.com/mbiome/taxoset/ordination"
)

func init() {
	// Tell gocsv to use tab as the delimiter
	gocsv.SetCSVWriter(func(out io.Writer) *gocsv.SafeCSVWriter {
		w := csv.NewWriter(out)
		w.Comma = '\t'
		return gocsv.NewSafeCSVWriter(w)
	})
}

type coordinateRow struct {
	Sample string  `csv:"sample"`
	Axis1  float64 `csv:"axis1"`
	Axis2  float64 `csv:"axis2"`
	Group  string  `csv:"group"`
}

// writeCoordinates exports the first two ordination axes joined with the
// grouping factor, for downstream tools.
func writeCoordinates(coords *ordination.Coordinates, sd *taxoset.SampleData, factor, filename string) error {
	rows := make([]coordinateRow, 0, len(coords.Samples))
	for i, sample := range coords.Samples {
		group, _ := sd.Value(sample, factor)

		row := coordinateRow{
			Sample: sample,
			Axis1:  coords.Point(i)[0],
			Group:  group,
		}
		if coords.Dim > 1 {
			row.Axis2 = coords.Point(i)[1]
		}
		rows = append(rows, row)
	}

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	return gocsv.MarshalFile(&rows, f)
}

// writeObservations exports the melted, bucketed composition table.
func writeObservations(obs []taxoset.Observation, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	return gocsv.MarshalFile(&obs, f)
}
