package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/mbiome/taxoset"
	"github.com/mbiome/taxoset/ordination"
)

// plotOrdination renders the first two ordination axes as a scatter plot,
// one dot per sample, colored by the chosen metadata factor.
func plotOrdination(coords *ordination.Coordinates, sd *taxoset.SampleData, factor, method, filename string) error {
	levels, err := sd.Levels(factor)
	if err != nil {
		return err
	}

	byLevel := make(map[string][]int)
	for i, sample := range coords.Samples {
		v, ok := sd.Value(sample, factor)
		if !ok {
			return fmt.Errorf("sample %q has no value for factor %q", sample, factor)
		}
		byLevel[v] = append(byLevel[v], i)
	}

	axisName := func(k int) string {
		if method == "pcoa" {
			return fmt.Sprintf("PCo%d", k)
		}
		return fmt.Sprintf("NMDS%d", k)
	}

	series := make([]chart.Series, 0, len(levels))
	for g, level := range levels {
		idx := byLevel[level]
		if len(idx) == 0 {
			continue
		}

		xs := make([]float64, len(idx))
		ys := make([]float64, len(idx))
		for k, i := range idx {
			xs[k] = coords.Point(i)[0]
			if coords.Dim > 1 {
				ys[k] = coords.Point(i)[1]
			}
		}

		series = append(series, chart.ContinuousSeries{
			Name: fmt.Sprintf("%s %s", factor, level),
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    5,
				DotColor:    chart.GetDefaultColor(g),
			},
			XValues: xs,
			YValues: ys,
		})
	}

	graph := chart.Chart{
		Width:  1024,
		Height: 768,
		XAxis: chart.XAxis{
			Name: axisName(1),
		},
		YAxis: chart.YAxis{
			Name: axisName(2),
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return renderPNG(&graph, filename)
}

// plotComposition renders one stacked bar per sample, segments ordered by
// ascending mean abundance so the dominant label always sits in the same
// position.
func plotComposition(obs []taxoset.Observation, labels []string, rank taxoset.Rank, filename string) error {
	labelIdx := make(map[string]int, len(labels))
	for i, label := range labels {
		labelIdx[label] = i
	}

	// Pivot back to wide form: sample -> label -> summed abundance. Bucketed
	// observations share a label, so sum rather than overwrite.
	sampleOrder := make([]string, 0)
	bySample := make(map[string][]float64)
	for _, o := range obs {
		if _, seen := bySample[o.Sample]; !seen {
			sampleOrder = append(sampleOrder, o.Sample)
			bySample[o.Sample] = make([]float64, len(labels))
		}
		bySample[o.Sample][labelIdx[o.Label]] += o.Abundance
	}

	bars := make([]chart.StackedBar, 0, len(sampleOrder))
	for _, sample := range sampleOrder {
		values := make([]chart.Value, 0, len(labels))
		for i, label := range labels {
			v := bySample[sample][i]
			if v <= 0 {
				continue
			}
			c := chart.GetDefaultColor(i)
			values = append(values, chart.Value{
				Label: label,
				Value: v,
				Style: chart.Style{FillColor: c, StrokeColor: c},
			})
		}

		bars = append(bars, chart.StackedBar{
			Name:   sample,
			Values: values,
		})
	}

	graph := chart.StackedBarChart{
		Title:      fmt.Sprintf("Composition at %s level", rank),
		Width:      1024,
		Height:     768,
		BarSpacing: 16,
		XAxis:      chart.Shown(),
		YAxis:      chart.Shown(),
		Bars:       bars,
	}

	return renderPNG(&graph, filename)
}

// renderable is satisfied by both chart.Chart and chart.StackedBarChart.
type renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

func renderPNG(graph renderable, filename string) error {
	// Render to a byte buffer
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return err
	}

	outFile, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer outFile.Close()

	if _, err := buffer.WriteTo(outFile); err != nil {
		return err
	}

	return nil
}
