package services

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"space-missions/models"
)

var (
	volumeColor  = color.RGBA{R: 44, G: 160, B: 44, A: 255}
	successColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
)

// WriteMissionsPerYearChart renders launches per year as a PNG line chart.
func WriteMissionsPerYearChart(w io.Writer, stats []models.YearStat) error {
	pts := make(plotter.XYs, len(stats))
	for i, s := range stats {
		pts[i].X = float64(s.Year)
		pts[i].Y = float64(s.Total)
	}
	return writeLineChart(w, "Total Missions Launched Per Year", "Number of Missions", volumeColor, pts)
}

// WriteSuccessRateChart renders the yearly success rate as a PNG line chart.
func WriteSuccessRateChart(w io.Writer, stats []models.YearStat) error {
	pts := make(plotter.XYs, len(stats))
	for i, s := range stats {
		pts[i].X = float64(s.Year)
		pts[i].Y = s.SuccessRate
	}
	return writeLineChart(w, "Mission Success Rate by Year", "Success Rate (%)", successColor, pts)
}

func writeLineChart(w io.Writer, title, yLabel string, c color.Color, pts plotter.XYs) error {
	if len(pts) == 0 {
		return fmt.Errorf("chart %q: %w", title, ErrNoData)
	}

	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Year"
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("chart %q: %w", title, err)
	}
	line.LineStyle.Color = c
	line.LineStyle.Width = vg.Points(2)
	points.GlyphStyle.Color = c
	points.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(line, points)

	wt, err := p.WriterTo(10*vg.Inch, 5*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("chart %q: %w", title, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("chart %q: write: %w", title, err)
	}
	return nil
}
