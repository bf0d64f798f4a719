// Package plot renders a run's dispatch mix and price curves as PNG
// charts for quick inspection of a scenario.
package plot

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/gridclear/meritsim/core/market"
)

var (
	windColor  = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	solarColor = color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff}
	gasColor   = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
	priceColor = color.RGBA{R: 0x80, G: 0x00, B: 0x80, A: 0xff}
)

func series(results []market.HourResult, f func(market.HourResult) float64) plotter.XYs {
	pts := make(plotter.XYs, len(results))
	for i, r := range results {
		pts[i].X = float64(r.Hour)
		pts[i].Y = f(r)
	}
	return pts
}

func filledLine(pts plotter.XYs, c color.RGBA) (*plotter.Line, error) {
	l, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	l.Color = c
	l.FillColor = color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xcc}
	return l, nil
}

// MixChart writes a stacked generation chart (wind, solar, gas) with the
// demand curve overlaid.
func MixChart(results []market.HourResult, path string) error {
	p := plot.New()
	p.Title.Text = "Hourly Dispatch Mix vs Total Demand"
	p.X.Label.Text = "Hour"
	p.Y.Label.Text = "Supply (MWh)"

	// Stacked areas: draw the tallest cumulative band first so each band
	// paints over the one beneath it.
	total, err := filledLine(series(results, func(r market.HourResult) float64 {
		return r.WindMWh + r.SolarMWh + r.GasMWh
	}), gasColor)
	if err != nil {
		return err
	}
	renewables, err := filledLine(series(results, func(r market.HourResult) float64 {
		return r.WindMWh + r.SolarMWh
	}), solarColor)
	if err != nil {
		return err
	}
	wind, err := filledLine(series(results, func(r market.HourResult) float64 {
		return r.WindMWh
	}), windColor)
	if err != nil {
		return err
	}

	demand, err := plotter.NewLine(series(results, func(r market.HourResult) float64 {
		return r.DemandMWh
	}))
	if err != nil {
		return err
	}
	demand.Color = color.Black
	demand.Width = vg.Points(2)
	demand.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(total, renewables, wind, demand)
	p.Legend.Add("Gas", total)
	p.Legend.Add("Solar", renewables)
	p.Legend.Add("Wind", wind)
	p.Legend.Add("Demand", demand)
	p.Legend.Top = true

	return p.Save(14*vg.Inch, 6*vg.Inch, path)
}

// PriceChart writes the clearing price curve, marking zero-price surplus
// hours.
func PriceChart(results []market.HourResult, path string) error {
	p := plot.New()
	p.Title.Text = "Electricity Market Price"
	p.X.Label.Text = "Hour"
	p.Y.Label.Text = "Price (£/MWh)"

	line, err := plotter.NewLine(series(results, func(r market.HourResult) float64 {
		return r.PriceGBPPerMWh
	}))
	if err != nil {
		return err
	}
	line.Color = priceColor
	line.Width = vg.Points(2)
	p.Add(line)
	p.Legend.Add("Price", line)

	var zeros plotter.XYs
	for _, r := range results {
		if r.PriceGBPPerMWh == 0 {
			zeros = append(zeros, plotter.XY{X: float64(r.Hour), Y: 0})
		}
	}
	if len(zeros) > 0 {
		sc, err := plotter.NewScatter(zeros)
		if err != nil {
			return err
		}
		sc.GlyphStyle.Color = gasColor
		sc.GlyphStyle.Radius = vg.Points(2.5)
		p.Add(sc)
		p.Legend.Add("Zero price", sc)
	}

	return p.Save(14*vg.Inch, 4*vg.Inch, path)
}
