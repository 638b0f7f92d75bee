// Package report renders engine results as plain-text tables.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/xtding233/dropcalc/internal/curve"
	"github.com/xtding233/dropcalc/internal/drop"
	"github.com/xtding233/dropcalc/internal/effort"
	"github.com/xtding233/dropcalc/internal/enrage"
	"github.com/xtding233/dropcalc/internal/modifier"
)

// Writer renders to an io.Writer with grouped numbers, e.g. 12,345.
type Writer struct {
	w io.Writer
	p *message.Printer
}

// New returns a Writer using English number formatting.
func New(w io.Writer) *Writer {
	return &Writer{w: w, p: message.NewPrinter(language.English)}
}

func (r *Writer) table() *tabwriter.Writer {
	return tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
}

func (r *Writer) count(n int) string { return r.p.Sprintf("%d", n) }

// Header prints a title line and an underline.
func (r *Writer) Header(title string) error {
	_, err := fmt.Fprintf(r.w, "\n%s\n%s\n", title, strings.Repeat("-", len(title)))
	return err
}

// Milestones prints the 50/90/99% cards, with hours when pace is known.
func (r *Writer) Milestones(label string, m drop.Milestones, pace effort.Pace) error {
	tw := r.table()
	fmt.Fprintf(tw, "%s\tkills\ttrips\thours\n", label)
	for i, n := range []int{m.P50, m.P90, m.P99} {
		hours := "-"
		if h, ok := pace.HoursForTrials(n); ok {
			hours = r.p.Sprintf("%.1f", h)
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n",
			drop.FormatPercentage(drop.MilestoneTargets[i], 0), r.count(n), r.count(pace.TripsForTrials(n)), hours)
	}
	return tw.Flush()
}

// Breakdown prints both stages of a table drop and their product.
func (r *Writer) Breakdown(b drop.CompoundBreakdown) error {
	tw := r.table()
	fmt.Fprintf(tw, "stage\tchance\trate\n")
	fmt.Fprintf(tw, "table\t%s\t1/%s\n", drop.FormatPercentage(b.StageOne.Probability, 3), r.rate(b.StageOne.Rate))
	fmt.Fprintf(tw, "item\t%s\t1/%s\n", drop.FormatPercentage(b.Item.Probability, 3), r.rate(b.Item.Rate))
	fmt.Fprintf(tw, "combined\t%s\t1/%s\n", drop.FormatPercentage(b.EffectiveProbability, 3), r.rate(b.EffectiveRate))
	return tw.Flush()
}

// Levels prints an enrage comparison.
func (r *Writer) Levels(kind enrage.Kind, rows []enrage.LevelComparison) error {
	tw := r.table()
	fmt.Fprintf(tw, "%s enrage\trate\timprovement\n", kind)
	for _, row := range rows {
		fmt.Fprintf(tw, "%s%%\t1/%s\t%s%%\n", r.p.Sprintf("%.0f", row.Level), r.rate(row.Rate), r.p.Sprintf("%.1f", row.ImprovementPercent))
	}
	return tw.Flush()
}

// Comparison prints every modifier combination at one kill count.
func (r *Writer) Comparison(c modifier.Comparison) error {
	tw := r.table()
	fmt.Fprintf(tw, "after %s kills\tchance\tgain\n", r.count(c.Trials))
	fmt.Fprintf(tw, "base\t%s\t\n", drop.FormatPercentage(c.Base, drop.DefaultDecimals))
	fmt.Fprintf(tw, "luck\t%s\t+%.2f pts\n", drop.FormatPercentage(c.WithLuck, drop.DefaultDecimals), c.LuckOverBase)
	fmt.Fprintf(tw, "pity\t%s\t+%.2f pts\n", drop.FormatPercentage(c.WithPity, drop.DefaultDecimals), c.PityOverBase)
	fmt.Fprintf(tw, "luck+pity\t%s\t+%.2f pts\n", drop.FormatPercentage(c.WithBoth, drop.DefaultDecimals), c.BothOverBase)
	return tw.Flush()
}

// seriesOrder is the column order of Curve.
var seriesOrder = []curve.Series{
	curve.SeriesBase, curve.SeriesLuck, curve.SeriesPity, curve.SeriesCombined, curve.SeriesEnrage,
}

// Curve prints one row per sample with a column per series present in
// any point.
func (r *Writer) Curve(points []curve.Point) error {
	var series []curve.Series
	for _, s := range seriesOrder {
		for _, pt := range points {
			if _, ok := pt.Series[s]; ok {
				series = append(series, s)
				break
			}
		}
	}
	tw := r.table()
	fmt.Fprint(tw, "kills")
	for _, s := range series {
		fmt.Fprintf(tw, "\t%s", s)
	}
	fmt.Fprintln(tw)
	for _, pt := range points {
		fmt.Fprint(tw, r.count(pt.Trials))
		for _, s := range series {
			if p, ok := pt.Series[s]; ok {
				fmt.Fprintf(tw, "\t%s", drop.FormatPercentage(p, drop.DefaultDecimals))
			} else {
				fmt.Fprint(tw, "\t-")
			}
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

// Simulation prints Monte Carlo statistics.
func (r *Writer) Simulation(s drop.Stats) error {
	tw := r.table()
	fmt.Fprintf(tw, "runs\t%s\n", r.count(s.Runs))
	fmt.Fprintf(tw, "mean\t%s\n", r.p.Sprintf("%.1f", s.Mean))
	fmt.Fprintf(tw, "stddev\t%s\n", r.p.Sprintf("%.1f", s.StdDev))
	fmt.Fprintf(tw, "50%% / 90%% / 99%%\t%s / %s / %s\n",
		r.count(s.Milestones.P50), r.count(s.Milestones.P90), r.count(s.Milestones.P99))
	fmt.Fprintf(tw, "worst\t%s\n", r.count(s.Worst))
	return tw.Flush()
}

func (r *Writer) rate(v float64) string {
	return r.p.Sprintf("%.2f", v)
}
