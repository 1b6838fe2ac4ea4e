// Package render draws the simulation monitor onto a tcell screen
package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/hydrosim/component"
	"github.com/lixenwraith/hydrosim/simulation"
	"github.com/lixenwraith/hydrosim/status"
)

// Layout
const (
	headerRows   = 2
	footerRows   = 1
	tableWidth   = 62
	metricsGap   = 2
	metricsWidth = 40
)

// FooterHelp is the key legend drawn on the last line
const FooterHelp = "q quit  s save  e evaporation spike  p pause"

// View is one monitor frame
type View struct {
	Frame   int64
	Day     int64
	Paused  bool
	Sources []simulation.SourceView
	Metrics []status.Entry
	Message string
}

// TableRenderer draws the source table with a metrics panel beside it
type TableRenderer struct {
	screen tcell.Screen

	base    tcell.Style
	header  tcell.Style
	dim     tcell.Style
	kinds   map[component.BehaviorKind]tcell.Style
	refKind tcell.Style
}

// NewTableRenderer creates a renderer over screen
func NewTableRenderer(screen tcell.Screen) *TableRenderer {
	base := tcell.StyleDefault
	return &TableRenderer{
		screen: screen,
		base:   base,
		header: base.Bold(true).Reverse(true),
		dim:    base.Foreground(tcell.ColorGray),
		kinds: map[component.BehaviorKind]tcell.Style{
			component.BehaviorNone:            base,
			component.BehaviorSeasonalStream:  base.Foreground(tcell.ColorGreen),
			component.BehaviorTidesAndWaves:   base.Foreground(tcell.ColorBlue),
			component.BehaviorDetentionBasin:  base.Foreground(tcell.ColorYellow),
			component.BehaviorRetentionBasin:  base.Foreground(tcell.ColorPurple),
			component.BehaviorAutofillingLake: base.Foreground(tcell.ColorTeal),
		},
		refKind: base.Foreground(tcell.ColorGray).Italic(true),
	}
}

// Draw renders v and shows the screen
func (r *TableRenderer) Draw(v View) {
	r.screen.Clear()
	width, height := r.screen.Size()

	state := "running"
	if v.Paused {
		state = "paused"
	}
	r.text(0, 0, width, fmt.Sprintf(" hydrosim  day %d  frame %d  %s  %d sources", v.Day, v.Frame, state, len(v.Sources)), r.header)
	r.text(0, 1, tableWidth, fmt.Sprintf("%6s %-10s %-6s %10s %7s %7s", "ID", "KIND", "MODE", "AMOUNT", "MULT", "RADIUS"), r.dim)

	rows := height - headerRows - footerRows
	for i, src := range v.Sources {
		if i >= rows {
			break
		}
		r.text(0, headerRows+i, tableWidth, FormatRow(src), r.styleOf(src))
	}

	// Metrics panel only when the terminal is wide enough
	if mx := tableWidth + metricsGap; width >= mx+metricsWidth/2 {
		for i, m := range v.Metrics {
			if i >= height-footerRows-1 {
				break
			}
			r.text(mx, 1+i, width-mx, fmt.Sprintf("%-28s %s", m.Key, m.Value), r.base)
		}
	}

	footer := FooterHelp
	if v.Message != "" {
		footer = v.Message + "  |  " + footer
	}
	r.text(0, height-1, width, footer, r.dim)

	r.screen.Show()
}

// FormatRow returns the table line of one source
func FormatRow(v simulation.SourceView) string {
	kind := KindLabel(v.Behavior)
	if v.Reference {
		kind = "reference"
	}
	return fmt.Sprintf("%6d %-10s %-6s %10.3f %7.3f %7.2f",
		v.Entity, kind, v.Source.DepthMode, v.Source.Amount, v.Source.Multiplier, v.Source.Radius)
}

// KindLabel is the short column label of a behavior
func KindLabel(k component.BehaviorKind) string {
	switch k {
	case component.BehaviorSeasonalStream:
		return "seasonal"
	case component.BehaviorTidesAndWaves:
		return "tides"
	case component.BehaviorDetentionBasin:
		return "detention"
	case component.BehaviorRetentionBasin:
		return "retention"
	case component.BehaviorAutofillingLake:
		return "autofill"
	default:
		return "plain"
	}
}

func (r *TableRenderer) styleOf(v simulation.SourceView) tcell.Style {
	if v.Reference {
		return r.refKind
	}
	if s, ok := r.kinds[v.Behavior]; ok {
		return s
	}
	return r.base
}

// text writes s clipped to maxWidth cells and the screen edge
func (r *TableRenderer) text(x, y, maxWidth int, s string, style tcell.Style) {
	width, height := r.screen.Size()
	if y < 0 || y >= height {
		return
	}
	maxWidth = min(maxWidth, width-x)

	col := 0
	for _, ch := range s {
		if col >= maxWidth {
			return
		}
		r.screen.SetContent(x+col, y, ch, nil, style)
		col++
	}
}
