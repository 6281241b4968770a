package report

import (
	"fmt"
	"io"
	"strings"
)

const (
	cursorUp  = "\x1b[A"
	eraseLine = "\x1b[2K"
)

// Reading is one domain's figures for a single poll cycle. Domains
// that failed to sample this cycle simply have no Reading.
type Reading struct {
	Name          string
	PowerW        float64
	AveragePowerW float64
	EnergyWh      float64
	PeakPowerW    float64
}

// Renderer repaints a block of per-domain status lines in place using
// ANSI cursor movement, one line per domain per cycle.
type Renderer struct {
	out       io.Writer
	lastLines int
}

func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// Render writes one status line per reading, then returns the cursor
// to the top of the block so the next cycle overwrites it. Trailing
// padding clears leftovers from longer previous lines; rows left over
// from a taller previous block are erased before the cursor returns.
func (r *Renderer) Render(readings []Reading) {
	for _, reading := range readings {
		fmt.Fprintf(r.out, "%-32s %9.3f W %9.3f W avg %11.6f Wh %9.3f W peak    \n",
			reading.Name,
			reading.PowerW,
			reading.AveragePowerW,
			reading.EnergyWh,
			reading.PeakPowerW,
		)
	}

	lines := len(readings)
	for stale := lines; stale < r.lastLines; stale++ {
		fmt.Fprint(r.out, eraseLine+"\n")
	}
	if r.lastLines > lines {
		lines = r.lastLines
	}

	fmt.Fprint(r.out, "\r"+strings.Repeat(cursorUp, lines))
	r.lastLines = len(readings)
}

// Close moves the cursor below the rendered block so shutdown output
// does not overwrite the last table.
func (r *Renderer) Close() {
	fmt.Fprint(r.out, strings.Repeat("\n", r.lastLines))
}
