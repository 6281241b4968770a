package report_test

import (
	"bytes"
	"strings"
	"testing"

	"codeberg.org/mutker/raplmon/internal/report"
	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	renderer := report.NewRenderer(&buf)

	renderer.Render([]report.Reading{
		{
			Name:          "intel-rapl:0/package-0",
			PowerW:        42.5,
			AveragePowerW: 40.125,
			EnergyWh:      0.011,
			PeakPowerW:    55.0,
		},
		{
			Name:          "intel-rapl:0:0/core",
			PowerW:        12.25,
			AveragePowerW: 11.5,
			EnergyWh:      0.003,
			PeakPowerW:    20.0,
		},
	})

	out := buf.String()
	assert.Contains(t, out, "intel-rapl:0/package-0")
	assert.Contains(t, out, "42.500 W")
	assert.Contains(t, out, "40.125 W avg")
	assert.Contains(t, out, "0.011000 Wh")
	assert.Contains(t, out, "55.000 W peak")
	assert.Contains(t, out, "intel-rapl:0:0/core")

	// Cursor returns to the top of the two-line block.
	assert.True(t, strings.HasSuffix(out, "\r\x1b[A\x1b[A"))
}

func TestRenderEmptyCycle(t *testing.T) {
	var buf bytes.Buffer
	renderer := report.NewRenderer(&buf)

	renderer.Render(nil)
	assert.Equal(t, "\r", buf.String())
}

func TestRenderShrinkingBlockErasesStaleLines(t *testing.T) {
	var buf bytes.Buffer
	renderer := report.NewRenderer(&buf)

	renderer.Render([]report.Reading{
		{Name: "intel-rapl:0/package-0"},
		{Name: "intel-rapl:0:0/core"},
	})
	buf.Reset()

	// A domain dropped out this cycle; its old line must be erased,
	// not left on screen below the shorter block.
	renderer.Render([]report.Reading{
		{Name: "intel-rapl:0/package-0"},
	})

	out := buf.String()
	assert.Contains(t, out, "\x1b[2K")
	assert.True(t, strings.HasSuffix(out, "\r\x1b[A\x1b[A"))

	// The live block is one line tall now.
	buf.Reset()
	renderer.Close()
	assert.Equal(t, "\n", buf.String())
}

func TestCloseMovesCursorBelowBlock(t *testing.T) {
	var buf bytes.Buffer
	renderer := report.NewRenderer(&buf)

	renderer.Render([]report.Reading{
		{Name: "intel-rapl:0/package-0"},
		{Name: "intel-rapl:1/package-1"},
	})
	buf.Reset()

	renderer.Close()
	assert.Equal(t, "\n\n", buf.String())
}
