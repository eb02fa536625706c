// Package figures renders per-track diagnostic PNGs: the speed-run time
// series with its reversal table, the speed-colored trajectory, and per-
// reversal close-ups. Each renderer is a pure function of (record, path) and
// shares no state, so renderers may run concurrently for different tracks.
package figures

import "image/color"

// speedStops is the fixed heat gradient for trajectory speed coloring:
// black -> dark red -> red -> orange -> yellow -> white.
var speedStops = [][3]float64{
	{0.0, 0.0, 0.0},
	{0.3, 0.0, 0.0},
	{1.0, 0.0, 0.0},
	{1.0, 0.5, 0.0},
	{1.0, 1.0, 0.0},
	{1.0, 1.0, 1.0},
}

// reversalColor marks trajectory segments inside a reversal window. Purple,
// applied regardless of segment speed.
var reversalColor = color.RGBA{R: 128, G: 0, B: 255, A: 255}

// SpeedColor maps a normalized speed in [0, 1] onto the heat gradient.
func SpeedColor(norm float64) color.Color {
	if norm <= 0 {
		return stopColor(speedStops[0])
	}
	if norm >= 1 {
		return stopColor(speedStops[len(speedStops)-1])
	}

	scaled := norm * float64(len(speedStops)-1)
	i := int(scaled)
	frac := scaled - float64(i)

	lo, hi := speedStops[i], speedStops[i+1]
	return color.RGBA{
		R: lerp8(lo[0], hi[0], frac),
		G: lerp8(lo[1], hi[1], frac),
		B: lerp8(lo[2], hi[2], frac),
		A: 255,
	}
}

func stopColor(s [3]float64) color.Color {
	return color.RGBA{R: to8(s[0]), G: to8(s[1]), B: to8(s[2]), A: 255}
}

func lerp8(a, b, t float64) uint8 {
	return to8(a + (b-a)*t)
}

func to8(v float64) uint8 {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return uint8(v*255 + 0.5)
}
