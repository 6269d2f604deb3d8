// Package render consumes a finished call graph and produces visual
// artifacts. It only reads node statistics; the graph is never mutated.
package render

import (
	"fmt"
	"time"

	"github.com/flowtrace/flowtrace/internal/nodetree"
)

// RGB anchors for the heat scale, matching nodes and cluster
// backgrounds to how much time they account for.
var (
	NodeLight    = [3]uint8{0xA9, 0xF3, 0xF9}
	NodeDark     = [3]uint8{0x00, 0x1F, 0x3F}
	ClusterLight = [3]uint8{0xFF, 0xFF, 0xFF}
	ClusterDark  = [3]uint8{0xAA, 0xAA, 0xAA}
	FontLight    = [3]uint8{0x00, 0x00, 0x00}
	FontDark     = [3]uint8{0xFF, 0xFF, 0xFF}
)

// HeatColor interpolates linearly between light and dark anchors by
// value/max and returns a hex color code. Values outside [0, max] are
// clamped.
func HeatColor(value, max time.Duration, light, dark [3]uint8) string {
	if max <= 0 {
		return rgbHex(light)
	}
	if value < 0 {
		value = 0
	}
	if value > max {
		value = max
	}
	ratio := float64(value) / float64(max)
	var c [3]uint8
	for i := 0; i < 3; i++ {
		c[i] = uint8(float64(light[i])*(1-ratio) + float64(dark[i])*ratio)
	}
	return rgbHex(c)
}

func rgbHex(c [3]uint8) string {
	return fmt.Sprintf("#%02X%02X%02X", c[0], c[1], c[2])
}

// FormatDuration renders a duration in the largest unit with a nonzero
// integer part.
func FormatDuration(d time.Duration) string {
	if s := int64(d / time.Second); s > 0 {
		return fmt.Sprintf("%ds", s)
	}
	if ms := d.Milliseconds(); ms > 0 {
		return fmt.Sprintf("%dms", ms)
	}
	if us := d.Microseconds(); us > 0 {
		return fmt.Sprintf("%dµs", us)
	}
	if ns := d.Nanoseconds(); ns > 0 {
		return fmt.Sprintf("%dns", ns)
	}
	return "<1ns"
}

func totalTime(nodes []*nodetree.Node) time.Duration {
	var total time.Duration
	for _, n := range nodes {
		total += n.Duration
	}
	return total
}
