// Package sparkline renders a metric's trailing daily trend as a small PNG
// line chart, returned base64-encoded for direct embedding in a report.
package sparkline

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"time"

	"github.com/Ro-Data/compgrid/pkg/models/domain"
)

const height = 20

var (
	lineColor = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	lastColor = color.NRGBA{R: 255, G: 0, B: 0, A: 255}
)

// Render evaluates the trailing window [anchor-days, anchor] against the
// table under the ratio convention and plots it. Missing days and zero
// denominators become gaps, not zeros.
func Render(table *domain.Table, anchor time.Time, days int) (string, error) {
	anchor = domain.Day(anchor)
	start := anchor.AddDate(0, 0, -days)

	var values []*float64
	for day := start; !day.After(anchor); day = day.AddDate(0, 0, 1) {
		obs, ok := table.At(day)
		if !ok {
			values = append(values, nil)
			continue
		}
		values = append(values, table.Ratio(obs))
	}

	return Plot(values)
}

// Plot draws the series on a fixed-height transparent canvas scaled between
// the observed min and max, with a minimum range floor so a flat series does
// not divide by zero. Gaps break the polyline and the most recent plotted
// point is highlighted.
func Plot(values []*float64) (string, error) {
	min, max, any := bounds(values)
	span := max - min
	if span < 1.0/20 {
		span = 1.0 / 20
	}

	img := image.NewNRGBA(image.Rect(0, 0, len(values)+2, height))

	type point struct{ x, y int }
	prev := point{-1, -1}
	last := point{-1, -1}
	for x, v := range values {
		if v == nil {
			prev = point{-1, -1}
			continue
		}
		y := height - int((*v-min)/span*height)
		if y < 0 {
			y = 0
		}
		if y > height-1 {
			y = height - 1
		}
		p := point{x, y}
		if prev.x >= 0 {
			drawLine(img, prev.x, prev.y, p.x, p.y)
		} else {
			img.SetNRGBA(p.x, p.y, lineColor)
		}
		prev, last = p, p
	}

	if any {
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				setClipped(img, last.x+dx, last.y+dy, lastColor)
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode sparkline: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func bounds(values []*float64) (min, max float64, any bool) {
	for _, v := range values {
		if v == nil {
			continue
		}
		if !any || *v < min {
			min = *v
		}
		if !any || *v > max {
			max = *v
		}
		any = true
	}
	return min, max, any
}

func setClipped(img *image.NRGBA, x, y int, c color.NRGBA) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.SetNRGBA(x, y, c)
	}
}

// drawLine rasterizes a segment with the integer Bresenham walk.
func drawLine(img *image.NRGBA, x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		setClipped(img, x0, y0, lineColor)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
