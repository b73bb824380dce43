package sparkline

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ro-Data/compgrid/pkg/models/domain"
)

func fp(v float64) *float64 { return &v }

func decode(t *testing.T, artifact string) *bytes.Reader {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(artifact)
	require.NoError(t, err)
	return bytes.NewReader(raw)
}

func TestPlot_FlatSeries(t *testing.T) {
	// All values equal: the range floor keeps scaling away from a division
	// by zero.
	artifact, err := Plot([]*float64{fp(5), fp(5), fp(5), fp(5)})
	require.NoError(t, err)

	img, err := png.Decode(decode(t, artifact))
	require.NoError(t, err)
	assert.Equal(t, 6, img.Bounds().Dx())
	assert.Equal(t, 20, img.Bounds().Dy())
}

func TestPlot_HighlightsLastPoint(t *testing.T) {
	artifact, err := Plot([]*float64{fp(1), fp(2), fp(3)})
	require.NoError(t, err)

	img, err := png.Decode(decode(t, artifact))
	require.NoError(t, err)

	found := false
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y && !found; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			if a > 0 && r > 0xf000 && g == 0 && bl == 0 {
				found = true
				break
			}
		}
	}
	assert.True(t, found, "expected a highlighted endpoint pixel")
}

func TestPlot_GapsAndEmpty(t *testing.T) {
	t.Run("gaps do not break plotting", func(t *testing.T) {
		artifact, err := Plot([]*float64{fp(1), nil, fp(3), nil, fp(2)})
		require.NoError(t, err)
		assert.NotEmpty(t, artifact)
	})

	t.Run("all-gap series still encodes", func(t *testing.T) {
		artifact, err := Plot([]*float64{nil, nil, nil})
		require.NoError(t, err)
		assert.NotEmpty(t, artifact)
	})
}

func TestRender_WindowShape(t *testing.T) {
	anchor := time.Date(2021, time.March, 31, 0, 0, 0, 0, time.UTC)
	tbl := domain.NewTable([]domain.Observation{
		{Date: anchor, Total: 1},
		{Date: anchor.AddDate(0, 0, -1), Total: 2},
	}, false)

	artifact, err := Render(tbl, anchor, 7)
	require.NoError(t, err)

	img, err := png.Decode(decode(t, artifact))
	require.NoError(t, err)
	// 8 calendar days plus the 2px margin.
	assert.Equal(t, 10, img.Bounds().Dx())
}

func TestRender_RatioGaps(t *testing.T) {
	anchor := time.Date(2021, time.March, 31, 0, 0, 0, 0, time.UTC)
	tbl := domain.NewTable([]domain.Observation{
		{Date: anchor, Total: 4, Over: 2},
		{Date: anchor.AddDate(0, 0, -1), Total: 4, Over: 0}, // gap, not zero
	}, true)

	artifact, err := Render(tbl, anchor, 3)
	require.NoError(t, err)
	assert.NotEmpty(t, artifact)
}
