package ows

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// BBox is minX,minY,maxX,maxY in the axis order the server expects for the
// requested reference system. CRS is optional; String appends it as a fifth
// element, which WFS 2.0 accepts and WMS GetMap does not (use Coords there).
type BBox struct {
	MinX, MinY float64
	MaxX, MaxY float64
	CRS        string
}

// String renders the four coordinates followed by CRS when set.
func (b BBox) String() string {
	if c := strings.TrimSpace(b.CRS); c != "" {
		return b.Coords() + "," + c
	}
	return b.Coords()
}

// Coords renders only minx,miny,maxx,maxy, each in its shortest exact form.
func (b BBox) Coords() string {
	return strings.Join([]string{
		formatCoord(b.MinX),
		formatCoord(b.MinY),
		formatCoord(b.MaxX),
		formatCoord(b.MaxY),
	}, ",")
}

// Empty reports whether all four coordinates are zero, i.e. no box was set.
func (b BBox) Empty() bool {
	return b.MinX == 0 && b.MinY == 0 && b.MaxX == 0 && b.MaxY == 0
}

// Finite reports whether all four coordinates are real numbers.
func (b BBox) Finite() bool {
	for _, v := range [4]float64{b.MinX, b.MinY, b.MaxX, b.MaxY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseBBox accepts "minx,miny,maxx,maxy" with an optional fifth CRS element.
// Coordinates are not reordered: some servers publish boxes with swapped axes
// and those must reach the server untouched.
func ParseBBox(s string) (BBox, error) {
	fields := strings.Split(strings.TrimSpace(s), ",")
	if len(fields) != 4 && len(fields) != 5 {
		return BBox{}, fmt.Errorf("%w: bbox %q: want 4 coordinates", ErrInvalidQuery, s)
	}
	var v [4]float64
	for i := range v {
		f, err := strconv.ParseFloat(strings.TrimSpace(fields[i]), 64)
		if err != nil {
			return BBox{}, fmt.Errorf("%w: bbox %q: coordinate %d: %w", ErrInvalidQuery, s, i+1, err)
		}
		v[i] = f
	}
	b := BBox{MinX: v[0], MinY: v[1], MaxX: v[2], MaxY: v[3]}
	if len(fields) == 5 {
		b.CRS = strings.TrimSpace(fields[4])
	}
	if !b.Finite() {
		return BBox{}, fmt.Errorf("%w: bbox %q: coordinates must be finite", ErrInvalidQuery, s)
	}
	return b, nil
}
