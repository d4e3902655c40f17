package wms

import (
	"strconv"
	"strings"

	"github.com/mohammed-shakir/ogc-client/pkg/ows"
)

// TileQuery is the per-call input of FetchMapTile. Every field is sent. BBox
// must be set and goes out as four coordinates; SRS names its reference
// system, so BBox.CRS is not sent.
type TileQuery struct {
	Layers      string `validate:"nonblank"`
	BBox        ows.BBox
	Width       int    `validate:"gt=0"`
	Height      int    `validate:"gt=0"`
	SRS         string `validate:"nonblank"`
	Format      string `validate:"nonblank"`
	Transparent bool
}

func (q TileQuery) Validate() error {
	return ows.Validate(q)
}

// params lays out a GetMap query in its fixed order: SERVICE, VERSION,
// REQUEST, LAYERS, BBOX, WIDTH, HEIGHT, CRS (SRS before 1.3.0), FORMAT,
// TRANSPARENT, styles.
func (c *Client) params(q TileQuery) *ows.Params {
	p := &ows.Params{}
	p.Add("SERVICE", "WMS")
	p.Add("VERSION", c.version)
	p.Add("REQUEST", "GetMap")
	p.Add("LAYERS", q.Layers)
	p.Add("BBOX", q.BBox.Coords())
	p.Add("WIDTH", strconv.Itoa(q.Width))
	p.Add("HEIGHT", strconv.Itoa(q.Height))
	p.Add(c.crsKey(), q.SRS)
	p.Add("FORMAT", q.Format)
	p.Add("TRANSPARENT", strconv.FormatBool(q.Transparent))
	p.Add("styles", c.styles)
	return p
}

// WMS 1.3.0 renamed SRS to CRS.
func (c *Client) crsKey() string {
	if strings.HasPrefix(c.version, "1.0") || strings.HasPrefix(c.version, "1.1") {
		return "SRS"
	}
	return "CRS"
}
