package wfs

import (
	"strconv"
	"strings"

	"github.com/mohammed-shakir/ogc-client/pkg/ows"
)

// FeatureQuery is the per-call input of FetchFeatures. BBox and MaxFeatures
// are optional; nil omits the parameter entirely.
type FeatureQuery struct {
	Layer       string `validate:"nonblank"`
	BBox        *ows.BBox
	MaxFeatures *int `validate:"omitempty,gt=0"`
}

// Count is a helper for building a FeatureQuery literal.
func Count(n int) *int { return &n }

func (q FeatureQuery) Validate() error {
	return ows.Validate(q)
}

// params lays out a GetFeature query in its fixed order:
// service, version, request, typeName, outputFormat, srsname, [bbox], [count].
func (c *Client) params(q FeatureQuery) *ows.Params {
	p := &ows.Params{}
	p.Add("service", "WFS")
	p.Add("version", c.version)
	p.Add("request", "GetFeature")
	p.Add("typeName", q.Layer)
	p.Add("outputFormat", c.outputFormat)
	p.Add("srsname", c.srsName)
	if q.BBox != nil {
		p.Add("bbox", q.BBox.String())
	}
	if q.MaxFeatures != nil {
		p.Add(c.countKey(), strconv.Itoa(*q.MaxFeatures))
	}
	return p
}

// WFS 1.x calls the feature limit maxFeatures; 2.0 renamed it to count.
func (c *Client) countKey() string {
	if strings.HasPrefix(c.version, "1.") {
		return "maxFeatures"
	}
	return "count"
}
