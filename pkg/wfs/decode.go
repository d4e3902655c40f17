package wfs

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/mohammed-shakir/ogc-client/pkg/ows"
)

// DecodeFeatureCollection parses a GeoJSON body. A FeatureCollection is
// returned as is; a single Feature or a bare geometry object is wrapped in a
// one-element collection so callers only deal with one shape.
func DecodeFeatureCollection(body []byte) (*geojson.FeatureCollection, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(body, &head); err != nil {
		return nil, fmt.Errorf("%w: parse geojson: %w", ows.ErrDecodeFailed, err)
	}

	switch head.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(body)
		if err != nil {
			return nil, fmt.Errorf("%w: parse feature collection: %w", ows.ErrDecodeFailed, err)
		}
		return fc, nil
	case "Feature":
		f, err := geojson.UnmarshalFeature(body)
		if err != nil {
			return nil, fmt.Errorf("%w: parse feature: %w", ows.ErrDecodeFailed, err)
		}
		fc := geojson.NewFeatureCollection()
		fc.Append(f)
		return fc, nil
	case "Point", "MultiPoint", "LineString", "MultiLineString",
		"Polygon", "MultiPolygon", "GeometryCollection":
		g, err := geojson.UnmarshalGeometry(body)
		if err != nil {
			return nil, fmt.Errorf("%w: parse geometry: %w", ows.ErrDecodeFailed, err)
		}
		fc := geojson.NewFeatureCollection()
		fc.Append(geojson.NewFeature(g.Geometry()))
		return fc, nil
	case "":
		return nil, fmt.Errorf("%w: missing geojson type", ows.ErrDecodeFailed)
	default:
		return nil, fmt.Errorf("%w: unsupported geojson type %q", ows.ErrDecodeFailed, head.Type)
	}
}

// Geometries returns one geometry per feature, in document order. Features
// without a geometry are skipped.
func Geometries(fc *geojson.FeatureCollection) []orb.Geometry {
	if fc == nil {
		return nil
	}
	out := make([]orb.Geometry, 0, len(fc.Features))
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		out = append(out, f.Geometry)
	}
	return out
}

// DecodeGeometries is DecodeFeatureCollection followed by Geometries. A body
// with no geometry at all is a decode failure.
func DecodeGeometries(body []byte) ([]orb.Geometry, error) {
	fc, err := DecodeFeatureCollection(body)
	if err != nil {
		return nil, err
	}
	return RequireGeometries(fc)
}

// RequireGeometries is Geometries for callers that need at least one: a
// collection without any geometry wraps ows.ErrDecodeFailed.
func RequireGeometries(fc *geojson.FeatureCollection) ([]orb.Geometry, error) {
	geoms := Geometries(fc)
	if len(geoms) == 0 {
		n := 0
		if fc != nil {
			n = len(fc.Features)
		}
		return nil, fmt.Errorf("%w: no geometries in %d features", ows.ErrDecodeFailed, n)
	}
	return geoms, nil
}
