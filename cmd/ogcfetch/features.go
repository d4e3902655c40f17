package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
	"github.com/spf13/cobra"

	"github.com/mohammed-shakir/ogc-client/pkg/ows"
	"github.com/mohammed-shakir/ogc-client/pkg/wfs"
)

type featuresFlags struct {
	url    string
	layer  string
	bbox   string
	count  int
	srs    string
	output string
}

func newFeaturesCommand(a *app) *cobra.Command {
	var f featuresFlags
	cmd := &cobra.Command{
		Use:   "features",
		Short: "Run a WFS GetFeature request and print the geometries",
		Example: `  ogcfetch features --url https://example.org/wfs --layer ns:roads \
    --bbox 645945.1,5796011.4,747959.0,5720831.6 --count 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			base, err := pickURL(f.url, a.cfg.WFS.URL, "WFS_URL")
			if err != nil {
				return err
			}
			q := wfs.FeatureQuery{Layer: f.layer}
			if f.bbox != "" {
				b, err := ows.ParseBBox(f.bbox)
				if err != nil {
					return err
				}
				q.BBox = &b
			}
			if cmd.Flags().Changed("count") {
				q.MaxFeatures = wfs.Count(f.count)
			}
			srs := a.cfg.WFS.SRSName
			if f.srs != "" {
				srs = f.srs
			}

			client, err := wfs.New(base,
				wfs.WithHTTPClient(a.http),
				wfs.WithUserAgent(a.cfg.UserAgent),
				wfs.WithLogger(a.log),
				wfs.WithAuth(a.auth),
				wfs.WithVersion(a.cfg.WFS.Version),
				wfs.WithOutputFormat(a.cfg.WFS.OutputFormat),
				wfs.WithSRSName(srs),
			)
			if err != nil {
				return err
			}

			fc, err := client.FetchFeatureCollection(cmd.Context(), q)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch f.output {
			case "geojson":
				return writeGeoJSON(out, fc)
			case "wkt":
				geoms, err := wfs.RequireGeometries(fc)
				if err != nil {
					return err
				}
				for _, g := range geoms {
					if _, err := fmt.Fprintln(out, wkt.MarshalString(g)); err != nil {
						return err
					}
				}
				return nil
			case "table":
				geoms, err := wfs.RequireGeometries(fc)
				if err != nil {
					return err
				}
				return writeGeometryTable(out, geoms)
			default:
				return fmt.Errorf("unknown output %q (table, wkt, geojson)", f.output)
			}
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.url, "url", "", "WFS endpoint (default $WFS_URL)")
	fl.StringVar(&f.layer, "layer", "", "feature type name")
	fl.StringVar(&f.bbox, "bbox", "", "minx,miny,maxx,maxy[,crs]")
	fl.IntVar(&f.count, "count", 0, "maximum number of features (must be > 0 when set)")
	fl.StringVar(&f.srs, "srs", "", "srsname for this request (default $WFS_SRS_NAME)")
	fl.StringVarP(&f.output, "output", "o", "table", "table, wkt or geojson")
	_ = cmd.MarkFlagRequired("layer")
	return cmd
}

func writeGeoJSON(w io.Writer, fc *geojson.FeatureCollection) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(fc)
}

const wktPreview = 72

func writeGeometryTable(w io.Writer, geoms []orb.Geometry) error {
	table := tablewriter.NewWriter(w)
	table.Header("#", "Type", "Bounds", "WKT")
	for i, g := range geoms {
		b := g.Bound()
		s := wkt.MarshalString(g)
		if len(s) > wktPreview {
			s = s[:wktPreview-3] + "..."
		}
		_ = table.Append(
			strconv.Itoa(i+1),
			g.GeoJSONType(),
			fmt.Sprintf("%g,%g,%g,%g", b.Min.X(), b.Min.Y(), b.Max.X(), b.Max.Y()),
			s,
		)
	}
	return table.Render()
}
