package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mohammed-shakir/ogc-client/pkg/ows"
	"github.com/mohammed-shakir/ogc-client/pkg/wms"
)

type tileFlags struct {
	url         string
	layers      string
	bbox        string
	width       int
	height      int
	srs         string
	format      string
	transparent bool
	out         string
}

func newTileCommand(a *app) *cobra.Command {
	var f tileFlags
	cmd := &cobra.Command{
		Use:   "tile",
		Short: "Run a WMS GetMap request and save the image",
		Example: `  ogcfetch tile --url https://example.org/wms --layers roads \
    --bbox 645945.1,5720831.6,747959.0,5796011.4 --transparent --out map_tile.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			base, err := pickURL(f.url, a.cfg.WMS.URL, "WMS_URL")
			if err != nil {
				return err
			}
			bbox, err := ows.ParseBBox(f.bbox)
			if err != nil {
				return err
			}
			srs := f.srs
			if srs == "" {
				srs = a.cfg.WMS.CRS
			}

			client, err := wms.New(base,
				wms.WithHTTPClient(a.http),
				wms.WithUserAgent(a.cfg.UserAgent),
				wms.WithLogger(a.log),
				wms.WithAuth(a.auth),
				wms.WithVersion(a.cfg.WMS.Version),
				wms.WithStyles(a.cfg.WMS.Styles),
			)
			if err != nil {
				return err
			}

			tile, err := client.FetchMapTile(cmd.Context(), wms.TileQuery{
				Layers:      f.layers,
				BBox:        bbox,
				Width:       f.width,
				Height:      f.height,
				SRS:         srs,
				Format:      f.format,
				Transparent: f.transparent,
			})
			if err != nil {
				return err
			}
			if err := wms.SaveTileToFile(tile, f.out); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "saved %d bytes to %s (xxhash %s)\n", len(tile), f.out, wms.Digest(tile))
			return err
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.url, "url", "", "WMS endpoint (default $WMS_URL)")
	fl.StringVar(&f.layers, "layers", "", "comma separated layer names")
	fl.StringVar(&f.bbox, "bbox", "", "minx,miny,maxx,maxy")
	fl.IntVar(&f.width, "width", 1024, "image width in pixels")
	fl.IntVar(&f.height, "height", 768, "image height in pixels")
	fl.StringVar(&f.srs, "srs", "", "reference system (default $WMS_CRS)")
	fl.StringVar(&f.format, "format", "image/png", "image MIME type")
	fl.BoolVar(&f.transparent, "transparent", false, "request a transparent background")
	fl.StringVarP(&f.out, "out", "O", "map_tile.png", "output file")
	_ = cmd.MarkFlagRequired("layers")
	_ = cmd.MarkFlagRequired("bbox")
	return cmd
}
