package wfs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohammed-shakir/ogc-client/internal/core/httpclient"
	"github.com/mohammed-shakir/ogc-client/internal/ogctest"
	"github.com/mohammed-shakir/ogc-client/pkg/ows"
)

func mustClient(t *testing.T, base string, opts ...Option) *Client {
	t.Helper()
	c, err := New(base, opts...)
	require.NoError(t, err)
	return c
}

func TestBuildURL_ParameterOrder(t *testing.T) {
	c := mustClient(t, "https://maps.example.test/MapServer/WFSServer")
	bbox := &ows.BBox{MinX: 645945.1, MinY: 5796011.4, MaxX: 747959.0, MaxY: 5720831.6}

	cases := []struct {
		name string
		q    FeatureQuery
		keys []string
	}{
		{
			name: "layer only",
			q:    FeatureQuery{Layer: "ns:roads"},
			keys: []string{"service", "version", "request", "typeName", "outputFormat", "srsname"},
		},
		{
			name: "bbox",
			q:    FeatureQuery{Layer: "ns:roads", BBox: bbox},
			keys: []string{"service", "version", "request", "typeName", "outputFormat", "srsname", "bbox"},
		},
		{
			name: "count",
			q:    FeatureQuery{Layer: "ns:roads", MaxFeatures: Count(10)},
			keys: []string{"service", "version", "request", "typeName", "outputFormat", "srsname", "count"},
		},
		{
			name: "bbox and count",
			q:    FeatureQuery{Layer: "ns:roads", BBox: bbox, MaxFeatures: Count(10)},
			keys: []string{"service", "version", "request", "typeName", "outputFormat", "srsname", "bbox", "count"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u, err := c.BuildURL(tc.q)
			require.NoError(t, err)

			var keys []string
			for _, kv := range strings.Split(u.RawQuery, "&") {
				k, _, _ := strings.Cut(kv, "=")
				keys = append(keys, k)
			}
			assert.Equal(t, tc.keys, keys)

			v := u.Query()
			assert.Equal(t, "WFS", v.Get("service"))
			assert.Equal(t, "2.0.0", v.Get("version"))
			assert.Equal(t, "GetFeature", v.Get("request"))
			assert.Equal(t, "ns:roads", v.Get("typeName"))
			assert.Equal(t, "GEOJSON", v.Get("outputFormat"))
			assert.Equal(t, "EPSG:25832", v.Get("srsname"))
			if tc.q.BBox != nil {
				assert.Equal(t, "645945.1,5796011.4,747959,5720831.6", v.Get("bbox"))
			}
			if tc.q.MaxFeatures != nil {
				assert.Equal(t, "10", v.Get("count"))
			}
		})
	}
}

func TestBuildURL_ConfigurableDefaults(t *testing.T) {
	c := mustClient(t, "http://localhost:8080/geoserver/ows",
		WithVersion("1.1.0"), WithSRSName("EPSG:4326"), WithOutputFormat("application/json"))

	u, err := c.BuildURL(FeatureQuery{Layer: "topp:states", MaxFeatures: Count(5)})
	require.NoError(t, err)
	v := u.Query()
	assert.Equal(t, "1.1.0", v.Get("version"))
	assert.Equal(t, "EPSG:4326", v.Get("srsname"))
	assert.Equal(t, "application/json", v.Get("outputFormat"))
	assert.Equal(t, "5", v.Get("maxFeatures"))
	assert.Empty(t, v.Get("count"))
}

func TestBuildURL_RejectsInvalidQuery(t *testing.T) {
	c := mustClient(t, "http://localhost/wfs")
	for name, q := range map[string]FeatureQuery{
		"blank layer":    {Layer: " "},
		"zero count":     {Layer: "a", MaxFeatures: Count(0)},
		"negative count": {Layer: "a", MaxFeatures: Count(-1)},
		"empty bbox":     {Layer: "a", BBox: &ows.BBox{}},
	} {
		_, err := c.BuildURL(q)
		assert.ErrorIs(t, err, ows.ErrInvalidQuery, name)
	}
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	_, err := New("geoserver/wfs")
	require.Error(t, err)
}

func TestFetchFeatures_APIKeyInURLOnly(t *testing.T) {
	srv := ogctest.NewServer(t)
	c := mustClient(t, srv.WFSURL(), WithAuth(ows.APIKey{ParamName: "token", Key: "s3cr3t"}))

	_, err := c.FetchFeatures(context.Background(), FeatureQuery{Layer: "a", MaxFeatures: Count(2)})
	require.NoError(t, err)

	last := srv.Last(t)
	assert.True(t, strings.HasSuffix(last.RawQuery, "&token=s3cr3t"), last.RawQuery)
	assert.Empty(t, last.Header.Get("Authorization"))
	assert.Empty(t, last.Header.Get("Cookie"))
}

func TestFetchFeatures_HeaderAuthNeverTouchesURL(t *testing.T) {
	srv := ogctest.NewServer(t)
	plain := mustClient(t, srv.WFSURL())
	q := FeatureQuery{Layer: "a", BBox: &ows.BBox{MinX: 1, MinY: 2, MaxX: 3, MaxY: 4}}
	_, err := plain.FetchFeatures(context.Background(), q)
	require.NoError(t, err)
	wantQuery := srv.Last(t).RawQuery

	cases := []struct {
		auth   ows.AuthStrategy
		header string
		want   string
	}{
		{ows.BearerToken("tok"), "Authorization", "Bearer tok"},
		{ows.Basic{Username: "u", Password: "p"}, "Authorization", "Basic dTpw"},
		{ows.Cookie("sid=1"), "Cookie", "sid=1"},
	}
	for _, tc := range cases {
		c := mustClient(t, srv.WFSURL(), WithAuth(tc.auth))
		_, err := c.FetchFeatures(context.Background(), q)
		require.NoError(t, err)

		last := srv.Last(t)
		assert.Equal(t, wantQuery, last.RawQuery, "%T changed the url", tc.auth)
		assert.Equal(t, tc.want, last.Header.Get(tc.header))
	}
}

func TestFetchFeatures_SingleFeature(t *testing.T) {
	srv := ogctest.NewServer(t)
	srv.RespondWFS(http.StatusOK, "application/json",
		[]byte(`{"type":"Feature","properties":{"name":"x"},"geometry":{"type":"LineString","coordinates":[[1,2],[3,4]]}}`))

	geoms, err := mustClient(t, srv.WFSURL()).FetchFeatures(context.Background(), FeatureQuery{Layer: "a"})
	require.NoError(t, err)
	require.Len(t, geoms, 1)
	assert.Equal(t, orb.LineString{{1, 2}, {3, 4}}, geoms[0])
}

func TestFetchFeatures_OneGeometryPerFeature(t *testing.T) {
	srv := ogctest.NewServer(t)
	geoms, err := mustClient(t, srv.WFSURL()).FetchFeatures(context.Background(),
		FeatureQuery{Layer: "a", MaxFeatures: Count(3)})
	require.NoError(t, err)
	assert.Equal(t, []orb.Geometry{orb.Point{0, 3}, orb.Point{1, 3}, orb.Point{2, 3}}, geoms)
}

func TestFetchFeatures_StatusErrorsSkipBody(t *testing.T) {
	for _, code := range []int{http.StatusNotFound, http.StatusInternalServerError} {
		srv := ogctest.NewServer(t)
		srv.RespondWFS(code, "application/json", []byte(`{"type":"Feature","geometry":{"type":"Point","coordinates":[1,2]}}`))

		_, err := mustClient(t, srv.WFSURL()).FetchFeatures(context.Background(), FeatureQuery{Layer: "a"})

		var rf *ows.RequestFailedError
		require.ErrorAs(t, err, &rf)
		assert.Equal(t, code, rf.StatusCode)
		assert.NotErrorIs(t, err, ows.ErrDecodeFailed)
		assert.Equal(t, code >= 500, ows.Retryable(err))
	}
}

func TestFetchFeatures_MalformedBody(t *testing.T) {
	srv := ogctest.NewServer(t)
	srv.RespondWFS(http.StatusOK, "application/json", []byte(`{"type":"FeatureCollection","features":[`))

	_, err := mustClient(t, srv.WFSURL()).FetchFeatures(context.Background(), FeatureQuery{Layer: "a"})
	assert.ErrorIs(t, err, ows.ErrDecodeFailed)
	assert.False(t, ows.Retryable(err))
}

func TestFetchFeatures_NoGeometries(t *testing.T) {
	srv := ogctest.NewServer(t)
	srv.RespondWFS(http.StatusOK, "application/json", []byte(`{"type":"FeatureCollection","features":[]}`))

	_, err := mustClient(t, srv.WFSURL()).FetchFeatures(context.Background(), FeatureQuery{Layer: "a"})
	assert.ErrorIs(t, err, ows.ErrDecodeFailed)
}

func TestFetchFeatures_UserAgentWithCustomClient(t *testing.T) {
	srv := ogctest.NewServer(t)
	c := mustClient(t, srv.WFSURL(), WithHTTPClient(&http.Client{}))

	_, err := c.FetchFeatures(context.Background(), FeatureQuery{Layer: "a"})
	require.NoError(t, err)
	assert.Equal(t, httpclient.DefaultUserAgent, srv.Last(t).Header.Get("User-Agent"))
}

func TestFetchFeatures_InvalidQueryNeverSent(t *testing.T) {
	srv := ogctest.NewServer(t)
	_, err := mustClient(t, srv.WFSURL()).FetchFeatures(context.Background(),
		FeatureQuery{Layer: "a", MaxFeatures: Count(0)})
	assert.ErrorIs(t, err, ows.ErrInvalidQuery)
	assert.Empty(t, srv.Requests())
}

func TestFetchFeatures_TransportError(t *testing.T) {
	srv := ogctest.NewServer(t)
	base := srv.WFSURL()
	c := mustClient(t, base, WithHTTPClient(&http.Client{Transport: failingTransport{}}))

	_, err := c.FetchFeatures(context.Background(), FeatureQuery{Layer: "a"})
	assert.ErrorIs(t, err, ows.ErrTransport)
	assert.True(t, ows.Retryable(err))
}

type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("dial tcp: connection refused")
}

func TestFetchFeatures_ConcurrentCallsDoNotInterfere(t *testing.T) {
	srv := ogctest.NewServer(t)
	c := mustClient(t, srv.WFSURL(), WithAuth(ows.BearerToken("tok")))

	const n = 16
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 1; i <= n; i++ {
		wg.Add(1)
		go func(count int) {
			defer wg.Done()
			geoms, err := c.FetchFeatures(context.Background(),
				FeatureQuery{Layer: fmt.Sprintf("layer%d", count), MaxFeatures: Count(count)})
			if err != nil {
				errs <- err
				return
			}
			if len(geoms) != count {
				errs <- fmt.Errorf("count %d: got %d geometries", count, len(geoms))
				return
			}
			for _, g := range geoms {
				if p, ok := g.(orb.Point); !ok || p[1] != float64(count) {
					errs <- fmt.Errorf("count %d: foreign geometry %v", count, g)
					return
				}
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
	assert.Len(t, srv.Requests(), n)
}
