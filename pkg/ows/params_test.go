package ows

import (
	"errors"
	"math"
	"testing"
)

func TestParams_KeepsInsertionOrder(t *testing.T) {
	var p Params
	p.Add("service", "WFS")
	p.Add("typeName", "ns:layer one")
	p.Add("bbox", "1,2,3,4")
	want := "service=WFS&typeName=ns%3Alayer+one&bbox=1%2C2%2C3%2C4"
	if got := p.Encode(); got != want {
		t.Fatalf("encode got %q want %q", got, want)
	}
	if v, ok := p.Get("typeName"); !ok || v != "ns:layer one" {
		t.Fatalf("get typeName got (%q,%v)", v, ok)
	}
	if p.Len() != 3 {
		t.Fatalf("len got %d", p.Len())
	}
}

func TestParams_URL(t *testing.T) {
	var p Params
	p.Add("a", "1")

	u, err := p.URL("https://maps.example.test/cgi-bin/mapserv?map=/srv/a.map")
	if err != nil {
		t.Fatalf("url: %v", err)
	}
	if got := u.RawQuery; got != "map=/srv/a.map&a=1" {
		t.Fatalf("raw query got %q", got)
	}

	u, err = p.URL("http://localhost:8080/geoserver/ows")
	if err != nil {
		t.Fatalf("url: %v", err)
	}
	if got := u.String(); got != "http://localhost:8080/geoserver/ows?a=1" {
		t.Fatalf("url got %q", got)
	}

	if _, err := p.URL("not a url"); err == nil {
		t.Fatalf("expected error for relative url")
	}
}

func TestBBox_StringKeepsPrecision(t *testing.T) {
	b := BBox{MinX: 645945.1, MinY: 5796011.4, MaxX: 747959.0, MaxY: 5720831.6}
	if got, want := b.String(), "645945.1,5796011.4,747959,5720831.6"; got != want {
		t.Fatalf("bbox got %q want %q", got, want)
	}
	b.CRS = "EPSG:25832"
	if got, want := b.String(), "645945.1,5796011.4,747959,5720831.6,EPSG:25832"; got != want {
		t.Fatalf("bbox with crs got %q want %q", got, want)
	}
	if got, want := b.Coords(), "645945.1,5796011.4,747959,5720831.6"; got != want {
		t.Fatalf("coords got %q want %q", got, want)
	}
}

func TestParseBBox(t *testing.T) {
	b, err := ParseBBox(" 10.0, 48.0 ,11.0,49.0 ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if b != (BBox{MinX: 10, MinY: 48, MaxX: 11, MaxY: 49}) {
		t.Fatalf("parsed %+v", b)
	}
	b, err = ParseBBox("1,2,3,4,EPSG:4326")
	if err != nil || b.CRS != "EPSG:4326" {
		t.Fatalf("parse with crs: %+v %v", b, err)
	}
	for _, in := range []string{"", "1,2,3", "1,2,x,4", "1,2,3,NaN", "1,2,3,4,5,6"} {
		if _, err := ParseBBox(in); !errors.Is(err, ErrInvalidQuery) {
			t.Fatalf("ParseBBox(%q) err=%v, want ErrInvalidQuery", in, err)
		}
	}
}

func TestBBox_Finite(t *testing.T) {
	if (BBox{MinX: math.Inf(1)}).Finite() {
		t.Fatalf("inf must not be finite")
	}
	if !(BBox{}).Finite() {
		t.Fatalf("zero bbox is finite")
	}
	if !(BBox{CRS: "EPSG:4326"}).Empty() || (BBox{MaxY: 1}).Empty() {
		t.Fatalf("empty means all four coordinates are zero")
	}
}
