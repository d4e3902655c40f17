// Package wfs is a client for OGC Web Feature Service GetFeature requests
// that return GeoJSON.
//
// A Client is bound to one endpoint and one optional authentication strategy
// at construction and is never mutated afterwards, so a single Client may be
// used from many goroutines. Everything that varies per call travels in a
// FeatureQuery.
package wfs
