// Package wms is a client for OGC Web Map Service GetMap requests. Tiles are
// returned as the raw encoded image; the client never inspects or writes
// them. SaveTileToFile is the separate persistence helper.
package wms
