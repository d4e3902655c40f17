// Package ows holds the pieces shared by the OGC web service clients:
// authentication strategies, ordered query parameters, bounding boxes and
// the error taxonomy returned by every fetch.
//
// Authentication is applied in two phases. ApplyQuery runs while the request
// URL is being built and is the only place an APIKey takes effect.
// Decorate runs on the constructed *http.Request and handles Basic,
// BearerToken and Cookie. Callers that build requests by hand must invoke
// both, in that order, or an APIKey strategy is silently lost.
package ows
