// Package recipeshare provides an HTTP client for the RecipeShare backend
// API.
//
// # Overview
//
// The backend is a PHP endpoint that multiplexes every operation behind an
// `operation` query or form parameter. Query operations are GETs against
// the API endpoint; mutations are form-urlencoded or multipart POSTs.
// Authentication lives on a second endpoint with the same convention.
//
// # Wire tolerance
//
// The backend serializes numbers, booleans, and identifiers inconsistently
// (JSON numbers, numeric strings, 0/1 flags). The types in this package
// absorb that at the decoding boundary: Rating clamps to [0, 5] and
// defaults to 0 on garbage, ID tolerates string-wrapped integers, and Flag
// accepts bool, 0/1, and "0"/"1" forms. One malformed recipe row must
// never take down the session.
//
// # Success signaling
//
// Most mutations answer `{success, ...}` objects while login answers a bare
// array (empty on bad credentials). Both shapes are normalized here:
// application-level failures come back as *APIError carrying the backend's
// message, and everything else is a (value, error) pair in the usual form.
// Transport failures, non-2xx statuses, and malformed JSON are wrapped
// errors distinct from APIError.
//
// # Request handling
//
// All requests take a context, set Accept and User-Agent headers, and run
// under a 5-second client timeout. There is no caching and no automatic
// retry; the caller decides when to re-issue an operation.
package recipeshare
