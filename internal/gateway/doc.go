// Package gateway is the HTTP client for the remote per-item conversion
// service. The service converts one file per request and responds with JSON
// carrying the output filename and a base64-encoded payload; the client
// decodes the payload to raw bytes so downstream packaging never sees the
// transport encoding.
package gateway
