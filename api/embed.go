// Package api carries the OpenAPI document of the HTTP API. It is served at
// /api/openapi.yaml and used to validate incoming requests.
package api

import _ "embed"

//go:embed openapi.yaml
var OpenAPI []byte
