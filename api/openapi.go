// Package api carries the OpenAPI description of the HTTP service.
package api

import _ "embed"

// OpenAPI is the YAML source of openapi.yaml.
//
//go:embed openapi.yaml
var OpenAPI []byte
