// Package api embeds the OpenAPI documents of the HTTP roles.
package api

import _ "embed"

// SessionHandler describes the session handler (sh) HTTP API.
//
//go:embed sessionhandler.openapi.yaml
var SessionHandler []byte

// PipelineStore describes the pipeline store (db) HTTP API.
//
//go:embed pipelinestore.openapi.yaml
var PipelineStore []byte
