// Package handlers contains the transports of mygreyhound: the session handler and pipeline store HTTP
// APIs, the WebSocket front door and the gRPC health service.
package handlers

import (
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/labstack/echo/v4"
)

// OpenAPIValidator returns an echo middleware that validates requests against the OpenAPI document doc.
// Requests matching no documented route pass through to echo. Invalid requests fail with an
// *echo.HTTPError wrapping the *openapi3filter.RequestError, which service.HTTPErrorHandler reports as
// bad_parameter.
//
// Parameter doc is the embedded OpenAPI document of the role.
//
// Returns: echo.MiddlewareFunc, or an error when doc does not load or validate.
//
// Called from every cmd main.
func OpenAPIValidator(doc []byte) (echo.MiddlewareFunc, error) {
	loader := openapi3.NewLoader()
	apiDoc, err := loader.LoadFromData(doc)
	if err != nil {
		return nil, fmt.Errorf("cant load openapi document: %w", err)
	}
	if err := apiDoc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	router, err := gorillamux.NewRouter(apiDoc)
	if err != nil {
		return nil, fmt.Errorf("cant build openapi router: %w", err)
	}
	options := &openapi3filter.Options{AuthenticationFunc: openapi3filter.NoopAuthenticationFunc}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			route, pathParams, err := router.FindRoute(req)
			if err != nil {
				return next(c)
			}
			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err := openapi3filter.ValidateRequest(req.Context(), input); err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "request does not match the API").SetInternal(err)
			}
			return next(c)
		}
	}, nil
}
