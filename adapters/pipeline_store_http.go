package adapters

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/url"

	"mygreyhound/domain"
	"mygreyhound/helpers"
	"mygreyhound/interfaces"
	"mygreyhound/service"
)

// PipelineStoreHTTP creates an interfaces.PipelineStore that talks to a db role instance over HTTP:
// PUT /put {pipeline} -> {id} and GET /retrieve?pipelineId= -> {pipeline}. The instance is picked from
// the registry on every call. Panics on nil registry or client.
//
// Parameters: registry lists the db instances; client sends the requests.
//
// Returns: interfaces.PipelineStore (*pipelineStoreHTTP).
//
// Called from cmd/controller.
func PipelineStoreHTTP(registry interfaces.Registry, client *http.Client) interfaces.PipelineStore {
	return &pipelineStoreHTTP{
		registry: helpers.NilPanic(registry, "adapters.pipeline_store_http.go: registry is required"),
		client:   helpers.NilPanic(client, "adapters.pipeline_store_http.go: http client is required"),
	}
}

type pipelineStoreHTTP struct {
	registry interfaces.Registry
	client   *http.Client
}

type putRequest struct {
	Pipeline string `json:"pipeline"`
}

type putResponse struct {
	ID domain.PipelineID `json:"id"`
}

type retrieveResponse struct {
	Pipeline string `json:"pipeline"`
}

// baseURL resolves a live db instance. Returns unavailable when none is registered.
func (p *pipelineStoreHTTP) baseURL(ctx context.Context) (string, error) {
	records, err := p.registry.Get(ctx, domain.RolePipelineStore)
	if err != nil {
		return "", fmt.Errorf("pipeline store lookup failed, err: %w", err)
	}
	if len(records) == 0 {
		return "", service.NewUnavailableError("No pipeline store available", nil)
	}
	return "http://" + string(records[rand.IntN(len(records))].Address()), nil
}

func (p *pipelineStoreHTTP) Put(ctx context.Context, definition string) (domain.PipelineID, error) {
	base, err := p.baseURL(ctx)
	if err != nil {
		return "", err
	}
	var out putResponse
	if err := doJSON(ctx, p.client, http.MethodPut, base+"/put", putRequest{Pipeline: definition}, &out); err != nil {
		return "", storeError(err)
	}
	if out.ID == "" {
		return "", service.NewInternalServerError("Pipeline store reply is missing id", nil)
	}
	return out.ID, nil
}

func (p *pipelineStoreHTTP) Retrieve(ctx context.Context, id domain.PipelineID) (string, error) {
	base, err := p.baseURL(ctx)
	if err != nil {
		return "", err
	}
	var out retrieveResponse
	reqURL := base + "/retrieve?" + url.Values{"pipelineId": []string{string(id)}}.Encode()
	if err := doJSON(ctx, p.client, http.MethodGet, reqURL, nil, &out); err != nil {
		return "", storeError(err)
	}
	return out.Pipeline, nil
}

// storeError reports an unreachable pipeline store as unavailable rather than as a worker failure.
func storeError(err error) error {
	if service.IsWorkerClosedError(err) {
		return service.NewMyError(service.ErrUnavailable, "Pipeline store unreachable", err)
	}
	return err
}
