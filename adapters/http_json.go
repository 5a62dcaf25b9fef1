package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"mygreyhound/service"
)

// errTransport marks failures of the connection itself, as opposed to error replies of a reachable peer.
var errTransport = errors.New("transport failure")

// doJSON sends in (if not nil) as the JSON body of method url and decodes a 2xx reply into out (if not nil).
//
// Returns:
// 1) nil on 2xx;
// 2) the peer's MyError decoded from an {"error":{...}} body;
// 3) worker_closed wrapping errTransport when the peer can't be reached or replies 5xx without an error body;
// 4) internal_server_error when in can't be encoded or the reply can't be decoded.
func doJSON(ctx context.Context, client *http.Client, method, url string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return service.NewInternalServerError("Can't encode request", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return service.NewInternalServerError("Can't build request", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return service.NewWorkerClosedError("Peer unreachable", fmt.Errorf("%w: %s %s, err: %v", errTransport, method, url, err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return service.NewWorkerClosedError("Peer reply interrupted", fmt.Errorf("%w: %v", errTransport, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return service.NewInternalServerError("Can't decode reply", fmt.Errorf("%s %s, err: %w", method, url, err))
	}
	return nil
}

// decodeError turns an error reply back into the MyError the peer raised.
func decodeError(status int, raw []byte) error {
	var er service.ErrResponse
	if err := json.Unmarshal(raw, &er); err == nil && er.Error != nil && er.Error.Code != "" {
		return service.NewMyError(er.Error.Code, er.Error.Message, nil)
	}
	if status >= http.StatusInternalServerError {
		return service.NewWorkerClosedError(fmt.Sprintf("Peer returned %d", status), errTransport)
	}
	return service.NewWorkerError(fmt.Sprintf("Peer returned %d", status), nil)
}
