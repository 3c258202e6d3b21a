// Package client implements the REST clients for the external
// collaborators of the checkout flow: the cart service, the auth
// service and the payment server. Only their boundary contracts are
// assumed; everything behind them is out of scope.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 15 * time.Second

type base struct {
	url string
	hc  *http.Client
}

func newBase(url string) base {
	return base{url: url, hc: &http.Client{Timeout: defaultTimeout}}
}

// doJSON sends a request with an optional JSON body and bearer token
// and decodes the response into out (when out is non-nil). Non-2xx
// responses are returned as serverError with the body's error message.
func (b base) doJSON(ctx context.Context, method, path, bearer string, in, out interface{}) error {
	return b.doJSONWith(ctx, method, path, bearer, in, out, nil)
}

func (b base) doJSONWith(ctx context.Context, method, path, bearer string, in, out interface{}, mod func(*http.Request)) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.url+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	if mod != nil {
		mod(req)
	}

	resp, err := b.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &serverError{Status: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// serverError carries the collaborator's own error message so it can
// be surfaced verbatim.
type serverError struct {
	Status  int
	Message string
}

func (e *serverError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned status %d", e.Status)
}

func readErrorMessage(r io.Reader) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return ""
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Message
}
