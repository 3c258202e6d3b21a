package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/avdeenkov/homebook-checkout/internal/domain"
)

// CartClient talks to the cart service. Guests are identified by the
// cart key carried on the checkout session; authenticated calls use
// the bearer token instead.
type CartClient struct {
	base
}

func NewCartClient(url string) *CartClient {
	return &CartClient{base: newBase(url)}
}

func (c *CartClient) withKey(req *http.Request, cartKey string) {
	if cartKey != "" {
		req.Header.Set("X-Cart-Key", cartKey)
	}
}

func (c *CartClient) Items(ctx context.Context, bearer, cartKey string) (domain.CartSnapshot, error) {
	var resp struct {
		Items []domain.CartItem `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/cart", bearer, cartKey, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch cart: %w", err)
	}
	return resp.Items, nil
}

func (c *CartClient) Clear(ctx context.Context, bearer, cartKey string) error {
	if err := c.do(ctx, http.MethodDelete, "/cart", bearer, cartKey, nil, nil); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// Add accumulates quantity on duplicate service IDs, so callers replay
// each distinct item at most once.
func (c *CartClient) Add(ctx context.Context, bearer, cartKey string, serviceID int64, quantity int) error {
	payload := struct {
		ServiceID int64 `json:"service_id"`
		Quantity  int   `json:"quantity"`
	}{ServiceID: serviceID, Quantity: quantity}

	if err := c.do(ctx, http.MethodPost, "/cart/items", bearer, cartKey, payload, nil); err != nil {
		return fmt.Errorf("add cart item %d: %w", serviceID, err)
	}
	return nil
}

func (c *CartClient) do(ctx context.Context, method, path, bearer, cartKey string, in, out interface{}) error {
	if cartKey == "" {
		return c.doJSON(ctx, method, path, bearer, in, out)
	}
	return c.doJSONWith(ctx, method, path, bearer, in, out, func(req *http.Request) {
		c.withKey(req, cartKey)
	})
}
