// Package storefront is the Go client for the Everwear API. It keeps an
// optimistic local cart replica and reconciles it with the server through
// a debounced full push, so callers see mutations immediately while the
// network catches up in the background.
package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/vaishnavid04/Everwear/internal/domain"
)

// ErrNotFound maps the API's 404 responses; callers treat it as a valid
// initial state, not a failure.
var ErrNotFound = errors.New("storefront: not found")

// CartStore is the remote cart contract the syncer pushes and pulls
// through. The owner is implicit in the client's bearer token.
type CartStore interface {
	GetCart(ctx context.Context) (*domain.Cart, error)
	ClearCart(ctx context.Context) error
	AddLine(ctx context.Context, line domain.CartLine) error
	UpdateLine(ctx context.Context, productID int64, quantity int) error
	RemoveLine(ctx context.Context, productID int64) error
}

type Client struct {
	http *resty.Client
}

func NewClient(baseURL string) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &Client{http: c}
}

// SetToken installs the bearer token for all subsequent requests.
func (c *Client) SetToken(token string) {
	c.http.SetAuthToken(token)
}

type authResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func (c *Client) Register(ctx context.Context, email, password, firstName, lastName string) (*domain.User, error) {
	body := map[string]string{
		"email":     email,
		"password":  password,
		"firstName": firstName,
		"lastName":  lastName,
	}
	var out authResponse
	resp, err := c.http.R().SetContext(ctx).SetBody(body).SetResult(&out).Post("/api/auth/register")
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	c.http.SetAuthToken(out.Token)
	return &out.User, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, error) {
	body := map[string]string{"email": email, "password": password}
	var out authResponse
	resp, err := c.http.R().SetContext(ctx).SetBody(body).SetResult(&out).Post("/api/auth/login")
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	c.http.SetAuthToken(out.Token)
	return &out.User, nil
}

// Logout tells the server and drops the local token.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Post("/api/auth/logout")
	if err != nil {
		return err
	}
	if err := checkStatus(resp); err != nil {
		return err
	}
	c.http.SetAuthToken("")
	return nil
}

func (c *Client) ListProducts(ctx context.Context, category string) ([]domain.Product, error) {
	req := c.http.R().SetContext(ctx)
	if category != "" {
		req.SetQueryParam("category", category)
	}
	var out []domain.Product
	resp, err := req.SetResult(&out).Get("/api/products")
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var out domain.Product
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).
		Get(fmt.Sprintf("/api/products/%d", id))
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetCart(ctx context.Context) (*domain.Cart, error) {
	var out domain.Cart
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).Get("/api/cart")
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ClearCart(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Delete("/api/cart")
	if err != nil {
		return err
	}
	return checkStatus(resp)
}

func (c *Client) AddLine(ctx context.Context, line domain.CartLine) error {
	resp, err := c.http.R().SetContext(ctx).SetBody(line).Post("/api/cart/items")
	if err != nil {
		return err
	}
	return checkStatus(resp)
}

func (c *Client) UpdateLine(ctx context.Context, productID int64, quantity int) error {
	body := map[string]int{"quantity": quantity}
	resp, err := c.http.R().SetContext(ctx).SetBody(body).
		Put(fmt.Sprintf("/api/cart/items/%d", productID))
	if err != nil {
		return err
	}
	return checkStatus(resp)
}

func (c *Client) RemoveLine(ctx context.Context, productID int64) error {
	resp, err := c.http.R().SetContext(ctx).
		Delete(fmt.Sprintf("/api/cart/items/%d", productID))
	if err != nil {
		return err
	}
	return checkStatus(resp)
}

func (c *Client) PlaceOrder(ctx context.Context, items []domain.OrderItem, total float64) (*domain.Order, error) {
	body := map[string]any{"items": items, "total": total}
	var out domain.Order
	resp, err := c.http.R().SetContext(ctx).SetBody(body).SetResult(&out).Post("/api/orders")
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).Get("/api/orders")
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Ask(ctx context.Context, message string) (string, error) {
	var out struct {
		Reply string `json:"reply"`
	}
	resp, err := c.http.R().SetContext(ctx).
		SetBody(map[string]string{"message": message}).
		SetResult(&out).
		Post("/api/chatbot")
	if err != nil {
		return "", err
	}
	if err := checkStatus(resp); err != nil {
		return "", err
	}
	return out.Reply, nil
}

func checkStatus(resp *resty.Response) error {
	if resp.StatusCode() < 300 {
		return nil
	}
	if resp.StatusCode() == http.StatusNotFound {
		return ErrNotFound
	}
	var apiErr struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if err := json.Unmarshal(resp.Body(), &apiErr); err == nil && apiErr.Error != "" {
		return fmt.Errorf("storefront: %s (%s)", apiErr.Error, resp.Status())
	}
	return fmt.Errorf("storefront: request failed with status %d", resp.StatusCode())
}
