// Package sheets talks to the spreadsheet-backed script endpoint that holds
// request rows, master items and store accounts.
//
// The endpoint takes JSON bodies sent as text/plain, selects the operation
// with an "action" query parameter, and answers with loosely typed JSON:
// numbers may arrive as strings and rows may lack fields. Responses are read
// with gjson so that a single odd row is dropped instead of failing the load.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"special-requests/internal/models"
	"special-requests/internal/repository"
)

const maxBody = 16 << 20

var ErrBadResponse = errors.New("row store returned malformed json")

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

var (
	_ repository.RowStore      = (*Client)(nil)
	_ repository.Authenticator = (*Client)(nil)
)

// -----------------------------------------------------------------------------
// Rows
// -----------------------------------------------------------------------------

func (c *Client) FetchRows(ctx context.Context) ([]models.Row, error) {
	body, err := c.post(ctx, "getRequests", struct{}{})
	if err != nil {
		return nil, err
	}
	out := []models.Row{}
	data := gjson.GetBytes(body, "data")
	if !data.IsArray() {
		return out, nil
	}
	data.ForEach(func(_, v gjson.Result) bool {
		if r, ok := parseRow(v); ok {
			out = append(out, r)
		}
		return true
	})
	return out, nil
}

func (c *Client) UpdateRowStatus(ctx context.Context, handle int, status models.Status) error {
	body, err := c.post(ctx, "updateStatus", map[string]any{"row": handle, "status": status})
	if err != nil {
		return err
	}
	if failed(body) {
		return fmt.Errorf("update row %d: %s", handle, message(body, "rejected"))
	}
	return nil
}

// SubmitTicket posts without an action; the script treats a bare POST as a
// new request.
func (c *Client) SubmitTicket(ctx context.Context, sub models.Submission) (string, error) {
	type item struct {
		Code   string `json:"procode"`
		Desc   string `json:"prodesc"`
		Qty    string `json:"qty"`
		Reason string `json:"reason"`
	}
	payload := struct {
		Store string `json:"store"`
		Email string `json:"email"`
		Items []item `json:"items"`
	}{Store: sub.Store, Email: sub.Email, Items: make([]item, 0, len(sub.Items))}
	for _, d := range sub.Items {
		payload.Items = append(payload.Items, item{Code: d.Code, Desc: d.Name, Qty: d.Qty, Reason: d.Reason})
	}

	body, err := c.post(ctx, "", payload)
	if err != nil {
		return "", err
	}
	if failed(body) {
		return "", &repository.RejectedError{Message: message(body, "request was not accepted")}
	}
	return message(body, "Request submitted."), nil
}

func (c *Client) FetchMasterItems(ctx context.Context) ([]models.MasterItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, err
	}
	body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	out := []models.MasterItem{}
	gjson.GetBytes(body, "items").ForEach(func(_, v gjson.Result) bool {
		code := strings.TrimSpace(v.Get("code").String())
		if code == "" {
			return true
		}
		out = append(out, models.MasterItem{Code: code, Description: v.Get("desc").String()})
		return true
	})
	return out, nil
}

// -----------------------------------------------------------------------------
// Accounts
// -----------------------------------------------------------------------------

func (c *Client) Login(ctx context.Context, storeCode, password string) (*models.User, error) {
	body, err := c.post(ctx, "login", map[string]string{"storeCode": storeCode, "password": password})
	if err != nil {
		return nil, err
	}
	res := gjson.ParseBytes(body)
	if res.Get("status").String() != "success" {
		return nil, &repository.RejectedError{Message: message(body, "Invalid store code or password.")}
	}
	role := models.RoleUser
	if res.Get("role").String() == models.RoleAdmin {
		role = models.RoleAdmin
	}
	return &models.User{
		StoreCode: res.Get("storeCode").String(),
		StoreName: res.Get("storeName").String(),
		Email:     res.Get("email").String(),
		Role:      role,
	}, nil
}

func (c *Client) Register(ctx context.Context, in repository.Registration) (string, error) {
	body, err := c.post(ctx, "register", map[string]string{
		"storeCode": in.StoreCode,
		"storeName": in.StoreName,
		"password":  in.Password,
		"email":     in.Email,
	})
	if err != nil {
		return "", err
	}
	msg := message(body, "")
	// the script only signals success in its message text
	if !strings.Contains(strings.ToLower(msg), "success") {
		if msg == "" {
			msg = "Registration failed."
		}
		return "", &repository.RejectedError{Message: msg}
	}
	return msg, nil
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func (c *Client) post(ctx context.Context, action string, payload any) ([]byte, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("row store url: %w", err)
	}
	if action != "" {
		q := u.Query()
		q.Set("action", action)
		u.RawQuery = q.Encode()
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	// a JSON content type triggers a CORS preflight the script cannot answer
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("row store: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("row store: HTTP error status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("row store: read body: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return nil, ErrBadResponse
	}
	return body, nil
}

func failed(body []byte) bool {
	return strings.EqualFold(gjson.GetBytes(body, "status").String(), "error")
}

func message(body []byte, def string) string {
	if m := strings.TrimSpace(gjson.GetBytes(body, "message").String()); m != "" {
		return m
	}
	return def
}
