package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/finvoice/finvoice/internal/config"
	log "github.com/sirupsen/logrus"
)

// requestTimeout bounds every remote call. The upstream service exhibits
// unbounded waits otherwise; expiry surfaces as ErrUnavailable.
const requestTimeout = 10 * time.Second

const (
	duplicateKeyCode = "23505"
	noRowsCode       = "PGRST116"
)

// ClientImpl talks to a PostgREST-style table API (Supabase and
// compatibles): one path segment per collection, eq-filters in the query
// string, JSON rows in and out.
type ClientImpl struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(cfg config.Store) *ClientImpl {
	return &ClientImpl{
		baseURL: strings.TrimSuffix(cfg.URL, "/") + "/rest/v1",
		apiKey:  cfg.Key,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c *ClientImpl) Create(ctx context.Context, collection string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("could not encode payload: %w", err)
	}
	return c.do(ctx, http.MethodPost, collection, nil, body, out, true)
}

func (c *ClientImpl) ReadOne(ctx context.Context, collection string, filter Filter, out any) error {
	var rows json.RawMessage
	if err := c.do(ctx, http.MethodGet, collection, filter, nil, &rows, false); err != nil {
		return err
	}
	var probe []json.RawMessage
	if err := json.Unmarshal(rows, &probe); err != nil {
		return fmt.Errorf("could not decode response: %w", err)
	}
	if len(probe) == 0 {
		return ErrNotFound
	}
	if err := json.Unmarshal(probe[0], out); err != nil {
		return fmt.Errorf("could not decode record: %w", err)
	}
	return nil
}

func (c *ClientImpl) ReadAll(ctx context.Context, collection string, filter Filter, out any) error {
	return c.do(ctx, http.MethodGet, collection, filter, nil, out, false)
}

func (c *ClientImpl) Update(ctx context.Context, collection string, filter Filter, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("could not encode payload: %w", err)
	}
	return c.do(ctx, http.MethodPatch, collection, filter, body, out, true)
}

func (c *ClientImpl) Delete(ctx context.Context, collection string, filter Filter) error {
	return c.do(ctx, http.MethodDelete, collection, filter, nil, nil, false)
}

func (c *ClientImpl) do(ctx context.Context, method, collection string, filter Filter, body []byte, out any, single bool) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	endpoint := c.baseURL + "/" + collection
	if len(filter) > 0 {
		params := url.Values{}
		for column, value := range filter {
			params.Set(column, "eq."+value)
		}
		endpoint += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if out != nil && method != http.MethodGet {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Errorf("remote store request failed: %v", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("could not read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		_ = json.Unmarshal(respBody, &apiErr)
		switch {
		case apiErr.Code == duplicateKeyCode:
			return ErrDuplicateKey
		case apiErr.Code == noRowsCode || resp.StatusCode == http.StatusNotFound:
			return ErrNotFound
		default:
			log.Errorf("remote store error (%d): %s", resp.StatusCode, apiErr.Message)
			return fmt.Errorf("remote store error (%d): %s", resp.StatusCode, apiErr.Message)
		}
	}

	if out == nil {
		return nil
	}
	if single {
		// Writes return a representation array even for single rows.
		var rows []json.RawMessage
		if err := json.Unmarshal(respBody, &rows); err == nil {
			if len(rows) == 0 {
				return ErrNotFound
			}
			return json.Unmarshal(rows[0], out)
		}
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("could not decode response: %w", err)
	}
	return nil
}
