package cloudkv

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/johnquangdev/lasto/internal/domain/entities"
	"github.com/johnquangdev/lasto/internal/usecase/cloudsync"
	"github.com/johnquangdev/lasto/pkg/config"
)

// PantryClient stores the backup document in a getpantry.cloud basket
type PantryClient struct {
	baseURL    string
	basket     string
	ids        IDSource
	client     *http.Client
	newBackOff func() backoff.BackOff
}

var _ cloudsync.Backend = (*PantryClient)(nil)

// NewPantryClient creates a Pantry backend. The pantry id is read from ids
// on every call so that imported keys take effect immediately.
func NewPantryClient(cfg *config.SyncConfig, ids IDSource) *PantryClient {
	return &PantryClient{
		baseURL: strings.TrimRight(cfg.PantryBaseURL, "/"),
		basket:  cfg.Basket,
		ids:     ids,
		client:  &http.Client{Timeout: 30 * time.Second},
		newBackOff: func() backoff.BackOff {
			bo := backoff.NewExponentialBackOff()
			bo.InitialInterval = 1 * time.Second
			bo.MaxElapsedTime = 20 * time.Second
			return bo
		},
	}
}

// Name implements cloudsync.Backend
func (p *PantryClient) Name() string {
	return "pantry"
}

func (p *PantryClient) basketURL(ctx context.Context) (string, error) {
	id, err := p.ids.PantryID(ctx)
	if err != nil {
		return "", err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return "", entities.ErrCloudSyncDisabled
	}
	return fmt.Sprintf("%s/%s/basket/%s", p.baseURL, url.PathEscape(id), url.PathEscape(p.basket)), nil
}

// Load fetches the basket
func (p *PantryClient) Load(ctx context.Context) (cloudsync.Document, error) {
	endpoint, err := p.basketURL(ctx)
	if err != nil {
		return nil, err
	}

	var doc cloudsync.Document
	err = p.do(ctx, func() (*http.Request, error) {
		// cache buster; Pantry sits behind caching proxies
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?t="+strconv.FormatInt(time.Now().UnixMilli(), 10), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Cache-Control", "no-cache")
		return req, nil
	}, func(body io.Reader) error {
		return json.NewDecoder(body).Decode(&doc)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Store replaces the basket with doc
func (p *PantryClient) Store(ctx context.Context, doc cloudsync.Document) error {
	endpoint, err := p.basketURL(ctx)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode basket: %w", err)
	}

	return p.do(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}, nil)
}

// do runs a request with retries on network errors and 5xx responses
func (p *PantryClient) do(ctx context.Context, build func() (*http.Request, error), decode func(io.Reader) error) error {
	op := func() error {
		req, err := build()
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := p.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return backoff.Permanent(entities.ErrRemoteEmpty)
		case resp.StatusCode == http.StatusTooManyRequests:
			return backoff.Permanent(entities.ErrRateLimited)
		case resp.StatusCode >= 500:
			return fmt.Errorf("pantry returned status %d", resp.StatusCode)
		case resp.StatusCode >= 400:
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			// Pantry answers 400 for a basket that was never created
			if resp.StatusCode == http.StatusBadRequest && bytes.Contains(bytes.ToLower(msg), []byte("does not exist")) {
				return backoff.Permanent(entities.ErrRemoteEmpty)
			}
			return backoff.Permanent(fmt.Errorf("pantry returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))))
		}

		if decode == nil {
			io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := decode(resp.Body); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode basket: %w", err))
		}
		return nil
	}
	return backoff.Retry(op, backoff.WithContext(p.newBackOff(), ctx))
}
