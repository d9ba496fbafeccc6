package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/mycardscz/mycards-server/internal/catalog"
	"github.com/mycardscz/mycards-server/internal/order"
)

// RemoteStore talks to the legacy order API. The API only knows two verbs:
// POST a new order and GET the full list. Everything else lives locally.
//
// Each production host runs its own legacy backend, so the endpoint is picked
// per request from the calling origin carried on the context (see WithOrigin).
type RemoteStore struct {
	httpClient *http.Client
	endpoints  map[string]string
	fallback   string
}

// NewRemoteStore builds a client for the legacy order endpoints. Requests with
// no matching origin go to the fallback endpoint.
func NewRemoteStore(httpClient *http.Client, endpoints map[string]string, fallback string) *RemoteStore {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &RemoteStore{
		httpClient: httpClient,
		endpoints:  endpoints,
		fallback:   strings.TrimRight(fallback, "/"),
	}
}

type originKey struct{}

// WithOrigin records the calling origin on the context so the remote store can
// route the request to that origin's legacy backend.
func WithOrigin(ctx context.Context, origin string) context.Context {
	if origin == "" {
		return ctx
	}
	return context.WithValue(ctx, originKey{}, origin)
}

func originFromContext(ctx context.Context) string {
	origin, _ := ctx.Value(originKey{}).(string)
	return origin
}

func (s *RemoteStore) endpointFor(ctx context.Context) string {
	return EndpointForOrigin(originFromContext(ctx), s.endpoints, s.fallback)
}

// EndpointForOrigin picks the legacy endpoint matching the calling origin, so
// dev and the production hosts each reach their own backend. Unknown origins
// get the fallback.
func EndpointForOrigin(origin string, endpoints map[string]string, fallback string) string {
	if origin != "" {
		if ep, ok := endpoints[origin]; ok && ep != "" {
			return ep
		}
		host := origin
		if idx := strings.Index(host, "://"); idx >= 0 {
			host = host[idx+3:]
		}
		if idx := strings.Index(host, ":"); idx >= 0 {
			host = host[:idx]
		}
		if ep, ok := endpoints[host]; ok && ep != "" {
			return ep
		}
	}
	return fallback
}

// remoteOrderRow mirrors the legacy API's column naming.
type remoteOrderRow struct {
	ID           string          `json:"id"`
	CreatedAt    string          `json:"created_at"`
	CustomerData json.RawMessage `json:"customer_data"`
	GameType     string          `json:"game_type"`
	CardStyle    string          `json:"card_style"`
	DeckData     json.RawMessage `json:"deck_data"`
	BackConfig   json.RawMessage `json:"back_config"`
	TotalPrice   int             `json:"total_price"`
	Status       string          `json:"status"`
}

type remoteSaveResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Save POSTs the order to the legacy API.
func (s *RemoteStore) Save(ctx context.Context, o order.Order) error {
	row, err := toRemoteRow(o)
	if err != nil {
		return err
	}
	body, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("store: marshal order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpointFor(ctx), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("store: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("store: remote save: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("store: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return fmt.Errorf("%w: status %d: %s", ErrRemoteRejected, resp.StatusCode, strings.TrimSpace(string(respBody)))
		}
		return fmt.Errorf("store: remote save status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var envelope remoteSaveResponse
	if errDecode := json.Unmarshal(respBody, &envelope); errDecode != nil {
		return fmt.Errorf("store: decode response: %w", errDecode)
	}
	if envelope.Status != "success" {
		return fmt.Errorf("%w: %s", ErrRemoteRejected, envelope.Message)
	}
	return nil
}

// List GETs every order from the legacy API, newest first.
func (s *RemoteStore) List(ctx context.Context) ([]order.Order, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpointFor(ctx), nil)
	if err != nil {
		return nil, fmt.Errorf("store: build request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("store: remote list: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("store: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("store: remote list status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var rows []remoteOrderRow
	if errDecode := json.Unmarshal(respBody, &rows); errDecode != nil {
		return nil, fmt.Errorf("store: decode response: %w", errDecode)
	}

	orders := make([]order.Order, 0, len(rows))
	for _, row := range rows {
		o, errMap := fromRemoteRow(row)
		if errMap != nil {
			return nil, errMap
		}
		orders = append(orders, o)
	}
	sort.SliceStable(orders, func(i, j int) bool { return orders[i].Date.After(orders[j].Date) })
	return orders, nil
}

func toRemoteRow(o order.Order) (remoteOrderRow, error) {
	customer, err := json.Marshal(o.Customer)
	if err != nil {
		return remoteOrderRow{}, fmt.Errorf("store: marshal customer: %w", err)
	}
	deckData, err := json.Marshal(o.Deck)
	if err != nil {
		return remoteOrderRow{}, fmt.Errorf("store: marshal deck: %w", err)
	}
	back, err := json.Marshal(o.BackConfig)
	if err != nil {
		return remoteOrderRow{}, fmt.Errorf("store: marshal back config: %w", err)
	}
	return remoteOrderRow{
		ID:           o.ID,
		CreatedAt:    o.Date.UTC().Format(time.RFC3339),
		CustomerData: customer,
		GameType:     string(o.GameType),
		CardStyle:    string(o.CardStyle),
		DeckData:     deckData,
		BackConfig:   back,
		TotalPrice:   o.TotalPrice,
		Status:       string(o.Status),
	}, nil
}

func fromRemoteRow(row remoteOrderRow) (order.Order, error) {
	date, err := time.Parse(time.RFC3339, row.CreatedAt)
	if err != nil {
		// The legacy API stores MySQL datetimes for rows created before the
		// cutover; accept that shape too.
		date, err = time.Parse("2006-01-02 15:04:05", row.CreatedAt)
		if err != nil {
			return order.Order{}, fmt.Errorf("store: parse created_at %q: %w", row.CreatedAt, err)
		}
		date = date.UTC()
	}

	o := order.Order{
		ID:         row.ID,
		Date:       date,
		GameType:   catalog.GameType(row.GameType),
		CardStyle:  catalog.CardStyle(row.CardStyle),
		TotalPrice: row.TotalPrice,
		Status:     order.Status(row.Status),
	}
	if o.Status == "" {
		o.Status = order.StatusNew
	}
	if len(row.CustomerData) > 0 {
		if errDecode := json.Unmarshal(row.CustomerData, &o.Customer); errDecode != nil {
			return order.Order{}, fmt.Errorf("store: decode customer_data for %s: %w", row.ID, errDecode)
		}
	}
	if len(row.DeckData) > 0 {
		if errDecode := json.Unmarshal(row.DeckData, &o.Deck); errDecode != nil {
			return order.Order{}, fmt.Errorf("store: decode deck_data for %s: %w", row.ID, errDecode)
		}
	}
	if len(row.BackConfig) > 0 {
		if errDecode := json.Unmarshal(row.BackConfig, &o.BackConfig); errDecode != nil {
			return order.Order{}, fmt.Errorf("store: decode back_config for %s: %w", row.ID, errDecode)
		}
	}
	return o, nil
}
