package settlement

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	orderbookv1 "github.com/lions-mane/tracer-ome/internal/domain/orderbook/v1"
	"github.com/lions-mane/tracer-ome/pkg/config"
	"github.com/lions-mane/tracer-ome/pkg/errors"
	"github.com/lions-mane/tracer-ome/pkg/logger"
)

// checkRequest is the payload sent to the validity checker.
type checkRequest struct {
	Order *orderbookv1.ExternalOrder `json:"order"`
}

// matchRequest is the payload sent to the executioner for one matched pair.
type matchRequest struct {
	Maker *orderbookv1.ExternalOrder `json:"maker"`
	Taker *orderbookv1.ExternalOrder `json:"taker"`
}

// Client talks HTTP to the validity checker and the executioner.
type Client struct {
	config     config.SettlementConfig
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient creates a settlement client against the configured endpoints.
func NewClient(cfg config.SettlementConfig, log *logger.Logger) *Client {
	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: log,
	}
}

// CheckOrder posts the order to the validity checker. The verdict is the
// response status: any 2xx accepts the order, anything else rejects it. Only
// transport failures return an error.
func (c *Client) CheckOrder(ctx context.Context, order *orderbookv1.Order) (bool, error) {
	payload := checkRequest{Order: order.ToExternal()}

	resp, err := c.post(ctx, c.config.CheckURL+"/check", payload)
	if err != nil {
		c.logger.ErrorContext(ctx, err,
			logger.Field{Key: "orderID", Value: order.ID},
			logger.Field{Key: "action", Value: "check_order"},
		)
		return false, errors.NewErrorDetails(err.Error(), string(errors.UpstreamUnavailable), "check")
	}
	defer resp.Body.Close()

	valid := resp.StatusCode >= 200 && resp.StatusCode < 300

	c.logger.DebugContext(ctx, "Order validity verdict",
		logger.Field{Key: "orderID", Value: order.ID},
		logger.Field{Key: "status", Value: resp.StatusCode},
		logger.Field{Key: "valid", Value: valid},
	)

	return valid, nil
}

// ForwardMatch posts a matched maker/taker pair to the executioner and parses
// the response body as the settlement transaction address.
func (c *Client) ForwardMatch(ctx context.Context, maker, taker *orderbookv1.Order) (orderbookv1.Address, error) {
	payload := matchRequest{
		Maker: maker.ToExternal(),
		Taker: taker.ToExternal(),
	}

	resp, err := c.post(ctx, c.config.ExecutionerURL, payload)
	if err != nil {
		c.logger.ErrorContext(ctx, err,
			logger.Field{Key: "makerID", Value: maker.ID},
			logger.Field{Key: "takerID", Value: taker.ID},
			logger.Field{Key: "action", Value: "forward_match"},
		)
		return orderbookv1.Address{}, errors.NewErrorDetails(err.Error(), string(errors.UpstreamUnavailable), "executioner")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return orderbookv1.Address{}, errors.NewErrorDetails(
			"executioner returned "+resp.Status,
			string(errors.UpstreamUnavailable),
			"executioner",
		)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return orderbookv1.Address{}, errors.NewErrorDetails(err.Error(), string(errors.UpstreamUnavailable), "executioner")
	}

	tx, err := orderbookv1.ParseAddress(strings.TrimSpace(strings.Trim(strings.TrimSpace(string(body)), `"`)))
	if err != nil {
		return orderbookv1.Address{}, err
	}

	c.logger.InfoContext(ctx, "Match forwarded",
		logger.Field{Key: "makerID", Value: maker.ID},
		logger.Field{Key: "takerID", Value: taker.ID},
		logger.Field{Key: "tx", Value: tx.Hex()},
	)

	return tx, nil
}

func (c *Client) post(ctx context.Context, url string, payload any) (*http.Response, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.httpClient.Do(req)
}
