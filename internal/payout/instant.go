package payout

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// InstantClient talks to the payment provider's real-time transfer API.
// Transfers settle synchronously: a 2xx response with a transfer ID
// means the money moved.
type InstantClient struct {
	http *resty.Client
}

func NewInstantClient(baseURL, apiKey string) *InstantClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json")
	return &InstantClient{http: client}
}

type instantTransferResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (c *InstantClient) Transfer(ctx context.Context, req Request) (string, error) {
	var out instantTransferResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"external_id": req.WithdrawalID,
			"destination": req.Destination,
			"amount":      req.Amount,
		}).
		SetResult(&out).
		Post("/v1/transfers")
	if err != nil {
		return "", fmt.Errorf("instant transfer request: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("instant transfer rejected: status %d: %s", resp.StatusCode(), resp.String())
	}
	if out.ID == "" || out.Status == TransferFailed {
		return "", fmt.Errorf("instant transfer not settled: status %q", out.Status)
	}
	return out.ID, nil
}

func (c *InstantClient) TransferStatus(ctx context.Context, ref string) (string, error) {
	var out instantTransferResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/v1/transfers/" + ref)
	if err != nil {
		return "", fmt.Errorf("transfer status request: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("transfer status rejected: status %d", resp.StatusCode())
	}
	return out.Status, nil
}
