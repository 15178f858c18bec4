package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"diabeater-backend/internal/apperror"
)

const declinedMessage = "Payment failed. Please check your card details and try again."

// HTTPPaymentClient calls the payment-simulation endpoint over HTTP. A
// charge counts as successful only when the response is a 200 with a JSON
// body whose success field is true; anything else is a payment failure,
// including non-JSON 200s from intermediaries.
type HTTPPaymentClient struct {
	endpoint string
	client   *http.Client
	log      *zap.Logger
}

func NewHTTPPaymentClient(endpoint string, log *zap.Logger) *HTTPPaymentClient {
	return &HTTPPaymentClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
		log:      log,
	}
}

func (c *HTTPPaymentClient) Simulate(ctx context.Context, req PaymentRequest) (*PaymentResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode payment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build payment request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.log.Error("payment endpoint unreachable", zap.Error(err))
		return nil, apperror.PaymentFailed(declinedMessage)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, apperror.PaymentFailed(declinedMessage)
	}

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("payment endpoint returned non-200",
			zap.Int("status", resp.StatusCode), zap.ByteString("body", raw))
		return nil, apperror.PaymentFailed(declinedMessage)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		c.log.Warn("payment endpoint returned non-JSON body", zap.String("contentType", ct))
		return nil, apperror.PaymentFailed(declinedMessage)
	}

	var result PaymentResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, apperror.PaymentFailed(declinedMessage)
	}
	if !result.Success {
		msg := result.Message
		if msg == "" {
			msg = declinedMessage
		}
		return nil, apperror.PaymentFailed(msg)
	}
	return &result, nil
}
