package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RazorpayClient creates orders through the Razorpay Orders API.
type RazorpayClient struct {
	baseURL   string
	keyID     string
	keySecret string
	timeout   time.Duration
}

// NewRazorpayClient builds a client. baseURL is normally https://api.razorpay.com.
func NewRazorpayClient(baseURL, keyID, keySecret string, timeout time.Duration) *RazorpayClient {
	return &RazorpayClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		keyID:     keyID,
		keySecret: keySecret,
		timeout:   timeout,
	}
}

type razorpayOrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type razorpayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type razorpayError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder posts a new order. The amount is sent in paise.
func (c *RazorpayClient) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout || timeout <= 0 {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return nil, context.DeadlineExceeded
	}

	agent := fiber.Post(c.baseURL + "/v1/orders")
	agent.BasicAuth(c.keyID, c.keySecret)
	agent.Timeout(timeout)
	agent.JSON(razorpayOrderRequest{
		Amount:   ToMinorUnits(req.Amount),
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Notes:    req.Notes,
	})

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("razorpay create order: %w", errors.Join(errs...))
	}
	if status < 200 || status >= 300 {
		var apiErr razorpayError
		_ = json.Unmarshal(body, &apiErr)
		return nil, &GatewayError{Status: status, Code: apiErr.Error.Code, Description: apiErr.Error.Description}
	}

	var out razorpayOrder
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode razorpay order: %w", err)
	}
	if out.ID == "" {
		return nil, errors.New("razorpay returned an order without id")
	}
	return &Order{
		ID:       out.ID,
		Amount:   out.Amount,
		Currency: out.Currency,
		Receipt:  out.Receipt,
		Status:   out.Status,
	}, nil
}
