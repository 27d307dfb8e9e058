package paymill

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/commercekit/paymill-bridge/internal/domain"
	"github.com/commercekit/paymill-bridge/internal/domain/ports"
	pkgerrors "github.com/commercekit/paymill-bridge/pkg/errors"
	"github.com/commercekit/paymill-bridge/pkg/observability"
)

// Config contains the processor API connection settings. PrivateKey is
// the merchant credential; every call fails fast without it.
type Config struct {
	BaseURL    string
	PrivateKey string
	Timeout    time.Duration
}

// Client implements ports.ProcessorGateway against the Paymill-style
// JSON-over-HTTP API. Requests are form-encoded with the private key as
// HTTP basic auth user; responses carry data.response_code, where 20000
// is the only success value.
type Client struct {
	cfg        Config
	httpClient ports.HTTPClient
	logger     ports.Logger
}

// NewClient creates a gateway client with dependency injection
func NewClient(cfg Config, httpClient ports.HTTPClient, logger ports.Logger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		logger:     logger,
	}
}

// NewClientWithDefaults creates a gateway client with a default HTTP client
func NewClientWithDefaults(cfg Config, logger ports.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type responseData struct {
	ResponseCode int `json:"response_code"`
}

type resourceResponse struct {
	ID   string       `json:"id"`
	Data responseData `json:"data"`
}

type preauthResponse struct {
	Preauthorization struct {
		ID       string `json:"id"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
		Status   string `json:"status"`
	} `json:"preauthorization"`
	Data responseData `json:"data"`
}

type transactionResponse struct {
	ID               string       `json:"id"`
	Amount           int64        `json:"amount"`
	Currency         string       `json:"currency"`
	Description      string       `json:"description"`
	Status           string       `json:"status"`
	Preauthorization string       `json:"preauthorization"`
	Data             responseData `json:"data"`
}

// CreateClient implements ports.ProcessorGateway.CreateClient
func (c *Client) CreateClient(ctx context.Context, email, description string) (string, error) {
	form := url.Values{}
	form.Set("email", email)
	form.Set("description", description)

	var resp resourceResponse
	if err := c.post(ctx, "clients", form, &resp); err != nil {
		return "", err
	}

	c.logger.Info("client created", ports.String("client_id", resp.ID))
	return resp.ID, nil
}

// CreatePayment implements ports.ProcessorGateway.CreatePayment
func (c *Client) CreatePayment(ctx context.Context, token, clientID string) (string, error) {
	form := url.Values{}
	form.Set("token", token)
	form.Set("client", clientID)

	var resp resourceResponse
	if err := c.post(ctx, "payments", form, &resp); err != nil {
		return "", err
	}

	c.logger.Info("payment created", ports.String("payment_id", resp.ID))
	return resp.ID, nil
}

// CreatePreauthorization implements ports.ProcessorGateway.CreatePreauthorization
func (c *Client) CreatePreauthorization(ctx context.Context, req ports.PreauthorizationRequest) (*domain.Preauthorization, error) {
	form := url.Values{}
	form.Set("payment", req.PaymentID)
	form.Set("amount", strconv.FormatInt(req.AmountCents, 10))
	form.Set("currency", req.Currency)
	form.Set("source", req.Source)

	var resp preauthResponse
	if err := c.post(ctx, "preauthorizations", form, &resp); err != nil {
		return nil, err
	}

	c.logger.Info("preauthorization created from payment",
		ports.String("preauthorization_id", resp.Preauthorization.ID),
		ports.Int64("amount", req.AmountCents),
		ports.String("currency", req.Currency))

	return &domain.Preauthorization{
		ID:          resp.Preauthorization.ID,
		AmountCents: resp.Preauthorization.Amount,
		Currency:    resp.Preauthorization.Currency,
		Status:      resp.Preauthorization.Status,
	}, nil
}

// CreateTransactionFromPreauth implements ports.ProcessorGateway.CreateTransactionFromPreauth
func (c *Client) CreateTransactionFromPreauth(ctx context.Context, req ports.CaptureRequest) (*domain.GatewayTransaction, error) {
	form := url.Values{}
	form.Set("preauthorization", req.PreauthorizationID)
	form.Set("amount", strconv.FormatInt(req.AmountCents, 10))
	form.Set("currency", req.Currency)
	form.Set("description", req.Description)
	form.Set("source", req.Source)

	var resp transactionResponse
	if err := c.post(ctx, "transactions", form, &resp); err != nil {
		return nil, err
	}

	c.logger.Info("transaction created from preauthorization",
		ports.String("transaction_id", resp.ID),
		ports.String("preauthorization_id", req.PreauthorizationID),
		ports.Int64("amount", req.AmountCents))

	return &domain.GatewayTransaction{
		ID:                 resp.ID,
		PreauthorizationID: resp.Preauthorization,
		AmountCents:        resp.Amount,
		Currency:           resp.Currency,
		Description:        resp.Description,
		ResponseCode:       resp.Data.ResponseCode,
		Status:             resp.Status,
	}, nil
}

// post issues one form-encoded API call and decodes the envelope into
// out. The credential check happens before any network I/O.
func (c *Client) post(ctx context.Context, operation string, form url.Values, out interface{}) error {
	if c.cfg.PrivateKey == "" {
		c.logger.Error("no private key was set", ports.String("operation", operation))
		return domain.ErrMissingCredential
	}

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/" + operation
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.SetBasicAuth(c.cfg.PrivateKey, "")
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	c.logger.Debug("calling processor API", ports.String("operation", operation))

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			observability.GatewayRequests.WithLabelValues(operation, "timeout").Inc()
			return domain.WrapError(domain.ErrorCodeGatewayTimeout, "processor call timed out",
				pkgerrors.NewGatewayTimeout(operation))
		}
		observability.GatewayRequests.WithLabelValues(operation, "error").Inc()
		return domain.WrapError(domain.ErrorCodeGatewayError, "processor unreachable", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		observability.GatewayRequests.WithLabelValues(operation, "error").Inc()
		return domain.WrapError(domain.ErrorCodeGatewayError, "read processor response", err)
	}

	if httpResp.StatusCode >= http.StatusInternalServerError {
		observability.GatewayRequests.WithLabelValues(operation, "error").Inc()
		return domain.WrapError(domain.ErrorCodeGatewayError, "processor server error",
			pkgerrors.NewGatewayError(operation, httpResp.StatusCode, body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		observability.GatewayRequests.WithLabelValues(operation, "error").Inc()
		return domain.WrapError(domain.ErrorCodeGatewayError, "decode processor response", err)
	}

	// The envelope carries the code even on HTTP 200; absence (zero)
	// counts as success, matching the processor's contract.
	code := extractResponseCode(out)
	if code != 0 && code != ResponseCodeOK {
		c.logger.Error("invalid response code from processor",
			ports.String("operation", operation),
			ports.Int("response_code", code))
		observability.GatewayRequests.WithLabelValues(operation, "declined").Inc()
		return domain.WrapError(domain.ErrorCodeGatewayError, "invalid response code",
			GetResponseCode(code).ToGatewayError(operation, body))
	}

	observability.GatewayRequests.WithLabelValues(operation, "ok").Inc()
	return nil
}

func extractResponseCode(out interface{}) int {
	switch v := out.(type) {
	case *resourceResponse:
		return v.Data.ResponseCode
	case *preauthResponse:
		return v.Data.ResponseCode
	case *transactionResponse:
		return v.Data.ResponseCode
	}
	return 0
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
