// Package payment implements the pix charge gateway. Charges carry the
// caller-chosen txid; the provider echoes it back on the webhook, which
// is the only correlation between a payment and an order.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"storebot/internal/pkg/clock"
	"storebot/internal/pkg/config"
	"storebot/internal/pkg/errs"
	"storebot/internal/usecase/commands"
)

const requestTimeout = 15 * time.Second

type PixClient struct {
	http  *http.Client
	cfg   config.PaymentConfig
	clock clock.Clock

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewPixClient(cfg config.PaymentConfig, clk clock.Clock) *PixClient {
	return &PixClient{
		http:  &http.Client{Timeout: requestTimeout},
		cfg:   cfg,
		clock: clk,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type chargeRequest struct {
	Calendar struct {
		Expiration int `json:"expiracao"`
	} `json:"calendario"`
	Value struct {
		Original string `json:"original"`
	} `json:"valor"`
	PixKey      string `json:"chave"`
	Description string `json:"solicitacaoPagador,omitempty"`
}

type chargeResponse struct {
	TxID     string `json:"txid"`
	Location string `json:"location"`
	LocID    int64  `json:"loc_id"`
}

type qrCodeResponse struct {
	QRCode      string `json:"qrcode"`
	ImageBase64 string `json:"imagemQrcode"`
}

func (c *PixClient) CreateCharge(ctx context.Context, txid string, amountCents int64, description string) (*commands.Charge, error) {
	token, err := c.authToken(ctx)
	if err != nil {
		return nil, err
	}

	req := chargeRequest{PixKey: c.cfg.PixKey, Description: description}
	req.Calendar.Expiration = c.cfg.ChargeExpiry
	req.Value.Original = fmt.Sprintf("%d.%02d", amountCents/100, amountCents%100)

	var created chargeResponse
	err = c.do(ctx, token, http.MethodPut, "/v2/cob/"+url.PathEscape(txid), req, &created)
	if err != nil {
		return nil, errs.Wrap(err, "failed to create pix charge")
	}

	var qr qrCodeResponse
	err = c.do(ctx, token, http.MethodGet, fmt.Sprintf("/v2/loc/%d/qrcode", created.LocID), nil, &qr)
	if err != nil {
		return nil, errs.Wrap(err, "failed to fetch charge qrcode")
	}

	return &commands.Charge{
		TxID:        txid,
		QRCodeText:  qr.QRCode,
		QRCodeImage: qr.ImageBase64,
		AmountCents: amountCents,
		ExpiresAt:   c.clock.Now().Add(time.Duration(c.cfg.ChargeExpiry) * time.Second),
	}, nil
}

// authToken caches the OAuth client-credentials token until shortly
// before expiry.
func (c *PixClient) authToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && c.clock.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIBaseURL+"/oauth/token",
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errs.Wrap(err, "failed to obtain payment token")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("payment auth returned %d: %s", resp.StatusCode, string(data))
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", errs.Wrap(err, "failed to decode payment token")
	}

	c.accessToken = tok.AccessToken
	c.tokenExpiry = c.clock.Now().Add(time.Duration(tok.ExpiresIn-30) * time.Second)
	return c.accessToken, nil
}

func (c *PixClient) do(ctx context.Context, token, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.APIBaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("payment API returned %d: %s", resp.StatusCode, string(data))
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

var _ commands.PaymentGateway = (*PixClient)(nil)
