package payment

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// Client talks to the external payment gateway. The local order must
// already exist before Initiate is called so that the webhook can
// always find a matching order by transaction id.
type Client struct {
	APIURL     string
	APIKey     string
	SiteID     string
	PrivateKey string
	NotifyURL  string
	ReturnURL  string

	httpClient *http.Client
}

// NewClient builds a gateway client with a bounded request timeout. A
// timed-out initiation leaves the order in PENDING so the user can retry.
func NewClient(apiURL, apiKey, siteID, privateKey, notifyURL, returnURL string, timeout time.Duration) *Client {
	return &Client{
		APIURL:     apiURL,
		APIKey:     apiKey,
		SiteID:     siteID,
		PrivateKey: privateKey,
		NotifyURL:  notifyURL,
		ReturnURL:  returnURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// InitiateRequest carries everything the gateway needs to open a
// payment session for one order.
type InitiateRequest struct {
	TransactionID string
	Amount        string
	Currency      string
	Description   string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Channel       string
}

// InitiateResult is the outcome of a payment initiation. A gateway
// refusal is reported through Success=false, not through an error; the
// caller decides the HTTP status.
type InitiateResult struct {
	Success          bool   `json:"success"`
	Message          string `json:"message"`
	TransactionID    string `json:"transaction_id"`
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorization_url"`
}

type gatewayResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Reference        string `json:"reference"`
		AuthorizationURL string `json:"authorization_url"`
		PaymentURL       string `json:"payment_url"`
	} `json:"data"`
}

// Initiate posts a payment-initiation request to the gateway and parses
// the result. Transport failures are returned as errors; business
// refusals come back as a non-success result.
func (c *Client) Initiate(req InitiateRequest) (InitiateResult, error) {
	body := map[string]interface{}{
		"apikey":                c.APIKey,
		"site_id":               c.SiteID,
		"transaction_id":        req.TransactionID,
		"amount":                req.Amount,
		"currency":              req.Currency,
		"description":           req.Description,
		"customer_name":         req.CustomerName,
		"customer_email":        req.CustomerEmail,
		"customer_phone_number": req.CustomerPhone,
		"channels":              req.Channel,
		"notify_url":            c.NotifyURL,
		"return_url":            c.ReturnURL,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return InitiateResult{}, err
	}

	httpReq, err := http.NewRequest(http.MethodPost, c.APIURL, bytes.NewReader(payload))
	if err != nil {
		return InitiateResult{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	log.WithField("transaction_id", req.TransactionID).Debug("sending payment initiation to gateway")
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return InitiateResult{}, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	var gw gatewayResponse
	if err := json.NewDecoder(resp.Body).Decode(&gw); err != nil {
		return InitiateResult{}, fmt.Errorf("invalid gateway response: %w", err)
	}

	result := InitiateResult{
		Success:       gw.Code == "201" || gw.Code == "200",
		Message:       gw.Message,
		TransactionID: req.TransactionID,
		Reference:     gw.Data.Reference,
	}
	result.AuthorizationURL = gw.Data.AuthorizationURL
	if result.AuthorizationURL == "" {
		result.AuthorizationURL = gw.Data.PaymentURL
	}
	return result, nil
}

// ComputeSignature returns the expected webhook signature: an
// HMAC-SHA256 over "reference|event|amount" keyed with the private key.
func (c *Client) ComputeSignature(reference, event, amount string) string {
	mac := hmac.New(sha256.New, []byte(c.PrivateKey))
	mac.Write([]byte(reference + "|" + event + "|" + amount))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature compares a supplied signature in constant time.
func (c *Client) VerifySignature(reference, event, amount, signature string) bool {
	expected := c.ComputeSignature(reference, event, amount)
	return hmac.Equal([]byte(expected), []byte(signature))
}
