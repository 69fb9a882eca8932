// Package transactionclient provides the synchronous HTTP client used to
// submit transaction records to the transaction log service.
package transactionclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/cypherbank/banking/internal/domain"
	"github.com/cypherbank/banking/pkg/errorspkg"
)

// Client submits transaction records to the transaction log service.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a transaction client for the given base URL.
func New(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
	}
}

// Submit posts the record and returns the stored record with its
// assigned id and timestamp.
func (c *Client) Submit(ctx context.Context, transaction domain.Transaction) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	body, err := json.Marshal(transaction)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.Transaction{}, errorspkg.ErrInternal
	}

	url := c.baseURL + "/transactions"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		l.Error().Err(err).Send()
		return domain.Transaction{}, errorspkg.ErrInternal
	}

	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		l.Error().Err(err).Str("url", url).Send()
		return domain.Transaction{}, errorspkg.ErrInternal
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusCreated {
		l.Error().Int("status_code", res.StatusCode).Str("url", url).Send()
		return domain.Transaction{}, errorspkg.ErrInternal
	}

	var stored domain.Transaction
	if err := json.NewDecoder(res.Body).Decode(&stored); err != nil {
		l.Error().Err(err).Str("url", url).Send()
		return domain.Transaction{}, errorspkg.ErrInternal
	}

	return stored, nil
}
