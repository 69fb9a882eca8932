// Package accountclient provides the synchronous HTTP client for the
// account service directory lookups.
package accountclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/cypherbank/banking/internal/domain"
	"github.com/cypherbank/banking/pkg/errorspkg"
)

// Client resolves accounts owned by the account service.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns an account client for the given base URL.
func New(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
	}
}

// Get returns the account with the given id.
func (c *Client) Get(ctx context.Context, id int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	url := fmt.Sprintf("%s/accounts/%d", c.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.Account{}, errorspkg.ErrInternal
	}

	res, err := c.http.Do(req)
	if err != nil {
		l.Error().Err(err).Str("url", url).Send()
		return domain.Account{}, errorspkg.ErrInternal
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return domain.Account{}, domain.ErrAccountNotFound
	default:
		l.Error().Int("status_code", res.StatusCode).Str("url", url).Send()
		return domain.Account{}, errorspkg.ErrInternal
	}

	var account domain.Account
	if err := json.NewDecoder(res.Body).Decode(&account); err != nil {
		l.Error().Err(err).Str("url", url).Send()
		return domain.Account{}, errorspkg.ErrInternal
	}

	return account, nil
}

// ListByUser returns the accounts owned by the given user.
func (c *Client) ListByUser(ctx context.Context, userID int64) ([]domain.Account, error) {
	l := zerolog.Ctx(ctx)

	url := fmt.Sprintf("%s/accounts/user/%d", c.baseURL, userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	res, err := c.http.Do(req)
	if err != nil {
		l.Error().Err(err).Str("url", url).Send()
		return nil, errorspkg.ErrInternal
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		l.Error().Int("status_code", res.StatusCode).Str("url", url).Send()
		return nil, errorspkg.ErrInternal
	}

	var accounts []domain.Account
	if err := json.NewDecoder(res.Body).Decode(&accounts); err != nil {
		l.Error().Err(err).Str("url", url).Send()
		return nil, errorspkg.ErrInternal
	}

	return accounts, nil
}
