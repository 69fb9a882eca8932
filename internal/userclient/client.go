// Package userclient provides the synchronous HTTP client for the user
// service directory lookups.
package userclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/cypherbank/banking/internal/domain"
	"github.com/cypherbank/banking/pkg/errorspkg"
)

// Client resolves users owned by the user service.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a user client for the given base URL.
func New(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
	}
}

// Get returns the user with the given id.
func (c *Client) Get(ctx context.Context, id int64) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	url := fmt.Sprintf("%s/users/%d", c.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.User{}, errorspkg.ErrInternal
	}

	res, err := c.http.Do(req)
	if err != nil {
		l.Error().Err(err).Str("url", url).Send()
		return domain.User{}, errorspkg.ErrInternal
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return domain.User{}, domain.ErrUserNotFound
	default:
		l.Error().Int("status_code", res.StatusCode).Str("url", url).Send()
		return domain.User{}, errorspkg.ErrInternal
	}

	var user domain.User
	if err := json.NewDecoder(res.Body).Decode(&user); err != nil {
		l.Error().Err(err).Str("url", url).Send()
		return domain.User{}, errorspkg.ErrInternal
	}

	return user, nil
}
