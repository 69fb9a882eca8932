package transactionclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cypherbank/banking/internal/domain"
	"github.com/cypherbank/banking/pkg/errorspkg"
)

func TestSubmit(t *testing.T) {
	toAccountID := int64(1)

	record := domain.Transaction{
		Type:           domain.Deposit,
		ToAccountID:    &toAccountID,
		Amount:         "100",
		IdempotencyKey: "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
	}

	stored := record
	stored.ID = 7
	stored.Timestamp = time.Now().Truncate(time.Second).UTC()

	testCases := []struct {
		name          string
		handler       http.HandlerFunc
		checkResponse func(res domain.Transaction, err error)
	}{
		{
			name: "BadRequest",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
			},
			checkResponse: func(res domain.Transaction, err error) {
				require.ErrorIs(t, err, errorspkg.ErrInternal)
			},
		},
		{
			name: "ServerError",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			checkResponse: func(res domain.Transaction, err error) {
				require.ErrorIs(t, err, errorspkg.ErrInternal)
			},
		},
		{
			name: "OK",
			handler: func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodPost, r.Method)
				require.Equal(t, "/transactions", r.URL.Path)
				require.Equal(t, "application/json", r.Header.Get("Content-Type"))

				var got domain.Transaction
				require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
				require.Equal(t, record, got)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusCreated)
				require.NoError(t, json.NewEncoder(w).Encode(stored))
			},
			checkResponse: func(res domain.Transaction, err error) {
				require.NoError(t, err)
				require.Equal(t, stored, res)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(tc.handler)
			defer server.Close()

			client := New(server.URL, server.Client())

			res, err := client.Submit(context.Background(), record)
			tc.checkResponse(res, err)
		})
	}
}

func TestSubmitConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client := New(server.URL, http.DefaultClient)

	_, err := client.Submit(context.Background(), domain.Transaction{Type: domain.Deposit, Amount: "1"})
	require.ErrorIs(t, err, errorspkg.ErrInternal)
}
