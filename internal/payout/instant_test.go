package payout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInstantClientTransfer(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/transfers", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "tr_abc", "status": TransferSettled})
	}))
	defer srv.Close()

	client := NewInstantClient(srv.URL, "secret-key")

	ref, err := client.Transfer(context.Background(), Request{
		WithdrawalID: "w1",
		CreatorID:    "creator1",
		Destination:  "pix:alice",
		Amount:       170.00,
	})

	assert.NoError(t, err)
	assert.Equal(t, "tr_abc", ref)
	assert.Equal(t, "Bearer secret-key", gotAuth)
	assert.Equal(t, "w1", gotBody["external_id"])
	assert.Equal(t, "pix:alice", gotBody["destination"])
	assert.Equal(t, 170.00, gotBody["amount"])
}

func TestInstantClientTransferRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewInstantClient(srv.URL, "secret-key")

	_, err := client.Transfer(context.Background(), Request{WithdrawalID: "w1", Amount: 10})
	assert.Error(t, err)
}

func TestInstantClientTransferUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewInstantClient(srv.URL, "secret-key")

	_, err := client.Transfer(context.Background(), Request{WithdrawalID: "w1", Amount: 10})
	assert.Error(t, err)
}

func TestInstantClientTransferStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/transfers/tr_abc", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "tr_abc", "status": TransferPending})
	}))
	defer srv.Close()

	client := NewInstantClient(srv.URL, "secret-key")

	status, err := client.TransferStatus(context.Background(), "tr_abc")
	assert.NoError(t, err)
	assert.Equal(t, TransferPending, status)
}
