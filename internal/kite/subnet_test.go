package kite

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSubnet = "0xb132001567650917d6bd695d1fab55db7986e9a5"

func TestDelegate(t *testing.T) {
	t.Parallel()

	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/subnet/delegate", r.URL.Path)

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, testSubnet, body["subnet_address"])
		assert.Equal(t, 1.0, body["amount"])

		fmt.Fprint(w, `{"data":{"tx_hash":"0xfeed"}}`)
	}))

	hash, err := c.Delegate(context.Background(), testSubnet, decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.Equal(t, "0xfeed", hash)
}

func TestDelegateAsyncSettlement(t *testing.T) {
	t.Parallel()

	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{}}`)
	}))

	hash, err := c.Delegate(context.Background(), testSubnet, decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.Empty(t, hash)
}

func TestClaimRewards(t *testing.T) {
	t.Parallel()

	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/subnet/claim-rewards", r.URL.Path)
		fmt.Fprint(w, `{"data":{"claim_amount":"0.42"}}`)
	}))

	amount, err := c.ClaimRewards(context.Background(), testSubnet)
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.RequireFromString("0.42")), "got %s", amount)
}

func TestUndelegate(t *testing.T) {
	t.Parallel()

	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/subnet/undelegate", r.URL.Path)

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 1.0, body["amount"])

		fmt.Fprint(w, `{"data":{}}`)
	}))

	assert.NoError(t, c.Undelegate(context.Background(), testSubnet, decimal.NewFromInt(1)))
}

func TestUndelegateTooShort(t *testing.T) {
	t.Parallel()

	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":"delegated duration too short"}`)
	}))

	err := c.Undelegate(context.Background(), testSubnet, decimal.NewFromInt(1))
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Message, "too short")
}
