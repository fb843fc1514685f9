package kite

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaputhra/kitefarm/internal/agents"
)

func TestAgentMessage(t *testing.T) {
	t.Parallel()

	ag, err := agents.Lookup("Professor")
	require.NoError(t, err)

	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/agent/inference", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("Origin"))

		var body struct {
			ServiceID string `json:"service_id"`
			Subnet    string `json:"subnet"`
			Stream    bool   `json:"stream"`
			Body      struct {
				RoomID  string `json:"roomId"`
				UserID  string `json:"userId"`
				Message string `json:"message"`
			} `json:"body"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, ag.ServiceID, body.ServiceID)
		assert.Equal(t, ag.Subnet, body.Subnet)
		assert.False(t, body.Stream)
		assert.Equal(t, ag.Room, body.Body.RoomID)
		assert.Equal(t, testEOA, body.Body.UserID)
		assert.Equal(t, "what is staking?", body.Body.Message)

		fmt.Fprint(w, `{"reply":"Staking locks tokens to secure the network."}`)
	}))

	reply, err := c.AgentMessage(context.Background(), ag, testEOA, "what is staking?")
	require.NoError(t, err)
	assert.Equal(t, "Staking locks tokens to secure the network.", reply)
}

func TestAgentMessageEmptyReply(t *testing.T) {
	t.Parallel()

	ag, err := agents.Lookup("Sherlock")
	require.NoError(t, err)

	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{}}`)
	}))

	reply, err := c.AgentMessage(context.Background(), ag, testEOA, "hi")
	require.NoError(t, err)
	assert.Equal(t, "Received", reply)
}

func TestSubmitReceipt(t *testing.T) {
	t.Parallel()

	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/submit_receipt", r.URL.Path)

		var body struct {
			Address   string `json:"address"`
			ServiceID string `json:"service_id"`
			Input     []map[string]string
			Output    []map[string]string
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, testAA, body.Address)
		assert.Equal(t, "deployment_x", body.ServiceID)
		if assert.Len(t, body.Input, 1) {
			assert.Equal(t, "text/plain", body.Input[0]["type"])
			assert.Equal(t, "question", body.Input[0]["value"])
		}
		if assert.Len(t, body.Output, 1) {
			assert.Equal(t, "answer", body.Output[0]["value"])
		}

		fmt.Fprint(w, `{"data":{"id":"rcpt-9"}}`)
	}))

	id, err := c.SubmitReceipt(context.Background(), testAA, "deployment_x", "question", "answer")
	require.NoError(t, err)
	assert.Equal(t, "rcpt-9", id)
}

func TestSubmitReceiptMissingID(t *testing.T) {
	t.Parallel()

	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{}}`)
	}))

	_, err := c.SubmitReceipt(context.Background(), testAA, "deployment_x", "q", "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing id")
}

func TestInferenceTxPollsUntilSettled(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "rcpt-9", r.URL.Query().Get("id"))
		if calls.Add(1) == 1 {
			fmt.Fprint(w, `{"data":{}}`)
			return
		}
		fmt.Fprint(w, `{"data":{"tx_hash":"0xfeed"}}`)
	}))

	hash, err := c.InferenceTx(context.Background(), "rcpt-9")
	require.NoError(t, err)
	assert.Equal(t, "0xfeed", hash)
	assert.Equal(t, int32(2), calls.Load())
}

func TestInferenceTxRetriesThrottle(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"data":{"tx_hash":"0xbeef"}}`)
	}))

	hash, err := c.InferenceTx(context.Background(), "rcpt-1")
	require.NoError(t, err)
	assert.Equal(t, "0xbeef", hash)
}

func TestInferenceTxStillPending(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `{"data":{}}`)
	}))

	hash, err := c.InferenceTx(context.Background(), "rcpt-2")
	require.NoError(t, err)
	assert.Empty(t, hash)
	assert.Equal(t, int32(3), calls.Load())
}

func TestInferenceTxDomainErrorStops(t *testing.T) {
	t.Parallel()

	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":"unknown receipt"}`)
	}))

	_, err := c.InferenceTx(context.Background(), "rcpt-3")
	require.Error(t, err)
	assert.Equal(t, KindDomain, Classify(err))
}
