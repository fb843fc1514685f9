package kite

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// Kind is the three-way outcome every remote call resolves to.
type Kind int

const (
	KindOK Kind = iota
	KindDomain
	KindThrottled
)

// ErrRateLimited marks responses where the service is shedding load rather
// than rejecting this particular request.
var ErrRateLimited = errors.New("rate limited")

// APIError is a business-rule rejection from the service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Classify buckets an error returned by any client method.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindOK
	case errors.Is(err, ErrRateLimited):
		return KindThrottled
	default:
		return KindDomain
	}
}

// envelope is the common wrapper on service and RPC responses. Endpoints
// unmarshal Data or Result further on their own.
type envelope struct {
	Error  string          `json:"error"`
	Data   json.RawMessage `json:"data"`
	Reply  string          `json:"reply"`
	Result json.RawMessage `json:"result"`
}

// decode classifies one completed exchange. Throttling is recognized by
// status 429 or by the error text; any other error field or error status is
// a domain rejection. A body that fails to decode is tolerated as an empty
// success unless the status already signals an error, because several
// endpoints return nothing useful on success.
func decode(resp *resty.Response, err error, op string) (*envelope, error) {
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	status := resp.StatusCode()
	if status == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%s: %w", op, ErrRateLimited)
	}
	var env envelope
	if jsonErr := json.Unmarshal(resp.Body(), &env); jsonErr != nil {
		if status >= http.StatusBadRequest {
			return nil, fmt.Errorf("%s: %w", op, &APIError{Status: status, Message: fmt.Sprintf("HTTP %d", status)})
		}
		return &envelope{}, nil
	}
	if env.Error != "" {
		low := strings.ToLower(env.Error)
		if strings.Contains(low, "too many") || (strings.Contains(low, "rate") && strings.Contains(low, "limit")) {
			return nil, fmt.Errorf("%s: %w", op, ErrRateLimited)
		}
		return nil, fmt.Errorf("%s: %w", op, &APIError{Status: status, Message: env.Error})
	}
	if status >= http.StatusBadRequest {
		return nil, fmt.Errorf("%s: %w", op, &APIError{Status: status, Message: fmt.Sprintf("HTTP %d", status)})
	}
	return &env, nil
}

// unmarshalData decodes the data payload into v, tolerating an absent one.
func unmarshalData(env *envelope, v any, op string) error {
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
