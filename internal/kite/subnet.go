package kite

import (
	"context"

	"github.com/shopspring/decimal"
)

// Delegate stakes amount with a subnet and returns the settlement hash,
// which may be empty when the service settles asynchronously.
func (c *Client) Delegate(ctx context.Context, subnetAddr string, amount decimal.Decimal) (string, error) {
	body := map[string]any{
		"subnet_address": subnetAddr,
		"amount":         amount.InexactFloat64(),
	}
	env, err := c.post(ctx, c.cfg.OzoneBaseURL+"/subnet/delegate", body, c.bearer(), "delegate")
	if err != nil {
		return "", err
	}
	var data struct {
		TxHash string `json:"tx_hash"`
	}
	if err := unmarshalData(env, &data, "delegate"); err != nil {
		return "", err
	}
	return data.TxHash, nil
}

// ClaimRewards collects pending rewards from a subnet.
func (c *Client) ClaimRewards(ctx context.Context, subnetAddr string) (decimal.Decimal, error) {
	body := map[string]any{"subnet_address": subnetAddr}
	env, err := c.post(ctx, c.cfg.OzoneBaseURL+"/subnet/claim-rewards", body, c.bearer(), "claim rewards")
	if err != nil {
		return decimal.Zero, err
	}
	var data struct {
		ClaimAmount decimal.Decimal `json:"claim_amount"`
	}
	if err := unmarshalData(env, &data, "claim rewards"); err != nil {
		return decimal.Zero, err
	}
	return data.ClaimAmount, nil
}

// Undelegate releases amount from a subnet.
func (c *Client) Undelegate(ctx context.Context, subnetAddr string, amount decimal.Decimal) error {
	body := map[string]any{
		"subnet_address": subnetAddr,
		"amount":         amount.InexactFloat64(),
	}
	_, err := c.post(ctx, c.cfg.OzoneBaseURL+"/subnet/undelegate", body, c.bearer(), "undelegate")
	return err
}
