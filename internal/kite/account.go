package kite

import (
	"context"

	"github.com/shopspring/decimal"
)

// Profile is the /me identity summary.
type Profile struct {
	Username string `json:"username"`
	Rank     int    `json:"rank"`
	XPPoints int    `json:"total_xp_points"`
}

// Balances is the account's spendable token view.
type Balances struct {
	Kite decimal.Decimal `json:"kite"`
	Usdt decimal.Decimal `json:"usdt"`
}

// StakedTotals is the account's lifetime staking summary.
type StakedTotals struct {
	Staked       decimal.Decimal `json:"total_staked_amount"`
	ClaimRewards decimal.Decimal `json:"total_claim_reward_amount"`
}

func (c *Client) Profile(ctx context.Context) (Profile, error) {
	env, err := c.get(ctx, c.cfg.OzoneBaseURL+"/me", nil, c.bearer(), "profile")
	if err != nil {
		return Profile{}, err
	}
	var data struct {
		Profile Profile `json:"profile"`
	}
	if err := unmarshalData(env, &data, "profile"); err != nil {
		return Profile{}, err
	}
	if data.Profile.Username == "" {
		data.Profile.Username = "-"
	}
	return data.Profile, nil
}

func (c *Client) Balances(ctx context.Context) (Balances, error) {
	env, err := c.get(ctx, c.cfg.OzoneBaseURL+"/me/balance", nil, c.bearer(), "balances")
	if err != nil {
		return Balances{}, err
	}
	var data struct {
		Balances Balances `json:"balances"`
	}
	if err := unmarshalData(env, &data, "balances"); err != nil {
		return Balances{}, err
	}
	return data.Balances, nil
}

func (c *Client) StakedTotals(ctx context.Context) (StakedTotals, error) {
	env, err := c.get(ctx, c.cfg.OzoneBaseURL+"/me/staked", nil, c.bearer(), "staked totals")
	if err != nil {
		return StakedTotals{}, err
	}
	var totals StakedTotals
	if err := unmarshalData(env, &totals, "staked totals"); err != nil {
		return StakedTotals{}, err
	}
	return totals, nil
}
