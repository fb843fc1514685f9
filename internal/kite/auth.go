package kite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// SignIn seals the account address into a signin token, exchanges it for a
// session bearer and registers the account with the points service. A
// registration rejected with "already exists" is not an error.
func (c *Client) SignIn(ctx context.Context, eoa, smartAccount string) error {
	token, err := SealAuthToken(eoa, c.cfg.AuthSecretHex)
	if err != nil {
		return fmt.Errorf("signin: %w", err)
	}
	headers := c.originHeaders(map[string]string{
		"Accept":        "*/*",
		"Authorization": token,
	})
	payload := map[string]string{"eoa": eoa, "aa_address": smartAccount}
	env, err := c.post(ctx, c.cfg.NeoBaseURL+"/v2/signin", payload, headers, "signin")
	if err != nil {
		return err
	}
	var data struct {
		AccessToken string `json:"access_token"`
	}
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return fmt.Errorf("signin: %w", err)
		}
	}
	if data.AccessToken == "" {
		return fmt.Errorf("signin: missing access_token")
	}
	c.accessToken = data.AccessToken
	return c.register(ctx, eoa, smartAccount)
}

func (c *Client) register(ctx context.Context, eoa, smartAccount string) error {
	body := map[string]any{
		"registration_type_id":  1,
		"user_account_id":       "",
		"user_account_name":     "",
		"eoa_address":           eoa,
		"smart_account_address": smartAccount,
		"referral_code":         "",
	}
	_, err := c.post(ctx, c.cfg.OzoneBaseURL+"/auth", body, c.bearer(), "register")
	var apiErr *APIError
	if errors.As(err, &apiErr) && strings.Contains(strings.ToLower(apiErr.Message), "already exists") {
		return nil
	}
	return err
}
