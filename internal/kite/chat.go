package kite

import (
	"context"
	"fmt"

	"github.com/ekaputhra/kitefarm/internal/agents"
	"github.com/ekaputhra/kitefarm/internal/utils"
)

// AgentMessage sends one chat message to an agent deployment and returns
// the reply. The reply arrives at the top level of the response; an empty
// one means the message was accepted without text.
func (c *Client) AgentMessage(ctx context.Context, ag agents.Agent, eoa, message string) (string, error) {
	payload := map[string]any{
		"service_id": ag.ServiceID,
		"subnet":     ag.Subnet,
		"stream":     false,
		"body": map[string]any{
			"roomId":   ag.Room,
			"userId":   eoa,
			"username": eoa,
			"message":  message,
			"timeDiff": 0,
			"date":     "1608",
		},
	}
	headers := c.originHeaders(c.bearer())
	env, err := c.post(ctx, c.cfg.OzoneBaseURL+"/agent/inference", payload, headers, "agent inference")
	if err != nil {
		return "", err
	}
	if env.Reply == "" {
		return "Received", nil
	}
	return env.Reply, nil
}

// SubmitReceipt records the exchange against the smart account and returns
// the receipt id used to look up settlement.
func (c *Client) SubmitReceipt(ctx context.Context, smartAccount, serviceID, message, reply string) (string, error) {
	body := map[string]any{
		"address":    smartAccount,
		"service_id": serviceID,
		"input":      []map[string]string{{"type": "text/plain", "value": message}},
		"output":     []map[string]string{{"type": "text/plain", "value": reply}},
	}
	env, err := c.post(ctx, c.cfg.NeoBaseURL+"/v2/submit_receipt", body, c.bearer(), "submit receipt")
	if err != nil {
		return "", err
	}
	var data struct {
		ID string `json:"id"`
	}
	if err := unmarshalData(env, &data, "submit receipt"); err != nil {
		return "", err
	}
	if data.ID == "" {
		return "", fmt.Errorf("submit receipt: missing id")
	}
	return data.ID, nil
}

// InferenceTx polls for the receipt's settlement transaction hash.
// Throttled lookups wait out the poll delay and retry within the same
// budget. Exhausting the budget is not an error; the empty hash reports
// the settlement as still pending.
func (c *Client) InferenceTx(ctx context.Context, receiptID string) (string, error) {
	for i := 0; i < c.cfg.ReceiptPollRetries; i++ {
		env, err := c.get(ctx, c.cfg.NeoBaseURL+"/v1/inference", map[string]string{"id": receiptID}, c.bearer(), "inference lookup")
		if err != nil {
			if Classify(err) != KindThrottled {
				return "", err
			}
			if err := utils.Sleep(ctx, c.cfg.ReceiptPollDelay()); err != nil {
				return "", err
			}
			continue
		}
		var data struct {
			TxHash string `json:"tx_hash"`
		}
		if err := unmarshalData(env, &data, "inference lookup"); err != nil {
			return "", err
		}
		if data.TxHash != "" {
			return data.TxHash, nil
		}
		if err := utils.Sleep(ctx, c.cfg.ReceiptPollDelay()); err != nil {
			return "", err
		}
	}
	return "", nil
}
