package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", truncateString("short", 10))
	assert.Equal(t, "exactly10!", truncateString("exactly10!", 10))
	assert.Equal(t, "0123456...", truncateString("0123456789ABC", 10))
}

func TestRenderSummary(t *testing.T) {
	t.Parallel()

	out := renderSummary([]SummaryRow{
		{Account: "wallet-1", Chats: "9/9", Quiz: "passed", Staked: "1", Claimed: "0.2", Status: "ok"},
		{Account: "wallet-2", Chats: "3/9", Quiz: "-", Staked: "0", Claimed: "0", Status: "rate limited"},
	})

	assert.Contains(t, out, "ACCOUNT")
	assert.Contains(t, out, "wallet-1")
	assert.Contains(t, out, "rate limited")
}

func TestRenderStakes(t *testing.T) {
	t.Parallel()

	out := renderStakes([]StakeRow{
		{Subnet: "Bitte", Staked: "Yes", Since: "3.02", ToUnlock: "20:58:12"},
		{Subnet: "Bitmind", Staked: "No", Since: "-", ToUnlock: "-"},
	})

	assert.Contains(t, out, "SUBNET")
	assert.Contains(t, out, "Bitte")
	assert.Contains(t, out, "20:58:12")
}
