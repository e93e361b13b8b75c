package rpc

import (
	"tbnb-faucet/go-gateway/pkg/models"
)

const toolIssueTBNB = "issue_tbnb"

// availableTools returns the static capability descriptor for tools/list.
func availableTools() []models.Tool {
	return []models.Tool{
		{
			Name: toolIssueTBNB,
			Description: "Request tBNB payout for a verified GitHub user. Verifies the user via " +
				"GitHub API, checks account age, repository count, and rate limits, then sends " +
				"tBNB to the specified wallet address on BSC testnet.",
			InputSchema: models.ToolSchema{
				Type: "object",
				Properties: map[string]models.ToolProperty{
					"github_username": {
						Type: "string",
						Description: "GitHub username for verification. Must have at least 1 " +
							"public repository and account age >= 30 days.",
					},
					"wallet_address": {
						Type: "string",
						Description: "BSC (Binance Smart Chain) wallet address to receive tBNB. " +
							"Must be a valid Ethereum-compatible address.",
					},
					"builder_id": {
						Type: "string",
						Description: "Optional builder identifier (e.g., Discord/Telegram user " +
							"ID). Defaults to auto-generated ID.",
					},
					"channel": {
						Type: "string",
						Description: "Support channel where request originated. Options: " +
							"'discord', 'telegram', 'web'. Defaults to 'web'.",
						Enum:    []string{models.ChannelDiscord, models.ChannelTelegram, models.ChannelWeb},
						Default: models.ChannelWeb,
					},
				},
				Required: []string{"github_username", "wallet_address"},
			},
		},
	}
}
