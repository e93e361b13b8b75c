package models

// DisbursementRequest is the business payload accepted by both the MCP
// tool-call surface and the legacy REST endpoint. It lives only for the
// duration of one request.
type DisbursementRequest struct {
	BuilderID      string `json:"builder_id"`
	WalletAddress  string `json:"wallet_address"`
	GithubUsername string `json:"github_username"`
	Channel        string `json:"channel"`
}

// VerificationResult is the verdict returned by the verification authority.
// GithubUserID is present only when the authority supplies it for a verified
// user; it keys the post-payout bookkeeping call.
type VerificationResult struct {
	Verified     bool   `json:"verified"`
	Reason       string `json:"reason,omitempty"`
	GithubUserID *int64 `json:"github_user_id,omitempty"`
}

// DisbursementResponse mirrors the legacy REST response body and the text
// payload embedded in MCP tool-call results.
type DisbursementResponse struct {
	RequestID    string             `json:"request_id"`
	Status       string             `json:"status"`
	Message      string             `json:"message"`
	TxHash       string             `json:"tx_hash,omitempty"`
	Verification VerificationResult `json:"verification"`
}

// Tool is the static capability descriptor returned by tools/list.
type Tool struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	InputSchema ToolSchema `json:"inputSchema"`
}

type ToolSchema struct {
	Type       string                  `json:"type"`
	Properties map[string]ToolProperty `json:"properties"`
	Required   []string                `json:"required"`
}

type ToolProperty struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Enum        []string `json:"enum,omitempty"`
	Default     string   `json:"default,omitempty"`
}

// Supported request channels.
const (
	ChannelDiscord  = "discord"
	ChannelTelegram = "telegram"
	ChannelWeb      = "web"
)
