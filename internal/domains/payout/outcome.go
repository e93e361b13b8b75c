package payout

import (
	"tbnb-faucet/go-gateway/pkg/models"
)

type Status string

const (
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusFailed   Status = "failed"
)

// Outcome is the terminal result of one disbursement request. Exactly one
// of the three statuses applies: Approved carries a confirmed transaction
// hash, Rejected carries a user-facing reason with no side effects beyond
// the verification call, Failed carries an execution error that occurred
// after eligibility was confirmed.
type Outcome struct {
	Status       Status
	RequestID    string
	TxHash       string
	Reason       string
	Err          error
	Verification models.VerificationResult
}

func Approved(requestID, txHash string, verification models.VerificationResult) Outcome {
	return Outcome{
		Status:       StatusApproved,
		RequestID:    requestID,
		TxHash:       txHash,
		Verification: verification,
	}
}

func Rejected(reason string) Outcome {
	return Outcome{Status: StatusRejected, Reason: reason}
}

func Failed(err error) Outcome {
	return Outcome{Status: StatusFailed, Err: err}
}

// Response renders an approved outcome as the wire-level disbursement body.
func (o Outcome) Response() models.DisbursementResponse {
	return models.DisbursementResponse{
		RequestID:    o.RequestID,
		Status:       string(o.Status),
		Message:      "Disbursement submitted to BSC testnet",
		TxHash:       o.TxHash,
		Verification: o.Verification,
	}
}
