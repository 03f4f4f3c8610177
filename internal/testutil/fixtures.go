package testutil

import (
	"fmt"
	"time"

	"github.com/mselser95/packs-bot/pkg/types"
)

// TestCredentials returns a complete credential pair.
func TestCredentials() types.Credentials {
	return types.Credentials{
		AccessToken:   "access-token-0123456789abcdef",
		LockdownToken: "lockdown-token-0123456789abcdef",
	}
}

// SuccessBody returns a packs bet success body.
func SuccessBody(id string, amount float64, multiplier float64) string {
	return fmt.Sprintf(
		`{"packsBet":{"id":%q,"amount":%g,"payout":%g,"payoutMultiplier":%g,"currency":"gold"}}`,
		id, amount, amount*multiplier, multiplier,
	)
}

// ErrorBody returns an error-list body with a single entry.
func ErrorBody(errorType string, message string) string {
	return fmt.Sprintf(`{"errors":[{"errorType":%q,"message":%q}]}`, errorType, message)
}

// SuccessReply is a 200 reply with a success body.
func SuccessReply(id string, amount float64, multiplier float64) Reply {
	return Reply{Status: 200, Body: SuccessBody(id, amount, multiplier)}
}

// InsufficientBalanceReply is the remote's balance-exhausted reply.
func InsufficientBalanceReply() Reply {
	return Reply{Status: 400, Body: ErrorBody("insufficientBalance", "You do not have enough balance to do that.")}
}

// InvalidCredentialsReply is the remote's unauthenticated reply.
func InvalidCredentialsReply() Reply {
	return Reply{Status: 401, Body: ErrorBody("unauthenticated", "Invalid access token")}
}

// RateLimitedReply is a 429 reply with a slow-down message.
func RateLimitedReply() Reply {
	return Reply{Status: 429, Body: ErrorBody("rateLimit", "Please slow down")}
}

// CreateTestOutcome creates a recorded outcome with payout = amount * multiplier.
func CreateTestOutcome(index int, amount float64, multiplier float64) types.WagerOutcome {
	return types.WagerOutcome{
		Index:            index,
		ID:               fmt.Sprintf("bet-%d", index),
		Amount:           amount,
		Payout:           amount * multiplier,
		PayoutMultiplier: multiplier,
		Currency:         "gold",
		Timestamp:        time.Date(2025, 1, 1, 0, 0, index, 0, time.UTC),
	}
}

// LookupBody returns a GraphQL BetLookup success body.
func LookupBody(betID string, iid string, multiplier float64) string {
	return fmt.Sprintf(`{"data":{"bet":{"id":%q,"iid":%q,"type":"casino","scope":"casino",`+
		`"game":{"name":"Packs","slug":"packs"},`+
		`"bet":{"id":%q,"active":false,"payoutMultiplier":%g,"amount":1000,"payout":%g,`+
		`"updatedAt":"Wed, 01 Jan 2025 00:00:00 GMT","currency":"gold","game":"packs","user":{"name":"player1"}}}}}`,
		betID, iid, betID, multiplier, 1000*multiplier)
}
