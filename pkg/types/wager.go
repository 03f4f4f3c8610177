package types

import "time"

// Credentials holds the opaque bearer tokens required by the packs bet endpoint.
// Values are forwarded verbatim and never parsed.
type Credentials struct {
	AccessToken   string
	LockdownToken string
}

// Complete reports whether both tokens are present.
func (c Credentials) Complete() bool {
	return c.AccessToken != "" && c.LockdownToken != ""
}

// MaskedAccessToken returns the access token shortened for display, e.g. "abcd1234...wxyz".
func (c Credentials) MaskedAccessToken() string {
	return MaskToken(c.AccessToken)
}

// MaskToken shortens a token to its first 8 and last 4 characters.
func MaskToken(token string) string {
	if len(token) <= 12 {
		return "***"
	}
	return token[:8] + "..." + token[len(token)-4:]
}

// WagerRequest is the body posted to the packs bet endpoint.
type WagerRequest struct {
	Currency   string `json:"currency"`
	Amount     int64  `json:"amount"`
	Identifier string `json:"identifier"`
}

// PacksBet is the bet payload returned on a successful wager.
type PacksBet struct {
	ID               string  `json:"id"`
	Amount           float64 `json:"amount"`
	Payout           float64 `json:"payout"`
	PayoutMultiplier float64 `json:"payoutMultiplier"`
	Currency         string  `json:"currency"`
}

// APIError is a single entry of the remote error list.
type APIError struct {
	ErrorType string `json:"errorType"`
	Message   string `json:"message"`
}

// WagerResponse is the union of the success and error body shapes.
type WagerResponse struct {
	PacksBet *PacksBet  `json:"packsBet,omitempty"`
	Errors   []APIError `json:"errors,omitempty"`
}

// WagerOutcome is a recorded successful wager.
type WagerOutcome struct {
	Index            int       `json:"index"`
	ID               string    `json:"id"`
	Amount           float64   `json:"amount"`
	Payout           float64   `json:"payout"`
	PayoutMultiplier float64   `json:"payoutMultiplier"`
	Currency         string    `json:"currency"`
	Timestamp        time.Time `json:"timestamp"`
}

// IsWin reports whether the outcome counts as a win (multiplier strictly above 1).
func (o WagerOutcome) IsWin() bool {
	return o.PayoutMultiplier > 1
}
