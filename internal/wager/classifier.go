package wager

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/mselser95/packs-bot/pkg/types"
)

// throttleStatuses are the HTTP statuses the remote uses when shedding load.
var throttleStatuses = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

var slowDownPattern = regexp.MustCompile(`(?i)please\s+slow\s+down`)

// Classify maps an HTTP status and the parsed error list to a classification.
// Fatal checks run before any retry-eligibility check, so a fatal error body
// wins even when it arrives with a throttle status.
func Classify(status int, errs []types.APIError) types.Classification {
	if hasInsufficientBalance(errs) {
		return types.FatalInsufficientBalance
	}

	if hasInvalidCredentials(errs) {
		return types.FatalInvalidCredentials
	}

	if throttleStatuses[status] || looksLikeThrottle(errs) {
		return types.RateLimited
	}

	if status < 200 || status > 299 {
		return types.RetryableFailure
	}

	return types.Success
}

func hasInsufficientBalance(errs []types.APIError) bool {
	for _, e := range errs {
		if e.ErrorType == "insufficientBalance" {
			return true
		}
		if strings.Contains(strings.ToLower(e.Message), "not have enough balance") {
			return true
		}
	}
	return false
}

func hasInvalidCredentials(errs []types.APIError) bool {
	for _, e := range errs {
		if e.ErrorType == "unauthenticated" || e.ErrorType == "unauthorized" {
			return true
		}
		msg := strings.ToLower(e.Message)
		if strings.Contains(msg, "token") ||
			strings.Contains(msg, "unauthorized") ||
			strings.Contains(msg, "unauthenticated") {
			return true
		}
	}
	return false
}

func looksLikeThrottle(errs []types.APIError) bool {
	for _, e := range errs {
		if e.ErrorType == "parallelCasinoBet" || slowDownPattern.MatchString(e.Message) {
			return true
		}
	}
	return false
}
