package gtranslate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Safe-Deal/json-i18n-whisper/internal/apperrors"
	"google.golang.org/api/googleapi"
)

// quotaReasons are googleapi error reasons that mean "slow down" rather
// than "not allowed".
var quotaReasons = map[string]bool{
	"dailyLimitExceeded":    true,
	"rateLimitExceeded":     true,
	"userRateLimitExceeded": true,
	"quotaExceeded":         true,
}

func classifyError(err error) error {
	if err == nil {
		return nil
	}

	wrapped := fmt.Errorf("google translate request failed: %w", err)

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return apperrors.New(apperrors.KindTransient, "Google Translate request failed due to a network error.", wrapped)
	}

	switch {
	case gerr.Code == 429 || (gerr.Code == 403 && hasQuotaReason(gerr)):
		return apperrors.New(apperrors.KindRateLimit, fmt.Sprintf("Google Translate quota or rate limit exceeded (%d).", gerr.Code), wrapped)
	case gerr.Code == 401 || gerr.Code == 403:
		return apperrors.New(apperrors.KindAuth, fmt.Sprintf("Google Translate authentication/authorization failed (%d).", gerr.Code), wrapped)
	case gerr.Code == 400 && strings.Contains(strings.ToLower(gerr.Message), "api key"):
		return apperrors.New(apperrors.KindAuth, "Google Translate rejected the API key (400).", wrapped)
	case gerr.Code == 400:
		return apperrors.New(apperrors.KindBadRequest, "Google Translate rejected the request (400). Check the language codes.", wrapped)
	case gerr.Code >= 500:
		return apperrors.New(apperrors.KindTransient, fmt.Sprintf("Google Translate service error (%d).", gerr.Code), wrapped)
	default:
		return apperrors.New(apperrors.KindBadRequest, fmt.Sprintf("Google Translate API error (%d).", gerr.Code), wrapped)
	}
}

func hasQuotaReason(gerr *googleapi.Error) bool {
	for _, item := range gerr.Errors {
		if quotaReasons[item.Reason] {
			return true
		}
	}
	return false
}
