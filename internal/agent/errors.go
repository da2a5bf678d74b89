package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/pkg/models"
)

// ErrorCode classifies a site scrape failure
type ErrorCode string

const (
	CodeConfig       ErrorCode = "CONFIG"
	CodeNavigation   ErrorCode = "NAVIGATION"
	CodeBotChallenge ErrorCode = "BOT_CHALLENGE"
	CodeSelector     ErrorCode = "SELECTOR"
	CodeExtraction   ErrorCode = "EXTRACTION"
	CodeTimeout      ErrorCode = "TIMEOUT"
)

// ScrapeError carries the failure class for one site. It is always folded
// into that site's SiteStatus and never crosses site boundaries.
type ScrapeError struct {
	Code       ErrorCode
	Site       string
	Message    string
	Underlying error
}

func (e *ScrapeError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s [%s]: %s: %v", e.Code, e.Site, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s [%s]: %s", e.Code, e.Site, e.Message)
}

func (e *ScrapeError) Unwrap() error { return e.Underlying }

func (e *ScrapeError) Is(target error) bool {
	if t, ok := target.(*ScrapeError); ok {
		return e.Code == t.Code
	}
	return errors.Is(e.Underlying, target)
}

// StatusCode maps an error to the terminal SiteStatus value
func (e *ScrapeError) StatusCode() models.StatusCode {
	switch e.Code {
	case CodeTimeout:
		return models.StatusTimeout
	case CodeBotChallenge:
		return models.StatusBotChallenge
	case CodeSelector:
		return models.StatusSelectorError
	default:
		return models.StatusError
	}
}

func newError(code ErrorCode, site, msg string, err error) *ScrapeError {
	return &ScrapeError{Code: code, Site: site, Message: msg, Underlying: err}
}

// isDeadline reports whether err stems from a context deadline or cancellation
func isDeadline(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
