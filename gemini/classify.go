package gemini

import (
	"errors"
	"regexp"
	"strconv"
	"time"
)

// Kind partitions generation failures by how the fallback loop should react.
type Kind int

const (
	// KindOther is any failure with no special handling: give up on the
	// current model immediately and advance to the next one.
	KindOther Kind = iota
	// KindNotFound means the model name is unknown to the provider.
	KindNotFound
	// KindRateLimited means the provider throttled us; the same model is
	// worth retrying after a pause.
	KindRateLimited
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "other"
	}
}

var (
	notFoundRe  = regexp.MustCompile(`(?i)404|NOT_FOUND|model(.+)?not(.+)?found`)
	rateLimitRe = regexp.MustCompile(`(?i)429|rate limit`)
)

// Classify maps a generation error onto a Kind. Structured status codes
// win; message text is the fallback for errors that lost their structure
// on the way here.
func Classify(err error) Kind {
	if err == nil {
		return KindOther
	}
	var ae *APIError
	if errors.As(err, &ae) {
		switch ae.StatusCode {
		case 404:
			return KindNotFound
		case 429:
			return KindRateLimited
		}
	}
	msg := err.Error()
	if notFoundRe.MatchString(msg) {
		return KindNotFound
	}
	if rateLimitRe.MatchString(msg) {
		return KindRateLimited
	}
	return KindOther
}

// retryAfter extracts the provider-suggested pause from an error, or 0.
func retryAfter(err error) time.Duration {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.RetryAfter
	}
	return 0
}

var retryDelayRe = regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)?)s?$`)

// parseRetryDelay reads delays like "3s", "2.5s" or a bare seconds count,
// as found in RetryInfo details and Retry-After headers.
func parseRetryDelay(s string) time.Duration {
	m := retryDelayRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	secs, err := strconv.ParseFloat(m[1], 64)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}

// retryInfoDelay digs the RetryInfo retryDelay out of a wire error's
// details, if present.
func retryInfoDelay(details []map[string]any) time.Duration {
	for _, d := range details {
		t, _ := d["@type"].(string)
		if !retryInfoTypeRe.MatchString(t) {
			continue
		}
		if v, ok := d["retryDelay"].(string); ok {
			if delay := parseRetryDelay(v); delay > 0 {
				return delay
			}
		}
	}
	return 0
}

var retryInfoTypeRe = regexp.MustCompile(`RetryInfo$`)
