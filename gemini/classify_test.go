package gemini

import (
	"errors"
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindOther},
		{"status 404", &APIError{Model: "m", StatusCode: 404, Message: "nope"}, KindNotFound},
		{"status 429", &APIError{Model: "m", StatusCode: 429, Message: "slow down"}, KindRateLimited},
		{"message not found", errors.New("models/gemini-x is not found for API version v1beta"), KindNotFound},
		{"message NOT_FOUND", errors.New("NOT_FOUND"), KindNotFound},
		{"message 429", errors.New("upstream said 429"), KindRateLimited},
		{"message rate limit", errors.New("Rate Limit exceeded"), KindRateLimited},
		{"plain failure", errors.New("connection reset"), KindOther},
		{"status 500", &APIError{Model: "m", StatusCode: 500, Message: "internal"}, KindOther},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.err); got != tc.want {
				t.Fatalf("Classify(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestParseRetryDelay(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"3s", 3 * time.Second},
		{"2.5s", 2500 * time.Millisecond},
		{"7", 7 * time.Second},
		{"0s", 0},
		{"", 0},
		{"soon", 0},
	}
	for _, tc := range cases {
		if got := parseRetryDelay(tc.in); got != tc.want {
			t.Fatalf("parseRetryDelay(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestRetryInfoDelay(t *testing.T) {
	details := []map[string]any{
		{"@type": "type.googleapis.com/google.rpc.ErrorInfo", "reason": "RATE_LIMIT_EXCEEDED"},
		{"@type": "type.googleapis.com/google.rpc.RetryInfo", "retryDelay": "4s"},
	}
	if got := retryInfoDelay(details); got != 4*time.Second {
		t.Fatalf("retryInfoDelay = %v, want 4s", got)
	}
	if got := retryInfoDelay(nil); got != 0 {
		t.Fatalf("retryInfoDelay(nil) = %v, want 0", got)
	}
}
