package gemini

import (
	"fmt"
	"time"
)

// Part is one element of a generation request's content. Exactly one of
// Text or InlineData should be set.
type Part struct {
	Text       string `json:"text,omitempty"`
	InlineData *Blob  `json:"inlineData,omitempty"`
}

// Blob carries base64-encoded binary data (e.g. a PDF) inline.
type Blob struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// Content is a role-tagged group of parts.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// GenerationConfig tunes a single generation call.
type GenerationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
}

// Temp is a convenience for GenerationConfig.Temperature literals.
func Temp(v float64) *float64 { return &v }

type generateRequest struct {
	Contents         []Content         `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
	Error      *wireError  `json:"error,omitempty"`
}

type candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

type wireError struct {
	Code    int              `json:"code"`
	Message string           `json:"message"`
	Status  string           `json:"status"`
	Details []map[string]any `json:"details,omitempty"`
}

// APIError is a provider-side failure with enough structure for the
// classifier and the retry policy.
type APIError struct {
	Model      string
	StatusCode int
	Status     string // provider status string, e.g. RESOURCE_EXHAUSTED
	Message    string
	RetryAfter time.Duration // 0 when the provider gave no hint
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini: %s returned status %d: %s", e.Model, e.StatusCode, e.Message)
}

// Result is a successful generation.
type Result struct {
	Text  string
	Model string
}
