package analysis

import "errors"

var (
	// ErrMissingAPIKey means the service has no model credentials; the
	// request cannot be served at all.
	ErrMissingAPIKey = errors.New("analysis: GEMINI_API_KEY is missing in environment")

	// ErrNotEnoughText means extraction produced too little text to
	// analyze meaningfully.
	ErrNotEnoughText = errors.New("analysis: could not extract enough text, provide a longer manuscript sample")

	// ErrNoFile means the multipart request carried no usable file field.
	ErrNoFile = errors.New("analysis: no file found in 'file' field")

	// ErrExtractionFailed means no extraction path produced text for the
	// upload, model-side or local.
	ErrExtractionFailed = errors.New("analysis: text extraction failed")

	// ErrFileTooLarge means the upload exceeds the configured size cap.
	ErrFileTooLarge = errors.New("analysis: file exceeds the upload size limit")
)
