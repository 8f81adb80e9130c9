package config

const (
	// Store errors
	ErrInitializeStoreFmt = "Failed to initialize store: %v"
	ErrUnknownBackendFmt  = "Unknown store backend: %s"

	// Auth errors
	ErrTokenRequired = "A GitHub token with repo scope is required (set QUILL_GITHUB_TOKEN)"
	ErrTokenRejected = "Token rejected; reconnect with a valid token"

	// Session errors
	ErrLoadDraftsFmt = "Failed to load drafts: %v"
	ErrLoadPostFmt   = "Failed to load post: %v"
)
