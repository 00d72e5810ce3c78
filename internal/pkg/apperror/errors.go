package apperror

import "fmt"

// ConfigurationError means a required credential or setting is missing.
// It is fatal: surfaced immediately, never retried.
type ConfigurationError struct {
	Setting string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", e.Setting)
}

// UpstreamError means the embedding or chat-completion provider was unreachable
// or returned a non-success response. Surfaced as a 502, not retried.
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream provider %s failed: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// SearchError means a datastore query failed during the merge. It aborts the
// whole search or chat request; there is no silent fallback to keyword-only.
type SearchError struct {
	Err error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("search failed: %v", e.Err)
}

func (e *SearchError) Unwrap() error {
	return e.Err
}

// ValidationError means the input was empty or malformed. Surfaced as a 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// PersistenceWarning is non-fatal: the answer was already streamed to the user
// but saving the exchange failed. Reported as a soft warning event.
type PersistenceWarning struct {
	Err error
}

func (e *PersistenceWarning) Error() string {
	return fmt.Sprintf("conversation may not have been saved: %v", e.Err)
}

func (e *PersistenceWarning) Unwrap() error {
	return e.Err
}
