package llmclient

import (
	"errors"
	"fmt"

	"github.com/berea-app/berea/api/schemas"
)

// ErrMissingCredential marks a configuration failure: a provider was selected
// but its credential is absent. It is surfaced before any network call.
var ErrMissingCredential = errors.New("missing credential")

// APIError is a transport failure: the provider answered with a non-success
// status. The body is kept for logging; it is never parsed for content.
type APIError struct {
	Provider schemas.ProviderID
	Status   int
	Body     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error: status %d: %s", e.Provider, e.Status, e.Body)
}

// ParseError is a normalization failure: the provider answered 2xx but the
// payload could not be coerced into a study, or declared itself an error.
type ParseError struct {
	Provider schemas.ProviderID
	Reason   string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s response unusable: %s: %v", e.Provider, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s response unusable: %s", e.Provider, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// missingCredentialError builds the terminal error for specific-provider mode.
func missingCredentialError(id schemas.ProviderID, envName string) error {
	return fmt.Errorf("%w for provider %s: set %s", ErrMissingCredential, id, envName)
}
