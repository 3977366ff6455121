package storefront

import (
	"errors"
	"fmt"
	"strings"
)

var ErrEmptyResponse = errors.New("storefront returned no data")

// StatusError is a non-2xx HTTP answer from the Storefront endpoint.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("storefront responded with status %d: %s", e.StatusCode, e.Body)
}

// Temporary reports whether retrying later may help; used by the circuit breaker.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}

type GraphQLErrorItem struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// GraphQLError carries the top-level "errors" array of a GraphQL response.
type GraphQLError struct {
	Operation string
	Errors    []GraphQLErrorItem
}

func (e *GraphQLError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, item := range e.Errors {
		msgs = append(msgs, item.Message)
	}
	return fmt.Sprintf("%s: graphql errors: %s", e.Operation, strings.Join(msgs, "; "))
}

// Throttled reports whether Shopify rejected the request for cost limits.
func (e *GraphQLError) Throttled() bool {
	for _, item := range e.Errors {
		if code, _ := item.Extensions["code"].(string); code == "THROTTLED" {
			return true
		}
	}
	return false
}

// InvalidID reports whether every error says the requested id does not
// resolve. Server failures and access errors are not included.
func (e *GraphQLError) InvalidID() bool {
	if len(e.Errors) == 0 {
		return false
	}
	for _, item := range e.Errors {
		code, _ := item.Extensions["code"].(string)
		if code == "NOT_FOUND" || strings.Contains(strings.ToLower(item.Message), "invalid global id") {
			continue
		}
		return false
	}
	return true
}
