package check

import (
	"errors"
	"fmt"

	"github.com/dm/check-es/internal/client"
	"github.com/dm/check-es/internal/model"
)

// Kind is the closed set of reasons a check can fail to produce a state.
type Kind int

const (
	KindUnknown Kind = iota
	KindAuthentication
	KindConnectivity
	KindQuery
	KindNoResults
)

func (k Kind) String() string {
	switch k {
	case KindAuthentication:
		return "authentication"
	case KindConnectivity:
		return "connectivity"
	case KindQuery:
		return "query"
	case KindNoResults:
		return "no_results"
	default:
		return "unknown"
	}
}

// CheckError is a failure classified into a Kind. Every kind ends the run
// with Unknown.
type CheckError struct {
	Kind Kind
	// URL is the endpoint the run attempted, shown for KindUnknown.
	URL string
	// QueryType and QueryReason are copied from the Elasticsearch error for KindQuery.
	QueryType   string
	QueryReason string
	Err         error
}

func (e *CheckError) Error() string {
	if e.Err == nil {
		return e.Kind.String() + " error"
	}
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

func (e *CheckError) Unwrap() error { return e.Err }

// Lines returns the operator-facing message.
func (e *CheckError) Lines() []string {
	switch e.Kind {
	case KindAuthentication:
		return []string{"ES returns 401: Unauthorized. Check login/password."}
	case KindConnectivity:
		return []string{"Failed to connect to ES Host. Check URL or protocol used."}
	case KindQuery:
		return []string{
			"ES didn't really like your query. Retry with a different one",
			"type: " + e.QueryType,
			"reason: " + e.QueryReason,
		}
	case KindNoResults:
		return []string{"ES returns no results. Check your query."}
	default:
		lines := []string{"Error connecting to ES Host. Check parameters."}
		if e.URL != "" {
			lines = append(lines, e.URL)
		}
		return lines
	}
}

// Result converts e into an Unknown result without performance data.
func (e *CheckError) Result() Result {
	return Result{Status: Unknown, Summary: e.Lines()}
}

// Classify maps an error from the client or model layers onto a CheckError.
// url is the endpoint the run attempted.
func Classify(err error, url string) *CheckError {
	var ce *CheckError
	if errors.As(err, &ce) {
		return ce
	}

	out := &CheckError{Kind: KindUnknown, URL: url, Err: err}

	var searchErr *client.SearchError
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		out.Kind = KindAuthentication
	case errors.Is(err, client.ErrUnreachable):
		out.Kind = KindConnectivity
	case errors.As(err, &searchErr):
		out.Kind = KindQuery
		out.QueryType = searchErr.Type
		out.QueryReason = searchErr.Reason
	case errors.Is(err, model.ErrNoHits):
		out.Kind = KindNoResults
	}
	return out
}
