package githubapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/go-github/github"
	"github.com/pkg/errors"

	"github.com/kiteco/codetree/kite-go/codetree"
)

const headerRateRemaining = "X-RateLimit-Remaining"

// translate maps go-github failures to codetree errors. Transport failures,
// timeouts and cancellations are reported as connection errors. resp is the
// response returned alongside err, if any; every 4xx/5xx becomes a BackendError.
func (b *Backend) translate(resp *github.Response, err error) error {
	switch e := errors.Cause(err).(type) {
	case *github.RateLimitError:
		return codetree.NewBackendError(http.StatusForbidden, true, b.site.TokenURL(), err)
	case *github.AbuseRateLimitError:
		return codetree.NewBackendError(http.StatusForbidden, true, b.site.TokenURL(), err)
	case *github.TwoFactorAuthError:
		return b.statusError(e.Response, e.Message, err)
	case *github.ErrorResponse:
		return b.statusError(e.Response, e.Message, err)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return codetree.NewBackendError(0, false, b.site.TokenURL(), err)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return codetree.NewBackendError(0, false, b.site.TokenURL(), err)
	}

	if resp != nil && resp.Response != nil && resp.StatusCode >= http.StatusBadRequest {
		return b.statusError(resp.Response, "", err)
	}
	return &codetree.ParseError{What: "response", Err: err}
}

// statusError classifies a failed response; message replaces the generic one for unknown statuses.
func (b *Backend) statusError(resp *http.Response, message string, err error) *codetree.BackendError {
	if resp == nil {
		return codetree.NewBackendError(0, false, b.site.TokenURL(), err)
	}
	rateLimited := resp.Header.Get(headerRateRemaining) == "0"
	be := codetree.NewBackendError(resp.StatusCode, rateLimited, b.site.TokenURL(), err)
	if be.Kind == codetree.KindUnknown && message != "" {
		be.Message = message
	}
	return be
}
