package http

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"github.com/linkit/relay/internal/authorization"
	"github.com/linkit/relay/internal/authorization/attributes"
)

const maxRedirects = 10

var ErrRedirectNotAllowed = errors.New("redirect target is not allowed")

type attributeCtxKey struct{}

// WithAttribute sets the permission every redirect of a request made with ctx is checked against.
func WithAttribute(ctx context.Context, attr attributes.Attribute) context.Context {
	return context.WithValue(ctx, attributeCtxKey{}, attr)
}

func attributeFromContext(ctx context.Context) attributes.Attribute {
	if attr, ok := ctx.Value(attributeCtxKey{}).(attributes.Attribute); ok {
		return attr
	}
	return attributes.CanForward
}

// checkRedirect runs the authorization check on every hop so a target can not
// bounce a request to a host outside the allow list.
func checkRedirect(checker authorization.AuthorizationChecker) func(*http.Request, []*http.Request) error {
	return func(request *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return errors.Errorf("stopped after %d redirects", maxRedirects)
		}
		if !checker.IsGranted(request.URL, attributeFromContext(request.Context())) {
			return errors.Wrapf(ErrRedirectNotAllowed, "redirect to %s", request.URL.Host)
		}
		return nil
	}
}
