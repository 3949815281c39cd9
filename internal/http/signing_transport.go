package http

import (
	"bytes"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-fed/httpsig"
	"github.com/pkg/errors"

	"github.com/linkit/relay/internal/crypto"
)

// SigningTransport adds an HTTP signature over the target, date, host and
// digest of every request.
type SigningTransport struct {
	mu     sync.Mutex
	signer httpsig.Signer
	key    *crypto.SigningKey
	wrap   http.RoundTripper
	now    func() time.Time
}

func NewSigningTransport(wrap http.RoundTripper, key *crypto.SigningKey) (*SigningTransport, error) {
	signer, _, err := httpsig.NewSigner(
		[]httpsig.Algorithm{httpsig.RSA_SHA256},
		httpsig.DigestSha256,
		[]string{httpsig.RequestTarget, "date", "host", "digest"},
		httpsig.Signature,
		30, // seconds
	)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create an http request signer")
	}
	return &SigningTransport{
		signer: signer,
		key:    key,
		wrap:   wrap,
		now:    time.Now,
	}, nil
}

func (t *SigningTransport) RoundTrip(request *http.Request) (*http.Response, error) {
	var body []byte
	if request.Body != nil {
		var err error
		body, err = io.ReadAll(request.Body)
		_ = request.Body.Close()
		if err != nil {
			return nil, errors.Wrap(err, "unable to read request body")
		}
	}

	signed := request.Clone(request.Context())
	if signed.Header.Get("date") == "" {
		signed.Header.Set("date", t.now().UTC().Format(http.TimeFormat))
	}
	signed.Header.Set("host", signed.URL.Host)

	t.mu.Lock()
	err := t.signer.SignRequest(t.key.Private, t.key.ID, signed, body)
	t.mu.Unlock()
	if err != nil {
		return nil, errors.Wrap(err, "unable to sign http request")
	}
	signed.Body = io.NopCloser(bytes.NewReader(body))
	signed.ContentLength = int64(len(body))

	return t.wrap.RoundTrip(signed) //nolint:wrapcheck
}
