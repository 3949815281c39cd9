package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/linkit/relay/internal/api"
	"github.com/linkit/relay/internal/crypto"
	"github.com/linkit/relay/internal/dic"
)

type signingKeyResponse struct {
	ID           string `json:"id"`
	PublicKeyPem string `json:"publicKeyPem"`
}

// HandleSigningKey publishes the public key targets use to verify forwarded requests.
func HandleSigningKey(responseWriter http.ResponseWriter, _ *http.Request) error {
	key := dic.GetService[*crypto.SigningKey]()
	if key == nil {
		return api.New("request signing is disabled", http.StatusNotFound).
			WithUserMessage("request signing is disabled")
	}

	respBody, err := json.Marshal(signingKeyResponse{
		ID:           key.ID,
		PublicKeyPem: key.PublicKeyPEM(),
	})
	if err != nil {
		return errors.Wrap(err, "unable to serialize signing key")
	}
	responseWriter.Header().Set("content-type", "application/json")
	_, _ = responseWriter.Write(respBody)
	return nil
}
