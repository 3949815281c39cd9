package crypto

import (
	"crypto"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"

	"github.com/pkg/errors"
)

// SigningKey signs the requests sent to relay targets. ID is published in the
// signature so targets can fetch the public key.
type SigningKey struct {
	ID      string
	Private *rsa.PrivateKey
}

// LoadSigningKey reads a PEM encoded RSA private key. An empty path disables
// signing and returns a nil key.
func LoadSigningKey(path string) (*SigningKey, error) {
	if path == "" {
		return nil, nil //nolint:nilnil
	}
	pemData, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read signing key")
	}
	privateKey, err := ParsePrivateKey(pemData)
	if err != nil {
		return nil, err
	}
	return &SigningKey{Private: privateKey}, nil
}

// ParsePrivateKey accepts PKCS1 and PKCS8 encoded RSA keys.
func ParsePrivateKey(pemData []byte) (*rsa.PrivateKey, error) {
	pemBlock, _ := pem.Decode(pemData)
	if pemBlock == nil {
		return nil, errors.New("unable to decode key PEM")
	}
	if key, err := x509.ParsePKCS1PrivateKey(pemBlock.Bytes); err == nil {
		return key, nil
	}
	key, err := x509.ParsePKCS8PrivateKey(pemBlock.Bytes)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse private key")
	}
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("signing key must be an RSA key")
	}
	return rsaKey, nil
}

func (k *SigningKey) PublicKeyPEM() string {
	return FormatPubKey(k.Private.Public())
}

func FormatPubKey(key crypto.PublicKey) string {
	keyBytes, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		return ""
	}
	pemData := string(
		pem.EncodeToMemory(
			&pem.Block{
				Type:  "PUBLIC KEY",
				Bytes: keyBytes,
			},
		),
	)

	return pemData
}
