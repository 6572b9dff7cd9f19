package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
)

// Exchange is the verified outcome of an OAuth code exchange. IDToken is the
// raw token forwarded to the identity service's id-token grant.
type Exchange struct {
	IDToken string
	Subject string
	Email   string
	Name    string
}

type Provider interface {
	ConsentURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*Exchange, error)
	Name() string
}

func GenerateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
