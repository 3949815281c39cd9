package voter

import "github.com/linkit/relay/internal/authorization/attributes"

type decision int

const (
	AccessDenied decision = iota
	AccessGranted
)

type Voter interface {
	Supports(any) bool
	Vote(any, attributes.Attribute) decision
}
