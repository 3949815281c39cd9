package authorization

import (
	"github.com/linkit/relay/internal/authorization/attributes"
	"github.com/linkit/relay/internal/authorization/voter"
)

//go:generate mockery --name AuthorizationChecker
type AuthorizationChecker interface {
	IsGranted(any, attributes.Attribute) bool
}

type voterAuthorizationChecker struct {
	voters []voter.Voter
}

func NewVoterAuthorizationChecker(voters []voter.Voter) *voterAuthorizationChecker {
	return &voterAuthorizationChecker{voters: voters}
}

// IsGranted grants access as soon as one supporting voter does.
func (v *voterAuthorizationChecker) IsGranted(subject any, attr attributes.Attribute) bool {
	for _, v := range v.voters {
		if !v.Supports(subject) {
			continue
		}
		if v.Vote(subject, attr) == voter.AccessGranted {
			return true
		}
	}
	return false
}
