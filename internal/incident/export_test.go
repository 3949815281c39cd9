package incident

import "github.com/gofrs/uuid"

// WithIDGenerator replaces the incident id generator of a reporter built by NewReporter.
func WithIDGenerator(rep Reporter, newID func() (uuid.UUID, error)) {
	rep.(*reporter).newID = newID //nolint:forcetypeassert
}
