// Package ports declares the narrow interfaces the engine consumes from
// external collaborators. Adapters live in subpackages.
package ports

import "context"

// User is the engine's view of an identity record.
type User struct {
	ID          string
	Username    string
	DisplayName string
}

// AccountPort resolves player ids to identity records so collaborators know
// who receives broadcasts and menus. Bots have no account; lookups for them
// fail and callers fall back to the generated bot name.
type AccountPort interface {
	GetUser(ctx context.Context, userID string) (User, error)
}
