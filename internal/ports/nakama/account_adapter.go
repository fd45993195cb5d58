package nakama

import (
	"context"
	"fmt"

	"parlor/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// NakamaAccountAdapter implements ports.AccountPort using Nakama's account API.
type NakamaAccountAdapter struct {
	nk runtime.NakamaModule
}

// NewNakamaAccountAdapter creates a new account adapter.
func NewNakamaAccountAdapter(nk runtime.NakamaModule) *NakamaAccountAdapter {
	return &NakamaAccountAdapter{nk: nk}
}

// GetUser resolves a user id to its account identity.
func (a *NakamaAccountAdapter) GetUser(ctx context.Context, userID string) (ports.User, error) {
	account, err := a.nk.AccountGetId(ctx, userID)
	if err != nil {
		return ports.User{}, fmt.Errorf("get account %s: %w", userID, err)
	}
	u := ports.User{ID: userID}
	if account.User != nil {
		u.Username = account.User.Username
		u.DisplayName = account.User.DisplayName
	}
	return u, nil
}

var _ ports.AccountPort = (*NakamaAccountAdapter)(nil)
