package auth

import (
	custerror "github.com/CE-Thesis-2023/hikcamerabot/internal/error"
	"github.com/CE-Thesis-2023/hikcamerabot/models/chat"
)

// Gate admits requesters found in a static allow-list.
type Gate struct {
	allowed map[int64]struct{}
}

func NewGate(allowedUsers []int64) *Gate {
	allowed := make(map[int64]struct{}, len(allowedUsers))
	for _, id := range allowedUsers {
		allowed[id] = struct{}{}
	}
	return &Gate{allowed: allowed}
}

// Authorize returns nil when the requester is allowed, a Denied error otherwise.
func (g *Gate) Authorize(requester chat.Requester) error {
	if _, found := g.allowed[requester.UserId]; !found {
		return custerror.FormatPermissionDenied("user %d is not in the allow-list", requester.UserId)
	}
	return nil
}
