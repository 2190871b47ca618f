package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// TurnState is ephemeral per-session signal state feeding the classifier.
// EscalationStreak counts consecutive escalated turns; two or more is
// treated as a repeated-failure signal on the next turn.
type TurnState struct {
	SessionKey       string
	EscalationStreak int
	LastBlocked      bool
}

type TurnStateRepository struct {
	cache *cache.Cache
}

func NewTurnStateRepository() *TurnStateRepository {
	// Session signal state expires after an hour of inactivity.
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &TurnStateRepository{
		cache: c,
	}
}

func (r *TurnStateRepository) Save(state *TurnState) {
	r.cache.Set(state.SessionKey, state, cache.DefaultExpiration)
}

func (r *TurnStateRepository) Get(sessionKey string) (*TurnState, bool) {
	if x, found := r.cache.Get(sessionKey); found {
		return x.(*TurnState), true
	}
	return nil, false
}

func (r *TurnStateRepository) Delete(sessionKey string) {
	r.cache.Delete(sessionKey)
}
