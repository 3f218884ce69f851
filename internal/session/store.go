// Package session keeps the short-lived per-user state of the bot: the
// registration in progress and the currently open chat.
package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oggyb/mysticmatch/internal/cache"
)

// Step is a registration step. Steps run strictly in the order of Steps.
type Step string

const (
	StepName         Step = "name"
	StepAge          Step = "age"
	StepGender       Step = "gender"
	StepInterestedIn Step = "interested_in"
	StepCity         Step = "city"
	StepBio          Step = "bio"
	StepPhoto        Step = "photo"
)

var Steps = []Step{StepName, StepAge, StepGender, StepInterestedIn, StepCity, StepBio, StepPhoto}

// Next returns the step after s, or "" after the last one.
func (s Step) Next() Step {
	for i, step := range Steps {
		if step == s && i+1 < len(Steps) {
			return Steps[i+1]
		}
	}
	return ""
}

// Registration is the partial profile collected so far.
type Registration struct {
	UserID       int64  `json:"user_id"`
	Step         Step   `json:"step"`
	Name         string `json:"name,omitempty"`
	Age          int    `json:"age,omitempty"`
	Gender       string `json:"gender,omitempty"`
	InterestedIn string `json:"interested_in,omitempty"`
	City         string `json:"city,omitempty"`
	Bio          string `json:"bio,omitempty"`
}

// Store is a keyed store for registration state and chat sessions.
// Implementations expire entries after their configured TTL.
type Store interface {
	// GetRegistration returns nil when the user is not registering.
	GetRegistration(ctx context.Context, userID int64) (*Registration, error)
	SaveRegistration(ctx context.Context, reg *Registration) error
	DeleteRegistration(ctx context.Context, userID int64) error

	GetChat(ctx context.Context, userID int64) (targetID int64, ok bool, err error)
	SetChat(ctx context.Context, userID, targetID int64) error
	// DeleteChat reports whether a chat session existed.
	DeleteChat(ctx context.Context, userID int64) (bool, error)
}

// TTLs bounds how long abandoned entries survive. Zero means no expiry.
type TTLs struct {
	Registration time.Duration
	Chat         time.Duration
}

// New picks the backend by name: "memory" or "redis".
func New(backend string, rc *cache.RedisCache, ttls TTLs) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "memory":
		return NewMemoryStore(ttls), nil
	case "", "redis":
		if rc == nil {
			return nil, fmt.Errorf("redis session backend needs a redis client")
		}
		return NewRedisStore(rc, ttls), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", backend)
	}
}
