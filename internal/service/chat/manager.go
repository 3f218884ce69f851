// Package chat gates relayed text between matched users.
package chat

import (
	"context"
	"fmt"

	"github.com/oggyb/mysticmatch/internal/app"
	"github.com/oggyb/mysticmatch/internal/db"
	svcErr "github.com/oggyb/mysticmatch/internal/errors"
	"github.com/oggyb/mysticmatch/internal/metrics"
	"github.com/oggyb/mysticmatch/internal/repository"
	"github.com/oggyb/mysticmatch/internal/session"
)

// Notifier delivers a relayed message to its recipient.
type Notifier interface {
	SendText(ctx context.Context, chatID int64, text string) error
}

// RelayResult tells the caller which acknowledgement to show.
type RelayResult int

const (
	// NoSession: the user has no open chat; the text is not for us.
	NoSession RelayResult = iota
	// Rejected: the users are not matched; the session was closed.
	Rejected
	// Sent: the message was logged and forwarded.
	Sent
)

type Manager struct {
	appCtx    *app.AppContext
	sessions  session.Store
	profiles  *repository.ProfileRepository
	decisions *repository.DecisionRepository
	messages  *repository.MessageRepository
	notifier  Notifier
}

func NewManager(appCtx *app.AppContext, notifier Notifier) *Manager {
	return &Manager{
		appCtx:    appCtx,
		sessions:  appCtx.Sessions,
		profiles:  appCtx.Profiles,
		decisions: appCtx.Decisions,
		messages:  appCtx.Messages,
		notifier:  notifier,
	}
}

// Open points userID's chat at targetID and returns the target's profile.
// Any previous session is replaced. The match is checked when a message is
// relayed, not here.
func (m *Manager) Open(ctx context.Context, userID, targetID int64) (*db.Profile, error) {
	target, err := m.profiles.Get(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if err := m.sessions.SetChat(ctx, userID, targetID); err != nil {
		return nil, err
	}
	m.appCtx.Logger.Debug("chat opened", "user", userID, "target", targetID)
	return target, nil
}

// Relay forwards text from userID to the target of the open session.
//
// Behavior:
//   - No session: NoSession, nothing happens.
//   - Not matched (or match deactivated): Rejected, the session is cleared and
//     nothing is logged.
//   - Otherwise the message is appended to the log and sent to the target as
//     "💬 <sender name>: <text>". Delivery failures are only logged.
func (m *Manager) Relay(ctx context.Context, userID int64, text string) (RelayResult, error) {
	targetID, ok, err := m.sessions.GetChat(ctx, userID)
	if err != nil {
		return NoSession, err
	}
	if !ok {
		return NoSession, nil
	}

	matched, err := m.decisions.IsMatched(ctx, userID, targetID)
	if err != nil {
		return NoSession, err
	}
	if !matched {
		if _, err := m.sessions.DeleteChat(ctx, userID); err != nil {
			return Rejected, err
		}
		metrics.ChatMessages.WithLabelValues("rejected").Inc()
		m.appCtx.Logger.Info("chat relay rejected", "user", userID, "target", targetID, "reason", svcErr.ErrNotMatched)
		return Rejected, nil
	}

	sender, err := m.profiles.Get(ctx, userID)
	if err != nil {
		return NoSession, err
	}
	if _, err := m.messages.Create(ctx, userID, targetID, text); err != nil {
		return NoSession, err
	}
	metrics.ChatMessages.WithLabelValues("sent").Inc()

	if err := m.notifier.SendText(ctx, targetID, FormatRelay(sender.Name, text)); err != nil {
		m.appCtx.Logger.Warn("chat delivery failed", "user", userID, "target", targetID, "err", err)
	}
	return Sent, nil
}

// Close ends the open chat, reporting whether there was one.
func (m *Manager) Close(ctx context.Context, userID int64) (bool, error) {
	return m.sessions.DeleteChat(ctx, userID)
}

// FormatRelay renders a relayed message as seen by the recipient.
func FormatRelay(senderName, text string) string {
	return fmt.Sprintf("💬 %s: %s", senderName, text)
}
