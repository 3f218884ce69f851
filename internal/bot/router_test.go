package bot

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/mysticmatch/internal/app/apptest"
	"github.com/oggyb/mysticmatch/internal/db/dbtest"
)

type call struct {
	method    string
	chatID    int64
	messageID int
	text      string
	photo     string
	kb        Keyboard
}

// fakeMessenger records every outbound call.
type fakeMessenger struct {
	mu    sync.Mutex
	calls []call
}

func (f *fakeMessenger) record(c call) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	return nil
}

func (f *fakeMessenger) SendText(_ context.Context, chatID int64, text string, kb Keyboard) error {
	return f.record(call{method: "text", chatID: chatID, text: text, kb: kb})
}

func (f *fakeMessenger) SendPhoto(_ context.Context, chatID int64, photoRef, caption string, kb Keyboard) error {
	return f.record(call{method: "photo", chatID: chatID, photo: photoRef, text: caption, kb: kb})
}

func (f *fakeMessenger) EditText(_ context.Context, chatID int64, messageID int, text string, kb Keyboard) error {
	return f.record(call{method: "edit_text", chatID: chatID, messageID: messageID, text: text, kb: kb})
}

func (f *fakeMessenger) EditCaption(_ context.Context, chatID int64, messageID int, caption string, kb Keyboard) error {
	return f.record(call{method: "edit_caption", chatID: chatID, messageID: messageID, text: caption, kb: kb})
}

func (f *fakeMessenger) AnswerCallback(context.Context, string, string) error {
	return f.record(call{method: "answer"})
}

// drain returns the calls recorded since the previous drain, without
// callback answers.
func (f *fakeMessenger) drain() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]call, 0, len(f.calls))
	for _, c := range f.calls {
		if c.method != "answer" {
			out = append(out, c)
		}
	}
	f.calls = nil
	return out
}

type harness struct {
	t      *testing.T
	env    *apptest.Env
	out    *fakeMessenger
	router *Router
}

func newHarness(t *testing.T) *harness {
	env := apptest.New(t)
	out := &fakeMessenger{}
	return &harness{t: t, env: env, out: out, router: NewRouter(env.AppContext, out)}
}

func sender(userID int64) Sender {
	return Sender{UserID: userID, ChatID: userID}
}

func (h *harness) send(u Update) []call {
	h.t.Helper()
	require.NoError(h.t, h.router.Handle(context.Background(), u))
	return h.out.drain()
}

func (h *harness) command(userID int64, cmd string) []call {
	return h.send(CommandUpdate{Sender: sender(userID), Command: cmd})
}

func (h *harness) text(userID int64, text string) []call {
	return h.send(TextUpdate{Sender: sender(userID), Text: text})
}

func (h *harness) press(userID int64, messageID int, a Action) []call {
	return h.send(CallbackUpdate{Sender: sender(userID), CallbackID: "cb", MessageID: messageID, Data: a.Encode()})
}

func hasAction(kb Keyboard, a Action) bool {
	for _, row := range kb {
		for _, b := range row {
			if b.Action == a {
				return true
			}
		}
	}
	return false
}

func TestEndToEndMatchAndChat(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	// 42 registers
	calls := h.command(42, "start")
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].text, msgAskName)

	calls = h.text(42, "Ava")
	assert.Equal(t, msgAskAge, calls[0].text)

	calls = h.text(42, "25")
	assert.Equal(t, msgAskGender, calls[0].text)
	assert.True(t, hasAction(calls[0].kb, GenderAction("female")))

	calls = h.press(42, 1, GenderAction("female"))
	require.Len(t, calls, 1)
	assert.Equal(t, "edit_text", calls[0].method)
	assert.Equal(t, msgAskInterest, calls[0].text)
	assert.Equal(t, 1, calls[0].messageID)

	calls = h.press(42, 1, InterestAction("male"))
	assert.Equal(t, msgAskCity, calls[0].text)

	calls = h.text(42, "Riga")
	assert.Equal(t, msgAskBio, calls[0].text)

	calls = h.text(42, "hi")
	assert.Equal(t, msgAskPhoto, calls[0].text)

	calls = h.send(PhotoUpdate{Sender: sender(42), PhotoRef: "ref1"})
	assert.Equal(t, msgRegistered, calls[0].text)

	ava, err := h.env.Profiles.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "Ava", ava.Name)
	assert.Equal(t, 25, ava.Age)
	assert.Equal(t, "female", ava.Gender)
	assert.Equal(t, "male", ava.Preference())
	assert.Equal(t, "Riga", ava.City)
	assert.Equal(t, "hi", ava.Bio)
	assert.Equal(t, "ref1", ava.Photo)
	assert.True(t, ava.Active)

	// 99 is already registered and swipes first
	dbtest.Profile(t, h.env.DB, 99, "Max", "male", "female")

	calls = h.command(99, "swipe")
	require.Len(t, calls, 1)
	assert.Equal(t, "photo", calls[0].method)
	assert.Equal(t, "ref1", calls[0].photo)
	assert.True(t, hasAction(calls[0].kb, LikeAction(42)))

	calls = h.press(99, 10, LikeAction(42))
	require.Len(t, calls, 2)
	assert.Equal(t, "edit_caption", calls[0].method)
	assert.Equal(t, msgNextProfile, calls[0].text)
	assert.Equal(t, msgNoMoreForNow, calls[1].text)

	matched, err := h.env.Decisions.IsMatched(ctx, 42, 99)
	require.NoError(t, err)
	assert.False(t, matched)

	// 42 swipes back
	calls = h.command(42, "swipe")
	require.Len(t, calls, 1)
	assert.Equal(t, "photo-99", calls[0].photo)

	calls = h.press(42, 20, LikeAction(99))
	require.Len(t, calls, 4)
	assert.Equal(t, "edit_caption", calls[0].method)
	assert.Equal(t, 20, calls[0].messageID)
	assert.Contains(t, calls[0].text, "You and Max liked each other!")

	assert.Equal(t, int64(99), calls[1].chatID)
	assert.Contains(t, calls[1].text, "You and Ava liked each other!")
	assert.True(t, hasAction(calls[1].kb, ChatAction(42)))

	assert.Equal(t, int64(42), calls[2].chatID)
	assert.Equal(t, msgStartChatting, calls[2].text)
	assert.True(t, hasAction(calls[2].kb, ChatAction(99)))

	assert.Equal(t, msgNoMoreForNow, calls[3].text)

	matched, err = h.env.Decisions.IsMatched(ctx, 42, 99)
	require.NoError(t, err)
	assert.True(t, matched)

	// both see each other in /matches
	calls = h.command(99, "matches")
	require.Len(t, calls, 2)
	assert.Equal(t, matchCount(1), calls[0].text)
	assert.Equal(t, "ref1", calls[1].photo)
	assert.True(t, hasAction(calls[1].kb, ChatAction(42)))

	// chat relay
	calls = h.press(99, 30, ChatAction(42))
	require.Len(t, calls, 1)
	assert.Equal(t, nowChatting("Ava"), calls[0].text)

	calls = h.text(99, "hey")
	require.Len(t, calls, 2)
	assert.Equal(t, int64(42), calls[0].chatID)
	assert.Equal(t, "💬 Max: hey", calls[0].text)
	assert.Equal(t, int64(99), calls[1].chatID)
	assert.Equal(t, msgSent, calls[1].text)

	calls = h.command(99, "endchat")
	assert.Equal(t, msgChatEnded, calls[0].text)

	calls = h.command(99, "endchat")
	assert.Equal(t, msgNotInChat, calls[0].text)

	calls = h.text(99, "anyone?")
	assert.Equal(t, msgDefaultHint, calls[0].text)
}

func TestRelayToNonMatchIsRejected(t *testing.T) {
	h := newHarness(t)
	dbtest.Profile(t, h.env.DB, 1, "Ava", "female", "male")
	dbtest.Profile(t, h.env.DB, 2, "Max", "male", "female")

	h.press(1, 5, ChatAction(2))

	calls := h.text(1, "hello")
	require.Len(t, calls, 1)
	assert.Equal(t, int64(1), calls[0].chatID)
	assert.Equal(t, msgOnlyMatches, calls[0].text)

	// the session was cleared
	calls = h.text(1, "hello?")
	assert.Equal(t, msgDefaultHint, calls[0].text)
}

func TestCommandsWithoutProfile(t *testing.T) {
	h := newHarness(t)

	for _, cmd := range []string{"swipe", "matches", "profile"} {
		calls := h.command(5, cmd)
		require.Len(t, calls, 1, cmd)
		assert.Equal(t, msgNoProfile, calls[0].text, cmd)
	}

	calls := h.send(PhotoUpdate{Sender: sender(5), PhotoRef: "p"})
	assert.Equal(t, msgUseStart, calls[0].text)

	assert.Empty(t, h.command(5, "dance"))
}

func TestRegistrationRePrompts(t *testing.T) {
	h := newHarness(t)

	h.command(7, "start")
	h.text(7, "Ava")

	calls := h.text(7, "abc")
	assert.Equal(t, msgAgeNotNumber, calls[0].text)

	calls = h.text(7, "17")
	assert.Equal(t, msgAgeOutOfRange, calls[0].text)

	h.text(7, "30")

	// free text at a choice step shows the keyboard again
	calls = h.text(7, "female")
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].text, msgAskGender)
	assert.True(t, hasAction(calls[0].kb, GenderAction("other")))

	// a stale interest button does nothing
	calls = h.press(7, 3, InterestAction("all"))
	assert.Empty(t, calls)

	// /start mid-registration resumes at the same step
	calls = h.command(7, "start")
	require.Len(t, calls, 1)
	assert.Equal(t, msgAskGender, calls[0].text)

	// a photo too early re-prompts
	calls = h.send(PhotoUpdate{Sender: sender(7), PhotoRef: "p"})
	assert.Contains(t, calls[0].text, msgAskGender)
}

func TestWelcomeBackAndProfile(t *testing.T) {
	h := newHarness(t)
	dbtest.Profile(t, h.env.DB, 3, "Ava", "female", "all")

	calls := h.command(3, "start")
	assert.Equal(t, msgWelcomeBack, calls[0].text)

	calls = h.command(3, "profile")
	require.Len(t, calls, 1)
	assert.Equal(t, "photo-3", calls[0].photo)
	assert.Contains(t, calls[0].text, "Name: Ava")
	assert.Contains(t, calls[0].text, "Gender: female")

	calls = h.command(3, "matches")
	assert.Equal(t, msgNoMatches, calls[0].text)

	calls = h.command(3, "swipe")
	assert.Equal(t, msgNoCandidates, calls[0].text)
}

func TestBadCallbacksAreIgnored(t *testing.T) {
	h := newHarness(t)
	dbtest.Profile(t, h.env.DB, 3, "Ava", "female", "all")

	calls := h.send(CallbackUpdate{Sender: sender(3), CallbackID: "x", Data: "superlike:1"})
	assert.Empty(t, calls)

	// liking yourself or a ghost is rejected quietly
	assert.Empty(t, h.press(3, 1, LikeAction(3)))
	assert.Empty(t, h.press(3, 1, LikeAction(404)))
}
