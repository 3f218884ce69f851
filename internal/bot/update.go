package bot

import "context"

// Sender identifies who an update came from and where to answer.
// In private chats ChatID equals UserID.
type Sender struct {
	UserID   int64
	ChatID   int64
	Username string
}

func (s Sender) From() Sender { return s }

// Update is one inbound event: CommandUpdate, TextUpdate, PhotoUpdate or
// CallbackUpdate.
type Update interface {
	From() Sender
}

type CommandUpdate struct {
	Sender
	Command string
	Args    string
}

type TextUpdate struct {
	Sender
	Text string
}

// PhotoUpdate carries the largest size of the photo only.
type PhotoUpdate struct {
	Sender
	PhotoRef string
}

type CallbackUpdate struct {
	Sender
	CallbackID string
	MessageID  int
	Data       string
}

func kindOf(u Update) string {
	switch u.(type) {
	case CommandUpdate:
		return "command"
	case TextUpdate:
		return "text"
	case PhotoUpdate:
		return "photo"
	case CallbackUpdate:
		return "callback"
	default:
		return "unknown"
	}
}

// HandlerFunc consumes one update.
type HandlerFunc func(ctx context.Context, u Update) error

// Messenger is the outbound side of the chat platform.
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string, kb Keyboard) error
	SendPhoto(ctx context.Context, chatID int64, photoRef, caption string, kb Keyboard) error
	EditText(ctx context.Context, chatID int64, messageID int, text string, kb Keyboard) error
	EditCaption(ctx context.Context, chatID int64, messageID int, caption string, kb Keyboard) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
}

// textNotifier adapts a Messenger to chat.Notifier.
type textNotifier struct {
	m Messenger
}

func (n textNotifier) SendText(ctx context.Context, chatID int64, text string) error {
	return n.m.SendText(ctx, chatID, text, nil)
}
