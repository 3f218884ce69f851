package bot

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

// Bot API allows about 30 messages per second across all chats.
const (
	sendRate  = rate.Limit(25)
	sendBurst = 5
)

// Client is the Telegram side of the bot: long polling in, Bot API calls out.
// Without a token it runs in dry mode: nothing is received and sends are
// only logged.
type Client struct {
	api         *tgbotapi.BotAPI
	logger      *slog.Logger
	pollTimeout int
	dryRun      bool
	limiter     *rate.Limiter
}

func NewClient(token string, pollTimeout int, debug bool, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(token) == "" {
		return &Client{logger: logger, pollTimeout: pollTimeout, dryRun: true, limiter: rate.NewLimiter(sendRate, sendBurst)}, nil
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	api.Debug = debug
	logger.Info("telegram bot authorized", "username", api.Self.UserName)

	return &Client{api: api, logger: logger, pollTimeout: pollTimeout, limiter: rate.NewLimiter(sendRate, sendBurst)}, nil
}

// Start polls for updates until ctx is done, handing each one to handle.
// Errors from handle stop nothing; the handler is expected to log them.
func (c *Client) Start(ctx context.Context, handle HandlerFunc) error {
	if handle == nil {
		return errors.New("telegram update handler is required")
	}
	if c.dryRun {
		c.logger.Warn("BOT_TOKEN is empty, running in dry mode")
		<-ctx.Done()
		return nil
	}

	timeout := c.pollTimeout
	if timeout <= 0 {
		timeout = 30
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = timeout
	updates := c.api.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			c.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			u, ok := toUpdate(update)
			if !ok {
				continue
			}
			if err := handle(ctx, u); err != nil && !errors.Is(err, context.Canceled) {
				c.logger.Warn("dispatch update", "err", err, "update_id", update.UpdateID)
			}
		}
	}
}

// toUpdate keeps the updates the bot understands and drops the rest
// (edits, channel posts, stickers...).
func toUpdate(update tgbotapi.Update) (Update, bool) {
	if cb := update.CallbackQuery; cb != nil && cb.From != nil {
		s := Sender{UserID: cb.From.ID, ChatID: cb.From.ID, Username: cb.From.UserName}
		u := CallbackUpdate{Sender: s, CallbackID: cb.ID, Data: cb.Data}
		if cb.Message != nil {
			u.MessageID = cb.Message.MessageID
			if cb.Message.Chat != nil {
				u.ChatID = cb.Message.Chat.ID
			}
		}
		return u, true
	}

	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return nil, false
	}
	s := Sender{UserID: msg.From.ID, ChatID: msg.Chat.ID, Username: msg.From.UserName}

	switch {
	case msg.IsCommand():
		return CommandUpdate{Sender: s, Command: msg.Command(), Args: msg.CommandArguments()}, true
	case len(msg.Photo) > 0:
		// sizes come smallest first
		return PhotoUpdate{Sender: s, PhotoRef: msg.Photo[len(msg.Photo)-1].FileID}, true
	case msg.Text != "":
		return TextUpdate{Sender: s, Text: msg.Text}, true
	default:
		return nil, false
	}
}

func (c *Client) SendText(ctx context.Context, chatID int64, text string, kb Keyboard) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup := buildInlineKeyboard(kb); markup != nil {
		msg.ReplyMarkup = *markup
	}
	return c.send(ctx, msg)
}

func (c *Client) SendPhoto(ctx context.Context, chatID int64, photoRef, caption string, kb Keyboard) error {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(photoRef))
	photo.Caption = caption
	if markup := buildInlineKeyboard(kb); markup != nil {
		photo.ReplyMarkup = *markup
	}
	return c.send(ctx, photo)
}

func (c *Client) EditText(ctx context.Context, chatID int64, messageID int, text string, kb Keyboard) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ReplyMarkup = buildInlineKeyboard(kb)
	return c.request(ctx, edit)
}

func (c *Client) EditCaption(ctx context.Context, chatID int64, messageID int, caption string, kb Keyboard) error {
	edit := tgbotapi.NewEditMessageCaption(chatID, messageID, caption)
	edit.ReplyMarkup = buildInlineKeyboard(kb)
	return c.request(ctx, edit)
}

func (c *Client) AnswerCallback(ctx context.Context, callbackID, text string) error {
	return c.request(ctx, tgbotapi.NewCallback(callbackID, text))
}

func (c *Client) send(ctx context.Context, msg tgbotapi.Chattable) error {
	if c.dryRun {
		c.logger.Debug("dry run send", "method", methodName(msg))
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err := c.api.Send(msg)
	return err
}

// request is used for calls whose result is not a Message.
func (c *Client) request(ctx context.Context, msg tgbotapi.Chattable) error {
	if c.dryRun {
		c.logger.Debug("dry run request", "method", methodName(msg))
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err := c.api.Request(msg)
	return err
}

func methodName(msg tgbotapi.Chattable) string {
	switch msg.(type) {
	case tgbotapi.MessageConfig:
		return "sendMessage"
	case tgbotapi.PhotoConfig:
		return "sendPhoto"
	case tgbotapi.EditMessageTextConfig:
		return "editMessageText"
	case tgbotapi.EditMessageCaptionConfig:
		return "editMessageCaption"
	case tgbotapi.CallbackConfig:
		return "answerCallbackQuery"
	default:
		return "unknown"
	}
}
