package bot

import (
	"context"
	"errors"
	"log/slog"

	"github.com/oggyb/mysticmatch/internal/app"
	"github.com/oggyb/mysticmatch/internal/db"
	svcErr "github.com/oggyb/mysticmatch/internal/errors"
	"github.com/oggyb/mysticmatch/internal/logger"
	"github.com/oggyb/mysticmatch/internal/metrics"
	"github.com/oggyb/mysticmatch/internal/service/chat"
	"github.com/oggyb/mysticmatch/internal/service/matchmaking"
	"github.com/oggyb/mysticmatch/internal/service/registration"
)

// Router turns inbound updates into service calls and renders the results.
//
// Free text is offered, in order, to the registration flow, then to the open
// chat session, then answered with a hint.
type Router struct {
	appCtx *app.AppContext
	out    Messenger
	flow   *registration.Flow
	match  *matchmaking.Service
	chat   *chat.Manager
}

func NewRouter(appCtx *app.AppContext, out Messenger) *Router {
	return &Router{
		appCtx: appCtx,
		out:    out,
		flow:   registration.NewFlow(appCtx),
		match:  matchmaking.NewService(appCtx),
		chat:   chat.NewManager(appCtx, textNotifier{m: out}),
	}
}

// Handle processes one update. Errors are logged here and returned so the
// dispatcher can count them; they never stop the bot.
func (r *Router) Handle(ctx context.Context, u Update) error {
	kind := kindOf(u)
	log := logger.ForEvent(r.appCtx.Logger, kind, u.From().UserID)
	log.Debug("update received")

	var err error
	switch u := u.(type) {
	case CommandUpdate:
		err = r.onCommand(ctx, u)
	case TextUpdate:
		err = r.onText(ctx, u)
	case PhotoUpdate:
		err = r.onPhoto(ctx, u)
	case CallbackUpdate:
		err = r.onCallback(ctx, log, u)
	}

	status := "ok"
	if err != nil {
		status = "error"
		log.Error("handle update failed", "err", err)
	}
	metrics.Updates.WithLabelValues(kind, status).Inc()
	return err
}

func (r *Router) onCommand(ctx context.Context, u CommandUpdate) error {
	switch u.Command {
	case "start":
		return r.start(ctx, u.Sender)
	case "swipe":
		return r.swipe(ctx, u.Sender)
	case "matches":
		return r.matches(ctx, u.Sender)
	case "profile":
		return r.profile(ctx, u.Sender)
	case "endchat":
		return r.endChat(ctx, u.Sender)
	default:
		return nil
	}
}

func (r *Router) start(ctx context.Context, s Sender) error {
	reply, err := r.flow.Start(ctx, s.UserID)
	if err != nil {
		return err
	}
	switch reply.Outcome {
	case registration.WelcomeBack:
		return r.out.SendText(ctx, s.ChatID, msgWelcomeBack, nil)
	case registration.Started:
		return r.out.SendText(ctx, s.ChatID, msgWelcome+msgAskName, nil)
	default:
		return r.renderRegistration(ctx, s, reply)
	}
}

func (r *Router) swipe(ctx context.Context, s Sender) error {
	c, err := r.match.NextCandidate(ctx, s.UserID)
	if errors.Is(err, svcErr.ErrProfileNotFound) {
		return r.out.SendText(ctx, s.ChatID, msgNoProfile, nil)
	}
	if err != nil {
		return err
	}
	if c == nil {
		return r.out.SendText(ctx, s.ChatID, msgNoCandidates, nil)
	}
	return r.showCandidate(ctx, s.ChatID, c)
}

func (r *Router) matches(ctx context.Context, s Sender) error {
	ok, err := r.appCtx.Profiles.Exists(ctx, s.UserID)
	if err != nil {
		return err
	}
	if !ok {
		return r.out.SendText(ctx, s.ChatID, msgNoProfile, nil)
	}

	list, err := r.match.Matches(ctx, s.UserID)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return r.out.SendText(ctx, s.ChatID, msgNoMatches, nil)
	}

	if err := r.out.SendText(ctx, s.ChatID, matchCount(len(list)), nil); err != nil {
		return err
	}
	for _, p := range list {
		if err := r.out.SendPhoto(ctx, s.ChatID, p.Photo, profileCard(p), chatKeyboard(msgMatchesLabel, p.UserID)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Router) profile(ctx context.Context, s Sender) error {
	p, err := r.appCtx.Profiles.Get(ctx, s.UserID)
	if errors.Is(err, svcErr.ErrProfileNotFound) {
		return r.out.SendText(ctx, s.ChatID, msgNoProfile, nil)
	}
	if err != nil {
		return err
	}
	return r.out.SendPhoto(ctx, s.ChatID, p.Photo, ownProfileCard(*p), nil)
}

func (r *Router) endChat(ctx context.Context, s Sender) error {
	had, err := r.chat.Close(ctx, s.UserID)
	if err != nil {
		return err
	}
	if had {
		return r.out.SendText(ctx, s.ChatID, msgChatEnded, nil)
	}
	return r.out.SendText(ctx, s.ChatID, msgNotInChat, nil)
}

func (r *Router) onText(ctx context.Context, u TextUpdate) error {
	reply, err := r.flow.HandleText(ctx, u.UserID, u.Text)
	if err != nil {
		return err
	}
	if reply.Outcome != registration.Ignored {
		return r.renderRegistration(ctx, u.Sender, reply)
	}

	res, err := r.chat.Relay(ctx, u.UserID, u.Text)
	if err != nil {
		return err
	}
	switch res {
	case chat.Sent:
		return r.out.SendText(ctx, u.ChatID, msgSent, nil)
	case chat.Rejected:
		return r.out.SendText(ctx, u.ChatID, msgOnlyMatches, nil)
	default:
		return r.out.SendText(ctx, u.ChatID, msgDefaultHint, nil)
	}
}

func (r *Router) onPhoto(ctx context.Context, u PhotoUpdate) error {
	reply, err := r.flow.HandlePhoto(ctx, u.UserID, u.Username, u.PhotoRef)
	if err != nil {
		return err
	}
	if reply.Outcome == registration.Ignored {
		return r.out.SendText(ctx, u.ChatID, msgUseStart, nil)
	}
	return r.renderRegistration(ctx, u.Sender, reply)
}

func (r *Router) renderRegistration(ctx context.Context, s Sender, reply registration.Reply) error {
	switch reply.Outcome {
	case registration.Completed:
		return r.out.SendText(ctx, s.ChatID, msgRegistered, nil)

	case registration.Invalid:
		text := problemText(reply.Problem)
		switch reply.Problem {
		case registration.ExpectedChoice, registration.ExpectedPhoto, registration.ExpectedText:
			prompt, kb := promptFor(reply.Step)
			return r.out.SendText(ctx, s.ChatID, text+"\n\n"+prompt, kb)
		}
		return r.out.SendText(ctx, s.ChatID, text, nil)

	case registration.Advanced, registration.Resumed:
		prompt, kb := promptFor(reply.Step)
		return r.out.SendText(ctx, s.ChatID, prompt, kb)

	default:
		return nil
	}
}

func (r *Router) onCallback(ctx context.Context, log *slog.Logger, u CallbackUpdate) error {
	if err := r.out.AnswerCallback(ctx, u.CallbackID, ""); err != nil {
		log.Warn("answer callback", "err", err)
	}

	a, err := DecodeAction(u.Data)
	if err != nil {
		log.Warn("ignoring callback", "err", err)
		return nil
	}

	switch a.Kind {
	case ActionGender:
		reply, err := r.flow.ChooseGender(ctx, u.UserID, a.Gender)
		if err != nil {
			return err
		}
		return r.editPrompt(ctx, u, reply)

	case ActionInterest:
		reply, err := r.flow.ChoosePreference(ctx, u.UserID, a.Preference)
		if err != nil {
			return err
		}
		return r.editPrompt(ctx, u, reply)

	case ActionLike, ActionPass:
		return r.decide(ctx, log, u, a.TargetID, a.Kind == ActionLike)

	case ActionChat:
		target, err := r.chat.Open(ctx, u.UserID, a.TargetID)
		if errors.Is(err, svcErr.ErrProfileNotFound) {
			log.Warn("chat target gone", "target", a.TargetID)
			return nil
		}
		if err != nil {
			return err
		}
		return r.out.SendText(ctx, u.ChatID, nowChatting(target.Name), nil)
	}
	return nil
}

// editPrompt replaces the question with the next one once a choice is accepted.
func (r *Router) editPrompt(ctx context.Context, u CallbackUpdate, reply registration.Reply) error {
	if reply.Outcome != registration.Advanced {
		return nil
	}
	prompt, kb := promptFor(reply.Step)
	return r.out.EditText(ctx, u.ChatID, u.MessageID, prompt, kb)
}

func (r *Router) decide(ctx context.Context, log *slog.Logger, u CallbackUpdate, targetID int64, liked bool) error {
	isNew, err := r.match.RecordDecision(ctx, u.UserID, targetID, liked)
	switch {
	case errors.Is(err, svcErr.ErrSelfDecision), errors.Is(err, svcErr.ErrProfileNotFound):
		log.Warn("decision rejected", "target", targetID, "err", err)
		return nil
	case err != nil:
		return err
	}

	if isNew {
		if err := r.announceMatch(ctx, log, u, targetID); err != nil {
			return err
		}
	} else if err := r.out.EditCaption(ctx, u.ChatID, u.MessageID, msgNextProfile, nil); err != nil {
		log.Warn("edit swiped card", "err", err)
	}

	return r.showNext(ctx, u.Sender)
}

// announceMatch tells both sides and offers each a button to start chatting.
func (r *Router) announceMatch(ctx context.Context, log *slog.Logger, u CallbackUpdate, targetID int64) error {
	me, err := r.appCtx.Profiles.Get(ctx, u.UserID)
	if err != nil {
		return err
	}
	target, err := r.appCtx.Profiles.Get(ctx, targetID)
	if err != nil {
		return err
	}

	if err := r.out.EditCaption(ctx, u.ChatID, u.MessageID, matchForSwiper(target.Name), nil); err != nil {
		log.Warn("edit swiped card", "err", err)
	}
	if err := r.out.SendText(ctx, target.UserID, matchForTarget(me.Name), chatKeyboard(msgButtonLabel, me.UserID)); err != nil {
		log.Warn("match notification not delivered", "target", target.UserID, "err", err)
	}
	return r.out.SendText(ctx, u.ChatID, msgStartChatting, chatKeyboard(msgButtonLabel, target.UserID))
}

func (r *Router) showNext(ctx context.Context, s Sender) error {
	c, err := r.match.NextCandidate(ctx, s.UserID)
	if err != nil {
		return err
	}
	if c == nil {
		return r.out.SendText(ctx, s.ChatID, msgNoMoreForNow, nil)
	}
	return r.showCandidate(ctx, s.ChatID, c)
}

func (r *Router) showCandidate(ctx context.Context, chatID int64, c *db.Profile) error {
	return r.out.SendPhoto(ctx, chatID, c.Photo, profileCard(*c), swipeKeyboard(c.UserID))
}
