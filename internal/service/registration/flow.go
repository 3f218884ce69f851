// Package registration runs the multi-turn profile registration.
//
// The flow is strictly linear: name, age, gender, interested_in, city, bio,
// photo. The first accepted photo commits the whole profile in one write and
// removes the in-progress state. Invalid answers never fail; they re-prompt
// the same step.
package registration

import (
	"context"
	"fmt"
	"strings"

	"github.com/oggyb/mysticmatch/internal/app"
	"github.com/oggyb/mysticmatch/internal/db"
	"github.com/oggyb/mysticmatch/internal/domain"
	svcErr "github.com/oggyb/mysticmatch/internal/errors"
	"github.com/oggyb/mysticmatch/internal/metrics"
	"github.com/oggyb/mysticmatch/internal/repository"
	"github.com/oggyb/mysticmatch/internal/session"
)

// DefaultUsername is stored when the platform gives no handle.
const DefaultUsername = "anonymous"

// Outcome tells the caller what to render.
type Outcome int

const (
	// Ignored: the event does not belong to a registration.
	Ignored Outcome = iota
	// WelcomeBack: the user already has a profile.
	WelcomeBack
	// Started: a new registration begins at StepName.
	Started
	// Resumed: /start during a registration; Step is re-prompted.
	Resumed
	// Advanced: the answer was accepted and Step is the next question.
	Advanced
	// Invalid: the answer was rejected; Step is asked again because of Problem.
	Invalid
	// Completed: the profile was committed.
	Completed
)

// Problem explains an Invalid outcome.
type Problem int

const (
	NoProblem Problem = iota
	EmptyName
	AgeNotNumber
	AgeOutOfRange
	BioTooLong
	ExpectedChoice
	ExpectedPhoto
	ExpectedText
)

type Reply struct {
	Outcome Outcome
	Step    session.Step
	Problem Problem
}

func invalid(step session.Step, p Problem) Reply {
	return Reply{Outcome: Invalid, Step: step, Problem: p}
}

type Flow struct {
	appCtx   *app.AppContext
	profiles *repository.ProfileRepository
	sessions session.Store
}

func NewFlow(appCtx *app.AppContext) *Flow {
	return &Flow{
		appCtx:   appCtx,
		profiles: appCtx.Profiles,
		sessions: appCtx.Sessions,
	}
}

// Active reports whether userID is in the middle of a registration.
func (f *Flow) Active(ctx context.Context, userID int64) (bool, error) {
	reg, err := f.sessions.GetRegistration(ctx, userID)
	if err != nil {
		return false, err
	}
	return reg != nil, nil
}

// Start handles the entry command.
//
// Behavior:
//   - A committed profile blocks registration entirely (WelcomeBack).
//   - A registration in progress keeps its answers and re-prompts its step.
//   - Otherwise a new registration starts at the name step.
func (f *Flow) Start(ctx context.Context, userID int64) (Reply, error) {
	exists, err := f.profiles.Exists(ctx, userID)
	if err != nil {
		return Reply{}, err
	}
	if exists {
		return Reply{Outcome: WelcomeBack}, nil
	}

	reg, err := f.sessions.GetRegistration(ctx, userID)
	if err != nil {
		return Reply{}, err
	}
	if reg != nil {
		return Reply{Outcome: Resumed, Step: reg.Step}, nil
	}

	reg = &session.Registration{UserID: userID, Step: session.StepName}
	if err := f.sessions.SaveRegistration(ctx, reg); err != nil {
		return Reply{}, err
	}
	f.appCtx.Logger.Info("registration started", "user", userID)
	return Reply{Outcome: Started, Step: session.StepName}, nil
}

// HandleText feeds a free-text answer into the current step.
func (f *Flow) HandleText(ctx context.Context, userID int64, text string) (Reply, error) {
	reg, err := f.sessions.GetRegistration(ctx, userID)
	if err != nil || reg == nil {
		return Reply{}, err
	}

	switch reg.Step {
	case session.StepName:
		if text == "" {
			return invalid(reg.Step, EmptyName), nil
		}
		reg.Name = text

	case session.StepAge:
		age, ok, inRange := domain.ParseAge(text)
		if !ok {
			return invalid(reg.Step, AgeNotNumber), nil
		}
		if !inRange {
			return invalid(reg.Step, AgeOutOfRange), nil
		}
		reg.Age = age

	case session.StepGender, session.StepInterestedIn:
		return invalid(reg.Step, ExpectedChoice), nil

	case session.StepCity:
		reg.City = text

	case session.StepBio:
		if !domain.ValidBio(text) {
			return invalid(reg.Step, BioTooLong), nil
		}
		reg.Bio = text

	case session.StepPhoto:
		return invalid(reg.Step, ExpectedPhoto), nil

	default:
		return Reply{}, fmt.Errorf("registration %d: unknown step %q", userID, reg.Step)
	}

	return f.advance(ctx, reg)
}

// ChooseGender answers the gender step. Outside that step it is a no-op.
func (f *Flow) ChooseGender(ctx context.Context, userID int64, g domain.Gender) (Reply, error) {
	reg, err := f.sessions.GetRegistration(ctx, userID)
	if err != nil || reg == nil {
		return Reply{}, err
	}
	if reg.Step != session.StepGender {
		return Reply{}, nil
	}
	reg.Gender = string(g)
	return f.advance(ctx, reg)
}

// ChoosePreference answers the interested_in step. Outside that step it is a no-op.
func (f *Flow) ChoosePreference(ctx context.Context, userID int64, p domain.Preference) (Reply, error) {
	reg, err := f.sessions.GetRegistration(ctx, userID)
	if err != nil || reg == nil {
		return Reply{}, err
	}
	if reg.Step != session.StepInterestedIn {
		return Reply{}, nil
	}
	reg.InterestedIn = string(p)
	return f.advance(ctx, reg)
}

// HandlePhoto accepts the photo and commits the profile. photoRef is the
// platform media reference of the largest size offered.
func (f *Flow) HandlePhoto(ctx context.Context, userID int64, username, photoRef string) (Reply, error) {
	reg, err := f.sessions.GetRegistration(ctx, userID)
	if err != nil || reg == nil {
		return Reply{}, err
	}
	switch reg.Step {
	case session.StepPhoto:
	case session.StepGender, session.StepInterestedIn:
		return invalid(reg.Step, ExpectedChoice), nil
	default:
		return invalid(reg.Step, ExpectedText), nil
	}

	if err := f.commit(ctx, reg, username, photoRef); err != nil {
		return Reply{}, err
	}
	return Reply{Outcome: Completed}, nil
}

func (f *Flow) advance(ctx context.Context, reg *session.Registration) (Reply, error) {
	reg.Step = reg.Step.Next()
	if err := f.sessions.SaveRegistration(ctx, reg); err != nil {
		return Reply{}, err
	}
	return Reply{Outcome: Advanced, Step: reg.Step}, nil
}

func (f *Flow) commit(ctx context.Context, reg *session.Registration, username, photoRef string) error {
	if strings.TrimSpace(username) == "" {
		username = DefaultUsername
	}

	in := domain.ProfileInput{
		UserID:       reg.UserID,
		Username:     username,
		Name:         reg.Name,
		Age:          reg.Age,
		Gender:       domain.Gender(reg.Gender),
		InterestedIn: domain.Preference(reg.InterestedIn),
		City:         reg.City,
		Bio:          reg.Bio,
		Photo:        photoRef,
	}
	if err := in.Validate(); err != nil {
		return fmt.Errorf("registration %d: %w: %v", reg.UserID, svcErr.ErrInvalidArgument, err)
	}

	pref := string(in.InterestedIn)
	profile := &db.Profile{
		UserID:       in.UserID,
		Username:     in.Username,
		Name:         in.Name,
		Age:          in.Age,
		Gender:       string(in.Gender),
		InterestedIn: &pref,
		City:         in.City,
		Bio:          in.Bio,
		Photo:        in.Photo,
		Active:       true,
	}
	if err := f.profiles.Create(ctx, profile); err != nil {
		return err
	}
	if err := f.sessions.DeleteRegistration(ctx, reg.UserID); err != nil {
		return err
	}

	metrics.RegistrationsCompleted.Inc()
	f.appCtx.Logger.Info("registration completed", "user", reg.UserID)
	return nil
}
