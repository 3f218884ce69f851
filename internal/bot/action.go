package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/oggyb/mysticmatch/internal/domain"
)

// ActionKind is the tag of an inline button payload.
type ActionKind string

const (
	ActionGender   ActionKind = "gender"
	ActionInterest ActionKind = "interest"
	ActionLike     ActionKind = "like"
	ActionPass     ActionKind = "pass"
	ActionChat     ActionKind = "chat"
)

// Action is a decoded inline button press. Only the field matching Kind is set.
type Action struct {
	Kind       ActionKind
	Gender     domain.Gender
	Preference domain.Preference
	TargetID   int64
}

func GenderAction(g domain.Gender) Action { return Action{Kind: ActionGender, Gender: g} }
func InterestAction(p domain.Preference) Action { return Action{Kind: ActionInterest, Preference: p} }
func LikeAction(targetID int64) Action { return Action{Kind: ActionLike, TargetID: targetID} }
func PassAction(targetID int64) Action { return Action{Kind: ActionPass, TargetID: targetID} }
func ChatAction(targetID int64) Action { return Action{Kind: ActionChat, TargetID: targetID} }

// Encode renders the action as callback data, e.g. "like:42".
func (a Action) Encode() string {
	switch a.Kind {
	case ActionGender:
		return string(a.Kind) + ":" + string(a.Gender)
	case ActionInterest:
		return string(a.Kind) + ":" + string(a.Preference)
	default:
		return string(a.Kind) + ":" + strconv.FormatInt(a.TargetID, 10)
	}
}

// DecodeAction parses callback data produced by Encode.
func DecodeAction(data string) (Action, error) {
	kind, value, ok := strings.Cut(data, ":")
	if !ok || value == "" {
		return Action{}, fmt.Errorf("malformed callback data %q", data)
	}

	switch k := ActionKind(kind); k {
	case ActionGender:
		g, ok := domain.ParseGender(value)
		if !ok {
			return Action{}, fmt.Errorf("unknown gender %q", value)
		}
		return GenderAction(g), nil

	case ActionInterest:
		p, ok := domain.ParsePreference(value)
		if !ok {
			return Action{}, fmt.Errorf("unknown preference %q", value)
		}
		return InterestAction(p), nil

	case ActionLike, ActionPass, ActionChat:
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return Action{}, fmt.Errorf("bad target in %q: %w", data, err)
		}
		return Action{Kind: k, TargetID: id}, nil

	default:
		return Action{}, fmt.Errorf("unknown action %q", kind)
	}
}
