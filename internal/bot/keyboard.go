package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/oggyb/mysticmatch/internal/domain"
)

type Button struct {
	Text   string
	Action Action
}

// Keyboard is a grid of inline buttons. A nil Keyboard sends no markup.
type Keyboard [][]Button

func buildInlineKeyboard(kb Keyboard) *tgbotapi.InlineKeyboardMarkup {
	if len(kb) == 0 {
		return nil
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb))
	for _, row := range kb {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Action.Encode()))
		}
		rows = append(rows, buttons)
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}

func genderKeyboard() Keyboard {
	return Keyboard{
		{{Text: "Male", Action: GenderAction(domain.GenderMale)}},
		{{Text: "Female", Action: GenderAction(domain.GenderFemale)}},
		{{Text: "Other", Action: GenderAction(domain.GenderOther)}},
	}
}

func interestKeyboard() Keyboard {
	return Keyboard{
		{{Text: "Men", Action: InterestAction(domain.PreferMale)}},
		{{Text: "Women", Action: InterestAction(domain.PreferFemale)}},
		{{Text: "Everyone", Action: InterestAction(domain.PreferAll)}},
	}
}

func swipeKeyboard(targetID int64) Keyboard {
	return Keyboard{{
		{Text: "❤️ Like", Action: LikeAction(targetID)},
		{Text: "💔 Pass", Action: PassAction(targetID)},
	}}
}

func chatKeyboard(label string, targetID int64) Keyboard {
	return Keyboard{{{Text: label, Action: ChatAction(targetID)}}}
}
