package bot

import (
	"fmt"

	"github.com/oggyb/mysticmatch/internal/db"
	"github.com/oggyb/mysticmatch/internal/service/registration"
	"github.com/oggyb/mysticmatch/internal/session"
)

const (
	msgWelcomeBack = "🔮 Welcome back to MysticMatch!\n\n" +
		"Commands:\n" +
		"/swipe - Start swiping\n" +
		"/matches - See your matches\n" +
		"/profile - View your profile"
	msgWelcome = "🔮 Welcome to MysticMatch\n\n" +
		"Where chaotic energies collide...\n\n" +
		"Let's create your profile.\n"

	msgAskName     = "What's your name?"
	msgAskAge      = "What's your age?"
	msgAskGender   = "What's your gender?"
	msgAskInterest = "Who are you interested in?"
	msgAskCity     = "What city are you from?"
	msgAskBio      = "Write a short bio about yourself\n(Keep it under 200 characters)"
	msgAskPhoto    = "Send me a photo of yourself"

	msgEmptyName     = "Please tell me your name"
	msgAgeNotNumber  = "Please enter a valid number for age"
	msgAgeOutOfRange = "Please enter a valid age (18-100)"
	msgBioTooLong    = "Bio is too long! Keep it under 200 characters"
	msgPickButton    = "Please pick one of the options below"
	msgNeedPhoto     = "Please send a photo, not text"
	msgNeedText      = "Please answer with text"

	msgRegistered = "✅ Profile created successfully!\n\n" +
		"🔮 Ready to find your match?\n\n" +
		"Use /swipe to start swiping!"

	msgUseStart      = "Use /start to begin registration"
	msgNoProfile     = "Please use /start to create your profile first!"
	msgDefaultHint   = "Use /swipe to start swiping or /matches to see your matches!"
	msgNoCandidates  = "No more profiles to show right now!\nCheck back later when more people join 🔮"
	msgNoMoreForNow  = "No more profiles for now! Check back later 🔮"
	msgNextProfile   = "Next profile coming up..."
	msgStartChatting = "Start chatting now!"
	msgNoMatches     = "No matches yet! Use /swipe to find someone 🔮"

	msgOnlyMatches  = "You can only chat with your matches!"
	msgSent         = "✓ Sent"
	msgChatEnded    = "Chat ended. Use /matches to chat with someone else!"
	msgNotInChat    = "You're not in a chat right now"
	msgButtonLabel  = "💬 Start Chat"
	msgMatchesLabel = "💬 Chat"
)

func promptFor(step session.Step) (string, Keyboard) {
	switch step {
	case session.StepName:
		return msgAskName, nil
	case session.StepAge:
		return msgAskAge, nil
	case session.StepGender:
		return msgAskGender, genderKeyboard()
	case session.StepInterestedIn:
		return msgAskInterest, interestKeyboard()
	case session.StepCity:
		return msgAskCity, nil
	case session.StepBio:
		return msgAskBio, nil
	case session.StepPhoto:
		return msgAskPhoto, nil
	default:
		return msgUseStart, nil
	}
}

func problemText(p registration.Problem) string {
	switch p {
	case registration.EmptyName:
		return msgEmptyName
	case registration.AgeNotNumber:
		return msgAgeNotNumber
	case registration.AgeOutOfRange:
		return msgAgeOutOfRange
	case registration.BioTooLong:
		return msgBioTooLong
	case registration.ExpectedChoice:
		return msgPickButton
	case registration.ExpectedPhoto:
		return msgNeedPhoto
	case registration.ExpectedText:
		return msgNeedText
	default:
		return ""
	}
}

func profileCard(p db.Profile) string {
	return fmt.Sprintf("✨ %s, %d\n📍 %s\n\n%s", p.Name, p.Age, p.City, p.Bio)
}

func ownProfileCard(p db.Profile) string {
	return fmt.Sprintf("✨ Your Profile\n\nName: %s\nAge: %d\nGender: %s\nCity: %s\nBio: %s",
		p.Name, p.Age, p.Gender, p.City, p.Bio)
}

func matchForSwiper(targetName string) string {
	return fmt.Sprintf("🔥 IT'S A MATCH!\n\nYou and %s liked each other!\n\nTwo chaotic energies collided today...", targetName)
}

func matchForTarget(swiperName string) string {
	return fmt.Sprintf("🔥 IT'S A MATCH!\n\nYou and %s liked each other!", swiperName)
}

func matchCount(n int) string {
	return fmt.Sprintf("You have %d match(es)!", n)
}

func nowChatting(name string) string {
	return fmt.Sprintf("💬 Now chatting with %s\n\nType your message below.\nUse /endchat to stop chatting", name)
}
