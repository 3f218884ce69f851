// Package domain holds the value types shared by the matchmaking components.
package domain

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	MinAge    = 18
	MaxAge    = 100
	MaxBioLen = 200
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// ParseGender accepts the canonical values only.
func ParseGender(s string) (Gender, bool) {
	switch g := Gender(strings.ToLower(strings.TrimSpace(s))); g {
	case GenderMale, GenderFemale, GenderOther:
		return g, true
	}
	return "", false
}

// Preference is who a user wants to see while swiping.
type Preference string

const (
	PreferMale   Preference = "male"
	PreferFemale Preference = "female"
	PreferAll    Preference = "all"
)

func ParsePreference(s string) (Preference, bool) {
	switch p := Preference(strings.ToLower(strings.TrimSpace(s))); p {
	case PreferMale, PreferFemale, PreferAll:
		return p, true
	}
	return "", false
}

// Accepts reports whether a profile of gender g passes this preference.
func (p Preference) Accepts(g Gender) bool {
	return p == PreferAll || string(p) == string(g)
}

// GenderFilter returns the gender to filter candidates by, or false when no
// filter applies.
func (p Preference) GenderFilter() (Gender, bool) {
	if p == "" || p == PreferAll {
		return "", false
	}
	return Gender(p), true
}

var validate = validator.New()

// ParseAge parses a registration answer. ok is false for non-numeric input;
// inRange is false for numbers outside [MinAge, MaxAge].
func ParseAge(text string) (age int, ok bool, inRange bool) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if errors.Is(err, strconv.ErrRange) {
		// a number, just far too large
		return 0, true, false
	}
	if err != nil {
		return 0, false, false
	}
	return n, true, validate.Var(n, "min=18,max=100") == nil
}

// ValidBio counts characters, not bytes.
func ValidBio(bio string) bool {
	return validate.Var(bio, "max=200") == nil
}

// ProfileInput is the full set of answers collected during registration.
type ProfileInput struct {
	UserID       int64      `validate:"required"`
	Username     string     `validate:"max=64"`
	Name         string     `validate:"required"`
	Age          int        `validate:"min=18,max=100"`
	Gender       Gender     `validate:"oneof=male female other"`
	InterestedIn Preference `validate:"oneof=male female all"`
	City         string
	Bio          string `validate:"max=200"`
	Photo        string `validate:"required"`
}

// Validate checks the collected answers before they are committed.
func (in ProfileInput) Validate() error {
	return validate.Struct(in)
}
