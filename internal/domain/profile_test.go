package domain

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAge(t *testing.T) {
	tests := []struct {
		in      string
		ok      bool
		inRange bool
	}{
		{"25", true, true},
		{" 18 ", true, true},
		{"100", true, true},
		{"17", true, false},
		{"101", true, false},
		{"-5", true, false},
		{"twenty", false, false},
		{"", false, false},
		{"25.5", false, false},
		{"99999999999999999999", true, false},
		{"-99999999999999999999", true, false},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			_, ok, inRange := ParseAge(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.inRange, inRange)
		})
	}
}

func TestParseAge_WholeRange(t *testing.T) {
	for a := 0; a <= 120; a++ {
		_, ok, inRange := ParseAge(strconv.Itoa(a))
		assert.True(t, ok)
		assert.Equal(t, a >= MinAge && a <= MaxAge, inRange, "age %d", a)
	}
}

func TestValidBio_CountsRunes(t *testing.T) {
	assert.True(t, ValidBio(""))
	assert.True(t, ValidBio(strings.Repeat("a", 200)))
	assert.False(t, ValidBio(strings.Repeat("a", 201)))
	assert.True(t, ValidBio(strings.Repeat("🔮", 200)))
}

func TestPreference(t *testing.T) {
	assert.True(t, PreferAll.Accepts(GenderOther))
	assert.True(t, PreferFemale.Accepts(GenderFemale))
	assert.False(t, PreferFemale.Accepts(GenderMale))

	g, ok := PreferMale.GenderFilter()
	assert.True(t, ok)
	assert.Equal(t, GenderMale, g)

	_, ok = PreferAll.GenderFilter()
	assert.False(t, ok)
}

func TestParseGenderAndPreference(t *testing.T) {
	g, ok := ParseGender("Female")
	assert.True(t, ok)
	assert.Equal(t, GenderFemale, g)

	_, ok = ParseGender("robot")
	assert.False(t, ok)

	p, ok := ParsePreference("all")
	assert.True(t, ok)
	assert.Equal(t, PreferAll, p)

	_, ok = ParsePreference("women")
	assert.False(t, ok)
}

func TestProfileInputValidate(t *testing.T) {
	in := ProfileInput{
		UserID: 42, Name: "Ava", Age: 25, Gender: GenderFemale,
		InterestedIn: PreferMale, City: "Riga", Bio: "hi", Photo: "ref1",
	}
	assert.NoError(t, in.Validate())

	bad := in
	bad.Age = 17
	assert.Error(t, bad.Validate())

	bad = in
	bad.InterestedIn = "robots"
	assert.Error(t, bad.Validate())

	bad = in
	bad.Photo = ""
	assert.Error(t, bad.Validate())
}
