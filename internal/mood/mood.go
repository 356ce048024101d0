// Package mood defines the fixed set of selectable moods and the genres each one covers.
package mood

import (
	"slices"
)

// Mood is a user-selectable listening mood.
type Mood int

// Moods in display order. Unknown is the zero value and matches no genres.
const (
	Unknown Mood = iota
	Chill
	Happy
	Energetic
	Romantic
	Sad
	Party
	Focus
)

// moodCount is the number of known moods (Unknown excluded).
const moodCount = int(Focus)

// names holds the display label for every mood, indexed by Mood.
var names = [...]string{
	Unknown:   "",
	Chill:     "Chill",
	Happy:     "Happy",
	Energetic: "Energetic",
	Romantic:  "Romantic",
	Sad:       "Sad",
	Party:     "Party",
	Focus:     "Focus",
}

// genres maps each mood to its lowercase genre list. Order is significant for display only.
var genres = [...][]string{
	Unknown:   nil,
	Chill:     {"acoustic", "chill", "ambient", "indie", "lo-fi"},
	Happy:     {"pop", "dance", "funk", "soul", "reggae"},
	Energetic: {"edm", "electronic", "rock", "metal", "house", "techno"},
	Romantic:  {"rnb", "soul", "acoustic", "ballad"},
	Sad:       {"acoustic", "indie", "blues", "piano", "soft-rock"},
	Party:     {"hip hop", "trap", "edm", "reggaeton", "pop"},
	Focus:     {"classical", "instrumental", "ambient", "lo-fi", "piano"},
}

// descriptions is the one-line blurb shown next to the mood picker.
var descriptions = [...]string{
	Unknown:   "",
	Chill:     "Relaxed and easygoing - great for unwinding",
	Happy:     "Bright, feel-good tracks to lift the day",
	Energetic: "High-energy, driving tracks to get moving",
	Romantic:  "Warm, intimate songs for two",
	Sad:       "Contemplative and introspective - ideal for quiet moments",
	Party:     "Loud, danceable hits for a crowd",
	Focus:     "Low-distraction music for deep work",
}

// All returns every known mood in display order.
func All() []Mood {
	all := make([]Mood, 0, moodCount)
	for m := Chill; m <= Focus; m++ {
		all = append(all, m)
	}
	return all
}

// Parse resolves an exact mood label such as "Chill". Matching is
// case-sensitive: "chill" is not a mood and yields Unknown and false.
func Parse(s string) (Mood, bool) {
	for _, m := range All() {
		if names[m] == s {
			return m, true
		}
	}
	return Unknown, false
}

// Valid reports whether m is one of the known moods.
func (m Mood) Valid() bool {
	return m >= Chill && m <= Focus
}

// String returns the display label, or "Unknown" for unrecognized values.
func (m Mood) String() string {
	if !m.Valid() {
		return "Unknown"
	}
	return names[m]
}

// Genres returns a copy of the genre list for m. Unknown moods return nil.
func Genres(m Mood) []string {
	if !m.Valid() {
		return nil
	}
	return slices.Clone(genres[m])
}

// Set returns the genres of m as a lookup set. Unknown moods return an empty set.
func Set(m Mood) map[string]struct{} {
	set := make(map[string]struct{})
	if !m.Valid() {
		return set
	}
	for _, g := range genres[m] {
		set[g] = struct{}{}
	}
	return set
}

// Describe returns a short description of m for display purposes.
func Describe(m Mood) string {
	if !m.Valid() {
		return ""
	}
	return descriptions[m]
}
