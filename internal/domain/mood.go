// Package domain contains the core entities for somatic: the mood catalog,
// screens, player session state and afterglow phases. It has no dependency
// on the terminal, the clock or any other infrastructure.
package domain

import (
	"fmt"
	"strings"
)

// Mood identifies a user-selected body state.
type Mood string

const (
	MoodHeavy   Mood = "heavy"
	MoodAnxious Mood = "anxious"
	MoodChaotic Mood = "chaotic"
)

// Variant is the visualization style a mood drives.
type Variant string

const (
	VariantShake Variant = "shake"
	VariantHum   Variant = "hum"
	VariantRock  Variant = "rock"
)

// MoodStyle is the immutable display and visual metadata for a mood.
type MoodStyle struct {
	ID          Mood
	Name        string
	Description string
	Primary     string
	Secondary   string
	Variant     Variant

	// Check-in card copy and gradient.
	Label         string
	Feeling       string
	Icon          string
	GradientStart string
	GradientEnd   string
}

// UnknownMoodError is returned when a mood identifier is not in the catalog.
type UnknownMoodError struct {
	ID string
}

func (e *UnknownMoodError) Error() string {
	return fmt.Sprintf("unknown mood %q: must be one of heavy, anxious, chaotic", e.ID)
}

// Is lets errors.Is(err, ErrUnknownMood) match any UnknownMoodError.
func (e *UnknownMoodError) Is(target error) bool {
	return target == ErrUnknownMood
}

var catalog = []MoodStyle{
	{
		ID:            MoodHeavy,
		Name:          "The Shake",
		Description:   "去重",
		Primary:       "#ff6b35",
		Secondary:     "#f7931e",
		Variant:       VariantShake,
		Label:         "Heavy",
		Feeling:       "沉重 / 冻结",
		Icon:          "🪨",
		GradientStart: "#1f2937",
		GradientEnd:   "#991b1b",
	},
	{
		ID:            MoodAnxious,
		Name:          "The Hum",
		Description:   "共鸣",
		Primary:       "#9d4edd",
		Secondary:     "#7209b7",
		Variant:       VariantHum,
		Label:         "Anxious",
		Feeling:       "焦虑 / 紧绷",
		Icon:          "🔥",
		GradientStart: "#1e3a8a",
		GradientEnd:   "#7e22ce",
	},
	{
		ID:            MoodChaotic,
		Name:          "The Rock",
		Description:   "摇篮",
		Primary:       "#2d6a4f",
		Secondary:     "#52b788",
		Variant:       VariantRock,
		Label:         "Chaotic",
		Feeling:       "混乱 / 思绪多",
		Icon:          "🌪️",
		GradientStart: "#111827",
		GradientEnd:   "#064e3b",
	},
}

// Moods returns the catalog in display order.
func Moods() []MoodStyle {
	out := make([]MoodStyle, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the style for a mood identifier.
func Lookup(id Mood) (MoodStyle, error) {
	for _, style := range catalog {
		if style.ID == id {
			return style, nil
		}
	}
	return MoodStyle{}, &UnknownMoodError{ID: string(id)}
}

// ParseMood normalizes user input into a catalog identifier.
func ParseMood(s string) (Mood, error) {
	m := Mood(strings.ToLower(strings.TrimSpace(s)))
	if _, err := Lookup(m); err != nil {
		return "", err
	}
	return m, nil
}

// Label returns a human-readable label.
func (m Mood) Label() string {
	style, err := Lookup(m)
	if err != nil {
		return "Unknown"
	}
	return style.Label
}
