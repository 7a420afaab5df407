package model

type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodSad     Mood = "sad"
	MoodAngry   Mood = "angry"
	MoodAnxious Mood = "anxious"
	MoodNeutral Mood = "neutral"
)

var Moods = []Mood{MoodHappy, MoodSad, MoodAngry, MoodAnxious, MoodNeutral}

func (m Mood) Valid() bool {
	switch m {
	case MoodHappy, MoodSad, MoodAngry, MoodAnxious, MoodNeutral:
		return true
	}
	return false
}
