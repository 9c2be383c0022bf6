package models

import "time"

// Emotion is the closed set of emotional check-in labels.
type Emotion string

const (
	EmotionHappy   Emotion = "happy"
	EmotionSad     Emotion = "sad"
	EmotionAngry   Emotion = "angry"
	EmotionExcited Emotion = "excited"
	EmotionCalm    Emotion = "calm"
)

// IsValid reports whether the emotion is one of the known labels.
func (e Emotion) IsValid() bool {
	switch e {
	case EmotionHappy, EmotionSad, EmotionAngry, EmotionExcited, EmotionCalm:
		return true
	}
	return false
}

// IsHighPriority reports whether a check-in with this emotion
// should alert the admins.
func (e Emotion) IsHighPriority() bool {
	return e == EmotionSad || e == EmotionAngry
}

// DisplayName returns the label shown to parents and admins.
// "angry" and "calm" are softened for display; the stored
// value is never remapped.
func (e Emotion) DisplayName() string {
	switch e {
	case EmotionHappy:
		return "Happy"
	case EmotionSad:
		return "Sad"
	case EmotionAngry:
		return "Upset"
	case EmotionExcited:
		return "Excited"
	case EmotionCalm:
		return "Tired"
	}
	return string(e)
}

// Expression is a student's emotional check-in. Rows are
// append-only: a check-in is never edited or deleted.
type Expression struct {
	ID        int64
	UserID    int64
	Emotion   Emotion
	Note      string
	CreatedAt time.Time
}

// ExpressionWithStudent includes the student's display name for
// the alerts dashboard.
type ExpressionWithStudent struct {
	Expression  Expression
	StudentName string
}
