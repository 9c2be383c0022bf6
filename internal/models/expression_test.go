package models

import "testing"

func TestEmotionIsValid(t *testing.T) {
	tests := []struct {
		name     string
		emotion  Emotion
		expected bool
	}{
		{name: "happy", emotion: EmotionHappy, expected: true},
		{name: "sad", emotion: EmotionSad, expected: true},
		{name: "angry", emotion: EmotionAngry, expected: true},
		{name: "excited", emotion: EmotionExcited, expected: true},
		{name: "calm", emotion: EmotionCalm, expected: true},
		{name: "unknown", emotion: Emotion("bored"), expected: false},
		{name: "empty", emotion: Emotion(""), expected: false},
		{name: "display name is not a stored value", emotion: Emotion("Upset"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := tt.emotion.IsValid(); result != tt.expected {
				t.Errorf("IsValid() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestEmotionIsHighPriority(t *testing.T) {
	tests := []struct {
		name     string
		emotion  Emotion
		expected bool
	}{
		{name: "sad alerts", emotion: EmotionSad, expected: true},
		{name: "angry alerts", emotion: EmotionAngry, expected: true},
		{name: "happy does not", emotion: EmotionHappy, expected: false},
		{name: "excited does not", emotion: EmotionExcited, expected: false},
		{name: "calm does not", emotion: EmotionCalm, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := tt.emotion.IsHighPriority(); result != tt.expected {
				t.Errorf("IsHighPriority() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestEmotionDisplayName(t *testing.T) {
	tests := []struct {
		name     string
		emotion  Emotion
		expected string
	}{
		{name: "happy", emotion: EmotionHappy, expected: "Happy"},
		{name: "sad", emotion: EmotionSad, expected: "Sad"},
		{name: "angry softened to Upset", emotion: EmotionAngry, expected: "Upset"},
		{name: "excited", emotion: EmotionExcited, expected: "Excited"},
		{name: "calm shown as Tired", emotion: EmotionCalm, expected: "Tired"},
		{name: "unknown passes through", emotion: Emotion("bored"), expected: "bored"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := tt.emotion.DisplayName(); result != tt.expected {
				t.Errorf("DisplayName() = %q, want %q", result, tt.expected)
			}
		})
	}
}
