package domain

import "testing"

func TestGradeString(t *testing.T) {
	testCases := []struct {
		grade    Grade
		expected string
		valid    bool
	}{
		{Again, "Again", true},
		{Hard, "Hard", true},
		{Good, "Good", true},
		{Easy, "Easy", true},
		{Grade(0), "Grade(0)", false},
		{Grade(5), "Grade(5)", false},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			if got := tc.grade.String(); got != tc.expected {
				t.Errorf("Expected String() to be '%s', but got '%s'", tc.expected, got)
			}
			if got := tc.grade.IsValid(); got != tc.valid {
				t.Errorf("Expected IsValid() to be %v, but got %v", tc.valid, got)
			}
		})
	}
}

func TestCardTags(t *testing.T) {
	card := Card{Properties: map[string]string{"tags": " verbs french "}}
	if card.Tags() != " verbs french " {
		t.Errorf("Expected raw tags column, got '%s'", card.Tags())
	}
	if (Card{}).Tags() != "" {
		t.Error("Expected empty tags for a card without properties")
	}
}
