package extract

import "testing"

func TestResolveTitle(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"test_paper_file.pdf", "Test Paper File"},
		{"the_impact_of_ai_in_education.pdf", "The Impact of Ai in Education"},
		{"advanced-learning_systems-and-ai.pdf", "Advanced Learning Systems and Ai"},
		{"feedback-timing-in-the-classroom.pdf", "Feedback Timing in the Classroom"},
		{"a_study_of_agency.pdf", "A Study of Agency"},
		{"UPPER_CASE_NAME.pdf", "Upper Case Name"},
		{"double__separators--here.pdf", "Double Separators Here"},
		{"noextension", "Noextension"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := ResolveTitle(tt.filename); got != tt.want {
				t.Errorf("ResolveTitle(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}

func TestNormalizeText(t *testing.T) {
	in := "a\x00b  c\nd\te"
	want := "ab c\nd\te"
	if got := normalizeText(in); got != want {
		t.Errorf("normalizeText = %q, want %q", got, want)
	}
}
