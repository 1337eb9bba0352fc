package registration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubmissionFromPayload_Events(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
		want    string
	}{
		{
			name:    "single string kept unchanged",
			payload: map[string]any{"events": "Poetry Slam"},
			want:    "Poetry Slam",
		},
		{
			name:    "string with separators kept unchanged",
			payload: map[string]any{"event": "Poetry Slam, Story Writing"},
			want:    "Poetry Slam, Story Writing",
		},
		{
			name:    "array joined",
			payload: map[string]any{"events": []any{"A", "B"}},
			want:    "A, B",
		},
		{
			name:    "bracketed key",
			payload: map[string]any{"events[]": []any{"Debate"}},
			want:    "Debate",
		},
		{
			name:    "empty array",
			payload: map[string]any{"events": []any{}},
			want:    "",
		},
		{
			name:    "blank elements dropped",
			payload: map[string]any{"events": []any{"A", " ", nil, "B"}},
			want:    "A, B",
		},
		{
			name:    "events wins over event",
			payload: map[string]any{"event": "Old", "events": []any{"New"}},
			want:    "New",
		},
		{
			name:    "null falls through to next alias",
			payload: map[string]any{"events": nil, "event": "Quiz"},
			want:    "Quiz",
		},
		{
			name:    "empty array falls through to next alias",
			payload: map[string]any{"events": []any{}, "event": "Quiz"},
			want:    "Quiz",
		},
		{
			name:    "blank string falls through to bracketed key",
			payload: map[string]any{"events": "  ", "events[]": []any{"Debate", "Quiz"}},
			want:    "Debate, Quiz",
		},
		{
			name:    "missing",
			payload: map[string]any{},
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SubmissionFromPayload(tt.payload).Events)
		})
	}
}

func TestSubmissionFromPayload_Branch(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
		want    string
	}{
		{"regular branch", map[string]any{"branch": "CSE"}, "CSE"},
		{"other with override", map[string]any{"branch": "Other", "otherBranch": "Biotech"}, "Biotech"},
		{"other with snake case override", map[string]any{"branch": "Other", "other_branch": "Civil"}, "Civil"},
		{"other lowercase", map[string]any{"branch": "other", "otherBranch": "Chemical"}, "Chemical"},
		{"other without override", map[string]any{"branch": "Other"}, ""},
		{"override ignored for regular branch", map[string]any{"branch": "ECE", "otherBranch": "Biotech"}, "ECE"},
		{"department alias", map[string]any{"department": "Mech"}, "Mech"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SubmissionFromPayload(tt.payload).Branch
			assert.Equal(t, tt.want, got)
			assert.NotEqual(t, BranchOther, got)
		})
	}
}

func TestSubmissionFromPayload_Scalars(t *testing.T) {
	sub := SubmissionFromPayload(map[string]any{
		"identifier":   " 1SI22CS001 ",
		"name":         "Ada",
		"email":        "ada@example.com",
		"phone":        9876543210.0,
		"institution":  "SIT",
		"program":      "BE",
		"year":         2.0,
		"message":      "See you!",
		"referrerCode": "INK42",
	})

	assert.Equal(t, "1SI22CS001", sub.Usn)
	assert.Equal(t, "Ada", sub.Name)
	assert.Equal(t, "ada@example.com", sub.Email)
	assert.Equal(t, "9876543210", sub.Phone)
	assert.Equal(t, "SIT", sub.College)
	assert.Equal(t, "BE", sub.Course)
	assert.Equal(t, "2", sub.Year)
	assert.Equal(t, "See you!", sub.Message)
	assert.Equal(t, "INK42", sub.ReferrerCode)
}

func TestSubmission_Missing(t *testing.T) {
	sub := Submission{Name: "Ada", Email: "  ", Events: "Quiz"}

	assert.Equal(t, []Field{FieldEmail}, sub.Missing(SchemaMinimal.Required))
	assert.Equal(t,
		[]Field{FieldUsn, FieldEmail, FieldCollege, FieldCourse, FieldBranch, FieldYear},
		sub.Missing(SchemaFull.Required),
	)
	assert.Empty(t, Submission{Name: "a", Email: "b", Events: "c"}.Missing(SchemaMinimal.Required))
}
