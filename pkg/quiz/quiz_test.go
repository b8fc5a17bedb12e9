package quiz

import (
	"encoding/json"
	"testing"
)

func TestPlayerIDUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"string id", `"42"`, "42", false},
		{"numeric id", `42`, "42", false},
		{"uuid id", `"6ba7b810-9dad-11d1-80b4-00c04fd430c8"`, "6ba7b810-9dad-11d1-80b4-00c04fd430c8", false},
		{"object id", `{"v":1}`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id PlayerID
			err := json.Unmarshal([]byte(tt.in), &id)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if id.String() != tt.want {
				t.Errorf("id = %q, want %q", id, tt.want)
			}
		})
	}
}

func TestPlayerIDMarshal(t *testing.T) {
	out, err := json.Marshal(Player{ID: "42", Name: "ada"})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if string(out) != `{"id":"42","name":"ada"}` {
		t.Errorf("Marshal() = %s", out)
	}
}

func TestQuizQuestionClone(t *testing.T) {
	q := QuizQuestion{
		Name:    "q",
		Choices: []QuizChoice{{Name: "a"}, {Name: "b"}},
	}
	c := q.Clone()
	c.Choices[0].Name = "mutated"
	if q.Choices[0].Name != "a" {
		t.Error("Clone() shares the choices slice with the original")
	}
}
