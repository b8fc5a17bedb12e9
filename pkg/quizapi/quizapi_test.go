package quizapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/correctquiz/Correct-Quiz-project/pkg/quiz"
)

func newTestAPI(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, WithTokenProvider(StaticToken("tok-1")))
}

func TestGetQuizByID(t *testing.T) {
	c := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/quizzes/42" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("Authorization = %q", got)
		}
		json.NewEncoder(w).Encode(quiz.Quiz{ID: 42, Name: "Capitals"})
	})

	got, err := c.GetQuizByID(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetQuizByID() error: %v", err)
	}
	if got.ID != 42 || got.Name != "Capitals" {
		t.Fatalf("quiz = %+v", got)
	}
}

func TestGetQuizByIDNotFound(t *testing.T) {
	c := newTestAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.GetQuizByID(context.Background(), 9)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestLoginReturnsToken(t *testing.T) {
	c := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" || r.Method != http.MethodPost {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		var creds map[string]string
		json.NewDecoder(r.Body).Decode(&creds)
		if creds["email"] != "host@example.com" {
			t.Errorf("email = %q", creds["email"])
		}
		json.NewEncoder(w).Encode(map[string]string{"token": "fresh-token"})
	})

	token, err := c.Login(context.Background(), "host@example.com", "pw")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if token != "fresh-token" {
		t.Fatalf("token = %q", token)
	}
}

func TestSaveQuizSendsBody(t *testing.T) {
	c := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/quizzes/7" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		var q quiz.Quiz
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			t.Errorf("body decode: %v", err)
		}
		if q.Name != "Updated" {
			t.Errorf("quiz name = %q", q.Name)
		}
	})

	if err := c.SaveQuiz(context.Background(), 7, quiz.Quiz{ID: 7, Name: "Updated"}); err != nil {
		t.Fatalf("SaveQuiz() error: %v", err)
	}
}

func TestUnauthorized(t *testing.T) {
	c := newTestAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.ListQuizzes(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("error = %v, want ErrUnauthorized", err)
	}
}

func TestDeleteQuestionPath(t *testing.T) {
	var gotPath string
	c := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
	})

	if err := c.DeleteQuestion(context.Background(), 7, 3); err != nil {
		t.Fatalf("DeleteQuestion() error: %v", err)
	}
	if gotPath != "DELETE /api/quizzes/7/questions/3" {
		t.Fatalf("request = %q", gotPath)
	}
}
