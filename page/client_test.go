package page_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/d1nch8g/quizvoice/page"
	"github.com/d1nch8g/quizvoice/update"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /players/{id}/select", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "player-" + r.PathValue("id"), Path: "/"})
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /quiz/problem", func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("session")
		if err != nil || c.Value != "player-3" {
			http.Error(w, "no player", http.StatusUnauthorized)
			return
		}
		if r.Header.Get("HX-Request") != "true" || r.Header.Get("HX-Target") != "problem-area" {
			http.Error(w, "not a fragment request", http.StatusBadRequest)
			return
		}
		io.WriteString(w, problemHTML)
	})
	mux.HandleFunc("POST /quiz/answer", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.PostForm.Get("answer") != "12" {
			http.Error(w, "bad answer", http.StatusBadRequest)
			return
		}
		io.WriteString(w, feedbackHTML)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_QuizFlow(t *testing.T) {
	srv := newServer(t)
	c, err := page.NewClient(page.Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	ctx := context.Background()

	if err := c.SelectPlayer(ctx, 3); err != nil {
		t.Fatalf("SelectPlayer() error = %v", err)
	}

	events, err := c.Get(ctx, update.ProblemPath, "problem-area")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(events) != 1 || events[0].Fragment == nil || !events[0].Fragment.AnswerField {
		t.Fatalf("Get() events = %+v", events)
	}

	events, err = c.Post(ctx, "/quiz/answer", "problem-area", url.Values{"answer": {"12"}})
	if err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	if len(events) != 2 || events[0].Fragment.Kind != update.KindFeedback || events[1].Target != "stats" {
		t.Fatalf("Post() events = %+v", events)
	}
}

func TestClient_StatusError(t *testing.T) {
	srv := newServer(t)
	c, err := page.NewClient(page.Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.Get(context.Background(), update.ProblemPath, "problem-area")
	if !errors.Is(err, page.ErrStatus) {
		t.Fatalf("Get() error = %v, want ErrStatus", err)
	}
}

func TestNewClient_RejectsRelativeURL(t *testing.T) {
	if _, err := page.NewClient(page.Config{BaseURL: "localhost"}); err == nil {
		t.Fatal("NewClient() accepted a relative url")
	}
}
