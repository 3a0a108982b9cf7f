package page_test

import (
	"strings"
	"testing"

	"github.com/d1nch8g/quizvoice/page"
	"github.com/d1nch8g/quizvoice/update"
)

const problemHTML = `
<div class="problem" data-audio-hash="0123456789abcdef0123456789abcdef">
  <span class="question">7 + 5 = ?</span>
  <form hx-post="/quiz/answer" hx-target="#problem-area">
    <input class="answer-input" name="answer" type="number" autofocus>
  </form>
</div>`

const feedbackHTML = `
<div class="feedback correct" data-audio-hash="fedcba9876543210fedcba9876543210">
  <p>Correct!   7 + 5 = 12</p>
  <audio src="/audio/x.wav"></audio>
</div>
<div id="stats" hx-swap-oob="true"><span class="stars" data-audio-hash="ignored">3</span></div>`

func TestParseSwaps(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []update.Event
	}{
		{
			name: "problem",
			body: problemHTML,
			want: []update.Event{{
				Target: "problem-area",
				Fragment: &update.Fragment{
					AudioID:     "0123456789abcdef0123456789abcdef",
					Kind:        update.KindProblem,
					AnswerField: true,
					Text:        "7 + 5 = ?",
				},
			}},
		},
		{
			name: "feedback with out-of-band swap",
			body: feedbackHTML,
			want: []update.Event{
				{
					Target: "problem-area",
					Fragment: &update.Fragment{
						AudioID: "fedcba9876543210fedcba9876543210",
						Kind:    update.KindFeedback,
						Text:    "Correct! 7 + 5 = 12",
					},
				},
				{
					Target:   "stats",
					Fragment: &update.Fragment{AudioID: "ignored", Text: "3"},
				},
			},
		},
		{
			name: "no audio",
			body: `<div class="problem" data-audio-hash="null"><input class="answer-input"></div>`,
			want: []update.Event{{
				Target:   "problem-area",
				Fragment: &update.Fragment{AudioID: "null", AnswerField: true},
			}},
		},
		{
			name: "empty",
			body: "  \n ",
			want: []update.Event{{Target: "problem-area"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := page.ParseSwaps(strings.NewReader(tt.body), "problem-area")
			if err != nil {
				t.Fatalf("ParseSwaps() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d events, want %d: %+v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i].Target != tt.want[i].Target {
					t.Errorf("event %d target = %q, want %q", i, got[i].Target, tt.want[i].Target)
				}
				g, w := got[i].Fragment, tt.want[i].Fragment
				if (g == nil) != (w == nil) {
					t.Fatalf("event %d fragment = %+v, want %+v", i, g, w)
				}
				if g != nil && *g != *w {
					t.Errorf("event %d fragment = %+v, want %+v", i, *g, *w)
				}
			}
		})
	}
}

func TestParseSwaps_OOBWithoutIDIsSkipped(t *testing.T) {
	got, err := page.ParseSwaps(strings.NewReader(`<div hx-swap-oob="true">x</div>`), "problem-area")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Fragment != nil {
		t.Fatalf("got %+v, want one empty main swap", got)
	}
}
