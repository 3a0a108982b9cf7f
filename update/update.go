// Package update reacts to content swaps in the quiz page: it deduplicates
// repeated swap notifications, plays the clip attached to the new content
// and moves the quiz along once feedback has been heard.
package update

import "time"

// Kind classifies swapped-in content.
type Kind int

const (
	// KindProblem is a new problem waiting for an answer.
	KindProblem Kind = iota
	// KindFeedback is the verdict on the previous answer.
	KindFeedback
)

func (k Kind) String() string {
	switch k {
	case KindFeedback:
		return "feedback"
	default:
		return "problem"
	}
}

// DefaultRegion is the id of the region holding problems and feedback.
const DefaultRegion = "problem-area"

// DefaultFeedbackDelay is the pause between feedback audio and the next
// problem.
const DefaultFeedbackDelay = 500 * time.Millisecond

// ProblemPath is fetched into the content region to get the next problem.
const ProblemPath = "/quiz/problem"

// Fragment is the content swapped into a region.
type Fragment struct {
	// AudioID is the clip identifier, or empty when the content has none.
	AudioID string
	Kind    Kind
	// AnswerField is set when the content contains an answer input.
	AnswerField bool
	// Text is the visible text of the content with whitespace collapsed.
	Text string
}

// Event announces that a region of the page was replaced.
type Event struct {
	Target string
	// Fragment is nil when the region was emptied.
	Fragment *Fragment
}

// Player plays clips by identifier.
type Player interface {
	Play(id string, onFinish func())
	Replay()
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

// Navigator loads a page path into a region.
type Navigator interface {
	Navigate(path, target string)
}

// Focuser gives keyboard focus to the answer field of a region.
type Focuser interface {
	FocusAnswer(target string)
}
