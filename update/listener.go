package update

import (
	"time"

	"github.com/d1nch8g/quizvoice/logger"
	"github.com/d1nch8g/quizvoice/player"
)

// ListenerConfig holds the Listener settings.
type ListenerConfig struct {
	Region        string
	FeedbackDelay time.Duration
}

// Listener turns content updates into playback.
type Listener struct {
	config    ListenerConfig
	player    Player
	scheduler Scheduler
	navigator Navigator
	focuser   Focuser

	last string
}

// NewListener creates a Listener. Zero config values get defaults.
func NewListener(config ListenerConfig, p Player, s Scheduler, n Navigator, f Focuser) *Listener {
	if config.Region == "" {
		config.Region = DefaultRegion
	}
	if config.FeedbackDelay == 0 {
		config.FeedbackDelay = DefaultFeedbackDelay
	}
	return &Listener{
		config:    config,
		player:    p,
		scheduler: s,
		navigator: n,
		focuser:   f,
	}
}

// OnContentUpdate handles one swap notification. Only swaps of the content
// region are considered, and a swap repeating the last clip identifier is
// dropped because the page fires more than once per logical change.
func (l *Listener) OnContentUpdate(ev Event) {
	if ev.Target != l.config.Region || ev.Fragment == nil {
		return
	}
	frag := ev.Fragment

	if !player.IsSentinel(frag.AudioID) && frag.AudioID == l.last {
		logger.Log.Debug("duplicate content update dropped", "id", frag.AudioID)
		return
	}
	l.last = frag.AudioID

	logger.Log.Debug("content update", "kind", frag.Kind, "id", frag.AudioID)

	if frag.Kind == KindFeedback {
		l.player.Play(frag.AudioID, l.scheduleNextProblem)
		return
	}

	l.player.Play(frag.AudioID, nil)
	if frag.AnswerField {
		l.focuser.FocusAnswer(l.config.Region)
	}
}

func (l *Listener) scheduleNextProblem() {
	l.scheduler.AfterFunc(l.config.FeedbackDelay, func() {
		l.navigator.Navigate(ProblemPath, l.config.Region)
	})
}

// OnKey handles a key pressed anywhere in the page.
func (l *Listener) OnKey(r rune) {
	if r == 'r' || r == 'R' {
		l.player.Replay()
	}
}

// Region returns the id of the content region.
func (l *Listener) Region() string {
	return l.config.Region
}
