package engine

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/d1nch8g/quizvoice/logger"
	"github.com/d1nch8g/quizvoice/player"
	"github.com/d1nch8g/quizvoice/update"
)

// AnswerPath receives submitted answers.
const AnswerPath = "/quiz/answer"

// PageClient performs fragment requests against the quiz server
type PageClient interface {
	SelectPlayer(ctx context.Context, id int) error
	Get(ctx context.Context, path, target string) ([]update.Event, error)
	Post(ctx context.Context, path, target string, form url.Values) ([]update.Event, error)
}

// Renderer shows page state to the user
type Renderer interface {
	Region(target, text string)
	Prompt(answer string)
	Message(format string, args ...interface{})
}

// EngineConfig holds the configuration for the quiz engine
type EngineConfig struct {
	Region        string
	FeedbackDelay time.Duration
	// PlayerID is selected before the first problem when non-zero.
	PlayerID int
}

// Engine runs the quiz loop. Player and listener state is only touched from
// the goroutine executing Run; everything else reaches it through tasks.
type Engine struct {
	config   EngineConfig
	device   player.Device
	client   PageClient
	renderer Renderer

	player   *player.Player
	listener *update.Listener

	tasks chan func()

	// owned by the loop goroutine
	focused string
	answer  []rune

	ctx       context.Context
	running   bool
	runningMu sync.Mutex
}

// NewEngine creates a new quiz engine instance. Zero Region and
// FeedbackDelay get the listener defaults.
func NewEngine(config EngineConfig, device player.Device, client PageClient, renderer Renderer) *Engine {
	e := &Engine{
		config:   config,
		device:   device,
		client:   client,
		renderer: renderer,
		tasks:    make(chan func(), 64),
	}
	e.player = player.New(device)
	e.listener = update.NewListener(update.ListenerConfig{
		Region:        config.Region,
		FeedbackDelay: config.FeedbackDelay,
	}, e.player, e, e, e)
	return e
}

// Run drives the quiz until ctx is cancelled, keys is closed, or the user
// quits.
func (e *Engine) Run(ctx context.Context, keys <-chan rune) error {
	e.runningMu.Lock()
	if e.running {
		e.runningMu.Unlock()
		return fmt.Errorf("engine is already running")
	}
	e.running = true
	e.runningMu.Unlock()

	defer func() {
		e.runningMu.Lock()
		e.running = false
		e.runningMu.Unlock()
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	e.ctx = ctx

	if e.config.PlayerID != 0 {
		if err := e.client.SelectPlayer(ctx, e.config.PlayerID); err != nil {
			return err
		}
	}

	region := e.listener.Region()
	logger.Log.Info("quiz started", "region", region)
	e.Navigate(update.ProblemPath, region)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sig := <-e.device.Signals():
			e.player.HandleSignal(sig)
		case task := <-e.tasks:
			task()
		case key, ok := <-keys:
			if !ok {
				logger.Log.Info("input closed, stopping")
				return nil
			}
			if quit := e.handleKey(key); quit {
				e.renderer.Message("bye")
				return nil
			}
		}
	}
}

// post queues f to run on the loop goroutine.
func (e *Engine) post(f func()) {
	select {
	case e.tasks <- f:
	case <-e.ctx.Done():
	}
}

// AfterFunc implements update.Scheduler. The timer is never cancelled.
func (e *Engine) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, func() { e.post(f) })
}

// Navigate implements update.Navigator. The request runs in the background
// and its swaps are applied on the loop.
func (e *Engine) Navigate(path, target string) {
	ctx := e.ctx
	go func() {
		events, err := e.client.Get(ctx, path, target)
		e.post(func() { e.apply(path, events, err) })
	}()
}

// FocusAnswer implements update.Focuser.
func (e *Engine) FocusAnswer(target string) {
	e.focused = target
	e.answer = e.answer[:0]
	e.renderer.Prompt("")
}

func (e *Engine) submit() {
	answer := strings.TrimSpace(string(e.answer))
	if answer == "" {
		return
	}
	target := e.focused
	e.focused = ""
	e.answer = e.answer[:0]

	ctx := e.ctx
	form := url.Values{"answer": {answer}}
	go func() {
		events, err := e.client.Post(ctx, AnswerPath, target, form)
		e.post(func() { e.apply(AnswerPath, events, err) })
	}()
}

// apply swaps the response of a request into the page.
func (e *Engine) apply(path string, events []update.Event, err error) {
	if err != nil {
		if e.ctx.Err() == nil {
			logger.Log.Error("request failed", "path", path, "error", err)
			e.renderer.Message("request failed: %v", err)
		}
		return
	}
	for _, ev := range events {
		if ev.Target == e.focused && (ev.Fragment == nil || !ev.Fragment.AnswerField) {
			e.focused = ""
		}
		if ev.Fragment != nil {
			e.renderer.Region(ev.Target, ev.Fragment.Text)
		}
		e.listener.OnContentUpdate(ev)
	}
}

// handleKey applies one key press. It reports whether the user quit.
func (e *Engine) handleKey(key rune) bool {
	switch key {
	case 'q', 'Q', 0x03, 0x04: // Ctrl-C, Ctrl-D
		return true
	}

	e.listener.OnKey(key)

	if e.focused == "" {
		return false
	}
	switch {
	case key == '\r' || key == '\n':
		e.submit()
	case key == 0x7f || key == 0x08: // Backspace
		if len(e.answer) > 0 {
			e.answer = e.answer[:len(e.answer)-1]
		}
		e.renderer.Prompt(string(e.answer))
	case key >= '0' && key <= '9', key == '-' && len(e.answer) == 0:
		e.answer = append(e.answer, key)
		e.renderer.Prompt(string(e.answer))
	}
	return false
}

// IsRunning returns whether the engine is currently running
func (e *Engine) IsRunning() bool {
	e.runningMu.Lock()
	defer e.runningMu.Unlock()
	return e.running
}
