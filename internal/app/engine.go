package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/hashicorp/go-hclog"

	"sheet-quiz/internal/domain"
)

const (
	// DefaultTimeLimit is the per-question countdown.
	DefaultTimeLimit = 15 * time.Second
	// DefaultAdvanceDelay is how long a locked question stays on screen.
	DefaultAdvanceDelay = 1500 * time.Millisecond

	inboxSize        = 16
	subscriberBuffer = 32
)

// ErrEngineStopped is returned by Dispatch once Run has returned.
var ErrEngineStopped = errors.New("engine stopped")

// QuestionSource loads the question list behind a topic's source key.
type QuestionSource interface {
	FetchQuestions(ctx context.Context, sourceKey string) ([]domain.Question, error)
}

// Options tune an Engine. Zero values fall back to defaults.
type Options struct {
	TimeLimit    time.Duration
	AdvanceDelay time.Duration
	FetchTimeout time.Duration
	Clock        clock.Clock
	Rand         *rand.Rand
	Logger       hclog.Logger
}

// Engine owns navigation and the active quiz session for one player.
// All transitions happen on the goroutine running Run; user commands, timer
// expiries and fetch results are queued and handled one at a time.
type Engine struct {
	source QuestionSource
	nav    *Navigator
	opts   Options
	log    hclog.Logger
	inbox  chan any
	done   chan struct{}

	// loop-owned
	runCtx      context.Context
	flow        *Flow
	gen         uint64
	cancelFetch context.CancelFunc
	countdown   *clock.Timer
	advance     *clock.Timer

	mu          sync.RWMutex
	subscribers map[chan domain.Event]struct{}
	view        domain.Navigated
	state       domain.State
}

type countdownExpired struct {
	gen   uint64
	index int
}

type advanceDue struct {
	gen   uint64
	index int
}

type questionsLoaded struct {
	gen       uint64
	sourceKey string
	questions []domain.Question
	err       error
}

func NewEngine(source QuestionSource, catalog domain.Catalog, opts Options) *Engine {
	if opts.TimeLimit <= 0 {
		opts.TimeLimit = DefaultTimeLimit
	}
	if opts.AdvanceDelay <= 0 {
		opts.AdvanceDelay = DefaultAdvanceDelay
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}

	nav := NewNavigator(catalog)
	e := &Engine{
		source:      source,
		nav:         nav,
		opts:        opts,
		log:         opts.Logger,
		inbox:       make(chan any, inboxSize),
		done:        make(chan struct{}),
		subscribers: make(map[chan domain.Event]struct{}),
		view:        nav.View(),
	}
	e.state = domain.State{Screen: nav.Screen()}
	return e
}

// Run processes queued commands until ctx is done. It must be called once.
func (e *Engine) Run(ctx context.Context) error {
	e.runCtx = ctx
	defer close(e.done)
	defer e.abortSession()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-e.inbox:
			e.handle(msg)
		}
	}
}

// Dispatch queues a command for the loop.
func (e *Engine) Dispatch(cmd Command) error {
	return e.post(cmd)
}

// State returns the latest snapshot of navigation and session progress.
func (e *Engine) State() domain.State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Subscribe returns a channel of events, starting with the current navigation view.
// The caller must invoke the returned cancel function to avoid leaks.
func (e *Engine) Subscribe() (<-chan domain.Event, func()) {
	ch := make(chan domain.Event, subscriberBuffer)

	e.mu.Lock()
	e.subscribers[ch] = struct{}{}
	ch <- e.view
	e.mu.Unlock()

	cancel := func() {
		e.mu.Lock()
		if _, ok := e.subscribers[ch]; ok {
			delete(e.subscribers, ch)
			close(ch)
		}
		e.mu.Unlock()
	}
	return ch, cancel
}

func (e *Engine) post(msg any) error {
	select {
	case e.inbox <- msg:
		return nil
	case <-e.done:
		return ErrEngineStopped
	}
}

func (e *Engine) handle(msg any) {
	switch m := msg.(type) {
	case Command:
		e.handleCommand(m)
	case questionsLoaded:
		e.onLoaded(m)
	case countdownExpired:
		if m.gen != e.gen || e.flow == nil {
			return
		}
		if locked, ok := e.flow.Expire(m.index); ok {
			e.lock(locked)
		}
	case advanceDue:
		if m.gen != e.gen || e.flow == nil {
			return
		}
		e.onAdvance(m.index)
	}
	e.snapshot()
}

func (e *Engine) handleCommand(cmd Command) {
	switch cmd.Kind {
	case CommandSelectSubject:
		view, err := e.nav.SelectSubject(cmd.Subject)
		if err != nil {
			e.log.Debug("ignoring command", "kind", cmd.Kind, "error", err)
			return
		}
		e.abortSession()
		e.publish(view)
	case CommandSelectTopic:
		topic, err := e.nav.SelectTopic(cmd.SourceKey)
		if err != nil {
			e.log.Debug("ignoring command", "kind", cmd.Kind, "error", err)
			return
		}
		e.abortSession()
		e.startSession(topic)
	case CommandSelectOption:
		if e.flow == nil {
			return
		}
		locked, ok := e.flow.Select(cmd.Index, cmd.Option)
		if !ok {
			e.log.Debug("ignoring selection", "index", cmd.Index, "phase", e.flow.Phase())
			return
		}
		e.lock(locked)
	case CommandBack:
		view, ok := e.nav.Back()
		if !ok {
			return
		}
		e.abortSession()
		e.publish(view)
	case CommandRestart:
		topic, ok := e.nav.Restart()
		if !ok {
			return
		}
		e.abortSession()
		e.startSession(topic)
	case CommandHome:
		e.abortSession()
		e.publish(e.nav.Home())
	case CommandFilter:
		if view, ok := e.nav.Filter(cmd.Filter); ok {
			e.publish(view)
		}
	default:
		e.log.Debug("unknown command", "kind", cmd.Kind)
	}
}

func (e *Engine) startSession(topic domain.Topic) {
	e.gen++
	gen := e.gen
	e.flow = NewFlow(e.opts.Rand, e.opts.TimeLimit)

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if e.opts.FetchTimeout > 0 {
		ctx, cancel = context.WithTimeout(e.runCtx, e.opts.FetchTimeout)
	} else {
		ctx, cancel = context.WithCancel(e.runCtx)
	}
	e.cancelFetch = cancel

	e.publish(e.nav.View())
	e.publish(domain.Loading{Subject: e.nav.Subject(), Topic: topic.Name, SourceKey: topic.SourceKey})
	e.log.Info("loading topic", "subject", e.nav.Subject(), "sheet", topic.SourceKey)

	go func() {
		questions, err := loadQuestions(ctx, e.source, topic.SourceKey)
		_ = e.post(questionsLoaded{gen: gen, sourceKey: topic.SourceKey, questions: questions, err: err})
	}()
}

func (e *Engine) onLoaded(m questionsLoaded) {
	if m.gen != e.gen || e.flow == nil {
		e.log.Debug("discarding stale question list", "sheet", m.sourceKey)
		return
	}
	if e.cancelFetch != nil {
		e.cancelFetch()
		e.cancelFetch = nil
	}
	if m.err != nil {
		e.fail(m.sourceKey, m.err)
		return
	}
	presenting, err := e.flow.Start(m.questions)
	if err != nil {
		e.fail(m.sourceKey, err)
		return
	}
	e.present(presenting)
}

func (e *Engine) fail(sourceKey string, err error) {
	failed, ok := e.flow.Fail(sourceKey, err)
	if !ok {
		return
	}
	e.log.Warn("topic failed to load", "sheet", sourceKey, "error", err)
	e.publish(failed)
}

func (e *Engine) present(p domain.Presenting) {
	e.stopTimers()
	gen, index := e.gen, p.Index
	e.countdown = e.opts.Clock.AfterFunc(e.opts.TimeLimit, func() {
		_ = e.post(countdownExpired{gen: gen, index: index})
	})
	e.publish(p)
}

func (e *Engine) lock(l domain.Locked) {
	e.stopTimers()
	gen, index := e.gen, l.Index
	e.advance = e.opts.Clock.AfterFunc(e.opts.AdvanceDelay, func() {
		_ = e.post(advanceDue{gen: gen, index: index})
	})
	e.publish(l)
}

func (e *Engine) onAdvance(index int) {
	ev, ok := e.flow.Advance(index)
	if !ok {
		return
	}
	switch ev := ev.(type) {
	case domain.Presenting:
		e.present(ev)
	case domain.Completed:
		e.stopTimers()
		e.log.Info("session completed", "score", ev.Score, "total", ev.Total)
		e.publish(ev)
		e.publish(e.nav.ShowResults())
	}
}

// abortSession discards the active session; pending timers and fetches become stale.
func (e *Engine) abortSession() {
	e.gen++
	if e.cancelFetch != nil {
		e.cancelFetch()
		e.cancelFetch = nil
	}
	e.stopTimers()
	e.flow = nil
}

func (e *Engine) stopTimers() {
	if e.countdown != nil {
		e.countdown.Stop()
		e.countdown = nil
	}
	if e.advance != nil {
		e.advance.Stop()
		e.advance = nil
	}
}

func (e *Engine) publish(ev domain.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if view, ok := ev.(domain.Navigated); ok {
		e.view = view
	}
	for ch := range e.subscribers {
		select {
		case ch <- ev:
		default:
			// slow subscriber: drop its oldest pending event
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
}

func (e *Engine) snapshot() {
	st := domain.State{Screen: e.nav.Screen(), Subject: e.nav.Subject()}
	if topic, ok := e.nav.Topic(); ok {
		st.Topic = topic.Name
	}
	if e.flow != nil {
		st.Phase = e.flow.Phase()
		st.Index = e.flow.Index()
		st.Score = e.flow.Score()
		st.Total = e.flow.Total()
	}
	e.mu.Lock()
	e.state = st
	e.mu.Unlock()
}

// loadQuestions classifies source failures and validates every record before a session may start.
func loadQuestions(ctx context.Context, source QuestionSource, sourceKey string) ([]domain.Question, error) {
	questions, err := source.FetchQuestions(ctx, sourceKey)
	if err != nil {
		if errors.Is(err, domain.ErrTransport) || errors.Is(err, domain.ErrEmptyResult) || errors.Is(err, domain.ErrMalformedQuestion) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w for %q", domain.ErrEmptyResult, sourceKey)
	}
	for i, q := range questions {
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	return questions, nil
}
