package app

import (
	"errors"
	"math/rand"
	"time"

	"sheet-quiz/internal/domain"
)

var errNotLoading = errors.New("flow is not loading")

// Flow is the question state machine of a single session.
// It is not safe for concurrent use; the Engine drives it from its loop goroutine.
type Flow struct {
	rnd       *rand.Rand
	timeLimit time.Duration

	questions []domain.Question
	phase     domain.Phase
	index     int
	score     int
	options   []string
	outcomes  []domain.Outcome
}

// NewFlow returns a flow in the loading phase.
func NewFlow(rnd *rand.Rand, timeLimit time.Duration) *Flow {
	return &Flow{rnd: rnd, timeLimit: timeLimit, phase: domain.PhaseLoading}
}

// Start moves a loading flow onto its first question. An empty list fails the flow.
func (f *Flow) Start(questions []domain.Question) (domain.Presenting, error) {
	if f.phase != domain.PhaseLoading {
		return domain.Presenting{}, errNotLoading
	}
	if len(questions) == 0 {
		f.phase = domain.PhaseFailed
		return domain.Presenting{}, domain.ErrEmptyResult
	}
	f.questions = questions
	f.score = 0
	f.outcomes = make([]domain.Outcome, len(questions))
	return f.present(0), nil
}

// Fail ends a loading flow without starting it.
func (f *Flow) Fail(sourceKey string, err error) (domain.Failed, bool) {
	if f.phase != domain.PhaseLoading && f.phase != domain.PhaseFailed {
		return domain.Failed{}, false
	}
	f.phase = domain.PhaseFailed
	return domain.Failed{SourceKey: sourceKey, Message: domain.UserMessage(err), Err: err}, true
}

// Select records the player's choice for the question at index.
func (f *Flow) Select(index int, option string) (domain.Locked, bool) {
	if !f.presenting(index) {
		return domain.Locked{}, false
	}
	offered := false
	for _, opt := range f.options {
		if opt == option {
			offered = true
			break
		}
	}
	if !offered {
		return domain.Locked{}, false
	}
	outcome := domain.OutcomeWrong
	if option == f.questions[index].Correct {
		outcome = domain.OutcomeCorrect
	}
	return f.lock(outcome, option), true
}

// Expire records a timeout for the question at index.
func (f *Flow) Expire(index int) (domain.Locked, bool) {
	if !f.presenting(index) {
		return domain.Locked{}, false
	}
	return f.lock(domain.OutcomeTimeout, ""), true
}

// Advance leaves a locked question. It yields the next Presenting event or Completed.
func (f *Flow) Advance(index int) (domain.Event, bool) {
	if f.phase != domain.PhaseLocked || f.index != index {
		return nil, false
	}
	next := index + 1
	if next < len(f.questions) {
		return f.present(next), true
	}
	f.phase = domain.PhaseCompleted
	f.index = len(f.questions)
	f.options = nil
	return domain.Completed{
		Score:  f.score,
		Total:  len(f.questions),
		Passed: f.score*10 >= len(f.questions)*6,
	}, true
}

func (f *Flow) Phase() domain.Phase { return f.phase }
func (f *Flow) Index() int          { return f.index }
func (f *Flow) Score() int          { return f.score }
func (f *Flow) Total() int          { return len(f.questions) }

// Options returns the frozen option order of the current question.
func (f *Flow) Options() []string {
	return append([]string(nil), f.options...)
}

// Outcomes returns recorded outcomes; unanswered entries are empty.
func (f *Flow) Outcomes() []domain.Outcome {
	return append([]domain.Outcome(nil), f.outcomes...)
}

func (f *Flow) presenting(index int) bool {
	return f.phase == domain.PhasePresenting && f.index == index
}

func (f *Flow) present(index int) domain.Presenting {
	q := f.questions[index]
	f.phase = domain.PhasePresenting
	f.index = index
	f.options = Shuffle(f.rnd, append([]string(nil), q.Options...))
	return domain.Presenting{
		Index:            index,
		Total:            len(f.questions),
		Prompt:           q.Prompt,
		Options:          f.Options(),
		TimeLimitSeconds: f.timeLimit.Seconds(),
		Score:            f.score,
	}
}

func (f *Flow) lock(outcome domain.Outcome, selected string) domain.Locked {
	f.phase = domain.PhaseLocked
	f.outcomes[f.index] = outcome
	if outcome == domain.OutcomeCorrect {
		f.score++
	}
	return domain.Locked{
		Index:    f.index,
		Outcome:  outcome,
		Selected: selected,
		Correct:  f.questions[f.index].Correct,
		Score:    f.score,
	}
}
