package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"sheet-quiz/internal/domain"
)

// QuestionLoader fetches question lists from a backing source (spreadsheet API, Postgres, static bank).
type QuestionLoader interface {
	FetchQuestions(ctx context.Context, sourceKey string) ([]domain.Question, error)
}

// QuestionRepository collapses concurrent fetches of the same sheet and,
// when ttl > 0, keeps the result for a short while.
type QuestionRepository struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedQuestions
}

type cachedQuestions struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewQuestionRepository(loader QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedQuestions),
	}
}

func (r *QuestionRepository) FetchQuestions(ctx context.Context, sourceKey string) ([]domain.Question, error) {
	if questions, ok := r.cached(sourceKey); ok {
		return questions, nil
	}

	// Joined callers share one load that ignores their cancellation; each caller
	// stops waiting on its own ctx.
	ch := r.sf.DoChan(sourceKey, func() (interface{}, error) {
		if questions, ok := r.cached(sourceKey); ok {
			return questions, nil
		}

		questions, err := r.loader.FetchQuestions(context.WithoutCancel(ctx), sourceKey)
		if err != nil {
			return nil, err
		}

		if r.ttl > 0 && len(questions) > 0 {
			r.mu.Lock()
			r.cache[sourceKey] = cachedQuestions{
				questions: questions,
				expiresAt: r.clock().Add(r.ttlWithJitter()),
			}
			r.mu.Unlock()
		}
		return questions, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return cloneQuestions(res.Val.([]domain.Question)), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (r *QuestionRepository) cached(sourceKey string) ([]domain.Question, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[sourceKey]
	if !ok || !entry.expiresAt.After(r.clock()) {
		return nil, false
	}
	return cloneQuestions(entry.questions), true
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticQuestionLoader serves question lists from an in-memory map (useful for tests/demos).
type StaticQuestionLoader struct {
	questions map[string][]domain.Question
}

func NewStaticQuestionLoader(questions map[string][]domain.Question) *StaticQuestionLoader {
	return &StaticQuestionLoader{questions: questions}
}

func (l *StaticQuestionLoader) FetchQuestions(_ context.Context, sourceKey string) ([]domain.Question, error) {
	questions, ok := l.questions[sourceKey]
	if !ok || len(questions) == 0 {
		return nil, domain.ErrEmptyResult
	}
	return cloneQuestions(questions), nil
}

// cloneQuestions keeps callers from sharing option slices with the cache.
func cloneQuestions(in []domain.Question) []domain.Question {
	out := make([]domain.Question, len(in))
	for i, q := range in {
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}
