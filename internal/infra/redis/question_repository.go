package redis

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"sheet-quiz/internal/domain"
)

// QuestionLoader fetches question lists from a backing source.
type QuestionLoader interface {
	FetchQuestions(ctx context.Context, sourceKey string) ([]domain.Question, error)
}

// QuestionRepository shares fetched question lists between server instances.
// Lists are stored as JSON: SET quiz:questions:{sourceKey} <json> EX ttl.
// A non-positive ttl disables the cache and only collapses concurrent fetches.
type QuestionRepository struct {
	client *redis.Client
	loader QuestionLoader
	ttl    time.Duration
	log    hclog.Logger
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewQuestionRepository(client *redis.Client, loader QuestionLoader, ttl time.Duration, logger hclog.Logger) *QuestionRepository {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &QuestionRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		log:    logger,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuestionRepository) FetchQuestions(ctx context.Context, sourceKey string) ([]domain.Question, error) {
	if questions, ok := r.cached(ctx, sourceKey); ok {
		return questions, nil
	}

	ch := r.sf.DoChan(sourceKey, func() (interface{}, error) {
		// Joined callers share this load, so it must not inherit the first caller's cancellation.
		loadCtx := context.WithoutCancel(ctx)

		// Re-check cache in case another instance filled it.
		if questions, ok := r.cached(loadCtx, sourceKey); ok {
			return questions, nil
		}

		questions, err := r.loader.FetchQuestions(loadCtx, sourceKey)
		if err != nil {
			return nil, err
		}
		if r.ttl > 0 && len(questions) > 0 {
			r.store(loadCtx, sourceKey, questions)
		}
		return questions, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]domain.Question), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (r *QuestionRepository) cached(ctx context.Context, sourceKey string) ([]domain.Question, bool) {
	if r.ttl <= 0 {
		return nil, false
	}
	raw, err := r.client.Get(ctx, r.key(sourceKey)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn("reading question cache", "sheet", sourceKey, "error", err)
		}
		return nil, false
	}
	var questions []domain.Question
	if err := json.Unmarshal(raw, &questions); err != nil || len(questions) == 0 {
		return nil, false
	}
	return questions, true
}

// store is best effort; a failed write only costs a refetch.
func (r *QuestionRepository) store(ctx context.Context, sourceKey string, questions []domain.Question) {
	raw, err := json.Marshal(questions)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, r.key(sourceKey), raw, r.ttlWithJitter()).Err(); err != nil {
		r.log.Warn("writing question cache", "sheet", sourceKey, "error", err)
	}
}

func (r *QuestionRepository) key(sourceKey string) string {
	return "quiz:questions:" + sourceKey
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
