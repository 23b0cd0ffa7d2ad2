package redis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"sheet-quiz/internal/domain"
	"sheet-quiz/internal/infra/memory"
)

func TestQuestionRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	loader := &countingLoader{
		QuestionLoader: memory.NewStaticQuestionLoader(map[string][]domain.Question{
			"BD UT1 (I)": sampleQuestions(),
		}),
	}
	repo := NewQuestionRepository(client, loader, time.Minute, nil)

	questions, err := repo.FetchQuestions(context.Background(), "BD UT1 (I)")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(questions) != 1 || questions[0].Correct != "4" {
		t.Fatalf("unexpected questions %+v", questions)
	}
	if !mr.Exists("quiz:questions:BD UT1 (I)") {
		t.Fatalf("expected redis key to be set")
	}
	if ttl := mr.TTL("quiz:questions:BD UT1 (I)"); ttl < time.Minute {
		t.Fatalf("expected ttl of at least a minute, got %v", ttl)
	}

	// Second call should hit cache, loader not incremented.
	cached, _ := repo.FetchQuestions(context.Background(), "BD UT1 (I)")
	if loader.count() != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.count())
	}
	if len(cached) != 1 || cached[0].Prompt != questions[0].Prompt || len(cached[0].Options) != 4 {
		t.Fatalf("cached list differs: %+v", cached)
	}
}

func TestQuestionRepositoryWithoutTTLSkipsRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{
		QuestionLoader: memory.NewStaticQuestionLoader(map[string][]domain.Question{"s": sampleQuestions()}),
	}
	repo := NewQuestionRepository(newClient(mr), loader, 0, nil)

	_, _ = repo.FetchQuestions(context.Background(), "s")
	_, _ = repo.FetchQuestions(context.Background(), "s")
	if loader.count() != 2 {
		t.Fatalf("expected every fetch to reach the loader, got %d", loader.count())
	}
	if mr.Exists("quiz:questions:s") {
		t.Fatalf("expected no cache entry without ttl")
	}
}

func TestQuestionRepositorySharedFetchSurvivesOneCallerLeaving(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &blockingLoader{started: make(chan struct{}), release: make(chan struct{})}
	repo := NewQuestionRepository(newClient(mr), loader, time.Minute, nil)

	leaverCtx, leave := context.WithCancel(context.Background())
	leaverErr := make(chan error, 1)
	go func() {
		_, err := repo.FetchQuestions(leaverCtx, "s")
		leaverErr <- err
	}()
	<-loader.started

	stayerErr := make(chan error, 1)
	go func() {
		_, err := repo.FetchQuestions(context.Background(), "s")
		stayerErr <- err
	}()
	time.Sleep(20 * time.Millisecond) // let the second caller join the in-flight load

	leave()
	if err := <-leaverErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected the leaving caller to stop with context.Canceled, got %v", err)
	}

	close(loader.release)
	select {
	case err := <-stayerErr:
		if err != nil {
			t.Fatalf("remaining caller failed after the other one left: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("remaining caller never got its questions")
	}
	if !mr.Exists("quiz:questions:s") {
		t.Fatalf("expected the shared load to fill the cache")
	}
}

// blockingLoader holds every fetch until release is closed, failing early only if its ctx ends.
type blockingLoader struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (l *blockingLoader) FetchQuestions(ctx context.Context, _ string) ([]domain.Question, error) {
	l.once.Do(func() { close(l.started) })
	select {
	case <-l.release:
		return sampleQuestions(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type countingLoader struct {
	memory.QuestionLoader
	mu    sync.Mutex
	calls int
}

func (l *countingLoader) FetchQuestions(ctx context.Context, sourceKey string) ([]domain.Question, error) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	return l.QuestionLoader.FetchQuestions(ctx, sourceKey)
}

func (l *countingLoader) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{
			Prompt:  "What is 2 + 2?",
			Options: []string{"3", "4", "5", "6"},
			Correct: "4",
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
