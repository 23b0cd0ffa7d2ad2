package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"sheet-quiz/internal/app"
	"sheet-quiz/internal/domain"
	"sheet-quiz/internal/infra/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	catalog, err := domain.NewCatalog([]domain.Subject{
		{Name: "Math", Topics: []domain.Topic{{Name: "Addition", SourceKey: "add"}}},
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	loader := memory.NewStaticQuestionLoader(map[string][]domain.Question{
		"add": {{Prompt: "What is 2 + 2?", Options: []string{"3", "4", "5", "6"}, Correct: "4"}},
	})
	source := memory.NewQuestionRepository(loader, 0)
	prefs := app.NewPreferences(memory.NewPreferenceStore(), domain.ThemeDark, nil)
	newEngine := func() *app.Engine {
		return app.NewEngine(source, catalog, app.Options{TimeLimit: 5 * time.Second, AdvanceDelay: 10 * time.Millisecond})
	}

	server := httptest.NewServer(NewWSHandler(newEngine, prefs, catalog, nil).Routes())
	t.Cleanup(server.Close)
	return server
}

func TestWebSocketQuizFlow(t *testing.T) {
	server := newTestServer(t)

	u := "ws" + server.URL[len("http"):] + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if _, payload := readNext(conn, t, "theme"); payload["theme"] != "dark" {
		t.Fatalf("expected stored theme dark, got %v", payload)
	}
	if _, payload := readNext(conn, t, "navigated"); payload["screen"] != "home" {
		t.Fatalf("expected home screen, got %v", payload)
	}

	send(t, conn, "selectSubject", map[string]any{"subject": "Math"})
	if _, payload := readNext(conn, t, "navigated"); payload["screen"] != "topics" {
		t.Fatalf("expected topics screen, got %v", payload)
	}

	send(t, conn, "selectTopic", map[string]any{"sourceKey": "add"})
	readNext(conn, t, "navigated")
	readNext(conn, t, "loading")
	_, presenting := readNext(conn, t, "presenting")
	if presenting["prompt"] != "What is 2 + 2?" || presenting["total"] != float64(1) {
		t.Fatalf("unexpected question payload %v", presenting)
	}

	send(t, conn, "selectOption", map[string]any{"index": 0, "option": "4"})
	if _, locked := readNext(conn, t, "locked"); locked["outcome"] != "correct" {
		t.Fatalf("expected correct outcome, got %v", locked)
	}
	_, completed := readNext(conn, t, "completed")
	if completed["score"] != float64(1) || completed["passed"] != true {
		t.Fatalf("unexpected completion %v", completed)
	}
	if _, payload := readNext(conn, t, "navigated"); payload["screen"] != "results" {
		t.Fatalf("expected results screen, got %v", payload)
	}

	send(t, conn, "toggleTheme", nil)
	if _, payload := readNext(conn, t, "theme"); payload["theme"] != "light" {
		t.Fatalf("expected light after toggle, got %v", payload)
	}

	send(t, conn, "answer", nil)
	readNext(conn, t, "error")
}

func TestCatalogAndHealthEndpoints(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	resp, err = http.Get(server.URL + "/api/catalog")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	defer resp.Body.Close()
	var body catalogPayload
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Subjects) != 1 || body.Subjects[0].Topics[0].SourceKey != "add" {
		t.Fatalf("unexpected catalog %+v", body)
	}
}

func TestEnqueueStopsOnceWriterIsGone(t *testing.T) {
	send := make(chan outboundMessage[any], 1)
	writerDone := make(chan struct{})

	if !enqueue(send, writerDone, errorMessage("first")) {
		t.Fatalf("expected buffered send to succeed while the writer runs")
	}

	close(writerDone)
	returned := make(chan bool, 1)
	go func() { returned <- enqueue(send, writerDone, errorMessage("second")) }()
	select {
	case ok := <-returned:
		if ok {
			t.Fatalf("expected enqueue to report the stopped writer")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("enqueue blocked on a full buffer after the writer stopped")
	}
}

func send(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	if err := conn.WriteJSON(map[string]any{"type": typ, "payload": payload}); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s (%v)", expect, msg.Type, msg.Payload)
	}
	return msg.Type, msg.Payload
}
