package domain

// EventKind names an observable transition for the presentation layer.
type EventKind string

const (
	EventNavigated  EventKind = "navigated"
	EventLoading    EventKind = "loading"
	EventPresenting EventKind = "presenting"
	EventLocked     EventKind = "locked"
	EventCompleted  EventKind = "completed"
	EventFailed     EventKind = "failed"
)

// Event is emitted by the engine after every state change.
type Event interface {
	Kind() EventKind
}

// Navigated describes the menu level now on screen.
type Navigated struct {
	Screen   Screen   `json:"screen"`
	Subject  string   `json:"subject,omitempty"`
	Topic    *Topic   `json:"topic,omitempty"`
	Filter   string   `json:"filter,omitempty"`
	Subjects []string `json:"subjects,omitempty"`
	Topics   []Topic  `json:"topics,omitempty"`
}

// Loading is emitted when a session starts fetching questions.
type Loading struct {
	Subject   string `json:"subject"`
	Topic     string `json:"topic"`
	SourceKey string `json:"sourceKey"`
}

// Presenting carries everything needed to render one question.
type Presenting struct {
	Index            int      `json:"index"`
	Total            int      `json:"total"`
	Prompt           string   `json:"prompt"`
	Options          []string `json:"options"`
	TimeLimitSeconds float64  `json:"timeLimitSeconds"`
	Score            int      `json:"score"`
}

// Locked reports the recorded outcome for a question.
type Locked struct {
	Index    int     `json:"index"`
	Outcome  Outcome `json:"outcome"`
	Selected string  `json:"selected,omitempty"`
	Correct  string  `json:"correct"`
	Score    int     `json:"score"`
}

// Completed carries the final score of a session.
type Completed struct {
	Score  int  `json:"score"`
	Total  int  `json:"total"`
	Passed bool `json:"passed"`
}

// Failed reports that a topic could not be loaded.
type Failed struct {
	SourceKey string `json:"sourceKey"`
	Message   string `json:"message"`
	Err       error  `json:"-"`
}

func (Navigated) Kind() EventKind  { return EventNavigated }
func (Loading) Kind() EventKind    { return EventLoading }
func (Presenting) Kind() EventKind { return EventPresenting }
func (Locked) Kind() EventKind     { return EventLocked }
func (Completed) Kind() EventKind  { return EventCompleted }
func (Failed) Kind() EventKind     { return EventFailed }
