package app

// CommandKind enumerates the inbound commands the engine accepts.
type CommandKind string

const (
	CommandSelectSubject CommandKind = "selectSubject"
	CommandSelectTopic   CommandKind = "selectTopic"
	CommandSelectOption  CommandKind = "selectOption"
	CommandBack          CommandKind = "back"
	CommandRestart       CommandKind = "restart"
	CommandHome          CommandKind = "home"
	CommandFilter        CommandKind = "filter"
)

// Command is a user action. Only the fields relevant to Kind are read.
type Command struct {
	Kind      CommandKind `json:"-"`
	Subject   string      `json:"subject,omitempty"`
	SourceKey string      `json:"sourceKey,omitempty"`
	Index     int         `json:"index"`
	Option    string      `json:"option,omitempty"`
	Filter    string      `json:"filter,omitempty"`
}

func (e *Engine) SelectSubject(name string) error {
	return e.Dispatch(Command{Kind: CommandSelectSubject, Subject: name})
}

func (e *Engine) SelectTopic(sourceKey string) error {
	return e.Dispatch(Command{Kind: CommandSelectTopic, SourceKey: sourceKey})
}

func (e *Engine) SelectOption(index int, option string) error {
	return e.Dispatch(Command{Kind: CommandSelectOption, Index: index, Option: option})
}

func (e *Engine) Back() error    { return e.Dispatch(Command{Kind: CommandBack}) }
func (e *Engine) Restart() error { return e.Dispatch(Command{Kind: CommandRestart}) }
func (e *Engine) Home() error    { return e.Dispatch(Command{Kind: CommandHome}) }

func (e *Engine) Filter(text string) error {
	return e.Dispatch(Command{Kind: CommandFilter, Filter: text})
}
