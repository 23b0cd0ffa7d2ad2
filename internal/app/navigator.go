package app

import (
	"fmt"

	"sheet-quiz/internal/domain"
)

// Navigator tracks the two-level menu: Home -> TopicList(subject) -> Quiz/Results(subject, topic).
type Navigator struct {
	catalog domain.Catalog
	screen  domain.Screen
	subject string
	topic   *domain.Topic
	filter  string
}

func NewNavigator(catalog domain.Catalog) *Navigator {
	return &Navigator{catalog: catalog, screen: domain.ScreenHome}
}

func (n *Navigator) Screen() domain.Screen { return n.screen }
func (n *Navigator) Subject() string       { return n.subject }

// Topic returns the selected topic, if any.
func (n *Navigator) Topic() (domain.Topic, bool) {
	if n.topic == nil {
		return domain.Topic{}, false
	}
	return *n.topic, true
}

// View renders the current level as an event.
func (n *Navigator) View() domain.Navigated {
	view := domain.Navigated{Screen: n.screen, Subject: n.subject}
	switch n.screen {
	case domain.ScreenHome:
		view.Filter = n.filter
		view.Subjects = n.catalog.FilterSubjects(n.filter)
	case domain.ScreenTopicList:
		view.Topics, _ = n.catalog.Topics(n.subject)
	default:
		if n.topic != nil {
			t := *n.topic
			view.Topic = &t
		}
	}
	return view
}

// SelectSubject opens a fresh topic list.
func (n *Navigator) SelectSubject(name string) (domain.Navigated, error) {
	if _, ok := n.catalog.Topics(name); !ok {
		return domain.Navigated{}, fmt.Errorf("%w: %q", domain.ErrSubjectNotFound, name)
	}
	n.screen = domain.ScreenTopicList
	n.subject = name
	n.topic = nil
	return n.View(), nil
}

// SelectTopic enters the quiz screen for a topic of the selected subject.
func (n *Navigator) SelectTopic(sourceKey string) (domain.Topic, error) {
	if n.subject == "" {
		return domain.Topic{}, fmt.Errorf("%w: no subject selected", domain.ErrTopicNotFound)
	}
	topic, ok := n.catalog.FindTopic(n.subject, sourceKey)
	if !ok {
		return domain.Topic{}, fmt.Errorf("%w: %q in %q", domain.ErrTopicNotFound, sourceKey, n.subject)
	}
	n.screen = domain.ScreenQuiz
	n.topic = &topic
	return topic, nil
}

// Restart re-enters the quiz screen for the current topic.
func (n *Navigator) Restart() (domain.Topic, bool) {
	if n.topic == nil || (n.screen != domain.ScreenQuiz && n.screen != domain.ScreenResults) {
		return domain.Topic{}, false
	}
	n.screen = domain.ScreenQuiz
	return *n.topic, true
}

// ShowResults switches from the quiz to the results screen.
func (n *Navigator) ShowResults() domain.Navigated {
	if n.screen == domain.ScreenQuiz {
		n.screen = domain.ScreenResults
	}
	return n.View()
}

// Back steps exactly one level up. It reports false on Home.
func (n *Navigator) Back() (domain.Navigated, bool) {
	switch n.screen {
	case domain.ScreenQuiz, domain.ScreenResults:
		n.screen = domain.ScreenTopicList
		n.topic = nil
	case domain.ScreenTopicList:
		n.goHome()
	default:
		return domain.Navigated{}, false
	}
	return n.View(), true
}

// Home jumps straight back to the subject list.
func (n *Navigator) Home() domain.Navigated {
	n.goHome()
	return n.View()
}

// Filter narrows the subject list on Home. Other screens ignore it.
func (n *Navigator) Filter(text string) (domain.Navigated, bool) {
	if n.screen != domain.ScreenHome {
		return domain.Navigated{}, false
	}
	n.filter = text
	return n.View(), true
}

func (n *Navigator) goHome() {
	n.screen = domain.ScreenHome
	n.subject = ""
	n.topic = nil
	n.filter = ""
}
