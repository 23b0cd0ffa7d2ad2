package domain

import (
	"fmt"
	"strings"
)

// Topic is a leaf menu entry mapping to one fetchable question list.
type Topic struct {
	Name      string `json:"name" yaml:"name"`
	SourceKey string `json:"sourceKey" yaml:"sheet"`
}

// Subject groups topics under a display name.
type Subject struct {
	Name   string  `json:"name" yaml:"name"`
	Topics []Topic `json:"topics" yaml:"topics"`
}

// Catalog is the read-only two-level menu, in display order.
type Catalog struct {
	subjects []Subject
}

// NewCatalog validates subjects and fills empty source keys with the topic name.
func NewCatalog(subjects []Subject) (Catalog, error) {
	out := make([]Subject, 0, len(subjects))
	names := make(map[string]struct{}, len(subjects))
	for _, s := range subjects {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return Catalog{}, fmt.Errorf("%w: subject without a name", ErrInvalidCatalog)
		}
		if _, dup := names[name]; dup {
			return Catalog{}, fmt.Errorf("%w: duplicate subject %q", ErrInvalidCatalog, name)
		}
		names[name] = struct{}{}

		keys := make(map[string]struct{}, len(s.Topics))
		topics := make([]Topic, 0, len(s.Topics))
		for _, t := range s.Topics {
			t.Name = strings.TrimSpace(t.Name)
			if t.Name == "" {
				return Catalog{}, fmt.Errorf("%w: topic without a name in %q", ErrInvalidCatalog, name)
			}
			if t.SourceKey == "" {
				t.SourceKey = t.Name
			}
			if _, dup := keys[t.SourceKey]; dup {
				return Catalog{}, fmt.Errorf("%w: duplicate sheet %q in %q", ErrInvalidCatalog, t.SourceKey, name)
			}
			keys[t.SourceKey] = struct{}{}
			topics = append(topics, t)
		}
		out = append(out, Subject{Name: name, Topics: topics})
	}
	return Catalog{subjects: out}, nil
}

// Subjects returns a copy of all subjects.
func (c Catalog) Subjects() []Subject {
	out := make([]Subject, len(c.subjects))
	for i, s := range c.subjects {
		out[i] = Subject{Name: s.Name, Topics: append([]Topic(nil), s.Topics...)}
	}
	return out
}

// SubjectNames lists subject names in display order.
func (c Catalog) SubjectNames() []string {
	return c.FilterSubjects("")
}

// FilterSubjects narrows subject names by case-insensitive substring match.
func (c Catalog) FilterSubjects(text string) []string {
	needle := strings.ToLower(text)
	names := make([]string, 0, len(c.subjects))
	for _, s := range c.subjects {
		if strings.Contains(strings.ToLower(s.Name), needle) {
			names = append(names, s.Name)
		}
	}
	return names
}

// Topics returns the topics of a subject.
func (c Catalog) Topics(subject string) ([]Topic, bool) {
	for _, s := range c.subjects {
		if s.Name == subject {
			return append([]Topic(nil), s.Topics...), true
		}
	}
	return nil, false
}

// FindTopic looks up a source key under a subject.
func (c Catalog) FindTopic(subject, sourceKey string) (Topic, bool) {
	topics, ok := c.Topics(subject)
	if !ok {
		return Topic{}, false
	}
	for _, t := range topics {
		if t.SourceKey == sourceKey {
			return t, true
		}
	}
	return Topic{}, false
}
