// Package chatbot implements Nik, the portfolio assistant: an ordered
// keyword classifier, a canned-response generator over the knowledge base,
// and the per-visitor conversation session.
package chatbot

import "fmt"

// Topic is what an utterance is about.
type Topic int

const (
	TopicGreeting Topic = iota
	TopicAbout
	TopicSkills
	TopicExperience
	TopicProjects
	TopicEducation
	TopicCertifications
	TopicAchievements
	TopicContact
	TopicDotNet
	TopicReact
	TopicDatabase
	TopicHelp
	TopicThanks
	TopicFallback
)

var topicNames = [...]string{
	TopicGreeting:       "greeting",
	TopicAbout:          "about",
	TopicSkills:         "skills",
	TopicExperience:     "experience",
	TopicProjects:       "projects",
	TopicEducation:      "education",
	TopicCertifications: "certifications",
	TopicAchievements:   "achievements",
	TopicContact:        "contact",
	TopicDotNet:         "dotnet",
	TopicReact:          "react",
	TopicDatabase:       "database",
	TopicHelp:           "help",
	TopicThanks:         "thanks",
	TopicFallback:       "fallback",
}

func (t Topic) String() string {
	if t < 0 || int(t) >= len(topicNames) {
		return fmt.Sprintf("Topic(%d)", int(t))
	}
	return topicNames[t]
}

// MarshalText encodes the topic by name.
func (t Topic) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("unknown topic %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText decodes a topic name.
func (t *Topic) UnmarshalText(b []byte) error {
	parsed, err := ParseTopic(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Valid reports whether t is one of the declared topics.
func (t Topic) Valid() bool {
	return t >= TopicGreeting && t <= TopicFallback
}

// ParseTopic returns the topic with the given name.
func ParseTopic(name string) (Topic, error) {
	for i, n := range topicNames {
		if n == name {
			return Topic(i), nil
		}
	}
	return 0, fmt.Errorf("unknown topic %q", name)
}

// Topics returns every topic in declaration order, fallback last.
func Topics() []Topic {
	out := make([]Topic, 0, len(topicNames))
	for i := range topicNames {
		out = append(out, Topic(i))
	}
	return out
}
