package chatbot

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Rule maps a set of literal patterns to a topic. The rule matches when the
// lowercased utterance contains any of its patterns. With WholeWord set a
// pattern only counts when it is not glued to letters or digits on either
// side.
type Rule struct {
	Topic     Topic
	Patterns  []string
	WholeWord bool
}

// DefaultRules returns the assistant's rules in priority order. The first
// matching rule wins, so the order is observable on ambiguous input.
func DefaultRules() []Rule {
	return []Rule{
		// Whole-word so that "his", "this" or "which" do not read as "hi".
		{Topic: TopicGreeting, Patterns: []string{"hi", "hello", "hey", "greetings", "good morning", "good evening"}, WholeWord: true},
		{Topic: TopicAbout, Patterns: []string{"who is", "about binil", "tell me about him", "about himself"}},
		{Topic: TopicSkills, Patterns: []string{"skill", "technology", "tech stack", "programming", "languages", "tools"}},
		{Topic: TopicExperience, Patterns: []string{"experience", "work", "job", "employment", "career", "company", "worked"}},
		{Topic: TopicProjects, Patterns: []string{"project", "built", "developed", "created", "application"}},
		{Topic: TopicEducation, Patterns: []string{"education", "degree", "study", "college", "university", "qualification"}},
		{Topic: TopicCertifications, Patterns: []string{"certification", "certificate", "course", "certified"}},
		{Topic: TopicAchievements, Patterns: []string{"achievement", "award", "nasa", "hackathon", "win", "prize"}},
		{Topic: TopicContact, Patterns: []string{"contact", "email", "reach", "linkedin", "github", "phone"}},
		{Topic: TopicDotNet, Patterns: []string{".net", "dotnet", "asp.net", "c#"}},
		{Topic: TopicReact, Patterns: []string{"react", "reactjs", "react.js", "frontend"}},
		{Topic: TopicDatabase, Patterns: []string{"database", "sql", "mysql"}},
		{Topic: TopicHelp, Patterns: []string{"help", "what can you do", "capabilities", "how can you help"}},
		{Topic: TopicThanks, Patterns: []string{"thank", "thanks", "appreciate"}},
	}
}

// Classifier picks the topic of an utterance by evaluating rules in order.
type Classifier struct {
	rules []Rule
}

// NewClassifier returns a classifier over rules, or over DefaultRules when
// none are given. Patterns are lowercased once here.
func NewClassifier(rules ...Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	c := &Classifier{rules: make([]Rule, len(rules))}
	for i, r := range rules {
		patterns := make([]string, len(r.Patterns))
		for j, p := range r.Patterns {
			patterns[j] = strings.ToLower(p)
		}
		c.rules[i] = Rule{Topic: r.Topic, Patterns: patterns, WholeWord: r.WholeWord}
	}
	return c
}

// Classify returns the topic of the first rule that matches utterance, or
// TopicFallback when none does.
func (c *Classifier) Classify(utterance string) Topic {
	text := strings.ToLower(utterance)
	for _, r := range c.rules {
		if r.matches(text) {
			return r.Topic
		}
	}
	return TopicFallback
}

// Order returns the topics in the order they are tried.
func (c *Classifier) Order() []Topic {
	out := make([]Topic, 0, len(c.rules)+1)
	for _, r := range c.rules {
		out = append(out, r.Topic)
	}
	return append(out, TopicFallback)
}

func (r Rule) matches(text string) bool {
	for _, p := range r.Patterns {
		if p == "" {
			continue
		}
		if r.WholeWord {
			if containsWord(text, p) {
				return true
			}
		} else if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

func containsWord(text, word string) bool {
	for start := 0; start <= len(text)-len(word); {
		i := strings.Index(text[start:], word)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(word)
		if !wordRuneBefore(text, i) && !wordRuneAfter(text, end) {
			return true
		}
		start = i + 1
	}
	return false
}

func wordRuneBefore(text string, i int) bool {
	if i == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return isWordRune(r)
}

func wordRuneAfter(text string, i int) bool {
	if i >= len(text) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
