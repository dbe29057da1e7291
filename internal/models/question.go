package models

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// QuestionType discriminates the four question shapes the frontend knows.
type QuestionType string

const (
	TypeSingle      QuestionType = "single"
	TypeMultiSelect QuestionType = "multi-select"
	TypeFillIn      QuestionType = "fill-in"
	TypeOrdering    QuestionType = "ordering"
)

// ErrMalformedResponse is returned when the provider's output cannot be
// parsed into a valid question list.
var ErrMalformedResponse = errors.New("malformed provider response")

// Answer is the polymorphic answer field: a single string for single and
// fill-in questions, a list of strings for multi-select and ordering.
type Answer struct {
	Single string
	List   []string
	IsList bool
}

func (a Answer) MarshalJSON() ([]byte, error) {
	if a.IsList {
		if a.List == nil {
			return json.Marshal([]string{})
		}
		return json.Marshal(a.List)
	}
	return json.Marshal(a.Single)
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = Answer{Single: s}
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*a = Answer{List: list, IsList: true}
		return nil
	}

	return fmt.Errorf("answer must be a string or an array of strings")
}

// Question is one generated quiz item. The key casing is the wire contract
// with the frontend and must not change.
type Question struct {
	ID        string       `json:"id"`
	Type      QuestionType `json:"type"`
	Text      string       `json:"Question"`
	Options   []string     `json:"Options"`
	Answer    Answer       `json:"answer"`
	Rationale string       `json:"Rationale"`
	Hint      string       `json:"hint,omitempty"`
}

// Validate checks that the answer shape matches the question type and that
// list answers reference the options correctly.
func (q *Question) Validate() error {
	switch q.Type {
	case TypeSingle:
		if q.Answer.IsList {
			return fmt.Errorf("single question %q: answer must be a string", q.Text)
		}
		if len(q.Options) == 0 {
			return fmt.Errorf("single question %q: options must not be empty", q.Text)
		}
	case TypeFillIn:
		if q.Answer.IsList {
			return fmt.Errorf("fill-in question %q: answer must be a string", q.Text)
		}
		if len(q.Options) != 0 {
			return fmt.Errorf("fill-in question %q: options must be empty", q.Text)
		}
	case TypeMultiSelect:
		if !q.Answer.IsList {
			return fmt.Errorf("multi-select question %q: answer must be a list", q.Text)
		}
		if len(q.Options) == 0 {
			return fmt.Errorf("multi-select question %q: options must not be empty", q.Text)
		}
		if err := eachAnswerInOptionsOnce(q.Answer.List, q.Options); err != nil {
			return fmt.Errorf("multi-select question %q: %w", q.Text, err)
		}
	case TypeOrdering:
		if !q.Answer.IsList {
			return fmt.Errorf("ordering question %q: answer must be a list", q.Text)
		}
		if len(q.Answer.List) != len(q.Options) {
			return fmt.Errorf("ordering question %q: answer must be a permutation of options", q.Text)
		}
		if err := eachAnswerInOptionsOnce(q.Answer.List, q.Options); err != nil {
			return fmt.Errorf("ordering question %q: %w", q.Text, err)
		}
	default:
		return fmt.Errorf("question %q: unknown type %q", q.Text, q.Type)
	}

	return nil
}

// every answer element must appear in options exactly once, and no element
// may be used twice
func eachAnswerInOptionsOnce(answer, options []string) error {
	remaining := make(map[string]int, len(options))
	for _, opt := range options {
		remaining[opt]++
	}

	for _, a := range answer {
		if remaining[a] == 0 {
			return fmt.Errorf("answer element %q does not match a remaining option", a)
		}
		remaining[a]--
	}

	return nil
}

// ParseQuestions strictly parses the provider's response text as a JSON
// array of questions. Each parsed question is validated and given a fresh
// unique id (the provider emits placeholder ids).
func ParseQuestions(raw string) ([]Question, error) {
	var questions []Question
	if err := json.Unmarshal([]byte(raw), &questions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if questions == nil {
		questions = []Question{}
	}

	for i := range questions {
		if err := questions[i].Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		questions[i].ID = uuid.New().String()
		if questions[i].Options == nil {
			questions[i].Options = []string{}
		}
	}

	return questions, nil
}
