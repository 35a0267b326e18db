package model

import (
	"time"
)

// Contest is immutable after creation. There is no partial-update path;
// authoring replaces the whole document or nothing.
type Contest struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Slug             string     `json:"slug"`
	TimeLimitMinutes int        `json:"timeLimitMinutes"`
	Questions        []Question `json:"questions"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// Question has no identity of its own; the grading path addresses it by
// position within the contest's question list.
type Question struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	TestCases   []TestCase `json:"testCases"`
}

type TestCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expectedOutput"`
}

// QuestionAt returns the question at the given positional index.
func (c *Contest) QuestionAt(index int) (*Question, bool) {
	if index < 0 || index >= len(c.Questions) {
		return nil, false
	}
	return &c.Questions[index], true
}
