package model

// TestResult is the outcome of running submitted code against a single test
// case. Error carries the transport or runtime failure message when Passed is
// false for a reason other than a wrong answer.
type TestResult struct {
	Index  int    `json:"index"`
	Passed bool   `json:"passed"`
	Error  string `json:"error,omitempty"`
}

// Verdict aggregates one submission's results across all test cases of a
// problem. It lives only for the duration of the grading response and is
// never persisted.
type Verdict struct {
	Results     []TestResult `json:"results"`
	AllPassed   bool         `json:"allPassed"`
	PassedCount int          `json:"passedCount"`
	Total       int          `json:"total"`
}
