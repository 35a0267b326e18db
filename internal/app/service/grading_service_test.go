package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"cp_arena/internal/common"
	"cp_arena/internal/domain/model"
	"cp_arena/internal/domain/repository"
	"cp_arena/internal/platform/executor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner scripts one response per stdin value, with optional per-call
// delay so tests can force provider calls to complete out of order.
type fakeRunner struct {
	responses map[string]executor.RunResult
	errors    map[string]error
	delays    map[string]time.Duration
}

func (f *fakeRunner) Run(ctx context.Context, code, stdin string) (executor.RunResult, error) {
	if d, ok := f.delays[stdin]; ok {
		time.Sleep(d)
	}
	if err, ok := f.errors[stdin]; ok {
		return executor.RunResult{}, err
	}
	if res, ok := f.responses[stdin]; ok {
		return res, nil
	}
	return executor.RunResult{Output: "", StatusCode: 200}, nil
}

// sumRunner behaves like a provider executing a program that echoes the sum
// of two input lines.
type sumRunner struct{}

func (sumRunner) Run(ctx context.Context, code, stdin string) (executor.RunResult, error) {
	var a, b int
	if _, err := fmt.Sscanf(strings.ReplaceAll(stdin, "\n", " "), "%d %d", &a, &b); err != nil {
		return executor.RunResult{Output: "parse error", StatusCode: 500}, nil
	}
	return executor.RunResult{Output: fmt.Sprintf("%d\n", a+b), StatusCode: 200}, nil
}

func TestGradeOrdersResultsByIndexDespiteCompletionOrder(t *testing.T) {
	// Earlier test cases are made slower than later ones; result order must
	// still follow test-case order.
	runner := &fakeRunner{
		responses: map[string]executor.RunResult{
			"a": {Output: "1", StatusCode: 200},
			"b": {Output: "2", StatusCode: 200},
			"c": {Output: "wrong", StatusCode: 200},
			"d": {Output: "4", StatusCode: 200},
		},
		delays: map[string]time.Duration{
			"a": 80 * time.Millisecond,
			"b": 40 * time.Millisecond,
			"c": 20 * time.Millisecond,
			"d": 0,
		},
	}
	svc := NewGradingService(repository.NewInMemContestRepository(), runner)

	verdict, err := svc.Grade(context.Background(), "code", []model.TestCase{
		{Input: "a", ExpectedOutput: "1"},
		{Input: "b", ExpectedOutput: "2"},
		{Input: "c", ExpectedOutput: "3"},
		{Input: "d", ExpectedOutput: "4"},
	})
	require.NoError(t, err)

	require.Len(t, verdict.Results, 4)
	for i, r := range verdict.Results {
		assert.Equal(t, i, r.Index)
	}
	assert.True(t, verdict.Results[0].Passed)
	assert.True(t, verdict.Results[1].Passed)
	assert.False(t, verdict.Results[2].Passed)
	assert.True(t, verdict.Results[3].Passed)
	assert.False(t, verdict.AllPassed)
	assert.Equal(t, 3, verdict.PassedCount)
	assert.Equal(t, 4, verdict.Total)
}

func TestGradePartialFailureIsolation(t *testing.T) {
	runner := &fakeRunner{
		responses: map[string]executor.RunResult{
			"one":   {Output: "1", StatusCode: 200},
			"three": {Output: "3", StatusCode: 200},
		},
		errors: map[string]error{
			"two": errors.New("connection refused"),
		},
	}
	svc := NewGradingService(repository.NewInMemContestRepository(), runner)

	verdict, err := svc.Grade(context.Background(), "code", []model.TestCase{
		{Input: "one", ExpectedOutput: "1"},
		{Input: "two", ExpectedOutput: "2"},
		{Input: "three", ExpectedOutput: "3"},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, verdict.Total)
	assert.True(t, verdict.Results[0].Passed)
	assert.False(t, verdict.Results[1].Passed)
	assert.Contains(t, verdict.Results[1].Error, "connection refused")
	assert.True(t, verdict.Results[2].Passed)
	assert.Equal(t, 2, verdict.PassedCount)
	assert.False(t, verdict.AllPassed)
}

func TestGradeOutputComparison(t *testing.T) {
	runner := &fakeRunner{
		responses: map[string]executor.RunResult{
			"trailing": {Output: "5\n", StatusCode: 200},
			"leading":  {Output: " 5", StatusCode: 200},
		},
	}
	svc := NewGradingService(repository.NewInMemContestRepository(), runner)

	verdict, err := svc.Grade(context.Background(), "code", []model.TestCase{
		{Input: "trailing", ExpectedOutput: "5"},
		{Input: "leading", ExpectedOutput: "5"},
	})
	require.NoError(t, err)

	// Trailing whitespace is ignored, leading whitespace is significant.
	assert.True(t, verdict.Results[0].Passed)
	assert.False(t, verdict.Results[1].Passed)
}

func TestGradeRuntimeErrorStatus(t *testing.T) {
	runner := &fakeRunner{
		responses: map[string]executor.RunResult{
			"boom": {Output: "segfault", StatusCode: 500},
		},
	}
	svc := NewGradingService(repository.NewInMemContestRepository(), runner)

	verdict, err := svc.Grade(context.Background(), "code", []model.TestCase{
		{Input: "boom", ExpectedOutput: "anything"},
	})
	require.NoError(t, err)

	assert.False(t, verdict.Results[0].Passed)
	assert.Equal(t, "Runtime error", verdict.Results[0].Error)
}

func TestGradeRejectsEmptyInput(t *testing.T) {
	svc := NewGradingService(repository.NewInMemContestRepository(), &fakeRunner{})

	_, err := svc.Grade(context.Background(), "   ", []model.TestCase{{Input: "x", ExpectedOutput: "y"}})
	assert.ErrorIs(t, err, common.ErrBadRequest)

	_, err = svc.Grade(context.Background(), "code", nil)
	assert.ErrorIs(t, err, common.ErrBadRequest)
}

func TestGradeWithoutConfiguredRunner(t *testing.T) {
	// A server started without provider credentials has no runner; grading
	// must report the misconfiguration instead of an all-failed verdict.
	svc := NewGradingService(repository.NewInMemContestRepository(), nil)

	_, err := svc.Grade(context.Background(), "code", []model.TestCase{{Input: "x", ExpectedOutput: "y"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInternalServer)
	assert.Equal(t, 500, common.HTTPStatusFromError(err))
}

// brokenContestRepo fails every read the way a dropped database connection
// would.
type brokenContestRepo struct{}

func (brokenContestRepo) CreateContest(ctx context.Context, contest *model.Contest) error {
	return errors.New("connection reset by peer")
}

func (brokenContestRepo) FindContestByID(ctx context.Context, id string) (*model.Contest, error) {
	return nil, errors.New("connection reset by peer")
}

func (brokenContestRepo) ListContests(ctx context.Context) ([]model.Contest, error) {
	return nil, errors.New("connection reset by peer")
}

func TestGradeSubmissionStorageFailureIsNotReportedAsMissing(t *testing.T) {
	svc := NewGradingService(brokenContestRepo{}, &fakeRunner{})

	_, err := svc.GradeSubmission(context.Background(), GradeSubmissionRequest{
		Code: "x", ContestID: "c1", ProblemIndex: 0,
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrNotFound)
	assert.NotContains(t, err.Error(), "contest not found")
	assert.Equal(t, 500, common.HTTPStatusFromError(err))
}

func TestGradeSubmissionResolvesContestAndProblem(t *testing.T) {
	repo := repository.NewInMemContestRepository()
	require.NoError(t, repo.CreateContest(context.Background(), &model.Contest{
		ID:               "c1",
		Name:             "Weekly",
		TimeLimitMinutes: 30,
		Questions: []model.Question{
			{Title: "Sum", TestCases: []model.TestCase{
				{Input: "3\n4", ExpectedOutput: "7"},
				{Input: "1\n1", ExpectedOutput: "2"},
			}},
		},
	}))
	svc := NewGradingService(repo, sumRunner{})

	verdict, err := svc.GradeSubmission(context.Background(), GradeSubmissionRequest{
		Code:         "read a, b; print a+b",
		ContestID:    "c1",
		ProblemIndex: 0,
	})
	require.NoError(t, err)
	assert.True(t, verdict.AllPassed)
	assert.Equal(t, 2, verdict.PassedCount)
	assert.Equal(t, 2, verdict.Total)

	_, err = svc.GradeSubmission(context.Background(), GradeSubmissionRequest{
		Code: "x", ContestID: "missing", ProblemIndex: 0,
	})
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = svc.GradeSubmission(context.Background(), GradeSubmissionRequest{
		Code: "x", ContestID: "c1", ProblemIndex: 5,
	})
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = svc.GradeSubmission(context.Background(), GradeSubmissionRequest{
		Code: "x", ContestID: "c1", ProblemIndex: -1,
	})
	assert.ErrorIs(t, err, common.ErrBadRequest)
}
