package service

import (
	"context"
	"strings"
	"sync"
	"unicode"

	"cp_arena/internal/common"
	"cp_arena/internal/domain/model"
	"cp_arena/internal/domain/repository"
	"cp_arena/internal/platform/executor"
)

// Runner is the remote execution capability: code + stdin in, output +
// provider status out.
type Runner interface {
	Run(ctx context.Context, code, stdin string) (executor.RunResult, error)
}

type GradingService struct {
	contestRepo repository.ContestRepository
	runner      Runner
}

func NewGradingService(contestRepo repository.ContestRepository, runner Runner) *GradingService {
	return &GradingService{
		contestRepo: contestRepo,
		runner:      runner,
	}
}

type GradeSubmissionRequest struct {
	Code         string `json:"code"`
	ContestID    string `json:"contestId"`
	ProblemIndex int    `json:"problemIndex"`
}

// GradeSubmission resolves the problem's test cases and grades the code
// against them.
func (s *GradingService) GradeSubmission(ctx context.Context, req GradeSubmissionRequest) (*model.Verdict, error) {
	if strings.TrimSpace(req.Code) == "" {
		return nil, common.Errorf("missing or invalid 'code' field: %w", common.ErrBadRequest)
	}
	if req.ContestID == "" {
		return nil, common.Errorf("missing 'contestId': %w", common.ErrBadRequest)
	}
	if req.ProblemIndex < 0 {
		return nil, common.Errorf("missing or invalid 'problemIndex': %w", common.ErrBadRequest)
	}

	contest, err := s.contestRepo.FindContestByID(ctx, req.ContestID)
	if err != nil {
		return nil, lookupContestErr(err)
	}

	question, ok := contest.QuestionAt(req.ProblemIndex)
	if !ok {
		return nil, common.Errorf("problem not found: %w", common.ErrNotFound)
	}

	return s.Grade(ctx, req.Code, question.TestCases)
}

// Grade runs the code against every test case and aggregates a verdict.
// Test cases execute concurrently but each goroutine writes only its own
// index slot, so the returned order always matches test-case order no matter
// when individual provider calls complete. Provider failures are absorbed
// per test case; one bad run never poisons the rest of the batch.
func (s *GradingService) Grade(ctx context.Context, code string, testCases []model.TestCase) (*model.Verdict, error) {
	if strings.TrimSpace(code) == "" {
		return nil, common.Errorf("missing or invalid 'code' field: %w", common.ErrBadRequest)
	}
	if len(testCases) == 0 {
		return nil, common.Errorf("no test cases found for this problem: %w", common.ErrBadRequest)
	}
	if s.runner == nil {
		return nil, common.Errorf("code execution is not configured: %w", common.ErrInternalServer)
	}

	results := make([]model.TestResult, len(testCases))
	var wg sync.WaitGroup
	for i, tc := range testCases {
		wg.Add(1)
		go func(i int, tc model.TestCase) {
			defer wg.Done()
			results[i] = s.runCase(ctx, code, tc, i)
		}(i, tc)
	}
	wg.Wait()

	verdict := &model.Verdict{
		Results:   results,
		AllPassed: true,
		Total:     len(testCases),
	}
	for _, r := range results {
		if r.Passed {
			verdict.PassedCount++
		} else {
			verdict.AllPassed = false
		}
	}
	return verdict, nil
}

func (s *GradingService) runCase(ctx context.Context, code string, tc model.TestCase, index int) model.TestResult {
	res, err := s.runner.Run(ctx, code, tc.Input)
	if err != nil {
		return model.TestResult{Index: index, Passed: false, Error: err.Error()}
	}
	if res.StatusCode != 200 {
		return model.TestResult{Index: index, Passed: false, Error: "Runtime error"}
	}

	// Trailing whitespace is ignored on both sides; leading and internal
	// whitespace stay significant.
	actual := strings.TrimRightFunc(res.Output, unicode.IsSpace)
	expected := strings.TrimRightFunc(tc.ExpectedOutput, unicode.IsSpace)
	return model.TestResult{Index: index, Passed: actual == expected}
}
