package harness

import (
	"fmt"
	"math"
	"slices"

	"github.com/roach88/gradebook/internal/grade"
	"github.com/roach88/gradebook/internal/gradebook"
)

// averageTolerance absorbs float rounding when comparing averages.
const averageTolerance = 1e-9

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("assertion failed: %s: expected %s, got %s", e.Type, e.Expected, e.Actual)
}

// EvaluateAssertions checks every assertion and returns the failure messages.
func EvaluateAssertions(s *gradebook.Store, result *Result, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		if err := evaluate(s, result, a); err != nil {
			failures = append(failures, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return failures
}

func evaluate(s *gradebook.Store, result *Result, a Assertion) error {
	switch a.Type {
	case AssertAverage:
		return assertAverage(s, a)
	case AssertStudents:
		return assertNames(a.Type, a.Names, s.Names())
	case AssertTop:
		n := a.N
		if n == 0 {
			n = gradebook.DefaultTopN
		}
		var names []string
		for _, r := range s.TopStudents(n) {
			names = append(names, r.Name)
		}
		return assertNames(a.Type, a.Names, names)
	case AssertWithGrade:
		g, err := grade.Parse(a.Grade)
		if err != nil {
			return err
		}
		return assertNames(a.Type, a.Names, s.FindStudentsWithGrade(g))
	case AssertBestWorst:
		return assertBestWorst(s, a)
	case AssertStatsTotal:
		return assertStatsTotal(s, a)
	case AssertNotificationCount:
		if got := result.NotificationCount(); got != *a.Count {
			return &AssertionError{Type: a.Type, Expected: fmt.Sprint(*a.Count), Actual: fmt.Sprint(got)}
		}
		return nil
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertAverage(s *gradebook.Store, a Assertion) error {
	avg, err := s.AverageGrade(a.Student)
	if err != nil {
		return &AssertionError{Type: a.Type, Expected: fmt.Sprint(*a.Equals), Actual: err.Error()}
	}
	if math.Abs(avg-*a.Equals) > averageTolerance {
		return &AssertionError{Type: a.Type, Expected: fmt.Sprint(*a.Equals), Actual: fmt.Sprint(avg)}
	}
	return nil
}

// assertNames compares ordered name lists; nil and empty are equal.
func assertNames(typ string, want, got []string) error {
	if len(want) == 0 && len(got) == 0 {
		return nil
	}
	if !slices.Equal(want, got) {
		return &AssertionError{Type: typ, Expected: fmt.Sprint(want), Actual: fmt.Sprint(got)}
	}
	return nil
}

// assertCode checks that err carries the expected error code.
func assertCode(typ, want string, err error) error {
	got := string(gradebook.CodeOf(err))
	if err == nil {
		got = OutcomeOK
	}
	if got != want {
		return &AssertionError{Type: typ, Expected: want, Actual: got}
	}
	return nil
}

func assertBestWorst(s *gradebook.Store, a Assertion) error {
	best, worst, err := s.BestAndWorst()
	if a.Code != "" {
		return assertCode(a.Type, a.Code, err)
	}
	if err != nil {
		return &AssertionError{Type: a.Type, Expected: a.Best + "/" + a.Worst, Actual: err.Error()}
	}
	if best.Name != a.Best || worst.Name != a.Worst {
		return &AssertionError{Type: a.Type, Expected: a.Best + "/" + a.Worst, Actual: best.Name + "/" + worst.Name}
	}
	return nil
}

func assertStatsTotal(s *gradebook.Store, a Assertion) error {
	stats, err := s.SystemStats()
	if a.Code != "" {
		return assertCode(a.Type, a.Code, err)
	}
	if err != nil {
		return &AssertionError{Type: a.Type, Expected: fmt.Sprint(*a.Count), Actual: err.Error()}
	}
	if stats.Total != *a.Count {
		return &AssertionError{Type: a.Type, Expected: fmt.Sprint(*a.Count), Actual: fmt.Sprint(stats.Total)}
	}
	return nil
}
