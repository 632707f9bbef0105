package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/gradebook/internal/grade"
	"github.com/roach88/gradebook/internal/gradebook"
	"github.com/roach88/gradebook/internal/notify"
)

// Harness executes one scenario against a fresh grade-book.
type Harness struct {
	store  *gradebook.Store
	result *Result
	seq    int64
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Execution flow:
//  1. Validate the scenario
//  2. Create a fresh store with a notification recorder
//  3. Execute setup steps (any failure aborts the run)
//  4. Execute steps, checking expect clauses
//  5. Evaluate assertions against the final store
//
// The returned error covers malformed scenarios and failing setup;
// expectation and assertion failures are recorded in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests
	h := &Harness{
		store:  gradebook.New(gradebook.WithLogger(logger)),
		result: NewResult(),
		logger: logger,
	}
	h.store.Subscribe(h.recordNotification)

	for i, step := range scenario.Setup {
		outcome, err := h.execute(step)
		if err != nil {
			return nil, fmt.Errorf("setup step %d: %w", i, err)
		}
		if outcome != OutcomeOK {
			return nil, fmt.Errorf("setup step %d (%s): failed with %s", i, step.Op, outcome)
		}
	}

	for i, step := range scenario.Steps {
		outcome, err := h.execute(step)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		want := step.Expect
		if want == "" {
			want = OutcomeOK
		}
		if outcome != want {
			h.result.AddError(fmt.Sprintf("step %d (%s): expected %s, got %s", i, step.Op, want, outcome))
		}
		h.logger.Debug("step executed", "step", i, "op", step.Op, "outcome", outcome)
	}

	for _, msg := range EvaluateAssertions(h.store, h.result, scenario.Assertions) {
		h.result.AddError(msg)
	}

	return h.result, nil
}

func (h *Harness) nextSeq() int64 {
	h.seq++
	return h.seq
}

func (h *Harness) recordNotification(student, course string, g grade.Value) {
	h.result.Trace = append(h.result.Trace, TraceEvent{
		Seq:     h.nextSeq(),
		Type:    EventNotification,
		Message: notify.Message(student, course, g),
	})
}

// execute runs one step, appends it to the trace and returns its outcome.
// The error is reserved for steps the store cannot even be asked to run.
func (h *Harness) execute(step Step) (string, error) {
	args, err := stringArgs(step)
	if err != nil {
		return "", err
	}
	arg := func(key string) string { return args[key] }

	var change gradebook.Change
	switch step.Op {
	case OpAddStudent:
		change, err = h.store.AddStudent(arg("name"))
	case OpAddGrade:
		g, perr := grade.Parse(arg("grade"))
		if perr != nil {
			return "", fmt.Errorf("%s: %w", step.Op, perr)
		}
		change, err = h.store.AddGrade(arg("student"), arg("course"), g)
	case OpRemoveStudent:
		change, err = h.store.RemoveStudent(arg("name"))
	case OpRenameStudent:
		change, err = h.store.RenameStudent(arg("old"), arg("new"))
	case OpRemoveCourse:
		change = h.store.RemoveCourse(arg("course"))
	default:
		return "", fmt.Errorf("unknown op %q", step.Op)
	}

	event := TraceEvent{
		Seq:     h.nextSeq(),
		Type:    EventOp,
		Op:      step.Op,
		Args:    step.Args,
		Outcome: OutcomeOK,
	}
	if err != nil {
		code := gradebook.CodeOf(err)
		if code == "" {
			return "", fmt.Errorf("%s: %w", step.Op, err)
		}
		event.Outcome = string(code)
	} else {
		event.Message = change.String()
	}
	h.result.Trace = append(h.result.Trace, event)
	return event.Outcome, nil
}

// stringArgs returns the step args as strings. Every op takes names only,
// so any other YAML value is a malformed step rather than an empty name.
func stringArgs(step Step) (map[string]string, error) {
	args := make(map[string]string, len(step.Args))
	for key, v := range step.Args {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%s: arg %q must be a string, got %T", step.Op, key, v)
		}
		args[key] = s
	}
	return args, nil
}
