package conformance

import (
	"bytes"
	"fmt"
	"strings"

	"slumber/config"
	"slumber/interp"
	"slumber/types"
	"slumber/vm"
)

// Features the runner supports. Suites requiring anything else are skipped.
var Features = []string{"closures", "coroutines", "continuations", "regex", "digest", "hash-policies"}

// TestResult represents the outcome of running a single test
type TestResult struct {
	Test       LoadedTest
	Passed     bool
	Skipped    bool
	SkipReason string
	Error      error
}

// Runner executes conformance tests. Each test runs in a fresh script
// instance on a shared interpreter, so compiled blocks are reused across
// tests while variables and bound subs are not.
type Runner struct {
	interp   *interp.Interpreter
	out      *bytes.Buffer
	features map[string]bool
}

// NewRunner creates a test runner with the default configuration
func NewRunner() (*Runner, error) {
	return NewRunnerWithConfig(config.Default())
}

// NewRunnerWithConfig creates a test runner over cfg
func NewRunnerWithConfig(cfg *config.Config) (*Runner, error) {
	out := &bytes.Buffer{}
	in, err := interp.New(cfg, interp.WithOutput(out))
	if err != nil {
		return nil, err
	}
	features := make(map[string]bool, len(Features))
	for _, f := range Features {
		features[f] = true
	}
	return &Runner{interp: in, out: out, features: features}, nil
}

// Interpreter returns the interpreter tests run on
func (r *Runner) Interpreter() *interp.Interpreter { return r.interp }

// runSetupBlock executes a setup or teardown block
func (r *Runner) runSetupBlock(block *SetupBlock, s *vm.ScriptInstance) error {
	if block == nil || block.Statement == "" {
		return nil
	}
	_, err := r.interp.Run(s, block.Statement)
	return err
}

func (r *Runner) missingFeature(suite TestSuite) string {
	for _, f := range suite.Requires.Features {
		if !r.features[f] {
			return f
		}
	}
	return ""
}

// Run executes a single test case
func (r *Runner) Run(test LoadedTest) TestResult {
	if skipped, reason := test.Test.IsSkipped(); skipped {
		return TestResult{Test: test, Skipped: true, SkipReason: reason}
	}
	if f := r.missingFeature(test.Suite); f != "" {
		return TestResult{Test: test, Skipped: true, SkipReason: "requires " + f}
	}
	if test.Test.Code == "" && test.Test.Statement == "" {
		return TestResult{Test: test, Skipped: true, SkipReason: "no code/statement"}
	}

	s := r.interp.NewScript(test.File)
	defer func() {
		r.interp.Registry().RemoveOwnedBy(s)
		s.Unload()
	}()

	if len(test.Test.Debug) > 0 {
		cfg := *r.interp.Config()
		cfg.Debug = test.Test.Debug
		if err := cfg.Validate(); err != nil {
			return TestResult{Test: test, Error: err}
		}
		s.SetDebug(cfg.DebugFlags())
	}
	r.out.Reset()

	if err := r.runSetupBlock(test.Suite.Setup, s); err != nil {
		return TestResult{Test: test, Error: fmt.Errorf("suite setup failed: %w", err)}
	}
	if err := r.runSetupBlock(test.Test.Setup, s); err != nil {
		return TestResult{Test: test, Error: fmt.Errorf("test setup failed: %w", err)}
	}

	var result *types.Scalar
	var err error
	if test.Test.Statement != "" {
		result, err = r.interp.Run(s, test.Test.Statement)
	} else {
		result, err = r.interp.Eval(s, test.Test.Code)
	}
	output := r.out.String()

	if terr := r.runSetupBlock(test.Test.Teardown, s); terr != nil {
		return TestResult{Test: test, Error: fmt.Errorf("test teardown failed: %w", terr)}
	}
	if terr := r.runSetupBlock(test.Suite.Teardown, s); terr != nil {
		return TestResult{Test: test, Error: fmt.Errorf("suite teardown failed: %w", terr)}
	}

	if cerr := r.checkExpectation(test.Test.Expect, result, err, output); cerr != nil {
		return TestResult{Test: test, Error: cerr}
	}
	return TestResult{Test: test, Passed: true}
}

// RunAll executes all loaded tests
func (r *Runner) RunAll(tests []LoadedTest) []TestResult {
	results := make([]TestResult, len(tests))
	for i, test := range tests {
		results[i] = r.Run(test)
	}
	return results
}

// SummaryStats computes statistics from test results
type SummaryStats struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
}

// ComputeStats generates statistics from test results
func ComputeStats(results []TestResult) SummaryStats {
	stats := SummaryStats{Total: len(results)}
	for _, r := range results {
		if r.Skipped {
			stats.Skipped++
		} else if r.Passed {
			stats.Passed++
		} else {
			stats.Failed++
		}
	}
	return stats
}

// FormatStats returns a human-readable summary
func FormatStats(stats SummaryStats) string {
	return fmt.Sprintf("%d passed, %d failed, %d skipped (%d total)",
		stats.Passed, stats.Failed, stats.Skipped, stats.Total)
}

// checkExpectation returns nil when every expectation that is set holds
func (r *Runner) checkExpectation(expect Expectation, result *types.Scalar, runErr error, output string) error {
	if expect.IsEmpty() {
		return fmt.Errorf("no expectation specified")
	}

	if expect.Output != nil && output != *expect.Output {
		return fmt.Errorf("expected output %q, got %q", *expect.Output, output)
	}

	if expect.Error != "" {
		if runErr == nil {
			return fmt.Errorf("expected error %q, got value: %s", expect.Error, describe(result))
		}
		if !strings.Contains(runErr.Error(), expect.Error) {
			return fmt.Errorf("expected error %q, got %v", expect.Error, runErr)
		}
		return nil
	}
	if runErr != nil {
		return fmt.Errorf("unexpected error: %w", runErr)
	}
	if result == nil {
		result = types.NewNull()
	}

	if expect.Value != nil && !equalValue(expect.Value, result) {
		return fmt.Errorf("expected %v, got %s", expect.Value, result.Describe())
	}

	if expect.Type != "" {
		if got := typeName(result); got != expect.Type {
			return fmt.Errorf("expected type %s, got %s", expect.Type, got)
		}
	}

	if expect.Match != "" {
		re, err := r.interp.Patterns().Compile(expect.Match)
		if err != nil {
			return fmt.Errorf("bad match pattern: %w", err)
		}
		if !re.MatchString(result.String()) {
			return fmt.Errorf("%q does not match %s", result.String(), expect.Match)
		}
	}

	if expect.Contains != nil && !contains(result, expect.Contains) {
		return fmt.Errorf("%s does not contain %v", result.Describe(), expect.Contains)
	}
	return nil
}

func describe(v *types.Scalar) string {
	if v == nil {
		return "$null"
	}
	return v.Describe()
}

// typeName names v the way typeOf does
func typeName(v *types.Scalar) string {
	if v.Kind() == types.KindObject {
		if _, ok := v.Object().(vm.Function); ok {
			return "function"
		}
	}
	return v.Kind().String()
}

// equalValue compares a decoded YAML value with a script value. Numbers
// compare numerically, booleans by truth and strings by string form.
func equalValue(want interface{}, got *types.Scalar) bool {
	switch w := want.(type) {
	case nil:
		return got.IsNull()
	case int:
		return got.Kind().IsNumber() && got.Long() == int64(w)
	case float64:
		return got.Kind().IsNumber() && got.Double() == w
	case bool:
		return got.Truthy() == w
	case string:
		return got.Array() == nil && got.Map() == nil && got.String() == w
	case []interface{}:
		a := got.Array()
		if a == nil || a.Len() != len(w) {
			return false
		}
		for i, elem := range w {
			if !equalValue(elem, a.Get(i)) {
				return false
			}
		}
		return true
	case map[string]interface{}:
		m := got.Map()
		if m == nil || len(types.LiveKeys(m)) != len(w) {
			return false
		}
		for k, elem := range w {
			v, ok := m.Get(k)
			if !ok || !equalValue(elem, v) {
				return false
			}
		}
		return true
	default:
		return fmt.Sprint(w) == got.String()
	}
}

// contains checks array elements, live map keys or a substring
func contains(got *types.Scalar, want interface{}) bool {
	if a := got.Array(); a != nil {
		for _, v := range a.Values() {
			if equalValue(want, v) {
				return true
			}
		}
		return false
	}
	if m := got.Map(); m != nil {
		v, ok := m.Get(fmt.Sprint(want))
		return ok && !v.IsNull()
	}
	return strings.Contains(got.String(), fmt.Sprint(want))
}
