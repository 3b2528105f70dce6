package conformance

import (
	"strings"
	"testing"
)

func newRunner(t *testing.T) *Runner {
	t.Helper()
	runner, err := NewRunner()
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	return runner
}

func TestConformance(t *testing.T) {
	tests, err := LoadAllTests()
	if err != nil {
		t.Fatalf("Failed to load tests: %v", err)
	}
	if len(tests) == 0 {
		t.Fatal("No tests loaded")
	}

	runner := newRunner(t)
	results := runner.RunAll(tests)
	stats := ComputeStats(results)

	// Group results by file for organized output
	var files []string
	fileGroups := make(map[string][]TestResult)
	for _, result := range results {
		if _, ok := fileGroups[result.Test.File]; !ok {
			files = append(files, result.Test.File)
		}
		fileGroups[result.Test.File] = append(fileGroups[result.Test.File], result)
	}

	for _, file := range files {
		t.Run(file, func(t *testing.T) {
			for _, result := range fileGroups[file] {
				t.Run(result.Test.Test.Name, func(t *testing.T) {
					if result.Skipped {
						t.Skipf("Skipped: %s", result.SkipReason)
					} else if !result.Passed {
						t.Errorf("Test failed: %v", result.Error)
					}
				})
			}
		})
	}

	t.Logf("\n=== Summary ===\n%s", FormatStats(stats))
}

func TestYAMLParsing(t *testing.T) {
	tests, err := LoadAllTests()
	if err != nil {
		t.Fatalf("YAML parsing failed: %v", err)
	}

	for i, test := range tests {
		if test.Test.Name == "" {
			t.Errorf("Test %d in %s has no name", i, test.File)
		}
		if test.Test.Expect.IsEmpty() {
			t.Errorf("Test %s in %s has no expectation", test.Test.Name, test.File)
		}
		if test.Test.Code == "" && test.Test.Statement == "" {
			t.Errorf("Test %s in %s has no code/statement", test.Test.Name, test.File)
		}
		if strings.Contains(test.File, "\\") {
			t.Errorf("File %s should use forward slashes", test.File)
		}
	}
}

func TestRunnerReportsFailures(t *testing.T) {
	suite := `
name: inline
tests:
  - name: wrong value
    code: 1 + 1
    expect:
      value: 3
  - name: wrong type
    code: "'x'"
    expect:
      type: int
  - name: missing error
    code: 1
    expect:
      error: boom
  - name: wrong output
    statement: print("a");
    expect:
      output: b
  - name: no match
    code: "'abc'"
    expect:
      match: "^z"
  - name: not contained
    code: "@(1, 2)"
    expect:
      contains: 3
  - name: unexpected error
    statement: throw "x";
    expect:
      value: 1
  - name: nothing expected
    code: 1
`
	tests, err := parseSuite([]byte(suite), "inline.yaml")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	runner := newRunner(t)
	for _, result := range runner.RunAll(tests) {
		if result.Passed || result.Skipped {
			t.Errorf("%s: expected a failure", result.Test.Test.Name)
		}
		if result.Error == nil {
			t.Errorf("%s: failure carries no error", result.Test.Test.Name)
		}
	}
}

func TestRunnerIsolatesTests(t *testing.T) {
	suite := `
name: isolation
tests:
  - name: defines state
    statement: |
      $leak = 1;
      sub leaked { return 1; }
      return $leak;
    expect:
      value: 1
  - name: state is gone
    code: -isnull $leak
    expect:
      value: 1
  - name: sub is gone
    statement: |
      try { leaked(); } catch $e { return "gone"; }
      return "present";
    expect:
      value: gone
`
	tests, err := parseSuite([]byte(suite), "isolation.yaml")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	runner := newRunner(t)
	for _, result := range runner.RunAll(tests) {
		if !result.Passed {
			t.Errorf("%s: %v", result.Test.Test.Name, result.Error)
		}
	}
}

func TestComputeStats(t *testing.T) {
	results := []TestResult{
		{Passed: true},
		{Passed: true},
		{Skipped: true},
		{},
	}
	stats := ComputeStats(results)
	want := SummaryStats{Total: 4, Passed: 2, Failed: 1, Skipped: 1}
	if stats != want {
		t.Errorf("got %+v, want %+v", stats, want)
	}
	if got := FormatStats(stats); got != "2 passed, 1 failed, 1 skipped (4 total)" {
		t.Errorf("FormatStats = %q", got)
	}
}

func TestMissingFeatureSkips(t *testing.T) {
	tests, err := parseSuite([]byte(`
name: needs
requires:
  features: [teleport]
tests:
  - name: t
    code: 1
    expect:
      value: 1
`), "needs.yaml")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	result := newRunner(t).Run(tests[0])
	if !result.Skipped || result.SkipReason != "requires teleport" {
		t.Errorf("got %+v", result)
	}
}
