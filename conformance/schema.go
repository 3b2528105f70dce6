package conformance

// TestSuite represents a complete YAML test file
type TestSuite struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description,omitempty"`
	Requires    Requirements `yaml:"requires,omitempty"`
	Setup       *SetupBlock  `yaml:"setup,omitempty"`
	Teardown    *SetupBlock  `yaml:"teardown,omitempty"`
	Tests       []TestCase   `yaml:"tests"`
}

// Requirements lists the features a suite needs. A suite naming a feature
// the runner does not know is skipped.
type Requirements struct {
	Features []string `yaml:"features,omitempty"`
}

// SetupBlock holds statements run before or after a test
type SetupBlock struct {
	Statement string `yaml:"statement,omitempty"`
}

// TestCase represents a single test within a suite
type TestCase struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description,omitempty"`
	Skip        interface{} `yaml:"skip,omitempty"`      // bool or string
	Debug       []string    `yaml:"debug,omitempty"`     // config debug names
	Code        string      `yaml:"code,omitempty"`      // expression (wrapped in return)
	Statement   string      `yaml:"statement,omitempty"` // explicit statements
	Setup       *SetupBlock `yaml:"setup,omitempty"`
	Teardown    *SetupBlock `yaml:"teardown,omitempty"`
	Expect      Expectation `yaml:"expect"`
}

// Expectation defines what result is expected from a test. Every field
// that is set must hold.
type Expectation struct {
	Value    interface{} `yaml:"value,omitempty"`    // structural match
	Output   *string     `yaml:"output,omitempty"`   // exact printed output
	Error    string      `yaml:"error,omitempty"`    // substring of the error
	Type     string      `yaml:"type,omitempty"`     // as typeOf reports it
	Match    string      `yaml:"match,omitempty"`    // regex over the string form
	Contains interface{} `yaml:"contains,omitempty"` // element or substring
}

// IsEmpty reports whether nothing is expected
func (e Expectation) IsEmpty() bool {
	return e.Value == nil && e.Output == nil && e.Error == "" &&
		e.Type == "" && e.Match == "" && e.Contains == nil
}

// IsSkipped returns true if this test should be skipped
func (tc *TestCase) IsSkipped() (bool, string) {
	if tc.Skip == nil {
		return false, ""
	}

	switch v := tc.Skip.(type) {
	case bool:
		if v {
			return true, "skipped"
		}
		return false, ""
	case string:
		return true, v
	default:
		return false, ""
	}
}
