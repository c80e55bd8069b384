package rex

import "fmt"

// Config controls compilation and search behavior. Grounded on the
// teacher's meta.Config (github.com/coregx/coregex/meta/config.go): the
// shape (a plain struct returned by DefaultConfig, validated by Validate
// before use) carries over; the fields themselves are rex's own, since
// this engine has no DFA or Teddy strategy selection to tune.
type Config struct {
	// EnablePrefilter turns on mandatory-literal prefiltering via
	// github.com/coregx/ahocorasick. Default: true.
	EnablePrefilter bool

	// MinLiteralLen is the shortest required-literal-prefix length worth
	// building a prefilter for. Default: 2.
	MinLiteralLen int

	// ForceBacktrack makes every search use the backtracking engine, even
	// for patterns the lockstep engine could run. Intended for testing the
	// two engines against each other. Default: false.
	ForceBacktrack bool

	// BacktrackStepLimit caps the number of recursive steps a single
	// backtracking search may take before aborting with
	// backtrack.ErrStepLimitExceeded. Zero means
	// backtrack.DefaultStepLimit. Default: 0.
	BacktrackStepLimit int
}

// DefaultConfig returns sensible defaults: prefiltering on, a conservative
// minimum literal length, the lockstep engine preferred whenever the
// pattern allows it, and the backtracking engine's default step budget.
func DefaultConfig() Config {
	return Config{
		EnablePrefilter: true,
		MinLiteralLen:   2,
		ForceBacktrack:  false,
	}
}

// Validate reports whether c's fields are in range.
func (c Config) Validate() error {
	if c.EnablePrefilter && c.MinLiteralLen < 1 {
		return &ConfigError{Field: "MinLiteralLen", Message: "must be at least 1"}
	}
	if c.BacktrackStepLimit < 0 {
		return &ConfigError{Field: "BacktrackStepLimit", Message: "must not be negative"}
	}
	return nil
}

// ConfigError reports an invalid Config field.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("rex: invalid config: %s: %s", e.Field, e.Message)
}
