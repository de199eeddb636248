package walk

import (
	"errors"
	"fmt"
)

// ErrAlreadyRun is returned when Run is called on an engine that has left the idle state.
var ErrAlreadyRun = errors.New("walk: engine has already been run")

// ConfigError reports an invalid arena or motion parameter. It is returned at
// construction time so that no run starts with a configuration it cannot honor.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("walk: invalid %s: %s", e.Field, e.Reason)
}

func configErr(field, format string, args ...interface{}) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ValidateSeed rejects negative seeds. Zero is reserved for a clock-derived seed.
func ValidateSeed(seed int64) error {
	if seed < 0 {
		return configErr("simulation.seed", "must be non-negative (0 derives one from the clock), got %d", seed)
	}
	return nil
}
