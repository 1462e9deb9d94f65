package core

import (
	"fmt"
	"strings"
)

// Environment represents the deployment environment of the application.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

// String returns the string representation of the environment.
func (e Environment) String() string {
	return string(e)
}

// IsProduction reports whether the environment corresponds to production.
func (e Environment) IsProduction() bool {
	return e == Production
}

// Decode lets envconfig populate an Environment from ENVIRONMENT.
// Empty values select Development; unknown values are rejected so a typo
// does not silently enable debug logging in production.
func (e *Environment) Decode(value string) error {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		*e = Development
		return nil
	}
	switch Environment(v) {
	case Development, Staging, Testing, Production:
		*e = Environment(v)
		return nil
	}
	return fmt.Errorf("unknown environment %q", value)
}

// ParseEnvironment normalises the provided value into one of the known environments.
// Unknown values fall back to Development.
func ParseEnvironment(v string) Environment {
	var e Environment
	if err := e.Decode(v); err != nil {
		return Development
	}
	return e
}
