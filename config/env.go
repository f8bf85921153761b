package config

import (
	"os"
	"strings"
)

// Environment represents the current runtime environment
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment determines the current environment. CI=true wins over
// FOODGRAM_ENV, which falls back to ENV and then to development.
func GetEnvironment() Environment {
	if os.Getenv("CI") == "true" {
		return CI
	}

	name := os.Getenv(envPrefix + "_ENV")
	if name == "" {
		name = os.Getenv("ENV")
	}
	return ParseEnvironment(name)
}

func ParseEnvironment(name string) Environment {
	switch Environment(strings.ToLower(strings.TrimSpace(name))) {
	case Production:
		return Production
	case Test:
		return Test
	case CI:
		return CI
	default:
		return Development
	}
}

// IsProduction returns true if the current environment is production
func (e Environment) IsProduction() bool {
	return e == Production
}

// IsDevelopment returns true for development and test, where debug output
// and generated secrets are allowed.
func (e Environment) IsDevelopment() bool {
	return e == Development || e == Test
}
