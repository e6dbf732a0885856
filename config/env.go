package config

import (
	"os"
	"strconv"
	"strings"
)

// Environment selects the config requirements and the logger flavour
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// ParseEnvironment maps an ENV value onto a known environment.
// Unrecognised values fall back to Development.
func ParseEnvironment(value string) Environment {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "production", "prod":
		return Production
	case "test", "testing":
		return Test
	case "ci":
		return CI
	}
	return Development
}

// GetEnvironment reads ENV. A truthy CI variable wins over it.
func GetEnvironment() Environment {
	if ci, err := strconv.ParseBool(os.Getenv("CI")); err == nil && ci {
		return CI
	}
	return ParseEnvironment(os.Getenv("ENV"))
}

func IsDevelopment() bool { return GetEnvironment() == Development }

func IsProduction() bool { return GetEnvironment() == Production }
