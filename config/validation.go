package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigRequirements defines required configuration for each environment
type ConfigRequirements struct {
	RequirePostgres bool
	RequiredSecrets []string
}

var (
	// Environment-specific requirements
	requirements = map[Environment]ConfigRequirements{
		Development: {},
		Test:        {},
		CI:          {},
		Production: {
			RequirePostgres: true,
			RequiredSecrets: []string{
				"db_password",
				"jwt_secret",
				"ai_api_key",
			},
		},
	}
)

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()
	reqs := requirements[env]

	var errs []ValidationError

	switch cfg.DBDriver {
	case "sqlite":
		if reqs.RequirePostgres {
			errs = append(errs, ValidationError{"DB_DRIVER", "postgres is required in " + string(env)})
		}
		if cfg.DBPath == "" {
			errs = append(errs, ValidationError{"DB_PATH", "required for the sqlite driver"})
		}
	case "postgres":
		if cfg.DBHost == "" || cfg.DBName == "" {
			errs = append(errs, ValidationError{"DB_HOST", "host and database name are required for postgres"})
		}
	default:
		errs = append(errs, ValidationError{"DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}

	for _, secret := range reqs.RequiredSecrets {
		if value := readSecret(secret); value == "" {
			errs = append(errs, ValidationError{secret, "required secret is not set"})
		}
	}

	if cfg.AuthRequired && cfg.JWTSecret == "" {
		errs = append(errs, ValidationError{"JWT_SECRET", "required when AUTH_REQUIRED is set"})
	}
	if cfg.AITimeout <= 0 {
		errs = append(errs, ValidationError{"AI_TIMEOUT", "must be positive"})
	}
	if cfg.AIRequestsPerSecond <= 0 {
		errs = append(errs, ValidationError{"AI_REQUESTS_PER_SECOND", "must be positive"})
	}
	if cfg.SessionIdleTTL < 0 {
		errs = append(errs, ValidationError{"SESSION_IDLE_TTL", "must not be negative"})
	}
	if cfg.VisionEnabled && cfg.AWSRegion == "" {
		errs = append(errs, ValidationError{"AWS_REGION", "required when VISION_ENABLED is set"})
	}

	if len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(msgs, "\n"))
	}

	return nil
}
