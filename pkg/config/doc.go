// Package config provides configuration loading and validation for the
// coaching engine.
//
// Configuration is loaded from YAML files with support for environment
// variable overrides (COACH_* prefix) and sensible defaults. The
// loading sequence is: parse YAML, apply defaults, apply environment
// overrides, validate.
//
// Example usage:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("coach.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Fallback.Order)
package config
