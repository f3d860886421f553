// Package config handles application configuration loading and validation.
//
// Configuration is loaded from a YAML file and validated using struct tags.
// Unset values fall back to the defaults the pipeline was tuned with.
package config
