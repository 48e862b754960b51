// Package config loads simulation scenarios for the host tools from YAML.
package config
