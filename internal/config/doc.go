// Package config loads the scraper's YAML configuration and the portal
// credentials from the environment.
package config
