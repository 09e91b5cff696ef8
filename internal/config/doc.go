// Package config provides configuration structures and utilities for linkspider.
// It defines the frontier store selection, fetch and crawl settings, the
// crawl schedule and report preferences, and loads them from the optional
// .linkspider YAML file.
package config
