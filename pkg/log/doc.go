// Package log provides structured logging for bosun, built on zerolog.
// Init configures the global logger once at process start; components
// derive child loggers via WithComponent and WithResource.
package log
