// Package health provides service reachability checks used by status mode.
// The TCP checker verifies that the provisioned database and web application
// accept connections on their published ports.
package health
