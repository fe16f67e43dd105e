// Package security generates random credentials and stable derived
// identifiers for provisioned resources.
package security
