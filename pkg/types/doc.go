/*
Package types defines the core data structures used throughout bosun.

It contains the domain model for idempotent provisioning: managed resources
and their kind-specific specs, the observed-state and outcome enums the
reconciler operates on, the ordered provisioning plan, persisted run records,
and the status-mode report types. All other packages depend on types; types
depends on nothing but the standard library.
*/
package types
