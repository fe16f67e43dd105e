/*
Package provision builds the resource plan from the declared configuration
and executes it: a strictly sequential walk over the plan in which each
resource is reconciled to its desired state.

The first failed reconciliation aborts the run with the failing stage named;
resources already brought up are left in place. Re-running a completed plan
is a no-op. Environment preconditions (Linux host, writable data directory)
are checked before any mutation; low available memory only warns.
*/
package provision
