/*
Package resources supplies the kind-specific probe/create/start primitives
the reconciler drives: containers (via containerd), the generated
compose-style stack file, config-file artifacts, host data directories,
ufw firewall rules, and OS user accounts.

Probes are structured queries where the external system offers an API
(containerd, the user database) and anchored exact-match text parsing where
it does not (ufw). All parsing lives here, behind the Probe primitives.
*/
package resources
