/*
Package runtime provides the containerd-backed container primitives used by
the reconciler: Probe, Create, and Start.

Probe is a structured query against containerd's API. It matches container
IDs exactly so that probing for "odoo" can never observe a container named
"odoo2" or "my-odoo". Create pulls the image when missing, creates the
container with host networking and bind mounts, and starts it; Start brings
an existing stopped container back up without recreating it or re-applying
its spec.

All bosun containers live in the "bosun" containerd namespace.
*/
package runtime
