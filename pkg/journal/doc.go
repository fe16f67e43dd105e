// Package journal persists provisioning and hardening run history in a
// local BoltDB file under the data directory.
package journal
