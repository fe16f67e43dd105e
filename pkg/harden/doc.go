/*
Package harden performs first-run hardening of a fresh server: it creates a
sudo-capable operator account with an installed SSH public key, writes an
sshd lockdown drop-in (root login and password authentication disabled), and
enables the firewall with an OpenSSH allow rule.

The account is created before password logins are disabled so the operator
is never locked out. All inputs are explicit options; nothing prompts.
*/
package harden
