// Package cli provides the interactive ZeroBalance command-line client.
//
// It wires configuration, the local credential store, API services, the
// session store and an interactive REPL. Typical flow: restore a persisted
// session, start a background connectivity watcher, and execute user
// commands.
//
// Key features:
//   - Signup / Login / Logout
//   - Dashboard with the backend status
//   - Profile: show, rename, change password, statistics
//
// Commands that need a signed-in user are refused until one exists. The REPL
// is started via App.Run(ctx), which blocks until the user exits. See App,
// StartOnlineStatusWatcher, and runREPL for details.
package cli
