// Package cli provides the interactive gophauth command-line client.
//
// It wires configuration, the gRPC client and an interactive REPL. A
// background watcher pings the server and flips the prompt between online
// and offline.
//
// Commands:
//   - register / verify: create an account and confirm its email
//   - login / logout: obtain or forget a token pair for this device
//   - renew: exchange the refresh token for a new access token
//   - whoami: show the authenticated profile
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
