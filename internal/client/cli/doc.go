// Package cli provides the interactive taskmarket command-line client.
//
// It wires configuration, the session store, the API client and services,
// and runs a REPL. Guests can sign up, log in and capture a referral link;
// everything else requires a session, and a protected command typed without
// one starts the login flow first.
//
// Key features:
//   - OTP login by email or phone, three-step signup, logout
//   - Browse, accept and submit proof for tasks
//   - Publish and manage your own tasks
//   - Wallet balance, payment methods, withdrawals and payout history
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See runREPL for the command table.
package cli
