// Package handlers contains the execution logic of the sagesweep commands.
//
// Clients, prompts and output streams are created through package-level
// variables so tests can replace them.
package handlers
