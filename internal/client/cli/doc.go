// Package cli provides the interactive CloudVault command-line client.
//
// It wires configuration and the API client into a REPL. Typical flow:
// register or log in, browse the folder tree, upload and download files,
// tag them and move them between folders.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See runREPL for the command list.
package cli
