// Package cli holds helpers shared by the tensorix commands: output
// formatting, error to exit code mapping and signal handling.
package cli
