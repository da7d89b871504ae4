// Package cli parses resume-render's command-line arguments, loads the input
// file and writes the rendered document. Errors that should end the process
// carry their exit code as an ExitError: 2 for usage errors, 1 for everything
// that goes wrong after the arguments were accepted.
package cli
