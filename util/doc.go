// Package util holds small parsing and display helpers shared by the
// server and the CLI.
package util
