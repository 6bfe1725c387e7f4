// Package cmd implements the racuni command line interface.
//
// The default subcommand is "run", which executes one pipeline pass; "auth"
// performs the one-time OAuth consent flow, "gate" checks the working-day
// gate for use in shell pipelines, and "version" prints the build version.
package cmd
