// Package cli wires together the Cobra command tree for the ackr binary.
//
// It defines the root command and all subcommands (pull, show, review, ack,
// reindex, config, version), reads configuration, invokes the pull flow and
// store, and returns deterministic exit codes.
package cli
