// Command oapsctl is a thin CLI harness over the core store/query/
// checkpoint/state packages (spec §6). It is not a full reimplementation
// of any hook runner or rule engine — those are explicit Non-goals; this
// binary exists to let a human or script drive the core's contract
// directly from a terminal.
//
// Grounded on the teacher's cmd/bd package: a cobra root command with
// one file per subcommand, discovered via init() registration.
package main

func main() {
	Execute()
}
