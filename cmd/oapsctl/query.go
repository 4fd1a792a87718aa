package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var queryCoverageCmd = &cobra.Command{
	Use:   "coverage <spec-id>",
	Short: "Report requirement/test coverage for a spec",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		report, err := queryEngine.Coverage(args[0])
		if err != nil {
			fatal(err)
		}
		if err := outputJSON(report); err != nil {
			fatal(err)
		}
	},
}

var queryProgressCmd = &cobra.Command{
	Use:   "progress <spec-id>",
	Short: "Report requirement/test completion progress for a spec",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		report, err := queryEngine.Progress(args[0])
		if err != nil {
			fatal(err)
		}
		if err := outputJSON(report); err != nil {
			fatal(err)
		}
	},
}

var queryOrphansCmd = &cobra.Command{
	Use:   "orphans <spec-id>",
	Short: "Report tests with no live requirement, tests missing a file or function, and orphaned artifacts",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		report, err := queryEngine.Orphans(args[0])
		if err != nil {
			fatal(err)
		}
		if err := outputJSON(report); err != nil {
			fatal(err)
		}
	},
}

var queryDepsCmd = &cobra.Command{
	Use:   "deps <spec-id>",
	Short: "Print the spec dependency graph rooted at spec-id",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		graph, err := queryEngine.DependencyGraph(args[0])
		if err != nil {
			fatal(err)
		}
		if err := outputJSON(graph); err != nil {
			fatal(err)
		}
	},
}

var queryUnverifiedCmd = &cobra.Command{
	Use:   "unverified <spec-id>",
	Short: "List requirements with no passing test",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		reqs, err := queryEngine.Unverified(args[0])
		if err != nil {
			fatal(err)
		}
		if jsonOutput {
			if err := outputJSON(reqs); err != nil {
				fatal(err)
			}
			return
		}
		for _, r := range reqs {
			fmt.Printf("%s  %s\n", r.ID, r.Title)
		}
	},
}

func init() {
	queryCmd := &cobra.Command{
		Use:   "query",
		Short: "Read-only reports over specs, requirements, tests, and artifacts",
	}
	queryCmd.AddCommand(queryCoverageCmd, queryProgressCmd, queryOrphansCmd, queryDepsCmd, queryUnverifiedCmd)
	rootCmd.AddCommand(queryCmd)
}
