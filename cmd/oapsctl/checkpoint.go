package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func requireCheckpoint() {
	if projectCkpt == nil {
		fatal(fmt.Errorf("no checkpoint repository available (git disabled or no .git found)"))
	}
}

var checkpointStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show staged, modified, and untracked paths in the checkpoint repository",
	Run: func(cmd *cobra.Command, args []string) {
		requireCheckpoint()
		status, err := projectCkpt.Status()
		if err != nil {
			fatal(err)
		}
		if jsonOutput {
			if err := outputJSON(status); err != nil {
				fatal(err)
			}
			return
		}
		fmt.Println("staged:", status.Staged)
		fmt.Println("modified:", status.Modified)
		fmt.Println("untracked:", status.Untracked)
	},
}

var checkpointCommitCmd = &cobra.Command{
	Use:   "commit <message>",
	Short: "Stage and commit every pending change",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		requireCheckpoint()
		result, err := projectCkpt.CommitPending(args[0], checkpointCommitOptions())
		if err != nil {
			fatal(err)
		}
		if jsonOutput {
			if err := outputJSON(result); err != nil {
				fatal(err)
			}
			return
		}
		if result.NoChanges {
			fmt.Println("nothing to commit")
			return
		}
		fmt.Printf("committed %s (%d files)\n", result.SHA, len(result.Files))
	},
}

var checkpointDiscardCmd = &cobra.Command{
	Use:   "discard [paths...]",
	Short: "Discard working-tree and index changes, all paths if none given",
	Run: func(cmd *cobra.Command, args []string) {
		requireCheckpoint()
		result, err := projectCkpt.DiscardChanges(args)
		if err != nil {
			fatal(err)
		}
		if jsonOutput {
			if err := outputJSON(result); err != nil {
				fatal(err)
			}
			return
		}
		if result.NoChanges {
			fmt.Println("nothing to discard")
			return
		}
		fmt.Println("restored:", result.Restored)
	},
}

var checkpointLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the last commits in the checkpoint repository",
	Run: func(cmd *cobra.Command, args []string) {
		requireCheckpoint()
		n, _ := cmd.Flags().GetInt("limit")
		commits, err := projectCkpt.GetLastCommits(n)
		if err != nil {
			fatal(err)
		}

		since, _ := cmd.Flags().GetString("since")
		if since != "" {
			cutoff, err := parseSince(since)
			if err != nil {
				fatal(err)
			}
			filtered := commits[:0]
			for _, c := range commits {
				if !c.Timestamp.Before(cutoff) {
					filtered = append(filtered, c)
				}
			}
			commits = filtered
		}

		if jsonOutput {
			if err := outputJSON(commits); err != nil {
				fatal(err)
			}
			return
		}
		for _, c := range commits {
			fmt.Printf("%s  %s  %s\n", c.SHA[:min(8, len(c.SHA))], c.AuthorName, c.Message)
		}
	},
}

func init() {
	checkpointLogCmd.Flags().Int("limit", 10, "number of commits to show")
	checkpointLogCmd.Flags().String("since", "", `only show commits on or after this time, e.g. "2 days ago", "last friday"`)

	checkpointCmd := &cobra.Command{
		Use:   "checkpoint",
		Short: "Inspect and drive the inner checkpoint Git repository",
	}
	checkpointCmd.AddCommand(checkpointStatusCmd, checkpointCommitCmd, checkpointDiscardCmd, checkpointLogCmd)
	rootCmd.AddCommand(checkpointCmd)
}
