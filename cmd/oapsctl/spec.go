package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/oaps-dev/oaps/internal/specstore"
	"github.com/oaps-dev/oaps/internal/types"
)

var specCreateCmd = &cobra.Command{
	Use:   "create <type> <title>",
	Short: "Create a new spec (feature, enhancement, integration, or maintenance)",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		specType := types.SpecType(args[0])
		tags, _ := cmd.Flags().GetStringSlice("tag")
		summary, _ := cmd.Flags().GetString("summary")
		dependsOn, _ := cmd.Flags().GetStringSlice("depends-on")
		extends, _ := cmd.Flags().GetString("extends")

		actor := actorFlag(cmd)
		spec, err := specs.CreateSpec(args[1], specType, specstore.CreateOptions{
			Authors:   []string{actor},
			Tags:      tags,
			Summary:   summary,
			DependsOn: dependsOn,
			Extends:   extends,
		})
		if err != nil {
			fatal(err)
		}
		if projectCkpt != nil {
			_, _ = projectCkpt.CommitPending(fmt.Sprintf("create spec %s: %s", spec.ID, spec.Title), checkpointCommitOptions())
		}
		if jsonOutput {
			if err := outputJSON(spec); err != nil {
				fatal(err)
			}
			return
		}
		fmt.Printf("created %s (%s)\n", spec.ID, spec.Slug)
	},
}

var specListCmd = &cobra.Command{
	Use:   "list",
	Short: "List specs",
	Run: func(cmd *cobra.Command, args []string) {
		status, _ := cmd.Flags().GetString("status")
		specType, _ := cmd.Flags().GetString("type")
		includeArchived, _ := cmd.Flags().GetBool("all")

		list, err := specs.ListSpecs(specstore.ListOptions{
			Status:          types.SpecStatus(status),
			SpecType:        types.SpecType(specType),
			IncludeArchived: includeArchived,
		})
		if err != nil {
			fatal(err)
		}
		if jsonOutput {
			if err := outputJSON(list); err != nil {
				fatal(err)
			}
			return
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTYPE\tSTATUS\tTITLE")
		for _, s := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, s.SpecType, s.Status, s.Title)
		}
		w.Flush()
	},
}

var specGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Print a single spec with its computed dependents",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		spec, err := specs.GetSpec(args[0])
		if err != nil {
			fatal(err)
		}
		if jsonOutput {
			if err := outputJSON(spec); err != nil {
				fatal(err)
			}
			return
		}
		fmt.Printf("%s  %-12s %-10s %s\n", spec.ID, spec.SpecType, spec.Status, spec.Title)
		if len(spec.Relationships.Dependents) > 0 {
			fmt.Println("depended on by:", spec.Relationships.Dependents)
		}
	},
}

var specBumpCmd = &cobra.Command{
	Use:   "bump <id> <major|minor|patch>",
	Short: "Bump a spec's semantic version",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		spec, err := specs.GetSpec(args[0])
		if err != nil {
			fatal(err)
		}
		next, err := specstore.BumpVersion(spec.Version, args[1])
		if err != nil {
			fatal(err)
		}
		updated, err := specs.UpdateSpec(args[0], specstore.UpdateOptions{Version: &next})
		if err != nil {
			fatal(err)
		}
		if projectCkpt != nil {
			_, _ = projectCkpt.CommitPending(fmt.Sprintf("bump %s to %s", updated.ID, updated.Version), checkpointCommitOptions())
		}
		fmt.Printf("%s: %s -> %s\n", updated.ID, spec.Version, updated.Version)
	},
}

func init() {
	specCreateCmd.Flags().StringSlice("tag", nil, "tags to attach (repeatable)")
	specCreateCmd.Flags().String("summary", "", "one-line summary")
	specCreateCmd.Flags().StringSlice("depends-on", nil, "spec ids this spec depends on (repeatable)")
	specCreateCmd.Flags().String("extends", "", "spec id this spec extends")

	specListCmd.Flags().String("status", "", "filter by lifecycle status")
	specListCmd.Flags().String("type", "", "filter by spec type")
	specListCmd.Flags().Bool("all", false, "include deprecated specs")

	specCmd := &cobra.Command{
		Use:   "spec",
		Short: "Manage specs and their requirements/tests",
	}
	specCmd.AddCommand(specCreateCmd, specListCmd, specGetCmd, specBumpCmd)
	rootCmd.AddCommand(specCmd)
}
