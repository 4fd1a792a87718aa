package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/oaps-dev/oaps/internal/artifactstore"
)

var artifactAddCmd = &cobra.Command{
	Use:   "add <prefix> <title>",
	Short: "Add a new artifact of the type named by prefix",
	Long: `Add a new artifact.

Examples:
  oapsctl artifact add dc "Use Postgres for the event store"
  oapsctl artifact add rv "Q3 architecture review" --subtype security --tag infra
`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		prefix, title := args[0], args[1]
		subtype, _ := cmd.Flags().GetString("subtype")
		tags, _ := cmd.Flags().GetStringSlice("tag")
		refs, _ := cmd.Flags().GetStringSlice("ref")
		summary, _ := cmd.Flags().GetString("summary")

		art, err := artifacts.AddArtifact(prefix, title, actorFlag(cmd), artifactstore.AddOptions{
			Subtype:    subtype,
			Tags:       tags,
			References: refs,
			Summary:    summary,
		})
		if err != nil {
			fatal(err)
		}
		if projectCkpt != nil {
			_ = projectCkpt.Stage([]string{art.FilePath})
			_, _ = projectCkpt.CommitPending(fmt.Sprintf("add %s: %s", art.ID, art.Title), checkpointCommitOptions())
		}

		if jsonOutput {
			if err := outputJSON(art); err != nil {
				fatal(err)
			}
			return
		}
		fmt.Printf("created %s (%s)\n", art.ID, art.FilePath)
	},
}

var artifactGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Print a single artifact by id",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		art, err := artifacts.GetArtifact(args[0])
		if err != nil {
			fatal(err)
		}
		if jsonOutput {
			if err := outputJSON(art); err != nil {
				fatal(err)
			}
			return
		}
		fmt.Printf("%s  %-10s %-8s %s\n", art.ID, art.Type, art.Status, art.Title)
		if art.Summary != "" {
			fmt.Println(colorMuted.Render(art.Summary))
		}

		render, _ := cmd.Flags().GetBool("render")
		if render && !art.IsBinary() {
			body, err := artifacts.GetArtifactContent(art.ID)
			if err != nil {
				fatal(err)
			}
			out, err := renderMarkdown(string(body))
			if err != nil {
				fatal(err)
			}
			fmt.Println(out)
		}
	},
}

// renderMarkdown renders an artifact's Markdown body for the terminal,
// falling back to the raw text if glamour can't build a renderer for
// the current terminal (e.g. no TTY).
func renderMarkdown(body string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return body, nil
	}
	out, err := r.Render(body)
	if err != nil {
		return "", err
	}
	return out, nil
}

var artifactListCmd = &cobra.Command{
	Use:   "list",
	Short: "List artifacts, optionally filtered by type, status, or tag",
	Run: func(cmd *cobra.Command, args []string) {
		typeFilter, _ := cmd.Flags().GetString("type")
		statusFilter, _ := cmd.Flags().GetString("status")
		tagFilter, _ := cmd.Flags().GetString("tag")

		list, err := artifacts.ListArtifacts(typeFilter, statusFilter, tagFilter)
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
		for _, art := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", art.ID, art.Type, art.Status, art.Title)
		}
		w.Flush()
	},
}

var artifactDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an artifact",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		force, _ := cmd.Flags().GetBool("force")
		if err := artifacts.DeleteArtifact(args[0], force); err != nil {
			fatal(err)
		}
		if projectCkpt != nil {
			_, _ = projectCkpt.CommitPending(fmt.Sprintf("delete %s", args[0]), checkpointCommitOptions())
		}
		fmt.Printf("deleted %s\n", args[0])
	},
}

var artifactSupersedeCmd = &cobra.Command{
	Use:   "supersede <old-id> <new-id>",
	Short: "Mark old-id as superseded by new-id",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		old, nw, err := artifacts.SupersedeArtifact(args[0], args[1])
		if err != nil {
			fatal(err)
		}
		if projectCkpt != nil {
			_, _ = projectCkpt.CommitPending(fmt.Sprintf("supersede %s with %s", old.ID, nw.ID), checkpointCommitOptions())
		}
		fmt.Printf("%s superseded by %s\n", old.ID, nw.ID)
	},
}

var artifactRetractCmd = &cobra.Command{
	Use:   "retract <id> <reason>",
	Short: "Retract an artifact with a recorded reason",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		art, err := artifacts.RetractArtifact(args[0], args[1])
		if err != nil {
			fatal(err)
		}
		if projectCkpt != nil {
			_, _ = projectCkpt.CommitPending(fmt.Sprintf("retract %s", art.ID), checkpointCommitOptions())
		}
		fmt.Printf("retracted %s\n", art.ID)
	},
}

func init() {
	artifactAddCmd.Flags().String("subtype", "", "registry subtype for this artifact's type")
	artifactAddCmd.Flags().StringSlice("tag", nil, "tags to attach (repeatable)")
	artifactAddCmd.Flags().StringSlice("ref", nil, "ids this artifact references (repeatable)")
	artifactAddCmd.Flags().String("summary", "", "one-line summary")

	artifactGetCmd.Flags().Bool("render", false, "render the Markdown body for the terminal")

	artifactListCmd.Flags().String("type", "", "filter by registry type name")
	artifactListCmd.Flags().String("status", "", "filter by lifecycle status")
	artifactListCmd.Flags().String("tag", "", "filter by a single tag")

	artifactDeleteCmd.Flags().Bool("force", false, "delete even if other artifacts reference this one")

	artifactCmd := &cobra.Command{
		Use:   "artifact",
		Short: "Manage artifacts (decisions, reviews, diagrams, and other registry types)",
	}
	artifactCmd.AddCommand(artifactAddCmd, artifactGetCmd, artifactListCmd, artifactDeleteCmd, artifactSupersedeCmd, artifactRetractCmd)
	rootCmd.AddCommand(artifactCmd)
}
