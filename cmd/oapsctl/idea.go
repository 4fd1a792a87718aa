package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/spf13/cobra"

	"github.com/oaps-dev/oaps/internal/ideastore"
	"github.com/oaps-dev/oaps/internal/types"
)

// sinceParser understands natural-language dates for the idea list
// --since flag ("3 days ago", "last monday").
var sinceParser = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}()

func parseSince(s string) (time.Time, error) {
	r, err := sinceParser.Parse(s, time.Now())
	if err != nil {
		return time.Time{}, err
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("could not parse %q as a date", s)
	}
	return r.Time, nil
}

var ideaNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a new idea interactively",
	Long:  `Walks through an interactive form to capture a new idea (spec §4.6).`,
	Run: func(cmd *cobra.Command, args []string) {
		idea, err := runIdeaForm(actorFlag(cmd))
		if err != nil {
			if err == huh.ErrUserAborted {
				fmt.Fprintln(os.Stderr, "idea creation canceled.")
				os.Exit(0)
			}
			fatal(err)
		}
		if projectCkpt != nil {
			_, _ = projectCkpt.CommitPending(fmt.Sprintf("add idea %s: %s", idea.ID, idea.Title), checkpointCommitOptions())
		}
		fmt.Printf("created %s\n", idea.ID)
	},
}

var ideaListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ideas",
	Run: func(cmd *cobra.Command, args []string) {
		status, _ := cmd.Flags().GetString("status")
		ideaType, _ := cmd.Flags().GetString("type")
		includeArchived, _ := cmd.Flags().GetBool("all")
		since, _ := cmd.Flags().GetString("since")

		list, err := ideas.ListIdeas(ideastore.ListOptions{
			Status:          types.IdeaStatus(status),
			IdeaType:        types.IdeaType(ideaType),
			IncludeArchived: includeArchived,
		})
		if err != nil {
			fatal(err)
		}

		if since != "" {
			cutoff, err := parseSince(since)
			if err != nil {
				fatal(err)
			}
			filtered := list[:0]
			for _, idea := range list {
				if !idea.Created.Before(cutoff) {
					filtered = append(filtered, idea)
				}
			}
			list = filtered
		}

		if jsonOutput {
			if err := outputJSON(list); err != nil {
				fatal(err)
			}
			return
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTYPE\tSTATUS\tTITLE")
		for _, idea := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", idea.ID, idea.IdeaType, idea.Status, idea.Title)
		}
		w.Flush()
	},
}

var ideaPromoteCmd = &cobra.Command{
	Use:   "promote <id>",
	Short: "Move an idea to the explored status",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		idea, err := ideas.UpdateStatus(args[0], types.IdeaExplored, actorFlag(cmd))
		if err != nil {
			fatal(err)
		}
		fmt.Printf("%s is now %s\n", idea.ID, idea.Status)
	},
}

var ideaArchiveCmd = &cobra.Command{
	Use:   "archive <id>",
	Short: "Archive an idea",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		idea, err := ideas.Archive(args[0], actorFlag(cmd))
		if err != nil {
			fatal(err)
		}
		fmt.Printf("archived %s\n", idea.ID)
	},
}

// ideaFormInput mirrors the teacher's createFormRawInput: one string
// field per form widget, parsed after the form completes rather than
// inline, so validation errors surface together.
type ideaFormInput struct {
	Title    string
	Body     string
	IdeaType string
	Tags     string
}

func runIdeaForm(actor string) (*types.Idea, error) {
	raw := &ideaFormInput{}

	typeOptions := []huh.Option[string]{
		huh.NewOption("Feature", string(types.IdeaFeature)),
		huh.NewOption("Refactor", string(types.IdeaRefactor)),
		huh.NewOption("Research", string(types.IdeaResearch)),
		huh.NewOption("Process", string(types.IdeaProcess)),
		huh.NewOption("Speculative", string(types.IdeaSpeculative)),
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Description("Brief summary of the idea (required)").
				Value(&raw.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title is required")
					}
					return nil
				}),

			huh.NewText().
				Title("Body").
				Description("Markdown body exploring the idea").
				CharLimit(10000).
				Value(&raw.Body),

			huh.NewSelect[string]().
				Title("Type").
				Options(typeOptions...).
				Value(&raw.IdeaType),

			huh.NewInput().
				Title("Tags").
				Description("Comma-separated (optional)").
				Value(&raw.Tags),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Create this idea?").
				Affirmative("Create").
				Negative("Cancel"),
		),
	).WithTheme(huh.ThemeDracula())

	if err := form.Run(); err != nil {
		return nil, err
	}

	var tags []string
	for _, t := range strings.Split(raw.Tags, ",") {
		if t := strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	ideaType := types.IdeaType(raw.IdeaType)
	if !ideaType.IsValid() {
		ideaType = types.IdeaFeature
	}
	return ideas.Create(raw.Title, ideaType, tags, raw.Body, actor)
}

func init() {
	ideaListCmd.Flags().String("status", "", "filter by lifecycle status")
	ideaListCmd.Flags().String("type", "", "filter by idea type")
	ideaListCmd.Flags().Bool("all", false, "include archived ideas")
	ideaListCmd.Flags().String("since", "", `only show ideas created on or after this time, e.g. "3 days ago", "last monday"`)

	ideaCmd := &cobra.Command{
		Use:   "idea",
		Short: "Manage free-form ideas",
	}
	ideaCmd.AddCommand(ideaNewCmd, ideaListCmd, ideaPromoteCmd, ideaArchiveCmd)
	rootCmd.AddCommand(ideaCmd)
}
