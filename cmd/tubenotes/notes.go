package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/brizzai/tubenotes/internal/app"
	"github.com/brizzai/tubenotes/internal/notes"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func withNotes(cmd *cobra.Command, fn func(ctx context.Context, svc *notes.Service) error) error {
	cfg, err := loadConfig(cmd, cliConfig)
	if err != nil {
		return err
	}
	var svc *notes.Service
	stop, err := app.Populate(cmd.Context(), cfg, &svc)
	if err != nil {
		return err
	}
	defer stop()
	return fn(cmd.Context(), svc)
}

func newNotesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Manage personal video notes and timestamps",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withNotes(cmd, func(ctx context.Context, svc *notes.Service) error {
				all, err := svc.List(ctx)
				if err != nil {
					return err
				}
				return printResult(cmd, all, func() [][]string {
					rows := [][]string{{"Video", "Title", "Updated", "Note"}}
					for _, n := range all {
						rows = append(rows, []string{n.VideoID, truncate(n.VideoTitle, 40), n.UpdatedAt.Local().Format("2006-01-02 15:04"), truncate(firstLine(n.Content), 50)})
					}
					return rows
				})
			})
		},
	}

	show := &cobra.Command{
		Use:   "show <video-id>",
		Short: "Show the note and timestamps of a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withNotes(cmd, func(ctx context.Context, svc *notes.Service) error {
				n, err := svc.Get(ctx, args[0])
				if err != nil {
					return err
				}
				stamps, err := svc.Timestamps(ctx, args[0])
				if err != nil {
					return err
				}
				format, _ := cmd.Flags().GetString("output")
				if format != "table" {
					return printResult(cmd, map[string]interface{}{"note": n, "timestamps": stamps}, nil)
				}

				pterm.DefaultSection.Println("Note")
				if n == nil {
					pterm.Info.Println("No note yet")
				} else {
					pterm.Println(n.Content)
				}
				if len(stamps) == 0 {
					return nil
				}
				pterm.DefaultSection.Println("Timestamps")
				items := make([]pterm.BulletListItem, 0, len(stamps))
				for _, ts := range stamps {
					items = append(items, pterm.BulletListItem{Level: 0, Text: ts.Position() + "  " + ts.Note})
				}
				return pterm.DefaultBulletList.WithItems(items).Render()
			})
		},
	}

	save := &cobra.Command{
		Use:   "save <video-id> <text>",
		Short: "Replace the note of a video",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			title, _ := cmd.Flags().GetString("title")
			return withNotes(cmd, func(ctx context.Context, svc *notes.Service) error {
				n, err := svc.Save(ctx, args[0], title, strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				pterm.Success.Printfln("Saved note for %s", n.VideoID)
				return nil
			})
		},
	}
	save.Flags().String("title", "", "Video title")

	stamp := &cobra.Command{
		Use:   "stamp <video-id> <time> <text>",
		Short: "Pin a note to a position such as 75, 1:15 or 1:02:03",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			seconds, err := notes.ParseTimestamp(args[1])
			if err != nil {
				return err
			}
			return withNotes(cmd, func(ctx context.Context, svc *notes.Service) error {
				ts, err := svc.AddTimestamp(ctx, args[0], seconds, strings.Join(args[2:], " "))
				if err != nil {
					return err
				}
				pterm.Success.Printfln("Added note to %s at %s (%s)", ts.VideoID, ts.Position(), ts.ID)
				return nil
			})
		},
	}

	unstamp := &cobra.Command{
		Use:   "unstamp <video-id> <timestamp-id>",
		Short: "Remove a timestamped note",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withNotes(cmd, func(ctx context.Context, svc *notes.Service) error {
				if err := svc.DeleteTimestamp(ctx, args[0], args[1]); err != nil {
					return err
				}
				pterm.Success.Println("Timestamp removed")
				return nil
			})
		},
	}

	cmd.AddCommand(list, show, save, stamp, unstamp)
	return cmd
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently watched videos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("max")
			return withNotes(cmd, func(ctx context.Context, svc *notes.Service) error {
				entries, err := svc.History(ctx, limit)
				if err != nil {
					return err
				}
				return printResult(cmd, entries, func() [][]string {
					rows := [][]string{{"Video", "Title", "Progress", "Watched"}}
					for _, e := range entries {
						rows = append(rows, []string{e.VideoID, truncate(e.VideoTitle, 60), fmt.Sprintf("%d%%", e.ProgressPercentage), e.LastWatchedAt.Local().Format("2006-01-02 15:04")})
					}
					return rows
				})
			})
		},
	}
	cmd.Flags().Int("max", 20, "Maximum number of entries")
	return cmd
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}
