package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/brizzai/tubenotes/internal/app"
	"github.com/brizzai/tubenotes/internal/summary"
	"github.com/brizzai/tubenotes/internal/youtube"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func withYouTube(cmd *cobra.Command, fn func(ctx context.Context, yt *youtube.Client) error) error {
	cfg, err := loadConfig(cmd, cliConfig)
	if err != nil {
		return err
	}
	var yt *youtube.Client
	stop, err := app.Populate(cmd.Context(), cfg, &yt)
	if err != nil {
		return err
	}
	defer stop()
	return fn(cmd.Context(), yt)
}

func videoRows(videos []youtube.Video) func() [][]string {
	return func() [][]string {
		rows := [][]string{{"ID", "Title", "Channel", "Duration", "Views"}}
		for _, v := range videos {
			rows = append(rows, []string{v.ID, truncate(v.Title, 60), v.ChannelTitle, youtube.FormatDuration(v.Duration), youtube.FormatCount(v.ViewCount)})
		}
		return rows
	}
}

func newYouTubeCmds() []*cobra.Command {
	search := &cobra.Command{
		Use:   "search <query>",
		Short: "Search videos",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("max")
			duration, _ := cmd.Flags().GetString("duration")
			order, _ := cmd.Flags().GetString("order")
			return withYouTube(cmd, func(ctx context.Context, yt *youtube.Client) error {
				videos, err := yt.Search(ctx, youtube.SearchParams{
					Query:      strings.Join(args, " "),
					MaxResults: limit,
					Duration:   duration,
					Order:      order,
				})
				if err != nil {
					return err
				}
				return printResult(cmd, videos, videoRows(videos))
			})
		},
	}
	search.Flags().Int("max", 20, "Maximum number of results")
	search.Flags().String("duration", "", "short, medium or long")
	search.Flags().String("order", "relevance", "relevance, date, viewCount or rating")

	comments := &cobra.Command{
		Use:   "comments <video-id>",
		Short: "List comments of a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("max")
			order, _ := cmd.Flags().GetString("order")
			return withYouTube(cmd, func(ctx context.Context, yt *youtube.Client) error {
				list, err := yt.Comments(ctx, args[0], limit, order)
				if err != nil {
					return err
				}
				return printResult(cmd, list, func() [][]string {
					rows := [][]string{{"Author", "Likes", "Replies", "Comment"}}
					for _, c := range list {
						rows = append(rows, []string{c.AuthorDisplayName, fmt.Sprint(c.LikeCount), fmt.Sprint(c.TotalReplyCount), truncate(c.TextDisplay, 80)})
					}
					return rows
				})
			})
		},
	}
	comments.Flags().Int("max", 20, "Maximum number of comments")
	comments.Flags().String("order", "time", "time or relevance")

	related := &cobra.Command{
		Use:   "related <video-id>",
		Short: "List related videos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("max")
			return withYouTube(cmd, func(ctx context.Context, yt *youtube.Client) error {
				videos, err := yt.RelatedVideos(ctx, args[0], limit)
				if err != nil {
					return err
				}
				return printResult(cmd, videos, videoRows(videos))
			})
		},
	}
	related.Flags().Int("max", 10, "Maximum number of videos")

	activities := &cobra.Command{
		Use:   "activities",
		Short: "Show your home feed (requires login)",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("max")
			return withYouTube(cmd, func(ctx context.Context, yt *youtube.Client) error {
				list, err := yt.UserActivities(ctx, limit)
				if err != nil {
					return err
				}
				return printResult(cmd, list, func() [][]string {
					rows := [][]string{{"Type", "Channel", "Title", "Video"}}
					for _, a := range list {
						rows = append(rows, []string{a.Snippet.Type, a.Snippet.ChannelTitle, truncate(a.Snippet.Title, 60), a.VideoID()})
					}
					return rows
				})
			})
		},
	}
	activities.Flags().Int("max", 20, "Maximum number of activities")

	subscriptions := &cobra.Command{
		Use:   "subscriptions",
		Short: "List your subscriptions (requires login)",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("max")
			return withYouTube(cmd, func(ctx context.Context, yt *youtube.Client) error {
				list, err := yt.UserSubscriptions(ctx, limit)
				if err != nil {
					return err
				}
				return printResult(cmd, list, func() [][]string {
					rows := [][]string{{"Channel", "Channel ID", "New items"}}
					for _, s := range list {
						rows = append(rows, []string{s.Snippet.Title, s.Snippet.ResourceID.ChannelID, fmt.Sprint(s.ContentDetails.NewItemCount)})
					}
					return rows
				})
			})
		},
	}
	subscriptions.Flags().Int("max", 20, "Maximum number of subscriptions")

	channel := &cobra.Command{
		Use:   "channel <channel-id>",
		Short: "Show channel details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withYouTube(cmd, func(ctx context.Context, yt *youtube.Client) error {
				ch, err := yt.ChannelInfo(ctx, args[0])
				if err != nil {
					return err
				}
				if ch == nil {
					return fmt.Errorf("channel %s not found", args[0])
				}
				return printResult(cmd, ch, func() [][]string {
					return [][]string{
						{"Title", "Subscribers", "Videos", "Views"},
						{ch.Snippet.Title, youtube.FormatCount(ch.Statistics.SubscriberCount), ch.Statistics.VideoCount, youtube.FormatCount(ch.Statistics.ViewCount)},
					}
				})
			})
		},
	}

	sections := &cobra.Command{
		Use:   "sections <channel-id>",
		Short: "List channel sections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withYouTube(cmd, func(ctx context.Context, yt *youtube.Client) error {
				list, err := yt.ChannelSections(ctx, args[0])
				if err != nil {
					return err
				}
				return printResult(cmd, list, func() [][]string {
					rows := [][]string{{"ID", "Type", "Title", "Position"}}
					for _, s := range list {
						rows = append(rows, []string{s.ID, s.Snippet.Type, s.Snippet.Title, fmt.Sprint(s.Snippet.Position)})
					}
					return rows
				})
			})
		},
	}

	playlists := &cobra.Command{
		Use:   "playlists <channel-id>",
		Short: "List playlists of a channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("max")
			return withYouTube(cmd, func(ctx context.Context, yt *youtube.Client) error {
				list, err := yt.Playlists(ctx, args[0], limit)
				if err != nil {
					return err
				}
				return printResult(cmd, list, func() [][]string {
					rows := [][]string{{"ID", "Title", "Items", "Privacy"}}
					for _, p := range list {
						rows = append(rows, []string{p.ID, truncate(p.Snippet.Title, 60), fmt.Sprint(p.ContentDetails.ItemCount), p.Status.PrivacyStatus})
					}
					return rows
				})
			})
		},
	}
	playlists.Flags().Int("max", 20, "Maximum number of playlists")

	playlist := &cobra.Command{
		Use:   "playlist <playlist-id>",
		Short: "Show playlist details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withYouTube(cmd, func(ctx context.Context, yt *youtube.Client) error {
				pl, err := yt.PlaylistInfo(ctx, args[0])
				if err != nil {
					return err
				}
				if pl == nil {
					return fmt.Errorf("playlist %s not found", args[0])
				}
				return printResult(cmd, pl, nil)
			})
		},
	}

	playlistItems := &cobra.Command{
		Use:   "playlist-items <playlist-id>",
		Short: "List videos in a playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("max")
			return withYouTube(cmd, func(ctx context.Context, yt *youtube.Client) error {
				list, err := yt.PlaylistItems(ctx, args[0], limit)
				if err != nil {
					return err
				}
				return printResult(cmd, list, func() [][]string {
					rows := [][]string{{"#", "Video", "Title"}}
					for _, it := range list {
						rows = append(rows, []string{fmt.Sprint(it.Snippet.Position + 1), it.ContentDetails.VideoID, truncate(it.Snippet.Title, 60)})
					}
					return rows
				})
			})
		},
	}
	playlistItems.Flags().Int("max", 20, "Maximum number of items")

	languages := &cobra.Command{
		Use:   "languages",
		Short: "List interface languages",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withYouTube(cmd, func(ctx context.Context, yt *youtube.Client) error {
				list, err := yt.Languages(ctx)
				if err != nil {
					return err
				}
				return printResult(cmd, list, func() [][]string {
					rows := [][]string{{"Code", "Name"}}
					for _, l := range list {
						rows = append(rows, []string{l.Snippet.HL, l.Snippet.Name})
					}
					return rows
				})
			})
		},
	}

	regions := &cobra.Command{
		Use:   "regions",
		Short: "List content regions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withYouTube(cmd, func(ctx context.Context, yt *youtube.Client) error {
				list, err := yt.Regions(ctx)
				if err != nil {
					return err
				}
				return printResult(cmd, list, func() [][]string {
					rows := [][]string{{"Code", "Name"}}
					for _, r := range list {
						rows = append(rows, []string{r.Snippet.GL, r.Snippet.Name})
					}
					return rows
				})
			})
		},
	}

	categories := &cobra.Command{
		Use:   "categories",
		Short: "List guide categories of a region",
		RunE: func(cmd *cobra.Command, args []string) error {
			region, _ := cmd.Flags().GetString("region")
			return withYouTube(cmd, func(ctx context.Context, yt *youtube.Client) error {
				list, err := yt.GuideCategories(ctx, region)
				if err != nil {
					return err
				}
				return printResult(cmd, list, func() [][]string {
					rows := [][]string{{"ID", "Title"}}
					for _, c := range list {
						rows = append(rows, []string{c.ID, c.Snippet.Title})
					}
					return rows
				})
			})
		},
	}
	categories.Flags().String("region", "US", "Region code")

	return []*cobra.Command{
		search, comments, related, activities, subscriptions,
		channel, sections, playlists, playlist, playlistItems,
		languages, regions, categories,
	}
}

func newSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary <video-id>",
		Short: "Summarize a video with key learning points",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title, _ := cmd.Flags().GetString("title")
			description, _ := cmd.Flags().GetString("description")

			cfg, err := loadConfig(cmd, cliConfig)
			if err != nil {
				return err
			}
			var svc *summary.Service
			stop, err := app.Populate(cmd.Context(), cfg, &svc)
			if err != nil {
				return err
			}
			defer stop()

			s, err := svc.Summarize(cmd.Context(), args[0], title, description)
			if err != nil {
				return err
			}
			format, _ := cmd.Flags().GetString("output")
			if format != "table" {
				return printResult(cmd, s, nil)
			}
			pterm.DefaultSection.Println("Summary")
			pterm.Println(s.Summary)
			pterm.DefaultSection.Println("Key points")
			items := make([]pterm.BulletListItem, 0, len(s.KeyPoints))
			for _, p := range s.KeyPoints {
				items = append(items, pterm.BulletListItem{Level: 0, Text: p})
			}
			return pterm.DefaultBulletList.WithItems(items).Render()
		},
	}
	cmd.Flags().String("title", "", "Video title given to the model")
	cmd.Flags().String("description", "", "Video description given to the model")
	return cmd
}
