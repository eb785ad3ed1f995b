// Package main provides the ytcomments CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"ytcomments/internal/crawler"
	"ytcomments/internal/display"
	"ytcomments/internal/merge"
	"ytcomments/internal/youtube"
)

// version is set via ldflags; "dev" means resolve from build info.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveVersion prefers the ldflags version and falls back to the module
// version recorded in build info, so `go install ...@vX.Y.Z` reports X.Y.Z.
func resolveVersion(v string, info *debug.BuildInfo) string {
	if v != "dev" {
		return v
	}
	if info == nil || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return "dev"
	}
	return info.Main.Version
}

// newRootCmd creates the root command for the ytcomments CLI.
func newRootCmd() *cobra.Command {
	info, _ := debug.ReadBuildInfo()

	rootCmd := &cobra.Command{
		Use:     "ytcomments",
		Short:   "Fetch and merge YouTube video comments",
		Long:    "ytcomments fetches the comments of a YouTube video via the Data API v3 and merges fetched files into one flattened dataset.",
		Version: resolveVersion(version, info),
	}

	rootCmd.SetVersionTemplate("ytcomments version {{.Version}}\n")

	rootCmd.AddCommand(newFetchCmd())
	rootCmd.AddCommand(newMergeCmd())

	return rootCmd
}

// newFetchCmd creates the fetch subcommand.
func newFetchCmd() *cobra.Command {
	var apiKey string
	var maxComments int
	var order string
	var outputDir string

	cmd := &cobra.Command{
		Use:   "fetch <video-url>",
		Short: "Fetch comments for a YouTube video",
		Long:  "Fetch comments (and inline replies) for a YouTube video and save them as a timestamped JSON document.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Pick up YTCOMMENTS_API_KEY from a .env file if present.
			_ = godotenv.Load()
			if apiKey == "" {
				apiKey = os.Getenv("YTCOMMENTS_API_KEY")
			}

			cfg := crawler.Config{
				APIKey:      apiKey,
				VideoURL:    args[0],
				MaxComments: maxComments,
				Order:       youtube.Order(order),
				OutputDir:   outputDir,
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			opts := []youtube.ClientOption{}
			if url := os.Getenv("YTCOMMENTS_API_URL"); url != "" {
				opts = append(opts, youtube.WithBaseURL(url))
			}
			client := youtube.NewClient(cfg.APIKey, opts...)

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
			defer cancel()

			_, err := crawler.New(client, cfg).Run(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr())
			return err
		},
	}

	cmd.Flags().StringVar(&apiKey, "api-key", "", "YouTube Data API key (defaults to YTCOMMENTS_API_KEY)")
	cmd.Flags().IntVarP(&maxComments, "max-comments", "m", 200, "Maximum number of top-level comments to fetch")
	cmd.Flags().StringVarP(&order, "order", "o", "relevance", "Comment ordering: relevance or time")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "d", "data/youtube", "Directory for fetch output files")

	return cmd
}

// newMergeCmd creates the merge subcommand.
func newMergeCmd() *cobra.Command {
	var inputDir string
	var outputPath string

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge fetched comment files into one flattened dataset",
		Long:  "Merge all youtube_comments_*.json files in a directory into a single document with a flat, provenance-tagged comment sequence.",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := merge.Discover(inputDir)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				return fmt.Errorf("no comment files found in %s", inputDir)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Found %d comment files\n", len(paths))

			merged := merge.Merge(paths, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err := merge.Save(merged, outputPath); err != nil {
				return err
			}

			formatter := display.NewFormatter()
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMergeSummary(merged.Summary(len(paths))))
			fmt.Fprintf(cmd.OutOrStdout(), "Merged output written to %s\n", outputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputDir, "input-dir", "i", "data/youtube", "Directory containing fetch output files")
	cmd.Flags().StringVarP(&outputPath, "output", "O", "data/youtube/all_comments_merged.json", "Path of the merged output file")

	return cmd
}
