// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/newsletter-engine/internal/archive"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Browse previously generated newsletters",
	Long: `Archive manages the local store of completed newsletter runs. Use list
to see recent runs and show to print one.`,
}

// --- list subcommand ---

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived newsletter runs, newest first",
	RunE:  runArchiveList,
}

func runArchiveList(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	limit, _ := cmd.Flags().GetInt("limit")
	asJSON, _ := cmd.Flags().GetBool("json")

	store, err := archive.NewStore(cfg.Archive)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(cmd.Context(), limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No archived runs.")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(out, "%s  %s  %s  %s\n",
			r.ID[:8], r.CreatedAt.Format(time.DateTime), r.Model, r.Topic)
	}
	return nil
}

// --- show subcommand ---

var archiveShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Print an archived newsletter",
	Long: `Show prints the final newsletter of an archived run. Run IDs may be
abbreviated to an unambiguous prefix. Use --full for the intermediate
stage outputs as well.`,
	Args: cobra.ExactArgs(1),
	RunE: runArchiveShow,
}

func runArchiveShow(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	full, _ := cmd.Flags().GetBool("full")
	asJSON, _ := cmd.Flags().GetBool("json")

	store, err := archive.NewStore(cfg.Archive)
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	}

	fmt.Fprintf(out, "Run %s: %s (%s, %s)\n\n", run.ID, run.Topic, run.Model,
		run.CreatedAt.Format(time.DateTime))
	fmt.Fprintln(out, run.Result.Final)
	if full {
		printSteps(out, run.Result)
	}
	return nil
}

func init() {
	archiveListCmd.Flags().Int("limit", 0, "maximum number of runs to list")
	archiveListCmd.Flags().Bool("json", false, "output as JSON")

	archiveShowCmd.Flags().Bool("full", false, "also print intermediate stage outputs")
	archiveShowCmd.Flags().Bool("json", false, "output as JSON")

	archiveCmd.AddCommand(archiveListCmd)
	archiveCmd.AddCommand(archiveShowCmd)
	rootCmd.AddCommand(archiveCmd)
}
