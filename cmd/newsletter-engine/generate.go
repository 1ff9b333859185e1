// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/newsletter-engine/internal/agent"
	"github.com/pdiddy/newsletter-engine/internal/archive"
	"github.com/pdiddy/newsletter-engine/internal/pipeline"
	"github.com/pdiddy/newsletter-engine/internal/search"
	"github.com/pdiddy/newsletter-engine/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate [topic...]",
	Short: "Generate a newsletter for a topic",
	Long: `Generate runs the four-stage agent pipeline (research, insights, writing,
editing) for a topic. Two recency-bounded web searches run first; their
results feed the research and insights stages. The topic is taken from the
arguments, or prompted for interactively when absent.

Completed newsletters are archived locally unless --no-archive is given.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("model", "", "chat model identifier (default gpt-4-turbo)")
	generateCmd.Flags().String("roles", "", "YAML file overriding the built-in agent roles")
	generateCmd.Flags().Bool("no-archive", false, "skip archiving the completed newsletter")
	generateCmd.Flags().Bool("show-steps", false, "print intermediate stage outputs without prompting")
	generateCmd.Flags().Bool("yes", false, "assume yes at interactive prompts")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	if model, _ := cmd.Flags().GetString("model"); model != "" {
		cfg.Agent.Model = model
	}
	if roles, _ := cmd.Flags().GetString("roles"); roles != "" {
		cfg.RolesFile = roles
	}
	assumeYes, _ := cmd.Flags().GetBool("yes")

	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	// The Exa key is optional: its absence degrades search, but the user
	// must acknowledge before any agent is constructed.
	if cfg.Search.APIKey == "" {
		fmt.Fprintln(out, "Warning: no Exa API key configured; web search will be unavailable.")
		fmt.Fprintln(out, "Get a key from https://exa.ai and place it in .secrets/exa-api-key.")
		if !assumeYes && !confirm(in, out, "Do you want to proceed without web search? (y/n): ") {
			return fmt.Errorf("no Exa API key: set one and try again")
		}
	}

	topic := strings.TrimSpace(strings.Join(args, " "))
	if topic == "" {
		fmt.Fprint(out, "Enter a topic for your newsletter: ")
		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("reading topic: %w", err)
		}
		topic = strings.TrimSpace(line)
	}
	if topic == "" {
		return fmt.Errorf("no topic provided")
	}

	searcher := search.NewExaClient(cfg.Search)
	runner := agent.NewOpenAIRunner(cfg.Agent)

	searchTool := pipeline.SearchTool(searcher)
	roles := pipeline.DefaultRoles(searchTool)
	if cfg.RolesFile != "" {
		var err error
		roles, err = pipeline.LoadRoles(cfg.RolesFile, searchTool)
		if err != nil {
			return err
		}
	}

	orch := pipeline.New(searcher, runner, roles, logger)

	fmt.Fprintf(out, "\n===== GENERATING NEWSLETTER ON: %s =====\n\n", topic)
	result, err := orch.Run(cmd.Context(), topic, out)
	if err != nil {
		logger.Error("newsletter generation failed", "topic", topic, "error", err)
		return fmt.Errorf("generating newsletter: %w", err)
	}

	fmt.Fprintf(out, "\n===== FINAL NEWSLETTER =====\n\n%s\n", result.Final)

	if noArchive, _ := cmd.Flags().GetBool("no-archive"); !noArchive {
		archiveRun(cmd.Context(), out, cfg, topic, result)
	}

	showSteps, _ := cmd.Flags().GetBool("show-steps")
	if !showSteps && !assumeYes {
		showSteps = confirm(in, out, "\nWould you like to see the intermediate steps? (y/n): ")
	}
	if showSteps {
		printSteps(out, result)
	}

	return nil
}

// archiveRun saves a completed run. Archive faults only warn: the
// newsletter is already produced.
func archiveRun(ctx context.Context, out io.Writer, cfg types.PipelineConfig, topic string, result types.PipelineResult) {
	store, err := archive.NewStore(cfg.Archive)
	if err != nil {
		logger.Warn("could not open archive", "error", err)
		return
	}
	defer store.Close()

	id, err := store.Save(ctx, topic, cfg.Agent.Model, result)
	if err != nil {
		logger.Warn("could not archive run", "error", err)
		return
	}
	fmt.Fprintf(out, "\nArchived as run %s\n", id)
}

func printSteps(out io.Writer, result types.PipelineResult) {
	fmt.Fprintf(out, "\n===== RESEARCH CONTENT =====\n\n%s\n", result.Research)
	fmt.Fprintf(out, "\n===== INSIGHTS CONTENT =====\n\n%s\n", result.Insights)
	fmt.Fprintf(out, "\n===== DRAFT NEWSLETTER =====\n\n%s\n", result.Draft)
}

// confirm asks a yes/no question and reports whether the answer was yes.
func confirm(in *bufio.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(line), "y")
}
