// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestGenerateDeclinedGateFailsBeforePipeline(t *testing.T) {
	loadedSecrets = nil
	t.Setenv("NEWSLETTER_ENGINE_SEARCH_API_KEY", "")

	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader("n\n"))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"generate", "quantum", "computing"})

	err := rootCmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "no Exa API key") {
		t.Fatalf("expected missing-key error, got %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "Do you want to proceed without web search? (y/n): ") {
		t.Errorf("gate prompt missing:\n%s", got)
	}
	// A declined gate must fail before the pipeline is assembled: no
	// banner, no search narration, no stage progress.
	for _, banned := range []string{"GENERATING NEWSLETTER", "searching:", "stage 1/4"} {
		if strings.Contains(got, banned) {
			t.Errorf("pipeline ran despite declined gate (%q present):\n%s", banned, got)
		}
	}
}

func TestGenerateAcceptedGateStillNeedsTopic(t *testing.T) {
	loadedSecrets = nil
	t.Setenv("NEWSLETTER_ENGINE_SEARCH_API_KEY", "")

	var out bytes.Buffer
	generateCmd.SetIn(strings.NewReader("y\n\n"))
	generateCmd.SetOut(&out)

	err := runGenerate(generateCmd, nil)
	if err == nil || !strings.Contains(err.Error(), "no topic provided") {
		t.Fatalf("expected missing-topic error, got %v", err)
	}
	if !strings.Contains(out.String(), "Enter a topic for your newsletter: ") {
		t.Errorf("topic prompt missing:\n%s", out.String())
	}
}
