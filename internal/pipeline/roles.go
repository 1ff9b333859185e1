// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/newsletter-engine/internal/agent"
)

// searchToolAttempts bounds follow-up searches for the tool-using stages.
const searchToolAttempts = 5

// Roles bundles the four stage role configurations. Built once per
// orchestrator and read-only afterwards.
type Roles struct {
	Researcher agent.Role `yaml:"researcher"`
	Insights   agent.Role `yaml:"insights"`
	Writer     agent.Role `yaml:"writer"`
	Editor     agent.Role `yaml:"editor"`
}

// DefaultRoles returns the built-in role configurations. The researcher
// and insights roles carry the search tool; the writer and editor only
// transform text.
func DefaultRoles(searchTool agent.Tool) Roles {
	return Roles{
		Researcher: agent.Role{
			Name:    "researcher",
			Persona: "You are an AI Researcher tracking the latest advancements and trends in AI, machine learning, and deep learning.",
			Instructions: "Analyze the search results you are given and provide comprehensive research " +
				"with reliable sources. Include the significance of each development. If the provided " +
				"results leave a gap, use the search_and_contents tool with a specific query to fill it.",
			OutputInstructions: "Organize your findings into clear sections with source links. " +
				"Always highlight the potential impact of each development.",
			Tools:           []agent.Tool{searchTool},
			MaxToolAttempts: searchToolAttempts,
		},
		Insights: agent.Role{
			Name:    "insights",
			Persona: "You are an AI Insights Expert with deep knowledge of the field of AI.",
			Instructions: "Verify and expand upon the research you are given. Provide detailed analysis " +
				"of the significance, applications, and future potential of each development. Use the " +
				"search_and_contents tool when you need to verify a specific claim.",
			OutputInstructions: "Organize your analysis into clear sections. Always include potential " +
				"industry implications and future directions.",
			Tools:           []agent.Tool{searchTool},
			MaxToolAttempts: searchToolAttempts,
		},
		Writer: agent.Role{
			Name:    "writer",
			Persona: "You are a Newsletter Content Creator with expertise in writing about AI technologies.",
			Instructions: "Transform the insights you are given into engaging, reader-friendly newsletter " +
				"content. Make complex topics accessible for a diverse audience, highlighting the " +
				"innovation, relevance, and potential impact of each development.",
			OutputInstructions: "Write in a professional yet engaging tone. Structure the content with " +
				"clear headings and concise paragraphs.",
		},
		Editor: agent.Role{
			Name:    "editor",
			Persona: "You are a meticulous Newsletter Editor for AI content.",
			Instructions: "Proofread, refine, and structure the newsletter so it is ready for " +
				"publication. Ensure clarity, eliminate errors, enhance readability, and keep the tone " +
				"professional while accessible to the target audience.",
			OutputInstructions: "Include valid website URLs to reliable sources. Format the newsletter " +
				"with proper headings, bullet points, and paragraph spacing, and explain technical terms.",
		},
	}
}

// roleOverride is the YAML shape for one role in a roles file. Only text
// fields can be overridden; tool wiring stays with the built-in roles.
type roleOverride struct {
	Persona            string `yaml:"persona"`
	Instructions       string `yaml:"instructions"`
	OutputInstructions string `yaml:"output_instructions"`
	MaxToolAttempts    int    `yaml:"max_tool_attempts"`
}

// rolesFile is the YAML shape of a roles override file.
type rolesFile struct {
	Researcher roleOverride `yaml:"researcher"`
	Insights   roleOverride `yaml:"insights"`
	Writer     roleOverride `yaml:"writer"`
	Editor     roleOverride `yaml:"editor"`
}

// LoadRoles reads a YAML roles file and applies its non-empty fields on
// top of the defaults.
func LoadRoles(path string, searchTool agent.Tool) (Roles, error) {
	roles := DefaultRoles(searchTool)

	data, err := os.ReadFile(path)
	if err != nil {
		return Roles{}, fmt.Errorf("reading roles file: %w", err)
	}
	var rf rolesFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return Roles{}, fmt.Errorf("parsing roles file: %w", err)
	}

	applyOverride(&roles.Researcher, rf.Researcher)
	applyOverride(&roles.Insights, rf.Insights)
	applyOverride(&roles.Writer, rf.Writer)
	applyOverride(&roles.Editor, rf.Editor)
	return roles, nil
}

func applyOverride(role *agent.Role, o roleOverride) {
	if o.Persona != "" {
		role.Persona = o.Persona
	}
	if o.Instructions != "" {
		role.Instructions = o.Instructions
	}
	if o.OutputInstructions != "" {
		role.OutputInstructions = o.OutputInstructions
	}
	if o.MaxToolAttempts > 0 {
		role.MaxToolAttempts = o.MaxToolAttempts
	}
}
