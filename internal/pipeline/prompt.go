// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"fmt"
	"text/template"
)

// Stage prompt templates. Each stage gets exactly one synthesized user
// message; no stage sees the full prior conversation.

var researchPromptTmpl = template.Must(template.New("research").Parse(
	`Research task: Analyze these search results about {{.Topic}}.

{{.Digest}}

Organize these findings into clear research with reliable sources. Include the significance of each development and its broader industry impact. If you need more specific information, use the search_and_contents tool with a specific query.`))

var insightsPromptTmpl = template.Must(template.New("insights").Parse(
	`Add insights to the following research about {{.Topic}}.

Research to analyze:
{{.Research}}

Also consider these additional search results:
{{.Digest}}...

If you need any specific information, use the search_and_contents tool with a specific query.`))

var writingPromptTmpl = template.Must(template.New("writing").Parse(
	`Transform these insights about {{.Topic}} into engaging newsletter content:

{{.Insights}}`))

var editingPromptTmpl = template.Must(template.New("editing").Parse(
	`Proofread and refine this newsletter draft about {{.Topic}}. Ensure all sources are properly cited and the content is engaging and informative:

{{.Draft}}`))

// renderPrompt executes a stage template with its data.
func renderPrompt(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s prompt: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
