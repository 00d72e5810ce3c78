package prompt

import (
	"fmt"
	"strings"
)

// ContextRecord is the compact serialization of one retrieved content item
// that gets embedded in the system instruction.
type ContextRecord struct {
	Id          int64
	Pool        string
	Title       string
	SourceLabel string // platform or content type, whichever reads better
	Summary     string
	Insights    []string
	URL         string
	Score       float64
}

// GroundedBuilder assembles the system instruction for a grounded answer:
// the serialized context records plus the behavioral rules.
type GroundedBuilder struct {
	records []ContextRecord
}

func NewGroundedBuilder(records []ContextRecord) *GroundedBuilder {
	return &GroundedBuilder{
		records: records,
	}
}

func (b *GroundedBuilder) Build() string {
	var prompt strings.Builder

	b.writeContext(&prompt)
	b.writeTask(&prompt)
	b.writeGuidelines(&prompt)

	return prompt.String()
}

func (b *GroundedBuilder) writeContext(prompt *strings.Builder) {
	prompt.WriteString("<context>\n")
	for i, r := range b.records {
		prompt.WriteString(fmt.Sprintf("[%d] %s", i+1, r.Title))
		if r.SourceLabel != "" {
			prompt.WriteString(fmt.Sprintf(" (%s)", r.SourceLabel))
		}
		prompt.WriteString("\n")
		if r.Summary != "" {
			prompt.WriteString(r.Summary)
			prompt.WriteString("\n")
		}
		for _, insight := range r.Insights {
			prompt.WriteString("- ")
			prompt.WriteString(insight)
			prompt.WriteString("\n")
		}
		if r.URL != "" {
			prompt.WriteString(fmt.Sprintf("Source: %s\n", r.URL))
		}
		prompt.WriteString(fmt.Sprintf("Relevance: %.2f\n\n", r.Score))
	}
	prompt.WriteString("</context>\n\n")
}

func (b *GroundedBuilder) writeTask(prompt *strings.Builder) {
	prompt.WriteString("<task>\n")
	prompt.WriteString("You are an assistant helping the user understand their saved articles, podcast episodes, and videos.\n")
	prompt.WriteString("Answer the user's question using the context above.\n")
	prompt.WriteString("</task>\n\n")
}

func (b *GroundedBuilder) writeGuidelines(prompt *strings.Builder) {
	prompt.WriteString("<guidelines>\n")
	prompt.WriteString("1. Base your answer strictly on the provided context\n")
	prompt.WriteString("2. Cite the items you draw from by title\n")
	prompt.WriteString("3. If the context does not contain what is being asked, say so honestly\n")
	prompt.WriteString("4. Be concise\n")
	prompt.WriteString("</guidelines>")
}
