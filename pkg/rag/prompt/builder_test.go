package prompt

import (
	"strings"
	"testing"
)

func TestBuildSerializesRecordsInOrder(t *testing.T) {
	records := []ContextRecord{
		{
			Id:          1,
			Title:       "The State of Vector Databases",
			SourceLabel: "web",
			Summary:     "A survey of the landscape.",
			Insights:    []string{"pgvector covers most workloads"},
			URL:         "https://example.com/vdb",
			Score:       0.91,
		},
		{
			Id:      2,
			Title:   "RAG Failure Modes",
			Summary: "Stale embeddings and noisy context.",
			Score:   0.52,
		},
	}

	out := NewGroundedBuilder(records).Build()

	first := strings.Index(out, "[1] The State of Vector Databases (web)")
	second := strings.Index(out, "[2] RAG Failure Modes")
	if first == -1 || second == -1 {
		t.Fatalf("both records should appear numbered, got:\n%s", out)
	}
	if first > second {
		t.Error("records should keep their ranked order")
	}

	for _, want := range []string{
		"- pgvector covers most workloads",
		"Source: https://example.com/vdb",
		"Relevance: 0.91",
		"Relevance: 0.52",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildSectionsAlwaysPresent(t *testing.T) {
	out := NewGroundedBuilder(nil).Build()

	for _, tag := range []string{"<context>", "</context>", "<task>", "</task>", "<guidelines>", "</guidelines>"} {
		if !strings.Contains(out, tag) {
			t.Errorf("prompt missing section %q", tag)
		}
	}
	if !strings.Contains(out, "strictly on the provided context") {
		t.Error("grounding guideline missing")
	}
}

func TestBuildOmitsEmptyFields(t *testing.T) {
	out := NewGroundedBuilder([]ContextRecord{{Id: 3, Title: "Bare Item", Score: 0.4}}).Build()

	if strings.Contains(out, "Source:") {
		t.Error("record without URL should not emit a Source line")
	}
	if strings.Contains(out, "()") {
		t.Error("record without label should not emit empty parentheses")
	}
}
