package classifier

import (
	"reflect"
	"strings"
	"testing"
)

const finished = "---\ntitle: Gateway\n---\n# 001 API - Gateway\n\n## Overview\n\nText.\n\n## Core Content\n\n### 1. Background & Goals\n\nDone.\n"

func TestClassify_CompletedDocument(t *testing.T) {
	r := Classify(finished, "001-PRJ-api-gateway.md")
	if r.IsPlaceholder || r.IsTemplate {
		t.Errorf("flags = placeholder:%v template:%v, want both false", r.IsPlaceholder, r.IsTemplate)
	}
	if !r.HasRequiredSections {
		t.Error("expected required sections")
	}
	if r.Title != "Gateway" {
		t.Errorf("title = %q, want Gateway", r.Title)
	}
}

func TestClassify_TODOMakesTemplate(t *testing.T) {
	r := Classify(finished+"\n[TODO] write more\n", "001-PRJ-api-gateway.md")
	if !r.IsTemplate {
		t.Error("[TODO] should mark the document as a template")
	}
}

func TestClassify_EachMarker(t *testing.T) {
	for _, m := range TemplateMarkers() {
		if !Classify("intro "+m+" outro", "doc.md").IsTemplate {
			t.Errorf("marker %q not detected", m)
		}
	}
}

func TestClassify_MarkersAreCaseSensitive(t *testing.T) {
	if Classify("[todo] and [Required]", "doc.md").IsTemplate {
		t.Error("marker match should be case-sensitive")
	}
}

func TestClassify_PlaceholderFromFilenameOnly(t *testing.T) {
	r := Classify("# Clean body\n", "003-PRJ-deployment-reserved.md")
	if !r.IsPlaceholder {
		t.Error("reserved file name should mark a placeholder")
	}
	if r.IsTemplate {
		t.Error("body has no markers, template should be false")
	}
}

func TestClassify_PlaceholderIgnoresDirectory(t *testing.T) {
	r := Classify("# Body\n", "/docs/reserved/001-PRJ-api-gateway.md")
	if r.IsPlaceholder {
		t.Error("only the file name should be inspected")
	}
}

func TestClassify_MissingOneHeading(t *testing.T) {
	text := strings.Replace(finished, "## Core Content", "## Core", 1)
	if Classify(text, "doc.md").HasRequiredSections {
		t.Error("missing heading should fail the section check")
	}
}

func TestClassify_HeadingLevelMatters(t *testing.T) {
	text := strings.Replace(finished, "### 1. Background & Goals", "#### 1. Background and Goals", 1)
	if Classify(text, "doc.md").HasRequiredSections {
		t.Error("changed heading text should fail the section check")
	}
}

func TestExtractReferences_OnlyDocuments(t *testing.T) {
	got := Classify("[See](a/b.md) and [other](x.png)", "doc.md").References
	want := []string{"a/b.md"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("references = %v, want %v", got, want)
	}
}

func TestExtractReferences_DuplicatesKept(t *testing.T) {
	got := extractReferences("[a](x.md) [b](y.md) [c](x.md)")
	want := []string{"x.md", "y.md", "x.md"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("references = %v, want %v", got, want)
	}
}

func TestExtractReferences_MalformedIgnored(t *testing.T) {
	got := extractReferences("[broken](x.md and [no close](y.md")
	if len(got) != 0 {
		t.Errorf("references = %v, want none", got)
	}
}

func TestExtractReferences_EmptyLabelIgnored(t *testing.T) {
	if got := Classify("[](empty-label.md)", "doc.md").References; len(got) != 0 {
		t.Errorf("references = %v, want none", got)
	}
}

func TestExtractReferences_SpaceInTarget(t *testing.T) {
	got := Classify("[spaced](PRJ-api/api gateway.md)", "doc.md").References
	want := []string{"PRJ-api/api gateway.md"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("references = %v, want %v", got, want)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	text := finished + "[next](../PRJ-design/002-PRJ-design-ui.md) [TODO]"
	a := Classify(text, "001-PRJ-api-reserved.md")
	b := Classify(text, "001-PRJ-api-reserved.md")
	if !reflect.DeepEqual(a, b) {
		t.Errorf("classification not stable:\n%+v\n%+v", a, b)
	}
}

func TestSplitFrontmatter_InvalidYAMLFallback(t *testing.T) {
	fm, body := splitFrontmatter([]byte("---\n: invalid: yaml: {{{\n---\nBody\n"))
	if fm != nil {
		t.Errorf("expected nil frontmatter on invalid YAML")
	}
	if !strings.Contains(body, "Body") {
		t.Errorf("body = %q", body)
	}
}

func TestDeriveTitle_H1Fallback(t *testing.T) {
	if got := deriveTitle(nil, "some text\n# My Heading\nmore"); got != "My Heading" {
		t.Errorf("title = %q, want %q", got, "My Heading")
	}
}

func TestStem(t *testing.T) {
	if got := Stem("/a/b/007-PRJ-testing-plan.md"); got != "007-PRJ-testing-plan" {
		t.Errorf("Stem = %q", got)
	}
}
