package dispatch

import "testing"

func TestCompileTopicPatternPlain(t *testing.T) {
	tp, err := CompileTopicPattern("hermes/audioServer/toggleOn")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !tp.Exact() {
		t.Error("expected plain pattern to be exact")
	}
	if tp.Filter() != "hermes/audioServer/toggleOn" {
		t.Errorf("filter = %q, want the pattern itself", tp.Filter())
	}

	if _, ok := tp.Match("hermes/audioServer/toggleOn"); !ok {
		t.Error("expected pattern to match itself")
	}
	if _, ok := tp.Match("hermes/audioServer/toggleOff"); ok {
		t.Error("expected no match for a different topic")
	}
}

func TestCompileTopicPatternPlaceholders(t *testing.T) {
	tp, err := CompileTopicPattern("hermes/+/{siteId}/test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tp.Exact() {
		t.Error("expected placeholder pattern to not be exact")
	}
	if tp.Filter() != "hermes/+/+/test" {
		t.Errorf("filter = %q, want %q", tp.Filter(), "hermes/+/+/test")
	}

	data, ok := tp.Match("hermes/foo/kitchen/test")
	if !ok {
		t.Fatal("expected match")
	}
	if data["siteId"] != "kitchen" {
		t.Errorf("siteId = %q, want %q", data["siteId"], "kitchen")
	}

	if _, ok := tp.Match("hermes/foo/bar/other"); ok {
		t.Error("expected no match when the literal tail differs")
	}
	if _, ok := tp.Match("hermes/foo/kitchen"); ok {
		t.Error("expected no match for a shorter topic")
	}
}

func TestCompileTopicPatternMatching(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		topic   string
		match   bool
	}{
		{"multi level matches one segment", "a/#", "a/b", true},
		{"multi level matches many segments", "a/#", "a/b/c", true},
		{"multi level needs a trailing segment", "a/#", "a", false},
		{"multi level anchors the prefix", "a/#", "x/b", false},
		{"lone multi level matches anything", "#", "a/b/c", true},
		{"single level matches one segment", "a/+/c", "a/b/c", true},
		{"single level is exactly one segment", "a/+/c", "a/b/b2/c", false},
		{"trailing single level", "a/+", "a/b", true},
		{"trailing single level is not multi", "a/+", "a/b/c", false},
		{"first segment anchors", "+/b", "a/b", true},
		{"interior literal must equal", "a/b/+", "a/x/c", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tp, err := CompileTopicPattern(tt.pattern)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if _, ok := tp.Match(tt.topic); ok != tt.match {
				t.Errorf("Match(%q) = %v, want %v", tt.topic, ok, tt.match)
			}
		})
	}
}

func TestCompileTopicPatternExtractionIndices(t *testing.T) {
	tp, err := CompileTopicPattern("hermes/{kind}/{siteId}/playBytes/#")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, ok := tp.Match("hermes/audio/bedroom/playBytes/req-1/chunk")
	if !ok {
		t.Fatal("expected match")
	}
	if data["kind"] != "audio" || data["siteId"] != "bedroom" {
		t.Errorf("extracted = %v, want kind=audio siteId=bedroom", data)
	}
}

func TestCompileTopicPatternRejectsMisplacedHash(t *testing.T) {
	if _, err := CompileTopicPattern("a/#/b"); err == nil {
		t.Error("expected error for # in a non-final segment")
	}
	if _, err := CompileTopicPattern(""); err == nil {
		t.Error("expected error for empty pattern")
	}
}
