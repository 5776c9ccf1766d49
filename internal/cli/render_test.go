package cli

import "testing"

func TestRenderBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"derived from input", "", "designs/amp.json", "designs/amp"},
		{"output without extension", "out/diagram", "amp.json", "out/diagram"},
		{"format extension stripped", "diagram.svg", "amp.json", "diagram"},
		{"unknown extension kept", "diagram.bak", "amp.json", "diagram.bak"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderBasePath(tt.output, tt.input); got != tt.want {
				t.Errorf("renderBasePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestContainsFormat(t *testing.T) {
	formats := []string{"json", "svg"}
	if !containsFormat(formats, "svg") {
		t.Error("containsFormat() = false for present format")
	}
	if containsFormat(formats, "dot") {
		t.Error("containsFormat() = true for absent format")
	}
}

func TestViewOutputPath(t *testing.T) {
	if got := viewOutputPath("designs/amp.json"); got != "designs/amp.view.json" {
		t.Errorf("viewOutputPath() = %q, want designs/amp.view.json", got)
	}
}
