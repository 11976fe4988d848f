package capture

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestPrompt(t *testing.T) {
	videos := []string{"/data/first.mp4", "/data/clips/second.mp4"}

	tests := []struct {
		name     string
		input    string
		videos   []string
		expected Selection
		err      error
		output   string
	}{
		{
			name:     "camera",
			input:    "cam\n42\n",
			expected: Selection{Source: "cam", NumFrames: 42},
		},
		{
			name:     "camera retries out of range counts",
			input:    "c\n4\n251\nabc\n250\n",
			expected: Selection{Source: "cam", NumFrames: 250},
			output:   "Invalid input",
		},
		{
			name:     "video by number",
			input:    "vid\n2\n",
			videos:   videos,
			expected: Selection{Source: "vid", VideoPath: "/data/clips/second.mp4"},
			output:   "2: second.mp4",
		},
		{
			name:     "invalid source then video",
			input:    "usb\nv\n0\n3\n1\n",
			videos:   videos,
			expected: Selection{Source: "vid", VideoPath: "/data/first.mp4"},
			output:   "Invalid input",
		},
		{
			name:  "video without videos",
			input: "vid\n",
			err:   ErrNoVideos,
		},
		{
			name:  "input ends early",
			input: "cam\n",
			err:   io.ErrUnexpectedEOF,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			sel, err := Prompt(strings.NewReader(tt.input), &out, tt.videos)

			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("expected %v, got %v", tt.err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Prompt failed: %v", err)
			}
			if sel != tt.expected {
				t.Errorf("selection = %+v, expected %+v", sel, tt.expected)
			}
			if tt.output != "" && !strings.Contains(out.String(), tt.output) {
				t.Errorf("output %q does not contain %q", out.String(), tt.output)
			}
		})
	}
}
