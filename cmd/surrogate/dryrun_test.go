// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    outputFormat
		wantErr bool
	}{
		{in: "", want: formatText},
		{in: "text", want: formatText},
		{in: "JSON", want: formatJSON},
		{in: "toml", want: formatTOML},
		{in: "yaml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := parseFormat(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidFormat) {
					t.Fatalf("parseFormat(%q) error = %v, want ErrInvalidFormat", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseFormat(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("parseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPlanText_EmptyEnvironment(t *testing.T) {
	t.Parallel()

	p := plan{App: "myapp", Release: "v1", ReleaseID: "rel-1", Runtime: "virtual", Command: "env"}
	out := p.text()

	if !strings.Contains(out, "(empty)") {
		t.Errorf("text() = %q, want empty environment marker", out)
	}
	if strings.Contains(out, "Commit") {
		t.Errorf("text() = %q, should omit an unknown commit", out)
	}
	if strings.Contains(out, "Checkout") {
		t.Errorf("text() = %q, should omit checkout when disabled", out)
	}
}
