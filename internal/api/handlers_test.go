package api

import (
	"testing"
)

func TestParseOptionalPositiveInt(t *testing.T) {
	tests := []struct {
		input    string
		fallback int
		want     int
		wantErr  bool
	}{
		{input: "", fallback: 50, want: 50},
		{input: " ", fallback: 50, want: 50},
		{input: "0", fallback: 50, want: 0},
		{input: "25", fallback: 50, want: 25},
		{input: "-1", fallback: 50, wantErr: true},
		{input: "abc", fallback: 50, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseOptionalPositiveInt(tt.input, tt.fallback)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}
