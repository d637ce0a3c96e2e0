package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextColorForBackground(t *testing.T) {
	tests := []struct {
		name  string
		color string
		want  string
	}{
		{"white", "#ffffff", "#0d0d0d"},
		{"black", "#000000", "#f9f9f9"},
		{"default green", "#66BB6A", "#f9f9f9"},
		{"dark navy", "#1a237e", "#f9f9f9"},
		{"light yellow", "#ffeb3b", "#0d0d0d"},
		{"three digit white", "#fff", "#0d0d0d"},
		{"three digit dark", "#123", "#f9f9f9"},
		{"no hash", "ffffff", "#0d0d0d"},
		{"whitespace", "  #ffffff  ", "#0d0d0d"},
		{"malformed", "#zzzzzz", "#0d0d0d"},
		{"too short", "#ff", "#0d0d0d"},
		{"empty", "", "#0d0d0d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TextColorForBackground(tt.color))
		})
	}
}
