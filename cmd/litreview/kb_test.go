// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		n     int
		want  string
	}{
		{"short ascii unchanged", "Statin trial", 50, "Statin trial"},
		{"exact length unchanged", "abcdef", 6, "abcdef"},
		{"long ascii cut", "Statins in the elderly", 10, "Statins..."},
		{"non-ascii fits by runes", "Ökologie", 8, "Ökologie"},
		{"non-ascii cut on rune boundary", "Ökologie und Gesundheitsförderung", 12, "Ökologie ..."},
		{"multibyte only", "日本語の論文タイトル", 6, "日本語..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.input, tt.n)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
			assert.LessOrEqual(t, utf8.RuneCountInString(got), tt.n)
		})
	}
}
