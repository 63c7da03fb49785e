package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreview(t *testing.T) {
	tests := []struct {
		name  string
		input string
		n     int
		want  string
	}{
		{"short", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"cut", "hello world", 5, "hello..."},
		{"trims before ellipsis", "hello world", 6, "hello..."},
		{"runes not bytes", "ééééé", 3, "ééé..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Preview(tt.input, tt.n))
		})
	}
}

func TestReadTimeMinutes(t *testing.T) {
	assert.Equal(t, 1, ReadTimeMinutes(""))
	assert.Equal(t, 1, ReadTimeMinutes("a few words"))
	assert.Equal(t, 1, ReadTimeMinutes(strings.Repeat("word ", 200)))
	assert.Equal(t, 2, ReadTimeMinutes(strings.Repeat("word ", 201)))
	assert.Equal(t, 5, ReadTimeMinutes(strings.Repeat("word ", 1000)))
}
