package sitefetch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"collapses spaces", "  Free   delivery\t on all  orders ", 0, "Free delivery on all orders"},
		{"drops blank lines", "Home\n\n   \nShop\n\t\nContact", 0, "Home\nShop\nContact"},
		{"truncates", "abcdef", 4, "abcd"},
		{"truncates by rune", "££££", 2, "££"},
		{"empty", " \n \n", 10, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.in, tt.max))
		})
	}
}

func TestCleanTextDefaultCap(t *testing.T) {
	long := strings.Repeat("word ", MaxTextChars)
	assert.Len(t, []rune(CleanText(long, MaxTextChars)), MaxTextChars)
}
