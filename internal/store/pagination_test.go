package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageParams_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   PageParams
		want PageParams
	}{
		{"zero values get defaults", PageParams{}, PageParams{Page: 1, Limit: 10}},
		{"negative page", PageParams{Page: -3, Limit: 5}, PageParams{Page: 1, Limit: 5}},
		{"limit clamped", PageParams{Page: 2, Limit: 500}, PageParams{Page: 2, Limit: 50}},
		{"valid untouched", PageParams{Page: 3, Limit: 25}, PageParams{Page: 3, Limit: 25}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.in
			p.Normalize(DefaultPageLimit, MaxPageLimit)
			assert.Equal(t, tt.want, p)
		})
	}
}

func TestPage_TotalPages(t *testing.T) {
	tests := []struct {
		total, limit, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{99, 20, 5},
		{100, 20, 5},
		{101, 20, 6},
	}

	for _, tt := range tests {
		p := Page[int]{Total: tt.total, Limit: tt.limit}
		assert.Equal(t, tt.want, p.TotalPages(), "total=%d limit=%d", tt.total, tt.limit)
	}
}
