package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkanalyzer/internal/syntax"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		in      string
		want    syntax.Range
		wantErr bool
	}{
		{in: "4", want: syntax.NewRange(4, 4)},
		{in: "2:8", want: syntax.NewRange(2, 8)},
		{in: "0:10", want: syntax.NewRange(0, 10)},
		{in: "8:2", wantErr: true},
		{in: "11", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "a:b", wantErr: true},
		{in: "1:", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseRange(tt.in, 10)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
