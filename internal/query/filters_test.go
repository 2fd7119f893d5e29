package query

import (
	"testing"

	"github.com/mealstash/recipe-api-be/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIDList(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []int64
		wantErr bool
	}{
		{name: "empty means no filter", raw: "", want: nil},
		{name: "blank means no filter", raw: "   ", want: nil},
		{name: "single id", raw: "7", want: []int64{7}},
		{name: "multiple ids", raw: "1,2,3", want: []int64{1, 2, 3}},
		{name: "spaces tolerated", raw: " 1 , 2 ", want: []int64{1, 2}},
		{name: "non-numeric token", raw: "1,abc", wantErr: true},
		{name: "empty token", raw: "1,,2", wantErr: true},
		{name: "zero id", raw: "0", wantErr: true},
		{name: "negative id", raw: "-3", wantErr: true},
		{name: "trailing comma", raw: "1,2,", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIDList("tags", tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				ve, ok := apperr.AsValidation(err)
				require.True(t, ok)
				assert.Contains(t, ve.Fields, "tags")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseBool(t *testing.T) {
	for _, truthy := range []string{"1", "t", "true", "TRUE", "Yes", "on", " y "} {
		assert.True(t, ParseBool(truthy), truthy)
	}
	for _, falsy := range []string{"", "0", "false", "no", "off", "banana"} {
		assert.False(t, ParseBool(falsy), falsy)
	}
}
