package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBool(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    bool
		wantErr bool
	}{
		{name: "plain true", value: true, want: true},
		{name: "plain false", value: false, want: false},
		{name: "string true", value: "true", want: true},
		{name: "string yes uppercase", value: "YES", want: true},
		{name: "string on with spaces", value: " on ", want: true},
		{name: "string y", value: "y", want: true},
		{name: "string 1", value: "1", want: true},
		{name: "string false", value: "false", want: false},
		{name: "string no", value: "no", want: false},
		{name: "string off", value: "off", want: false},
		{name: "string 0", value: "0", want: false},
		{name: "number zero", value: float64(0), want: false},
		{name: "number nonzero", value: float64(2), want: true},
		{name: "json number", value: json.Number("1"), want: true},
		{name: "unrecognized string", value: "maybe", wantErr: true},
		{name: "unsupported type", value: []string{"true"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBool(tt.value)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
