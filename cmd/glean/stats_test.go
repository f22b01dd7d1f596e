package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/glean/internal/statistics"
)

func TestPeriodFlag_Set(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    PeriodFlag
		wantErr bool
	}{
		{
			name:  "week",
			value: "week",
			want:  PeriodFlag(statistics.PeriodWeek),
		},
		{
			name:  "year",
			value: "year",
			want:  PeriodFlag(statistics.PeriodYear),
		},
		{
			name:    "unknown",
			value:   "fortnight",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var flag PeriodFlag
			err := flag.Set(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, flag)
			assert.Equal(t, tt.value, flag.String())
			assert.Equal(t, "PeriodFlag", flag.Type())
		})
	}
}
