package main

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/glean/internal/cli"
	"github.com/at-ishikawa/glean/internal/review"
	"github.com/at-ishikawa/glean/internal/testutil"
)

func TestOutputFlag_Set(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    OutputFlag
		wantErr bool
	}{
		{
			name:  "table",
			value: "table",
			want:  OutputFlag(cli.OutputTable),
		},
		{
			name:  "yaml",
			value: "yaml",
			want:  OutputFlag(cli.OutputYAML),
		},
		{
			name:    "json is not supported",
			value:   "json",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var flag OutputFlag
			err := flag.Set(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, flag)
			assert.Equal(t, tt.value, flag.String())
			assert.Equal(t, "OutputFlag", flag.Type())
		})
	}
}

func TestReviewDueCommand(t *testing.T) {
	setConfigFile(t, testutil.SetupTestConfig(t, t.TempDir()))
	mock := setupTestDatabase(t)
	mock.ExpectQuery("SELECT .+ FROM learning_items WHERE status = \\? ORDER BY next_review_date, id").
		WithArgs("active").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectClose()

	got, err := executeCommand(t, "review", "due")
	require.NoError(t, err)
	assert.Equal(t, "Nothing to review today.\n", got)
}

func TestReviewDueCommand_InvalidFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{
			name: "unknown output",
			args: []string{"review", "due", "--output", "csv"},
		},
		{
			name: "zero limit",
			args: []string{"review", "due", "--limit", "0"},
		},
		{
			name: "negative limit",
			args: []string{"review", "start", "--limit", "-2"},
		},
		{
			name: "unexpected argument",
			args: []string{"review", "due", "learn-go-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCommand(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestReviewDueCommand_ZeroLimitIsRejected(t *testing.T) {
	for _, command := range []string{"due", "start"} {
		t.Run(command, func(t *testing.T) {
			_, err := executeCommand(t, "review", command, "--limit", "0")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "--limit must be at least 1")
		})
	}
}

func TestReviewStartCommand_NothingDue(t *testing.T) {
	setConfigFile(t, testutil.SetupTestConfig(t, t.TempDir()))
	mock := setupTestDatabase(t)
	mock.ExpectQuery("SELECT .+ FROM learning_items WHERE status = \\? ORDER BY next_review_date, id").
		WithArgs("active").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectClose()

	got, err := executeCommand(t, "review", "start")
	require.NoError(t, err)
	assert.Equal(t, "Nothing to review today.\n", got)
}

func TestReviewCompleteCommand_InvalidConfidence(t *testing.T) {
	t.Run("not a number", func(t *testing.T) {
		_, err := executeCommand(t, "review", "complete", "learn-go-1", "high")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "confidence must be a number")
	})

	t.Run("out of range never touches the store", func(t *testing.T) {
		setConfigFile(t, testutil.SetupTestConfig(t, t.TempDir()))
		mock := setupTestDatabase(t)
		mock.ExpectClose()

		_, err := executeCommand(t, "review", "complete", "learn-go-1", "7")
		assert.ErrorIs(t, err, review.ErrInvalidConfidence)
	})
}
