package cli

import (
	"testing"

	"github.com/nightdriver/ndsmon/internal/errors"
	"github.com/nightdriver/ndsmon/internal/query"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddListFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "list"}
	var flags ListFlags
	AddListFlags(cmd, &flags)

	for _, name := range []string{"filter", "sort", "desc", "columns", "output"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "flag %s should be registered", name)
	}
	assert.NotNil(t, cmd.Flags().ShorthandLookup("o"))

	require.NoError(t, cmd.Flags().Parse([]string{"--filter", "porch", "--sort", "fps", "--desc", "-o", "json"}))
	assert.Equal(t, "porch", flags.Filter)
	assert.Equal(t, "fps", flags.Sort)
	assert.True(t, flags.Desc)
	assert.Equal(t, OutputJSON, flags.Output)
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", OutputTable},
		{"table", OutputTable},
		{"JSON", OutputJSON},
		{"yaml", OutputYAML},
		{" yml ", OutputYAML},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOutputFormat(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseOutputFormat("csv")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestParseColumns(t *testing.T) {
	keys, err := ParseColumns("")
	require.NoError(t, err)
	assert.Nil(t, keys)

	keys, err = ParseColumns(" host , fps,,status ")
	require.NoError(t, err)
	assert.Equal(t, []string{query.ColHost, query.ColFPS, query.ColStatus}, keys)

	_, err = ParseColumns("host,nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown column 'nope'")
	assert.Contains(t, err.Error(), query.ColCanvasName, "suggestion lists known keys")
}

func TestParseSortColumn(t *testing.T) {
	got, err := ParseSortColumn("")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = ParseSortColumn("delta")
	require.NoError(t, err)
	assert.Equal(t, query.ColDelta, got)

	_, err = ParseSortColumn("select")
	assert.Error(t, err, "fixed slots are not sortable")
}

func TestParseIDs(t *testing.T) {
	ids, err := ParseIDs([]string{"1", " 22 "})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 22}, ids)

	_, err = ParseIDs([]string{"1", "x"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
	assert.Contains(t, err.Error(), "'x' isn't a canvas id")
}
