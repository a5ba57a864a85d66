package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nightdriver/ndsmon/internal/errors"
	"github.com/nightdriver/ndsmon/internal/query"
	"github.com/spf13/cobra"
)

// Output formats for one-shot commands.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// ListFlags holds the flags of "canvases list".
type ListFlags struct {
	Filter  string
	Sort    string
	Desc    bool
	Columns string
	Output  string
}

// AddListFlags registers the list flags on a command.
func AddListFlags(cmd *cobra.Command, flags *ListFlags) {
	cmd.Flags().StringVar(&flags.Filter, "filter", "", "show rows whose host, feature, canvas or effect contains this text")
	cmd.Flags().StringVar(&flags.Sort, "sort", "", "sort by column key (e.g. host, fps, delta)")
	cmd.Flags().BoolVar(&flags.Desc, "desc", false, "sort descending")
	cmd.Flags().StringVar(&flags.Columns, "columns", "", "comma-separated column keys to show (default: saved dashboard layout)")
	cmd.Flags().StringVarP(&flags.Output, "output", "o", OutputTable, "output format: table, json or yaml")
}

// ParseOutputFormat validates an --output value. Empty means table.
func ParseOutputFormat(flag string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(flag)) {
	case "", OutputTable:
		return OutputTable, nil
	case OutputJSON:
		return OutputJSON, nil
	case OutputYAML, "yml":
		return OutputYAML, nil
	}
	return "", errors.New(errors.ErrConfig,
		fmt.Sprintf("'%s' isn't a supported output format", flag),
		"Use one of: table, json, yaml")
}

// ParseColumns splits a comma-separated column list and checks every key
// against the catalog. Empty input returns nil.
func ParseColumns(flag string) ([]string, error) {
	if strings.TrimSpace(flag) == "" {
		return nil, nil
	}
	var keys []string
	for _, k := range strings.Split(flag, ",") {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if !query.KnownColumn(k) {
			return nil, unknownColumnError(k)
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// ParseSortColumn validates a --sort value. Empty means no sort.
func ParseSortColumn(flag string) (string, error) {
	k := strings.TrimSpace(flag)
	if k == "" || query.KnownColumn(k) {
		return k, nil
	}
	return "", unknownColumnError(k)
}

func unknownColumnError(key string) error {
	var known []string
	for _, c := range query.Catalog() {
		known = append(known, c.Key)
	}
	return errors.New(errors.ErrConfig,
		fmt.Sprintf("Unknown column '%s'", key),
		"Known columns: "+strings.Join(known, ", "))
}

// ParseIDs converts positional id arguments to integers.
func ParseIDs(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, a := range args {
		id, err := strconv.Atoi(strings.TrimSpace(a))
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("'%s' isn't a canvas id", a),
				"Ids are integers; run 'ndsmon canvases list' to see them")
		}
		ids = append(ids, id)
	}
	return ids, nil
}
