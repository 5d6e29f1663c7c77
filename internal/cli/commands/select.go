package commands

import (
	"fmt"

	"ttc/internal/config"
	"ttc/internal/domain"
	"ttc/internal/store"
)

// selectRecords resolves the stats/report selection flags against a scan
// result: --date narrows to named folders, --filter narrows by test name,
// and --all (or no restriction at all) takes everything.
func selectRecords(result domain.ScanResult, flags config.Flags) ([]domain.TestRecord, error) {
	groups := result.Groups

	if len(flags.Dates) > 0 {
		wanted := make(map[string]bool, len(flags.Dates))
		for _, d := range flags.Dates {
			wanted[d] = true
		}
		var narrowed []domain.DateGroup
		for _, g := range groups {
			if wanted[g.Date] {
				narrowed = append(narrowed, g)
				delete(wanted, g.Date)
			}
		}
		for d := range wanted {
			return nil, fmt.Errorf("no date folder %s in the tests directory", d)
		}
		groups = narrowed
	}

	groups = store.FilterGroups(groups, flags.NameFilter)

	var records []domain.TestRecord
	for _, g := range groups {
		records = append(records, g.Records...)
	}
	return records, nil
}
