package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ttc/internal/domain"
)

func sampleReport() domain.StatisticsReport {
	base := time.Date(2024, 3, 5, 9, 0, 0, 0, time.Local)
	return domain.StatisticsReport{
		Count:       2,
		Mean:        21.0,
		StdDev:      1.4142,
		Min:         20,
		Max:         22,
		Median:      21,
		Sigma3Lower: 16.7574,
		Sigma3Upper: 25.2426,
		PerRecord: []domain.RecordDeviation{
			{
				Record: domain.TestRecord{
					Name: "Steel rod A", Technician: "Dana",
					CreatedAt: base, PeakForce: 20,
				},
				Deviation: -1,
			},
			{
				Record: domain.TestRecord{
					Name: "Steel rod B", Technician: "Lee",
					CreatedAt: base.Add(time.Hour), PeakForce: 22,
				},
				Deviation: 1,
			},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleReport()))

	r := csv.NewReader(strings.NewReader(buf.String()))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	require.NoError(t, err)

	// Summary block header and count.
	assert.Equal(t, []string{"metric", "value"}, rows[0])
	assert.Equal(t, []string{"count", "2"}, rows[1])
	assert.Equal(t, []string{"mean_kN", "21.000"}, rows[2])

	// Per-record table after the summary block.
	var headerIdx int
	for i, row := range rows {
		if len(row) > 0 && row[0] == "test_name" {
			headerIdx = i
			break
		}
	}
	require.NotZero(t, headerIdx, "per-record header missing")

	records := rows[headerIdx+1:]
	require.Len(t, records, 2)
	assert.Equal(t, "Steel rod A", records[0][0])
	assert.Equal(t, "Dana", records[0][1])
	assert.Equal(t, "2024-03-05 09:00:00", records[0][2])
	assert.Equal(t, "20.000", records[0][3])
	assert.Equal(t, "-1.000", records[0][4])
	assert.Equal(t, "+1.000", records[1][4])
}

func TestRenderPage(t *testing.T) {
	pages := Paginate(sampleReport(), DefaultMinRows)
	require.Len(t, pages, 1)

	out := RenderPage(pages[0])
	assert.Contains(t, out, "Page 1 of 1")
	assert.Contains(t, out, "Mean: 21.000 kN")
	assert.Contains(t, out, "3-sigma range: 16.757 … 25.243 kN")
	assert.Contains(t, out, "Steel rod A")
	assert.Contains(t, out, "Steel rod B")
}

func TestWriteDocument_PageBreaks(t *testing.T) {
	rep := reportWithRows(30)
	pages := Paginate(rep, DefaultMinRows)
	require.Len(t, pages, 2)

	var buf bytes.Buffer
	require.NoError(t, WriteDocument(&buf, pages))

	parts := strings.Split(buf.String(), "\f")
	require.Len(t, parts, 2)
	assert.Contains(t, parts[0], "Page 1 of 2")
	assert.Contains(t, parts[1], "Page 2 of 2")
}
