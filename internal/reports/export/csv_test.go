package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paulpark6/salesvision/internal/aging"
	"github.com/paulpark6/salesvision/internal/periodic"
)

var bom = "\ufeff"

func readRows(t *testing.T, raw string) [][]string {
	t.Helper()
	require.True(t, strings.HasPrefix(raw, bom), "missing byte order mark")
	rows, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(raw, bom))).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteAgingCSV(t *testing.T) {
	today := time.Date(2024, 8, 10, 0, 0, 0, 0, time.UTC)
	records := []aging.Record{
		{ID: "a", IssueDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), DueDate: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
			Amount: decimal.RequireFromString("1200.5"), CustomerName: "김민수", EmployeeKey: "Jane Smith"},
		{ID: "b", DueDate: time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(80), CustomerName: "Ava Jones"},
	}
	classified, errs := aging.Classify(records, today)
	require.Empty(t, errs)

	var buf bytes.Buffer
	require.NoError(t, WriteAgingCSV(&buf, classified))
	rows := readRows(t, buf.String())
	require.Len(t, rows, 3)
	assert.Equal(t, "Aging Bucket", rows[0][6])
	assert.Equal(t, []string{"2024-06-01", "Jane Smith", "김민수", "1200.50", "2024-07-01", "40", "31-60"}, rows[1])
	assert.Equal(t, "", rows[2][0])
	assert.Equal(t, "0", rows[2][5])
	assert.Equal(t, "current", rows[2][6])
}

func TestWriteOverdueCSV(t *testing.T) {
	entries := []aging.ScheduleEntry{{
		Record: aging.Record{
			DueDate: time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(250),
			CustomerName: "Liam Johnson", EmployeeKey: "Jane Smith", CollectionPlan: "call, then email",
		},
		DaysUntil: -31,
		Status:    aging.StatusOverdue,
	}}
	var buf bytes.Buffer
	require.NoError(t, WriteOverdueCSV(&buf, entries))
	rows := readRows(t, buf.String())
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"2024-07-10", "Jane Smith", "Liam Johnson", "250.00", "31", "call, then email"}, rows[1])
}

func TestWriteCashCSV(t *testing.T) {
	items := []periodic.DatedAmount{
		{Date: time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC), Amount: decimal.RequireFromString("0.1"), GroupKey: "Jane", Source: "cash_sale"},
		{Date: time.Date(2024, 8, 20, 0, 0, 0, 0, time.UTC), Amount: decimal.RequireFromString("0.2"), GroupKey: "Alex", Source: "cash_sale"},
	}
	report := periodic.Aggregate(items, periodic.Month, nil)
	var buf bytes.Buffer
	require.NoError(t, WriteCashCSV(&buf, report))
	rows := readRows(t, buf.String())
	require.Len(t, rows, 4)
	assert.Equal(t, "2024-08", rows[1][0])
	assert.Equal(t, []string{"Total", "", "", "", "", "0.30"}, rows[3])
}

func TestWriteEmptyCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOverdueCSV(&buf, nil))
	rows := readRows(t, buf.String())
	assert.Len(t, rows, 1)
}
