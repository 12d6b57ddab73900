package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/visitor-console/internal/application"
)

func TestVehicleLogs(t *testing.T) {
	entry := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)
	exit := entry.Add(90 * time.Minute)
	logs := []application.VehicleLog{
		{ID: "1", OwnerName: "Santos, Maria", Category: application.CategoryHomeowner, PlateNumber: "ABC 1234", Entry: entry, Exit: &exit},
		{ID: "2", Category: application.CategoryVisitor, PlateNumber: "XYZ 9", Entry: entry},
	}

	var buf bytes.Buffer
	require.NoError(t, NewWriter(nil).VehicleLogs(&buf, logs))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Time In", "Time Out", "Name", "Category", "Plate Number"},
		{"Jan 2, 2024, 3:04:05 PM", "Jan 2, 2024, 4:34:05 PM", "Santos, Maria", "HOMEOWNER", "ABC 1234"},
		{"Jan 2, 2024, 3:04:05 PM", "", "", "VISITOR", "XYZ 9"},
	}, records)
}

func TestVisitorLogsUsesLocation(t *testing.T) {
	manila := time.FixedZone("PHT", 8*60*60)
	timeIn := time.Date(2024, 1, 2, 20, 0, 0, 0, time.UTC)
	logs := []application.VisitorLog{{
		ID: "q-1", Name: "Jane Doe", Address: "123 St", ContactNumber: "0912",
		HomeOwnerToVisit: "Mr. Smith", PurposeOfVisit: "Delivery", TimeIn: timeIn,
	}}

	var buf bytes.Buffer
	require.NoError(t, NewWriter(manila).VisitorLogs(&buf, logs))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"Jan 3, 2024, 4:00:00 AM", "", "Jane Doe", "123 St", "0912", "Mr. Smith", "Delivery"}, records[1])
}

func TestVisitorLogsNeutralizeFormulas(t *testing.T) {
	logs := []application.VisitorLog{{
		ID: "q-2", Name: "=HYPERLINK(\"http://evil\")", Address: "@SUM(A1)", ContactNumber: "+639170000000",
		HomeOwnerToVisit: "-1+1", PurposeOfVisit: "Drop-off = parcel", TimeIn: time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC),
	}}

	var buf bytes.Buffer
	require.NoError(t, NewWriter(time.UTC).VisitorLogs(&buf, logs))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{
		"Jan 2, 2024, 8:00:00 AM", "",
		"'=HYPERLINK(\"http://evil\")", "'@SUM(A1)", "'+639170000000", "'-1+1", "Drop-off = parcel",
	}, records[1])
}

func TestEmptyExportHasHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(time.UTC).VisitorLogs(&buf, nil))
	assert.Equal(t, "Time In,Time Out,Name,Address,Contact Number,Homeowner to Visit,Purpose of Visit\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteErrorsSurface(t *testing.T) {
	err := NewWriter(nil).VehicleLogs(failingWriter{}, []application.VehicleLog{{Entry: time.Now()}})
	require.Error(t, err)
}
