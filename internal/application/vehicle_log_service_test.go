package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVehicleLogService_RecordEntry(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)
	vehicles := newVehicleRepositoryStub(
		Vehicle{ID: "v-1", Name: "Maria", PlateNumber: "ABC 1234", Category: CategoryHomeowner, IsActive: true},
		Vehicle{ID: "v-2", Name: "Old", PlateNumber: "OLD 1", IsActive: false},
	)

	cases := []struct {
		name    string
		params  RecordEntryParams
		wantErr error
		field   string
	}{
		{name: "by id", params: RecordEntryParams{Principal: guard, VehicleID: "v-1"}},
		{name: "by plate ignoring case", params: RecordEntryParams{Principal: guard, PlateNumber: "abc 1234"}},
		{name: "anonymous", params: RecordEntryParams{VehicleID: "v-1"}, wantErr: ErrUnauthorized},
		{name: "nothing given", params: RecordEntryParams{Principal: guard}, field: "vehicle_id"},
		{name: "unknown vehicle", params: RecordEntryParams{Principal: guard, PlateNumber: "ZZZ"}, field: "vehicle_id"},
		{name: "archived vehicle", params: RecordEntryParams{Principal: guard, VehicleID: "v-2"}, field: "vehicle_id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			logs := newVehicleLogRepositoryStub()
			svc := NewVehicleLogService(logs, vehicles, sequence("log-1"), fixedClock(now))

			entry, err := svc.RecordEntry(context.Background(), tc.params)
			switch {
			case tc.wantErr != nil:
				require.ErrorIs(t, err, tc.wantErr)
				assert.Empty(t, logs.logs)
			case tc.field != "":
				var vErr *ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Contains(t, vErr.FieldErrors, tc.field)
				assert.Empty(t, logs.logs)
			default:
				require.NoError(t, err)
				assert.Equal(t, "log-1", entry.ID)
				assert.Equal(t, "v-1", entry.VehicleID)
				assert.Equal(t, "ABC 1234", entry.PlateNumber)
				assert.Equal(t, CategoryHomeowner, entry.Category)
				assert.True(t, entry.Entry.Equal(now))
				assert.Nil(t, entry.Exit)
			}
		})
	}
}

func TestVehicleLogService_RecordExitOnce(t *testing.T) {
	t.Parallel()

	entryAt := time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)
	exitAt := entryAt.Add(3 * time.Hour)
	logs := newVehicleLogRepositoryStub()
	logs.logs["log-1"] = VehicleLog{ID: "log-1", VehicleID: "v-1", Entry: entryAt}
	svc := NewVehicleLogService(logs, newVehicleRepositoryStub(), nil, fixedClock(exitAt))

	closed, err := svc.RecordExit(context.Background(), guard, "log-1")
	require.NoError(t, err)
	require.NotNil(t, closed.Exit)
	assert.True(t, closed.Exit.Equal(exitAt))

	_, err = svc.RecordExit(context.Background(), guard, "log-1")
	require.ErrorIs(t, err, ErrConflict)

	_, err = svc.RecordExit(context.Background(), guard, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestVehicleLogService_ListAndExport(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	logs := newVehicleLogRepositoryStub()
	for i, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"} {
		logs.logs[id] = VehicleLog{ID: id, Entry: base.Add(time.Duration(i) * time.Hour)}
	}
	svc := NewVehicleLogService(logs, newVehicleRepositoryStub(), nil, time.Now)

	page, err := svc.ListVehicleLogs(context.Background(), guard, VehicleLogFilter{PlateNumber: " abc "}, PageRequest{Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 10, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, DefaultPerPage, page.PerPage)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "b", page.Items[0].ID)
	assert.Equal(t, "abc", logs.lastFilter.PlateNumber)

	_, err = svc.ExportVehicleLogs(context.Background(), guard, VehicleLogFilter{})
	require.ErrorIs(t, err, ErrUnauthorized)

	exported, err := svc.ExportVehicleLogs(context.Background(), admin, VehicleLogFilter{})
	require.NoError(t, err)
	assert.Len(t, exported, 10)
	assert.Equal(t, 0, logs.lastPage.PerPage)

	from, to := base.Add(time.Hour), base
	_, err = svc.ListVehicleLogs(context.Background(), guard, VehicleLogFilter{ExitFrom: &from, ExitTo: &to}, PageRequest{})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.FieldErrors, "exit")
}
