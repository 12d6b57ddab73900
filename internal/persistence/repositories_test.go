package persistence_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/visitor-console/internal/persistence"
	"github.com/example/visitor-console/internal/testfixtures"
)

func forEachBackend(t *testing.T, fn func(t *testing.T, h *testfixtures.Harness)) {
	t.Helper()
	for _, h := range testfixtures.Harnesses(t) {
		h := h
		t.Run(h.Name, func(t *testing.T) {
			fn(t, h)
		})
	}
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()

	forEachBackend(t, func(t *testing.T, h *testfixtures.Harness) {
		alice, aliceIdentity := testfixtures.NewUserFixture(
			testfixtures.WithUserName("Alice Admin"),
			testfixtures.WithUserEmail("Alice@Example.com"),
			testfixtures.WithUserRole("ADMIN"),
		).Persistence()
		bob, bobIdentity := testfixtures.NewUserFixture(testfixtures.WithUserName("Bob Guard")).Persistence()

		require.NoError(t, h.Users.CreateUser(ctx, alice, aliceIdentity))
		require.NoError(t, h.Users.CreateUser(ctx, bob, bobIdentity))

		identity, err := h.Users.GetIdentityByEmail(ctx, "  ALICE@example.com ")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, identity.UserID)
		assert.Equal(t, "alice@example.com", identity.Email)

		dup, dupIdentity := testfixtures.NewUserFixture(testfixtures.WithUserEmail("alice@example.com")).Persistence()
		assert.ErrorIs(t, h.Users.CreateUser(ctx, dup, dupIdentity), persistence.ErrDuplicate)

		alice.Name = "Alice Updated"
		alice.Role = "GUARD"
		alice.UpdatedAt = alice.UpdatedAt.Add(time.Hour)
		require.NoError(t, h.Users.UpdateUser(ctx, alice))

		fetched, err := h.Users.GetUser(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alice Updated", fetched.Name)
		assert.Equal(t, "GUARD", fetched.Role)

		users, total, err := h.Users.ListUsers(ctx, persistence.UserFilter{Name: "bob"}, persistence.Page{})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, users, 1)
		assert.Equal(t, bob.ID, users[0].ID)

		users, total, err = h.Users.ListUsers(ctx, persistence.UserFilter{}, persistence.Page{Limit: 1, Offset: 1})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, users, 1)
		assert.Equal(t, bob.ID, users[0].ID)

		assert.ErrorIs(t, h.Users.UpdateUser(ctx, persistence.User{ID: "missing"}), persistence.ErrNotFound)
	})
}

func TestUserRepositoryDeleteCascades(t *testing.T) {
	ctx := context.Background()

	forEachBackend(t, func(t *testing.T, h *testfixtures.Harness) {
		user, identity := testfixtures.NewUserFixture().Persistence()
		other, otherIdentity := testfixtures.NewUserFixture().Persistence()
		require.NoError(t, h.Users.CreateUser(ctx, user, identity))
		require.NoError(t, h.Users.CreateUser(ctx, other, otherIdentity))

		session := testfixtures.NewSessionFixture(user.ID).Persistence()
		otherSession := testfixtures.NewSessionFixture(other.ID).Persistence()
		_, err := h.Sessions.CreateSession(ctx, session)
		require.NoError(t, err)
		_, err = h.Sessions.CreateSession(ctx, otherSession)
		require.NoError(t, err)

		require.NoError(t, h.Users.DeleteUser(ctx, user.ID))

		_, err = h.Users.GetUser(ctx, user.ID)
		assert.ErrorIs(t, err, persistence.ErrNotFound)
		_, err = h.Users.GetIdentityByEmail(ctx, user.Email)
		assert.ErrorIs(t, err, persistence.ErrNotFound)
		_, err = h.Sessions.GetSession(ctx, session.Token)
		assert.ErrorIs(t, err, persistence.ErrNotFound)

		assert.ErrorIs(t, h.Users.DeleteUser(ctx, user.ID), persistence.ErrNotFound)

		_, err = h.Users.GetUser(ctx, other.ID)
		assert.NoError(t, err)
		_, err = h.Sessions.GetSession(ctx, otherSession.Token)
		assert.NoError(t, err)
	})
}

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()

	forEachBackend(t, func(t *testing.T, h *testfixtures.Harness) {
		user, identity := testfixtures.NewUserFixture().Persistence()
		require.NoError(t, h.Users.CreateUser(ctx, user, identity))

		base := testfixtures.ReferenceTime()
		session := testfixtures.NewSessionFixture(user.ID, testfixtures.WithSessionExpiry(base.Add(time.Hour))).Persistence()

		created, err := h.Sessions.CreateSession(ctx, session)
		require.NoError(t, err)
		assert.Equal(t, session.Token, created.Token)

		_, err = h.Sessions.CreateSession(ctx, session)
		assert.ErrorIs(t, err, persistence.ErrDuplicate)

		session.Token = "rotated-token"
		session.ExpiresAt = base.Add(2 * time.Hour)
		session.UpdatedAt = base.Add(time.Minute)
		updated, err := h.Sessions.UpdateSession(ctx, session)
		require.NoError(t, err)
		assert.Equal(t, user.ID, updated.UserID)

		fetched, err := h.Sessions.GetSession(ctx, "rotated-token")
		require.NoError(t, err)
		assert.True(t, fetched.ExpiresAt.Equal(base.Add(2*time.Hour)))

		revoked, err := h.Sessions.RevokeSession(ctx, "rotated-token", base.Add(3*time.Minute))
		require.NoError(t, err)
		require.NotNil(t, revoked.RevokedAt)
		assert.True(t, revoked.RevokedAt.Equal(base.Add(3*time.Minute)))

		_, err = h.Sessions.RevokeSession(ctx, "unknown", base)
		assert.ErrorIs(t, err, persistence.ErrNotFound)

		require.NoError(t, h.Sessions.DeleteExpiredSessions(ctx, base.Add(2*time.Hour)))
		_, err = h.Sessions.GetSession(ctx, "rotated-token")
		assert.ErrorIs(t, err, persistence.ErrNotFound)
	})
}

func TestVehicleRepositoryArchiveRoundTrip(t *testing.T) {
	ctx := context.Background()
	active := true
	archived := false

	forEachBackend(t, func(t *testing.T, h *testfixtures.Harness) {
		car := testfixtures.NewVehicleFixture(testfixtures.WithVehicleName("Zed"), testfixtures.WithVehiclePlate("XYZ 123")).Persistence()
		van := testfixtures.NewVehicleFixture(testfixtures.WithVehicleName("Amy"), testfixtures.WithVehiclePaymentName("Amy Corp")).Persistence()
		require.NoError(t, h.Vehicles.CreateVehicle(ctx, car))
		require.NoError(t, h.Vehicles.CreateVehicle(ctx, van))

		list, total, err := h.Vehicles.ListVehicles(ctx, persistence.VehicleFilter{Active: &active}, persistence.Page{})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, list, 2)
		assert.Equal(t, "Amy", list[0].Name)

		before, err := h.Vehicles.GetVehicle(ctx, car.ID)
		require.NoError(t, err)

		at := testfixtures.ReferenceTime().Add(48 * time.Hour)
		archivedCar, err := h.Vehicles.SetVehicleActive(ctx, car.ID, false, at)
		require.NoError(t, err)
		assert.False(t, archivedCar.IsActive)

		list, _, err = h.Vehicles.ListVehicles(ctx, persistence.VehicleFilter{Active: &archived}, persistence.Page{})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, car.ID, list[0].ID)

		_, err = h.Vehicles.GetVehicleByPlate(ctx, "xyz 123")
		assert.ErrorIs(t, err, persistence.ErrNotFound)

		restored, err := h.Vehicles.SetVehicleActive(ctx, car.ID, true, at)
		require.NoError(t, err)
		assert.Equal(t, before.Name, restored.Name)
		assert.Equal(t, before.PlateNumber, restored.PlateNumber)
		assert.True(t, before.DateRegistered.Equal(restored.DateRegistered))
		assert.True(t, restored.IsActive)

		byPlate, err := h.Vehicles.GetVehicleByPlate(ctx, "xyz 123")
		require.NoError(t, err)
		assert.Equal(t, car.ID, byPlate.ID)

		list, _, err = h.Vehicles.ListVehicles(ctx, persistence.VehicleFilter{PaymentName: "amy corp"}, persistence.Page{})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, van.ID, list[0].ID)

		_, err = h.Vehicles.SetVehicleActive(ctx, "missing", false, at)
		assert.ErrorIs(t, err, persistence.ErrNotFound)

		count, err := h.Vehicles.CountVehicles(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})
}

func TestVehicleRepositoryUpdateKeepsRegistration(t *testing.T) {
	ctx := context.Background()

	forEachBackend(t, func(t *testing.T, h *testfixtures.Harness) {
		vehicle := testfixtures.NewVehicleFixture().Persistence()
		require.NoError(t, h.Vehicles.CreateVehicle(ctx, vehicle))

		edited := vehicle
		edited.Name = "New Owner"
		edited.PaymentStatus = "UNPAID"
		edited.DateRegistered = time.Time{}
		edited.IsActive = false
		require.NoError(t, h.Vehicles.UpdateVehicle(ctx, edited))

		fetched, err := h.Vehicles.GetVehicle(ctx, vehicle.ID)
		require.NoError(t, err)
		assert.Equal(t, "New Owner", fetched.Name)
		assert.Equal(t, "UNPAID", fetched.PaymentStatus)
		assert.True(t, fetched.DateRegistered.Equal(vehicle.DateRegistered))
		assert.True(t, fetched.IsActive)
	})
}

func TestVehicleLogRepository(t *testing.T) {
	ctx := context.Background()

	forEachBackend(t, func(t *testing.T, h *testfixtures.Harness) {
		vehicle := testfixtures.NewVehicleFixture(testfixtures.WithVehicleName("Maria Santos")).Persistence()
		require.NoError(t, h.Vehicles.CreateVehicle(ctx, vehicle))

		base := testfixtures.ReferenceTime()
		first := testfixtures.NewVehicleLogFixture(vehicle, testfixtures.WithVehicleLogEntry(base)).Persistence()
		second := testfixtures.NewVehicleLogFixture(vehicle, testfixtures.WithVehicleLogEntry(base.Add(time.Hour))).Persistence()
		unknown := testfixtures.NewVehicleLogFixture(persistence.Vehicle{ID: "gone", PlateNumber: "GONE 1", Category: "VISITOR"},
			testfixtures.WithVehicleLogEntry(base.Add(2*time.Hour))).Persistence()
		for _, log := range []persistence.VehicleLog{first, second, unknown} {
			require.NoError(t, h.VehicleLogs.CreateVehicleLog(ctx, log))
		}

		closed, err := h.VehicleLogs.CloseVehicleLog(ctx, first.ID, base.Add(30*time.Minute))
		require.NoError(t, err)
		require.NotNil(t, closed.Exit)
		assert.Equal(t, "Maria Santos", closed.OwnerName)

		_, err = h.VehicleLogs.CloseVehicleLog(ctx, first.ID, base.Add(40*time.Minute))
		assert.ErrorIs(t, err, persistence.ErrConflict)
		_, err = h.VehicleLogs.CloseVehicleLog(ctx, "missing", base)
		assert.ErrorIs(t, err, persistence.ErrNotFound)

		logs, total, err := h.VehicleLogs.ListVehicleLogs(ctx, persistence.VehicleLogFilter{}, persistence.Page{})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, logs, 3)
		assert.Equal(t, unknown.ID, logs[0].ID)
		assert.Equal(t, "", logs[0].OwnerName)

		logs, total, err = h.VehicleLogs.ListVehicleLogs(ctx, persistence.VehicleLogFilter{Name: "maria"}, persistence.Page{})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, logs, 2)

		exitFrom := base
		logs, _, err = h.VehicleLogs.ListVehicleLogs(ctx, persistence.VehicleLogFilter{ExitFrom: &exitFrom}, persistence.Page{})
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, first.ID, logs[0].ID)

		entryTo := base.Add(time.Hour)
		logs, _, err = h.VehicleLogs.ListVehicleLogs(ctx, persistence.VehicleLogFilter{EntryTo: &entryTo, PlateNumber: vehicle.PlateNumber}, persistence.Page{Limit: 1})
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, second.ID, logs[0].ID)

		stats, err := h.VehicleLogs.VehicleLogStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, stats.Total)
		require.NotNil(t, stats.LatestEntry)
		assert.True(t, stats.LatestEntry.Equal(base.Add(2*time.Hour)))
		require.NotNil(t, stats.LatestExit)
		assert.True(t, stats.LatestExit.Equal(base.Add(30*time.Minute)))
	})
}

func TestVisitorLogRepositoryTimeInTimeOut(t *testing.T) {
	ctx := context.Background()

	forEachBackend(t, func(t *testing.T, h *testfixtures.Harness) {
		base := testfixtures.ReferenceTime()
		entry := testfixtures.NewVisitorLogFixture(
			testfixtures.WithVisitorID("qr-jane"),
			testfixtures.WithVisitorName("Jane Doe"),
			testfixtures.WithVisitorTimeIn(base),
		).Persistence()

		_, err := h.VisitorLogs.MergeVisitorTimeOut(ctx, entry.ID, base)
		assert.ErrorIs(t, err, persistence.ErrNotFound)
		_, err = h.VisitorLogs.GetVisitorLog(ctx, entry.ID)
		assert.ErrorIs(t, err, persistence.ErrNotFound)

		require.NoError(t, h.VisitorLogs.PutVisitorLog(ctx, entry))

		merged, err := h.VisitorLogs.MergeVisitorTimeOut(ctx, entry.ID, base.Add(2*time.Hour))
		require.NoError(t, err)
		require.NotNil(t, merged.TimeOut)

		fetched, err := h.VisitorLogs.GetVisitorLog(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, entry.Name, fetched.Name)
		assert.Equal(t, entry.Address, fetched.Address)
		assert.Equal(t, entry.ContactNumber, fetched.ContactNumber)
		assert.Equal(t, entry.HomeOwnerToVisit, fetched.HomeOwnerToVisit)
		assert.Equal(t, entry.PurposeOfVisit, fetched.PurposeOfVisit)
		assert.True(t, fetched.TimeIn.Equal(base))
		require.NotNil(t, fetched.TimeOut)
		assert.True(t, fetched.TimeOut.Equal(base.Add(2*time.Hour)))

		_, err = h.VisitorLogs.MergeVisitorTimeOut(ctx, entry.ID, base.Add(3*time.Hour))
		assert.ErrorIs(t, err, persistence.ErrConflict)

		// time in again overwrites the whole entry
		again := entry
		again.TimeIn = base.Add(24 * time.Hour)
		require.NoError(t, h.VisitorLogs.PutVisitorLog(ctx, again))
		fetched, err = h.VisitorLogs.GetVisitorLog(ctx, entry.ID)
		require.NoError(t, err)
		assert.Nil(t, fetched.TimeOut)
		assert.True(t, fetched.TimeIn.Equal(base.Add(24*time.Hour)))

		count, err := h.VisitorLogs.CountVisitorLogs(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestVisitorLogRepositoryFilters(t *testing.T) {
	ctx := context.Background()

	forEachBackend(t, func(t *testing.T, h *testfixtures.Harness) {
		base := testfixtures.ReferenceTime()
		logs := []persistence.VisitorLog{
			testfixtures.NewVisitorLogFixture(testfixtures.WithVisitorName("Jane Doe"), testfixtures.WithVisitorTimeIn(base)).Persistence(),
			testfixtures.NewVisitorLogFixture(testfixtures.WithVisitorName("John Roe"), testfixtures.WithVisitorHomeOwner("Mrs. Cruz"), testfixtures.WithVisitorTimeIn(base.Add(time.Hour))).Persistence(),
			testfixtures.NewVisitorLogFixture(testfixtures.WithVisitorName("Janet"), testfixtures.WithVisitorTimeIn(base.Add(2*time.Hour))).Persistence(),
		}
		for _, log := range logs {
			require.NoError(t, h.VisitorLogs.PutVisitorLog(ctx, log))
		}

		found, total, err := h.VisitorLogs.ListVisitorLogs(ctx, persistence.VisitorLogFilter{Name: "JAN"}, persistence.Page{})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, found, 2)
		assert.Equal(t, "Janet", found[0].Name)

		found, _, err = h.VisitorLogs.ListVisitorLogs(ctx, persistence.VisitorLogFilter{HomeOwner: "cruz"}, persistence.Page{})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "John Roe", found[0].Name)

		from, to := base.Add(30*time.Minute), base.Add(90*time.Minute)
		found, _, err = h.VisitorLogs.ListVisitorLogs(ctx, persistence.VisitorLogFilter{TimeInFrom: &from, TimeInTo: &to}, persistence.Page{})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "John Roe", found[0].Name)

		found, total, err = h.VisitorLogs.ListVisitorLogs(ctx, persistence.VisitorLogFilter{}, persistence.Page{Limit: 2, Offset: 2})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, found, 1)
		assert.Equal(t, "Jane Doe", found[0].Name)
	})
}

func TestOutboxRecordsLogWrites(t *testing.T) {
	ctx := context.Background()

	forEachBackend(t, func(t *testing.T, h *testfixtures.Harness) {
		base := testfixtures.ReferenceTime()
		entry := testfixtures.NewVisitorLogFixture(testfixtures.WithVisitorTimeIn(base)).Persistence()
		require.NoError(t, h.VisitorLogs.PutVisitorLog(ctx, entry))
		_, err := h.VisitorLogs.MergeVisitorTimeOut(ctx, entry.ID, base.Add(time.Hour))
		require.NoError(t, err)

		// failed conditional writes leave no event behind
		_, err = h.VisitorLogs.MergeVisitorTimeOut(ctx, "missing", base)
		require.ErrorIs(t, err, persistence.ErrNotFound)

		claimed, err := h.Outbox.ClaimOutbox(ctx, 10, 5)
		require.NoError(t, err)
		require.Len(t, claimed, 2)

		var event persistence.LogEvent
		require.NoError(t, json.Unmarshal(claimed[0].Payload, &event))
		assert.Equal(t, persistence.EventVisitorTimeIn, event.Type)
		assert.Equal(t, entry.ID, event.ID)
		assert.Equal(t, testfixtures.OutboxTopic, claimed[0].Topic)
		assert.Equal(t, entry.ID, claimed[0].Key)

		require.NoError(t, json.Unmarshal(claimed[1].Payload, &event))
		assert.Equal(t, persistence.EventVisitorTimeOut, event.Type)

		again, err := h.Outbox.ClaimOutbox(ctx, 10, 5)
		require.NoError(t, err)
		assert.Empty(t, again)

		require.NoError(t, h.Outbox.MarkOutboxDone(ctx, claimed[0].ID, base))
		require.NoError(t, h.Outbox.MarkOutboxFailed(ctx, claimed[1].ID, 1, "broker down", false))

		retried, err := h.Outbox.ClaimOutbox(ctx, 10, 5)
		require.NoError(t, err)
		require.Len(t, retried, 1)
		assert.Equal(t, claimed[1].ID, retried[0].ID)
		assert.Equal(t, 1, retried[0].Attempts)

		require.NoError(t, h.Outbox.MarkOutboxFailed(ctx, retried[0].ID, 5, "broker down", true))
		none, err := h.Outbox.ClaimOutbox(ctx, 10, 5)
		require.NoError(t, err)
		assert.Empty(t, none)

		assert.ErrorIs(t, h.Outbox.MarkOutboxDone(ctx, 9999, base), persistence.ErrNotFound)
	})
}

func TestOutboxRequeueReleasesInterruptedClaims(t *testing.T) {
	ctx := context.Background()

	forEachBackend(t, func(t *testing.T, h *testfixtures.Harness) {
		base := testfixtures.ReferenceTime()
		first := testfixtures.NewVisitorLogFixture(testfixtures.WithVisitorTimeIn(base)).Persistence()
		require.NoError(t, h.VisitorLogs.PutVisitorLog(ctx, first))

		claimed, err := h.Outbox.ClaimOutbox(ctx, 10, 5)
		require.NoError(t, err)
		require.Len(t, claimed, 1)
		require.NoError(t, h.Outbox.MarkOutboxDone(ctx, claimed[0].ID, base))

		second := first
		second.ID = "qr-second"
		require.NoError(t, h.VisitorLogs.PutVisitorLog(ctx, second))
		stranded, err := h.Outbox.ClaimOutbox(ctx, 10, 5)
		require.NoError(t, err)
		require.Len(t, stranded, 1)

		requeued, err := h.Outbox.RequeueOutbox(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, requeued)

		reclaimed, err := h.Outbox.ClaimOutbox(ctx, 10, 5)
		require.NoError(t, err)
		require.Len(t, reclaimed, 1, "delivered messages stay done")
		assert.Equal(t, stranded[0].ID, reclaimed[0].ID)
		assert.Zero(t, reclaimed[0].Attempts)
	})
}
