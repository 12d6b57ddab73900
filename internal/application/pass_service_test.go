package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type passHarness struct {
	now  time.Time
	logs *visitorLogRepositoryStub
	svc  *PassService
}

func newPassHarness(t *testing.T, signer *PassSigner) *passHarness {
	t.Helper()
	h := &passHarness{
		now:  time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC),
		logs: newVisitorLogRepositoryStub(),
	}
	clock := func() time.Time { return h.now }
	h.svc = NewPassService(h.logs, signer, qrStub{}, qrStub{}, sequence("qr-1", "qr-2"), clock, 0)
	return h
}

func janeInput() VisitorPassInput {
	return VisitorPassInput{
		Name:             "Jane Doe",
		Address:          "123 St",
		ContactNum:       "0912",
		HomeOwnerToVisit: "Mr. Smith",
		PurposeOfVisit:   "Delivery",
	}
}

func TestPassService_IssueVisitorPass(t *testing.T) {
	t.Parallel()

	h := newPassHarness(t, NewPassSigner("secret", false))
	issued, err := h.svc.IssueVisitorPass(context.Background(), janeInput())
	require.NoError(t, err)

	assert.Equal(t, "qr-1", issued.Payload.QRID)
	assert.Equal(t, h.now.Add(5*24*time.Hour).UnixMilli(), issued.Payload.ExpirationTime)
	assert.NotEmpty(t, issued.Payload.Signature)
	assert.Equal(t, "PNG:"+issued.Content, string(issued.PNG))
	assert.Contains(t, issued.Content, `"contactNum":"0912"`)
	assert.Zero(t, h.logs.writes)

	_, err = h.svc.IssueVisitorPass(context.Background(), VisitorPassInput{Name: "  ", PurposeOfVisit: "x"})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Len(t, vErr.FieldErrors, 4)
}

func TestPassService_IssueHomeownerPass(t *testing.T) {
	t.Parallel()

	h := newPassHarness(t, nil)
	issued, err := h.svc.IssueHomeownerPass(context.Background(), HomeownerPass{Name: " Maria ", Code: " H-12 "})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Maria","code":"H-12"}`, issued.Content)
	assert.NotEmpty(t, issued.PNG)

	_, err = h.svc.IssueHomeownerPass(context.Background(), HomeownerPass{Name: "Maria"})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestPassService_TimeInThenTimeOut(t *testing.T) {
	t.Parallel()

	h := newPassHarness(t, NewPassSigner("secret", true))
	ctx := context.Background()
	issued, err := h.svc.IssueVisitorPass(ctx, janeInput())
	require.NoError(t, err)
	issuedAt := h.now

	h.now = issuedAt.Add(24 * time.Hour)
	scan, err := h.svc.ScanPass(ctx, guard, ScanInput{Payload: issued.Content})
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingDirection, scan.State)
	assert.Equal(t, Directions(), scan.Directions)
	assert.Zero(t, h.logs.writes)

	in, err := h.svc.RedeemPass(ctx, guard, RedeemInput{ScanInput: ScanInput{Payload: issued.Content}, Direction: "TIME_IN"})
	require.NoError(t, err)
	assert.Equal(t, StateRecorded, in.State)
	assert.Equal(t, VisitorLog{
		ID:               "qr-1",
		Name:             "Jane Doe",
		Address:          "123 St",
		ContactNumber:    "0912",
		HomeOwnerToVisit: "Mr. Smith",
		PurposeOfVisit:   "Delivery",
		TimeIn:           issuedAt.Add(24 * time.Hour),
	}, in.Log)
	assert.Equal(t, 1, h.logs.writes)

	h.now = issuedAt.Add(26 * time.Hour)
	out, err := h.svc.RedeemPass(ctx, admin, RedeemInput{ScanInput: ScanInput{Image: issued.PNG}, Direction: "time_out"})
	require.NoError(t, err)
	assert.Equal(t, 2, h.logs.writes)

	stored := h.logs.logs["qr-1"]
	require.NotNil(t, stored.TimeOut)
	assert.True(t, stored.TimeOut.Equal(h.now))
	assert.True(t, stored.TimeIn.Equal(issuedAt.Add(24*time.Hour)))
	assert.Equal(t, in.Log.Name, stored.Name)
	assert.Equal(t, out.Log, stored)
	assert.Len(t, h.logs.logs, 1)

	_, err = h.svc.RedeemPass(ctx, guard, RedeemInput{ScanInput: ScanInput{Payload: issued.Content}, Direction: "TIME_OUT"})
	require.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, 2, h.logs.writes)
}

func TestPassService_TimeOutWithoutEntry(t *testing.T) {
	t.Parallel()

	h := newPassHarness(t, nil)
	issued, err := h.svc.IssueVisitorPass(context.Background(), janeInput())
	require.NoError(t, err)

	result, err := h.svc.RedeemPass(context.Background(), guard, RedeemInput{ScanInput: ScanInput{Payload: issued.Content}, Direction: "TIME_OUT"})
	require.ErrorIs(t, err, ErrLogNotFound)
	assert.Equal(t, "log does not exist", err.Error())
	assert.Equal(t, StateAwaitingDirection, result.State)
	assert.Empty(t, h.logs.logs)
}

func TestPassService_TimeInOverwrites(t *testing.T) {
	t.Parallel()

	h := newPassHarness(t, nil)
	ctx := context.Background()
	issued, err := h.svc.IssueVisitorPass(ctx, janeInput())
	require.NoError(t, err)

	redeem := RedeemInput{ScanInput: ScanInput{Payload: issued.Content}, Direction: "TIME_IN"}
	_, err = h.svc.RedeemPass(ctx, guard, redeem)
	require.NoError(t, err)
	_, err = h.svc.RedeemPass(ctx, guard, RedeemInput{ScanInput: redeem.ScanInput, Direction: "TIME_OUT"})
	require.NoError(t, err)

	h.now = h.now.Add(time.Hour)
	again, err := h.svc.RedeemPass(ctx, guard, redeem)
	require.NoError(t, err)
	assert.True(t, again.Log.TimeIn.Equal(h.now))
	assert.Nil(t, h.logs.logs["qr-1"].TimeOut)
}

func TestPassService_ExpiredPassesWriteNothing(t *testing.T) {
	t.Parallel()

	h := newPassHarness(t, nil)
	ctx := context.Background()
	issued, err := h.svc.IssueVisitorPass(ctx, janeInput())
	require.NoError(t, err)

	h.now = issued.Payload.ExpiresAt()
	scan, err := h.svc.ScanPass(ctx, guard, ScanInput{Payload: issued.Content})
	require.NoError(t, err, "the expiry instant itself is still valid")
	assert.Equal(t, StateAwaitingDirection, scan.State)

	h.now = issued.Payload.ExpiresAt().Add(time.Millisecond)
	scan, err = h.svc.ScanPass(ctx, guard, ScanInput{Payload: issued.Content})
	require.ErrorIs(t, err, ErrPassExpired)
	assert.Equal(t, StateExpired, scan.State)
	assert.Equal(t, "qr-1", scan.Pass.QRID)

	result, err := h.svc.RedeemPass(ctx, guard, RedeemInput{ScanInput: ScanInput{Payload: issued.Content}, Direction: "TIME_IN"})
	require.ErrorIs(t, err, ErrPassExpired)
	assert.Equal(t, StateExpired, result.State)
	assert.Zero(t, h.logs.writes)
}

func TestPassService_RejectsBadInput(t *testing.T) {
	t.Parallel()

	h := newPassHarness(t, NewPassSigner("secret", true))
	ctx := context.Background()
	issued, err := h.svc.IssueVisitorPass(ctx, janeInput())
	require.NoError(t, err)

	unsigned := samplePayload()
	unsigned.ExpirationTime = h.now.Add(time.Hour).UnixMilli()

	cases := []struct {
		name      string
		principal Principal
		input     RedeemInput
		want      error
	}{
		{"anonymous", Principal{}, RedeemInput{ScanInput: ScanInput{Payload: issued.Content}, Direction: "TIME_IN"}, ErrUnauthorized},
		{"unknown role", Principal{UserID: "x", Role: "VISITOR"}, RedeemInput{ScanInput: ScanInput{Payload: issued.Content}, Direction: "TIME_IN"}, ErrUnauthorized},
		{"garbage text", guard, RedeemInput{ScanInput: ScanInput{Payload: "not a pass"}, Direction: "TIME_IN"}, ErrInvalidPass},
		{"unreadable image", guard, RedeemInput{ScanInput: ScanInput{Image: []byte("JPEG")}, Direction: "TIME_IN"}, ErrInvalidPass},
		{"unsigned when required", guard, RedeemInput{ScanInput: ScanInput{Payload: mustJSON(t, unsigned)}, Direction: "TIME_IN"}, ErrInvalidPass},
	}
	for _, tc := range cases {
		_, err := h.svc.RedeemPass(ctx, tc.principal, tc.input)
		require.ErrorIs(t, err, tc.want, tc.name)
	}

	_, err = h.svc.RedeemPass(ctx, guard, RedeemInput{ScanInput: ScanInput{Payload: issued.Content}, Direction: "sideways"})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Zero(t, h.logs.writes)
}
