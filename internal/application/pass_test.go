package application

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePayload() PassPayload {
	return PassPayload{
		Name:             "Jane Doe",
		Address:          "123 St",
		ContactNum:       "0912",
		HomeOwnerToVisit: "Mr. Smith",
		PurposeOfVisit:   "Delivery",
		ExpirationTime:   time.Date(2024, 1, 7, 15, 4, 5, 0, time.UTC).UnixMilli(),
		QRID:             "6f1c7a2e-1111-4222-8333-944455556666",
	}
}

func TestParsePass(t *testing.T) {
	t.Parallel()

	t.Run("accepts the contactNumber alias", func(t *testing.T) {
		t.Parallel()

		raw := `{"name":"Jane Doe","address":"123 St","contactNumber":"0912","homeOwnerToVisit":"Mr. Smith","purposeOfVisit":"","expirationTime":1704639845000,"qrId":"q-1"}`
		pass, err := ParsePass(raw)
		require.NoError(t, err)
		assert.Equal(t, "0912", pass.ContactNum)
		assert.Equal(t, int64(1704639845000), pass.ExpirationTime)
	})

	t.Run("prefers contactNum when both are present", func(t *testing.T) {
		t.Parallel()

		pass, err := ParsePass(`{"name":"J","contactNum":"1","contactNumber":"2","expirationTime":1,"qrId":"q"}`)
		require.NoError(t, err)
		assert.Equal(t, "1", pass.ContactNum)
	})

	for name, raw := range map[string]string{
		"empty":          "  ",
		"not json":       "hello",
		"missing qrId":   `{"name":"J","expirationTime":1}`,
		"missing expiry": `{"name":"J","qrId":"q"}`,
		"missing name":   `{"qrId":"q","expirationTime":1}`,
	} {
		t.Run("rejects "+name, func(t *testing.T) {
			t.Parallel()
			_, err := ParsePass(raw)
			require.ErrorIs(t, err, ErrInvalidPass)
		})
	}
}

func TestPassPayloadExpiryBoundary(t *testing.T) {
	t.Parallel()

	pass := samplePayload()
	exp := pass.ExpiresAt()

	assert.False(t, pass.Expired(exp.Add(-time.Millisecond)))
	assert.False(t, pass.Expired(exp))
	assert.True(t, pass.Expired(exp.Add(time.Millisecond)))
}

func TestPassSigner(t *testing.T) {
	t.Parallel()

	signer := NewPassSigner("top-secret", false)
	signed, err := signer.Sign(samplePayload())
	require.NoError(t, err)
	require.NotEmpty(t, signed.Signature)
	require.NoError(t, signer.Verify(signed))

	t.Run("survives a JSON round trip", func(t *testing.T) {
		t.Parallel()

		raw, err := json.Marshal(signed)
		require.NoError(t, err)
		decoded, err := ParsePass(string(raw))
		require.NoError(t, err)
		require.NoError(t, signer.Verify(decoded))
	})

	t.Run("detects tampering", func(t *testing.T) {
		t.Parallel()

		tampered := signed
		tampered.ExpirationTime += 24 * int64(time.Hour/time.Millisecond)
		require.ErrorIs(t, signer.Verify(tampered), ErrInvalidPass)
	})

	t.Run("rejects signatures from another key", func(t *testing.T) {
		t.Parallel()

		require.ErrorIs(t, NewPassSigner("other", false).Verify(signed), ErrInvalidPass)
	})

	t.Run("unsigned passes depend on enforcement", func(t *testing.T) {
		t.Parallel()

		unsigned := samplePayload()
		require.NoError(t, signer.Verify(unsigned))
		require.ErrorIs(t, NewPassSigner("top-secret", true).Verify(unsigned), ErrInvalidPass)
	})

	t.Run("nil signer accepts everything", func(t *testing.T) {
		t.Parallel()

		var none *PassSigner
		out, err := none.Sign(samplePayload())
		require.NoError(t, err)
		assert.Empty(t, out.Signature)
		require.NoError(t, none.Verify(signed))
	})
}

func TestRedemptionStateMachine(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(samplePayload())
	require.NoError(t, err)
	exp := samplePayload().ExpiresAt()

	t.Run("happy path", func(t *testing.T) {
		t.Parallel()

		r := NewRedemption()
		assert.Equal(t, StateIdle, r.State())
		require.NoError(t, r.StartScan())
		require.NoError(t, r.Decode(string(raw), nil))
		assert.Equal(t, StateDecoded, r.State())
		require.NoError(t, r.CheckExpiry(exp))
		assert.Equal(t, StateAwaitingDirection, r.State())
		require.NoError(t, r.Choose(DirectionTimeIn))
		require.NoError(t, r.MarkRecorded())
		assert.Equal(t, StateRecorded, r.State())
	})

	t.Run("decode failure returns to idle", func(t *testing.T) {
		t.Parallel()

		r := NewRedemption()
		require.NoError(t, r.StartScan())
		require.ErrorIs(t, r.Decode("garbage", nil), ErrInvalidPass)
		assert.Equal(t, StateIdle, r.State())
		require.NoError(t, r.StartScan())
	})

	t.Run("expired passes stop", func(t *testing.T) {
		t.Parallel()

		r := NewRedemption()
		require.NoError(t, r.StartScan())
		require.NoError(t, r.Decode(string(raw), nil))
		require.ErrorIs(t, r.CheckExpiry(exp.Add(time.Millisecond)), ErrPassExpired)
		assert.Equal(t, StateExpired, r.State())
		require.Error(t, r.Choose(DirectionTimeIn))
	})

	t.Run("out of order steps are rejected", func(t *testing.T) {
		t.Parallel()

		r := NewRedemption()
		require.Error(t, r.Decode(string(raw), nil))
		require.Error(t, r.CheckExpiry(exp))
		require.Error(t, r.MarkRecorded())
	})

	t.Run("cancel resets", func(t *testing.T) {
		t.Parallel()

		r := NewRedemption()
		require.NoError(t, r.StartScan())
		require.NoError(t, r.Decode(string(raw), nil))
		r.Cancel()
		assert.Equal(t, StateIdle, r.State())
		assert.Empty(t, r.Pass().QRID)
	})
}

func TestParseDirection(t *testing.T) {
	t.Parallel()

	for input, want := range map[string]Direction{
		"TIME_IN": DirectionTimeIn, "time-in": DirectionTimeIn, "Time In": DirectionTimeIn, "in": DirectionTimeIn,
		"TIME_OUT": DirectionTimeOut, "timeout": DirectionTimeOut, "OUT": DirectionTimeOut,
	} {
		got, ok := ParseDirection(input)
		assert.True(t, ok, input)
		assert.Equal(t, want, got, input)
	}
	_, ok := ParseDirection("sideways")
	assert.False(t, ok)
}

func mustJSON(t *testing.T, value any) string {
	t.Helper()
	raw, err := json.Marshal(value)
	require.NoError(t, err)
	return string(raw)
}
