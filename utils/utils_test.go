package utils_test

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ratetap/ratetap/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestIPFingerprinter(t *testing.T) {
	t.Run("DeterministicForSameInput", func(t *testing.T) {
		fp, err := utils.NewIPFingerprinter("test-secret")
		require.NoError(t, err)

		first := fp.Fingerprint("203.0.113.7")
		second := fp.Fingerprint("203.0.113.7")
		assert.Equal(t, first, second)
		assert.Regexp(t, hexPattern, first)
	})

	t.Run("DifferentAddressesDiffer", func(t *testing.T) {
		fp, err := utils.NewIPFingerprinter("test-secret")
		require.NoError(t, err)

		assert.NotEqual(t, fp.Fingerprint("203.0.113.7"), fp.Fingerprint("203.0.113.8"))
	})

	t.Run("SecretChangesOutput", func(t *testing.T) {
		first, err := utils.NewIPFingerprinter("secret-one")
		require.NoError(t, err)
		second, err := utils.NewIPFingerprinter("secret-two")
		require.NoError(t, err)

		assert.NotEqual(t, first.Fingerprint("203.0.113.7"), second.Fingerprint("203.0.113.7"))
	})

	t.Run("EmptySecretRejected", func(t *testing.T) {
		_, err := utils.NewIPFingerprinter("")
		assert.Error(t, err)
	})

	t.Run("OversizedSecretRejected", func(t *testing.T) {
		_, err := utils.NewIPFingerprinter(strings.Repeat("x", 65))
		assert.Error(t, err)
	})
}

func TestRandomString(t *testing.T) {
	t.Run("DrawsFromAlphabet", func(t *testing.T) {
		const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
		s, err := utils.RandomString(alphabet, 8)
		require.NoError(t, err)
		assert.Len(t, s, 8)
		for _, r := range s {
			assert.Contains(t, alphabet, string(r))
		}
	})

	t.Run("SuccessiveDrawsDiffer", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 50; i++ {
			s, err := utils.RandomString("abcdefghijklmnopqrstuvwxyz0123456789", 8)
			require.NoError(t, err)
			assert.False(t, seen[s], "short code space is large enough that 50 draws must not collide")
			seen[s] = true
		}
	})

	t.Run("InvalidParameters", func(t *testing.T) {
		_, err := utils.RandomString("", 8)
		assert.Error(t, err)
		_, err = utils.RandomString("abc", 0)
		assert.Error(t, err)
		_, err = utils.RandomString("abc", -1)
		assert.Error(t, err)
	})
}

func TestParseUUID(t *testing.T) {
	id := uuid.New()
	parsed, err := utils.ParseUUID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = utils.ParseUUID("")
	assert.Error(t, err)

	_, err = utils.ParseUUID("not-a-uuid")
	assert.Error(t, err)
}

func TestDayStart(t *testing.T) {
	t.Run("TruncatesToMidnightUTC", func(t *testing.T) {
		moment := time.Date(2026, 3, 14, 15, 9, 26, 535000, time.UTC)
		start := utils.DayStart(moment)
		assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), start)
	})

	t.Run("NormalizesZones", func(t *testing.T) {
		// 23:30 in UTC-5 is 04:30 UTC the next day.
		zone := time.FixedZone("UTC-5", -5*3600)
		moment := time.Date(2026, 3, 14, 23, 30, 0, 0, zone)
		start := utils.DayStart(moment)
		assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), start)
	})
}

func TestIsExpired(t *testing.T) {
	assert.True(t, utils.IsExpired(utils.UTCNow().Add(-time.Minute)))
	assert.False(t, utils.IsExpired(utils.UTCNow().Add(time.Minute)))

	past := utils.UTCNow().Add(-time.Minute)
	assert.True(t, utils.IsExpiredPtr(&past))
	assert.False(t, utils.IsExpiredPtr(nil))
}

func TestToPtr(t *testing.T) {
	s := utils.ToPtr("branding")
	require.NotNil(t, s)
	assert.Equal(t, "branding", *s)

	b := utils.ToPtr(true)
	assert.True(t, utils.IsTrue(b))
	assert.False(t, utils.IsTrue(nil))
}
