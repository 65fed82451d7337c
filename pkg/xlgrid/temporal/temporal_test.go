package temporal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	shanghai = time.FixedZone("CST", 8*3600)
	newYork  = time.FixedZone("EST", -5*3600)
)

func TestSerialConversion(t *testing.T) {
	tests := []struct {
		serial float64
		want   time.Time
	}{
		{0, time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)},
		{25569, time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)},
		{43101.63611111111, time.Date(2018, 1, 1, 15, 16, 0, 0, time.UTC)},
		{43677.30416666667, time.Date(2019, 7, 31, 7, 18, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got := FromSerial(tt.serial)
		assert.True(t, tt.want.Equal(got), "FromSerial(%v) = %v, want %v", tt.serial, got, tt.want)
		assert.InDelta(t, tt.serial, ToSerial(tt.want), 1e-9)
	}
}

func TestSerialKeepsMilliseconds(t *testing.T) {
	in := time.Date(2020, 2, 29, 23, 59, 59, 250*int(time.Millisecond), time.UTC)
	got := FromSerial(ToSerial(in))
	assert.True(t, in.Equal(got), "got %v", got)
}

func TestUTCRoundTripIgnoresLocation(t *testing.T) {
	wall := time.Date(2019, 7, 31, 7, 18, 0, 0, time.UTC)

	for _, loc := range []*time.Location{time.UTC, shanghai, newYork} {
		c := New(loc)
		stored := c.Encode(wall, UTC)
		got, ok := c.Decode(ToSerial(stored), UTC).(time.Time)
		require.True(t, ok)
		assert.Equal(t, 7, got.UTC().Hour(), "loc %s", loc)
		assert.Equal(t, 31, got.UTC().Day(), "loc %s", loc)
		assert.Equal(t, 18, got.UTC().Minute(), "loc %s", loc)
	}
}

func TestLocalRoundTrip(t *testing.T) {
	for _, loc := range []*time.Location{time.UTC, shanghai, newYork} {
		c := New(loc)
		instant := time.Date(2019, 7, 30, 23, 18, 0, 0, time.UTC)
		local := instant.In(loc)

		stored := c.Encode(instant, Local)
		assert.Equal(t, local.Hour(), stored.UTC().Hour(), "stored fields carry wall clock in %s", loc)

		got, ok := c.Decode(ToSerial(stored), Local).(time.Time)
		require.True(t, ok)
		got = got.In(loc)
		assert.Equal(t, local.Year(), got.Year())
		assert.Equal(t, local.Month(), got.Month())
		assert.Equal(t, local.Day(), got.Day())
		assert.Equal(t, local.Hour(), got.Hour())
		assert.Equal(t, local.Minute(), got.Minute())
		assert.Equal(t, local.Second(), got.Second())
		assert.True(t, instant.Equal(got), "Local round trip keeps the instant in %s", loc)
	}
}

func TestEncodeValueString(t *testing.T) {
	c := New(shanghai)

	utc, err := c.EncodeValue("2018-01-01 23:16:00", UTC)
	require.NoError(t, err)
	assert.Equal(t, 23, utc.Hour())

	zoned, err := c.EncodeValue("2018-01-01T23:16:00+08:00", UTC)
	require.NoError(t, err)
	assert.Equal(t, 15, zoned.Hour())

	local, err := c.EncodeValue("2018-01-01 23:16:00", Local)
	require.NoError(t, err)
	assert.Equal(t, 23, local.Hour())

	_, err = c.EncodeValue("not a date", UTC)
	assert.ErrorIs(t, err, ErrUnparsable)

	_, err = c.EncodeValue(42, UTC)
	assert.ErrorIs(t, err, ErrUnparsable)
}

func TestDecodeString(t *testing.T) {
	c := New(newYork)

	got, ok := c.Decode("2019-11-26 07:10:41", UTC).(time.Time)
	require.True(t, ok)
	assert.Equal(t, 7, got.UTC().Hour())

	got, ok = c.Decode("2019-11-26 15:10:41", Local).(time.Time)
	require.True(t, ok)
	assert.Equal(t, 15, got.In(newYork).Hour())
}

func TestDecodePassThrough(t *testing.T) {
	c := New(time.UTC)
	assert.Equal(t, 12.5, c.Decode(12.5, None))
	assert.Nil(t, c.Decode(nil, UTC))
	assert.Equal(t, "garbage", c.Decode("garbage", UTC))
	assert.Equal(t, true, c.Decode(true, Local))
}

func TestParseLayouts(t *testing.T) {
	c := New(time.UTC)
	for _, s := range []string{
		"2019-07-31T07:18:00Z",
		"2019-07-31T07:18:00.000Z",
		"2019-07-31 07:18:00",
		"2019-07-31T07:18:00",
		"2019-07-31 07:18",
		"2019/07/31 07:18:00",
	} {
		got, err := c.Parse(s)
		require.NoError(t, err, s)
		assert.Equal(t, 7, got.Hour(), s)
		assert.Equal(t, 18, got.Minute(), s)
	}
}
