package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sociallens/pkg/contracts/domain"
)

func TestMovingAverage_WindowOfOneIsIdentity(t *testing.T) {
	series := domain.History{
		pointAt(day(1), 10),
		pointAt(day(5), 20),
		pointAt(day(9), 30),
	}

	got := MovingAverage(series, 1)
	require.Len(t, got, 3)
	assert.Equal(t, series.Values(), got.Values())
}

func TestMovingAverage_WindowOfOneOnDailyData(t *testing.T) {
	// Consecutive daily points are the tightest spacing the scrapers
	// produce; a 1-day window must still return each point untouched.
	series := domain.History{
		pointAt(day(1), 10),
		pointAt(day(2), 30),
		pointAt(day(3), 50),
	}

	got := MovingAverage(series, 1)
	require.Len(t, got, 3)
	assert.Equal(t, series.Values(), got.Values())
}

func TestMovingAverage_WindowSpansExactlyWindowDays(t *testing.T) {
	// Daily points with a 3-day window: each window is [d-1, d+2) and so
	// covers at most three calendar days, never four.
	series := domain.History{
		pointAt(day(1), 10),
		pointAt(day(2), 30),
		pointAt(day(3), 50),
	}

	got := MovingAverage(series, 3)
	require.Len(t, got, 3)
	assert.InDelta(t, 20, got[0].Value, 1e-9)
	assert.InDelta(t, 30, got[1].Value, 1e-9)
	assert.InDelta(t, 40, got[2].Value, 1e-9)
}

func TestMovingAverage_CalendarWindow(t *testing.T) {
	// Points on days 1, 2, 3 and a far outlier on day 20. A 7-day window
	// centered near each of the first three points averages exactly those
	// three; the outlier only ever sees itself.
	series := domain.History{
		pointAt(day(1), 10),
		pointAt(day(2), 20),
		pointAt(day(3), 30),
		pointAt(day(20), 100),
	}

	got := MovingAverage(series, 7)
	require.Len(t, got, 4)
	assert.InDelta(t, 20, got[0].Value, 1e-9)
	assert.InDelta(t, 20, got[1].Value, 1e-9)
	assert.InDelta(t, 20, got[2].Value, 1e-9)
	assert.InDelta(t, 100, got[3].Value, 1e-9)
}

func TestMovingAverage_WindowIsCalendarKeyedNotIndexKeyed(t *testing.T) {
	// Two clusters far apart: a 3-day window must never mix them no matter
	// how adjacent they are by sample index.
	series := domain.History{
		pointAt(day(1), 10),
		pointAt(day(2), 14),
		pointAt(day(27), 1000),
		pointAt(day(28), 2000),
	}

	got := MovingAverage(series, 3)
	assert.InDelta(t, 12, got[0].Value, 1e-9)
	assert.InDelta(t, 12, got[1].Value, 1e-9)
	assert.InDelta(t, 1500, got[2].Value, 1e-9)
	assert.InDelta(t, 1500, got[3].Value, 1e-9)
}

func TestMovingAverage_FloorsWindowAtOneDay(t *testing.T) {
	series := domain.History{pointAt(day(1), 10), pointAt(day(10), 50)}

	got := MovingAverage(series, 0)
	assert.Equal(t, series.Values(), got.Values())

	got = MovingAverage(series, -5)
	assert.Equal(t, series.Values(), got.Values())
}

func TestMovingAverage_Empty(t *testing.T) {
	assert.Nil(t, MovingAverage(nil, 7))
}

func TestMovingAverage_DoesNotMutateInput(t *testing.T) {
	series := domain.History{pointAt(day(1), 10), pointAt(day(2), 30)}
	MovingAverage(series, 7)
	assert.Equal(t, []float64{10, 30}, series.Values())
}
