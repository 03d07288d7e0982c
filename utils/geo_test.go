package utils

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/umahmood/haversine"
)

func randomPoint(r *rand.Rand) (float64, float64) {
	return r.Float64()*180 - 90, r.Float64()*360 - 180
}

func TestGreatCircleKm_SamePointIsZero(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		lat, lon := randomPoint(r)
		assert.Equal(t, 0.0, GreatCircleKm(lat, lon, lat, lon))
	}
	assert.Equal(t, 0.0, GreatCircleKm(90, 0, 90, 0))
	assert.Equal(t, 0.0, GreatCircleKm(-90, 180, -90, 180))
}

func TestGreatCircleKm_Symmetric(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for i := 0; i < 500; i++ {
		lat1, lon1 := randomPoint(r)
		lat2, lon2 := randomPoint(r)
		assert.InDelta(t, GreatCircleKm(lat1, lon1, lat2, lon2), GreatCircleKm(lat2, lon2, lat1, lon1), 1e-9)
	}
}

func TestGreatCircleKm_Bounded(t *testing.T) {
	r := rand.New(rand.NewSource(13))
	for i := 0; i < 1000; i++ {
		lat1, lon1 := randomPoint(r)
		lat2, lon2 := randomPoint(r)
		d := GreatCircleKm(lat1, lon1, lat2, lon2)
		assert.False(t, math.IsNaN(d))
		assert.LessOrEqual(t, d, MaxGreatCircleKm+1e-9)
	}

	// 对跖点
	assert.InDelta(t, MaxGreatCircleKm, GreatCircleKm(0, 0, 0, 180), 1e-6)
	assert.InDelta(t, MaxGreatCircleKm, GreatCircleKm(90, 0, -90, 0), 1e-6)
	assert.InDelta(t, 20015.09, MaxGreatCircleKm, 0.01)
}

func TestGreatCircleKm_KnownValues(t *testing.T) {
	// 赤道上四分之一圆周
	assert.InDelta(t, 10007.54, GreatCircleKm(0, 0, 0, 90), 0.01)

	// 德里 -> 孟买
	d := GreatCircleKm(28.6139, 77.2090, 19.0760, 72.8777)
	assert.InDelta(t, 1148.09, d, 0.01)
	assert.Equal(t, 1148.09, RoundTo(d, 2))
}

func TestGreatCircleKm_MatchesReferenceHaversine(t *testing.T) {
	r := rand.New(rand.NewSource(17))
	for i := 0; i < 200; i++ {
		lat1, lon1 := randomPoint(r)
		lat2, lon2 := randomPoint(r)
		_, km := haversine.Distance(
			haversine.Coord{Lat: lat1, Lon: lon1},
			haversine.Coord{Lat: lat2, Lon: lon2},
		)
		assert.InDelta(t, km, GreatCircleKm(lat1, lon1, lat2, lon2), 1e-6)
	}
}

func TestGreatCircleKm_OutOfRangeIsNotAnError(t *testing.T) {
	d := GreatCircleKm(120, 400, -95, -200)
	assert.False(t, math.IsNaN(d))
}

func TestRoundTo(t *testing.T) {
	assert.Equal(t, 1.24, RoundTo(1.235001, 2))
	assert.Equal(t, 1.23, RoundTo(1.2349, 2))
	assert.Equal(t, 0.0, RoundTo(0.001, 2))
	assert.Equal(t, 10007.54, RoundTo(10007.543398, 2))
}

func TestValidLatLon(t *testing.T) {
	assert.True(t, ValidLatLon(0, 0))
	assert.True(t, ValidLatLon(-90, 180))
	assert.False(t, ValidLatLon(91, 0))
	assert.False(t, ValidLatLon(0, -181))
	assert.False(t, ValidLatLon(math.NaN(), 0))
	assert.False(t, ValidLatLon(0, math.Inf(1)))
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	assert.NoError(t, err)
	assert.True(t, CheckPassword(hash, "secret123"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
