package algo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pincode-distance/model"
	"pincode-distance/utils"
)

func point(code int, lat, lon float64) model.ResolvedPoint {
	return model.ResolvedPoint{Pincode: code, Lat: lat, Lon: lon}
}

func TestRadiusIndex_Within(t *testing.T) {
	regions := model.RegionMap{
		110001: point(110001, 28.6139, 77.2090), // 德里
		110002: point(110002, 28.6400, 77.2400), // 约 4km
		122001: point(122001, 28.4595, 77.0266), // 古尔冈，约 25km
		400001: point(400001, 19.0760, 72.8777), // 孟买
	}
	idx := NewRadiusIndex(regions)
	assert.Equal(t, 4, idx.Size())

	got := idx.Within(28.6139, 77.2090, 10)
	require.Len(t, got, 2)
	assert.Equal(t, 110001, got[0].Pincode)
	assert.Equal(t, 0.0, got[0].DistanceKm)
	assert.Equal(t, 110002, got[1].Pincode)

	got = idx.Within(28.6139, 77.2090, 50)
	require.Len(t, got, 3)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].DistanceKm, got[i].DistanceKm)
	}
	for _, n := range got {
		assert.NotEqual(t, 400001, n.Pincode)
	}

	got = idx.Within(28.6139, 77.2090, 2000)
	assert.Len(t, got, 4)
}

func TestRadiusIndex_MatchesLinearScan(t *testing.T) {
	regions := model.RegionMap{}
	code := 1
	for lat := -80.0; lat <= 80; lat += 7.5 {
		for lon := -175.0; lon <= 175; lon += 12.5 {
			regions[code] = point(code, lat, lon)
			code++
		}
	}
	idx := NewRadiusIndex(regions)

	probes := [][3]float64{
		{0, 0, 1500},
		{45, 100, 800},
		{-60, 170, 2000}, // 跨 180 度经线
		{78, -20, 1200},  // 高纬度
	}
	for _, pr := range probes {
		want := 0
		for _, p := range regions {
			if utils.GreatCircleKm(pr[0], pr[1], p.Lat, p.Lon) <= pr[2] {
				want++
			}
		}
		assert.Len(t, idx.Within(pr[0], pr[1], pr[2]), want, "probe %v", pr)
	}
}

func TestRadiusIndex_Empty(t *testing.T) {
	idx := NewRadiusIndex(model.RegionMap{})
	assert.Empty(t, idx.Within(0, 0, 100))
	assert.Empty(t, NewRadiusIndex(model.RegionMap{1: point(1, 0, 0)}).Within(0, 0, -1))
}
