package utils

import "math"

// EarthRadiusKm 固定地球半径 (千米)，球面模型
const EarthRadiusKm = 6371.0

// MaxGreatCircleKm 球面上两点间的最大距离 (对跖点，πR)
const MaxGreatCircleKm = math.Pi * EarthRadiusKm

// DegreesToRadians 角度转弧度
func DegreesToRadians(d float64) float64 {
	return d * math.Pi / 180.0
}

// GreatCircleKm Haversine 公式计算两点间的大圆距离 (千米)
// 不做范围校验：超出范围的输入会得到数学上有定义但没有地理意义的结果
// 返回完整精度，展示时由调用方舍入
func GreatCircleKm(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := DegreesToRadians(lat1)
	phi2 := DegreesToRadians(lat2)
	dPhi := DegreesToRadians(lat2 - lat1)
	dLambda := DegreesToRadians(lon2 - lon1)

	// a = sin²(Δφ/2) + cos(φ1) * cos(φ2) * sin²(Δλ/2)
	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*
			math.Sin(dLambda/2)*math.Sin(dLambda/2)
	// 对跖点附近的浮点误差或越界输入可能使 a 落在 [0, 1] 之外
	a = math.Max(0, math.Min(a, 1))

	// c = 2 * atan2(√a, √(1-a))
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// RoundTo 四舍五入到指定小数位
func RoundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// ValidLatLon 判断经纬度是否为有限值且在合法范围内
func ValidLatLon(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
