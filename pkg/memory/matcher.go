package memory

import "math"

// MatchNearest returns the address closest to the query coordinate, or nil
// when the address set is empty. Distance is Euclidean in raw lat/lng units;
// no great-circle correction, which is acceptable at city scale. Ties keep
// the first-encountered address, so results are deterministic for a fixed
// address order.
func MatchNearest(addresses []LocationInfo, lat, lng float64) *LocationInfo {
	if len(addresses) == 0 {
		return nil
	}

	closest := 0
	minDist := math.Inf(1)
	for i, addr := range addresses {
		dist := math.Sqrt(math.Pow(addr.Lat-lat, 2) + math.Pow(addr.Lng-lng, 2))
		if dist < minDist {
			minDist = dist
			closest = i
		}
	}
	return &addresses[closest]
}
