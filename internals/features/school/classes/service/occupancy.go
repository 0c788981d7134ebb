package service

// Label bucket keterisian kelas untuk statistik.
const (
	OccupancyLow    = "<50%"
	OccupancyMedium = "50-80%"
	OccupancyHigh   = "80-100%"
	OccupancyFull   = "full"
)

// OccupancyBucket mengelompokkan keterisian kelas.
// Batas bawah inklusif, batas atas eksklusif; 100% ke atas dihitung full.
func OccupancyBucket(capacity, enrollment int) string {
	if capacity <= 0 {
		return OccupancyFull
	}
	pct := enrollment * 100
	switch {
	case pct >= capacity*100:
		return OccupancyFull
	case pct >= capacity*80:
		return OccupancyHigh
	case pct >= capacity*50:
		return OccupancyMedium
	default:
		return OccupancyLow
	}
}
