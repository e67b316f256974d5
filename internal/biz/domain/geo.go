package domain

// GeoRecord is the outward-facing form of a geofence area. The area is
// always nested under an "area" key.
type GeoRecord struct {
	Area AreaRecord `json:"area"`
}

// AreaRecord describes one circular geofence region.
type AreaRecord struct {
	ID     string      `json:"id"`
	Center CoordRecord `json:"center"`
	Radius int         `json:"radius"`
	Title  string      `json:"title"`
}

// CoordRecord is a latitude/longitude pair.
type CoordRecord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}
