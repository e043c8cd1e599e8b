package domain

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64 `validate:"gte=-180,lte=180"`
	Lat float64 `validate:"gte=-90,lte=90"`
}

// Return coordinates as [lon, lat], the order GeoJSON and map surfaces expect.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// Midpoint returns the planar midpoint between two coordinates.
// Good enough for placing a popup on a short straight route line.
func (c Coordinates) Midpoint(other Coordinates) Coordinates {
	return Coordinates{
		Lon: (c.Lon + other.Lon) / 2,
		Lat: (c.Lat + other.Lat) / 2,
	}
}
