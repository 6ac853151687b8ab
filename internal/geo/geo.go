// Aspeti - Local Offers Marketplace
// Copyright 2026 Aspeti
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aspeti/aspeti

// Package geo provides the static city coordinate table and great-circle
// distance math used by offer discovery.
//
// The table is deliberately static: the marketplace serves a fixed set of
// Czech cities and a lookup miss simply means the geo filter does not apply.
package geo

import (
	"math"
	"sort"
	"strings"

	"github.com/aspeti/aspeti/internal/models"
)

// earthRadiusKm is the mean Earth radius used for haversine distance.
const earthRadiusKm = 6371.0

// cityTable maps known city names to their coordinates. Lookup is
// case-insensitive; keys here carry display casing.
var cityTable = map[string]models.LatLng{
	"Praha":            {Lat: 50.0755, Lng: 14.4378},
	"Brno":             {Lat: 49.1951, Lng: 16.6068},
	"Ostrava":          {Lat: 49.8209, Lng: 18.2625},
	"Plzeň":            {Lat: 49.7384, Lng: 13.3736},
	"Liberec":          {Lat: 50.7663, Lng: 15.0543},
	"Olomouc":          {Lat: 49.5938, Lng: 17.2509},
	"České Budějovice": {Lat: 48.9745, Lng: 14.4743},
	"Hradec Králové":   {Lat: 50.2092, Lng: 15.8328},
	"Ústí nad Labem":   {Lat: 50.6607, Lng: 14.0328},
	"Pardubice":        {Lat: 50.0343, Lng: 15.7812},
	"Zlín":             {Lat: 49.2265, Lng: 17.6689},
	"Kladno":           {Lat: 50.1473, Lng: 14.1028},
	"Karlovy Vary":     {Lat: 50.2310, Lng: 12.8717},
	"Jihlava":          {Lat: 49.3961, Lng: 15.5912},
	"Mladá Boleslav":   {Lat: 50.4114, Lng: 14.9032},
}

// lowerIndex maps lowercased city names to display names, built once.
var lowerIndex = func() map[string]string {
	idx := make(map[string]string, len(cityTable))
	for name := range cityTable {
		idx[strings.ToLower(name)] = name
	}
	return idx
}()

// City pairs a display name with its coordinates.
type City struct {
	Name   string        `json:"name"`
	Coords models.LatLng `json:"coords"`
}

// Cities returns all known cities sorted by name. The slice is freshly
// allocated on each call.
func Cities() []City {
	out := make([]City, 0, len(cityTable))
	for name, coords := range cityTable {
		out = append(out, City{Name: name, Coords: coords})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// CoordinatesFor looks up a city by name, case-insensitively. The second
// return value reports whether the city is known; an unknown city is not an
// error, it just has no coordinates.
func CoordinatesFor(city string) (models.LatLng, bool) {
	name, ok := lowerIndex[strings.ToLower(strings.TrimSpace(city))]
	if !ok {
		return models.LatLng{}, false
	}
	return cityTable[name], true
}

// DistanceKm returns the great-circle distance between two points in
// kilometers using the haversine formula.
func DistanceKm(a, b models.LatLng) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// Nearest returns the known city closest to the given point. ok is false
// only if the table is empty.
func Nearest(point models.LatLng) (City, bool) {
	var (
		best     City
		bestDist = math.MaxFloat64
		found    bool
	)
	for name, coords := range cityTable {
		d := DistanceKm(point, coords)
		if d < bestDist {
			bestDist = d
			best = City{Name: name, Coords: coords}
			found = true
		}
	}
	return best, found
}
