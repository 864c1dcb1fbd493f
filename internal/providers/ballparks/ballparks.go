// Package ballparks serves static park factors, roof types and coordinates for the 30 MLB venues.
package ballparks

import (
	"context"
	"fmt"

	"github.com/jstittsworth/mlb-dfs-projections/internal/dfs"
)

// RoofType describes whether weather can reach the field
type RoofType string

const (
	RoofOpen        RoofType = "open"
	RoofRetractable RoofType = "retractable"
	RoofDome        RoofType = "dome"
)

// Factors are multi-year park factors centred at 100
type Factors struct {
	Runs    float64 `json:"runs"`
	HR      float64 `json:"hr"`
	LHBHR   float64 `json:"lhb_hr"`
	RHBHR   float64 `json:"rhb_hr"`
	Singles float64 `json:"singles"`
	Doubles float64 `json:"doubles"`
	Triples float64 `json:"triples"`
}

// Park is one venue
type Park struct {
	VenueID   int      `json:"venue_id"`
	Name      string   `json:"name"`
	Team      string   `json:"team"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Altitude  int      `json:"altitude"` // feet
	Roof      RoofType `json:"roof"`
	// Bearing is the compass direction from home plate to center field, in degrees
	Bearing   int      `json:"bearing"`
	Factors   Factors  `json:"factors"`
}

// Indoor reports whether the park never sees weather
func (p Park) Indoor() bool {
	return p.Roof == RoofDome
}

var parks = []Park{
	{VenueID: 1, Name: "Angel Stadium", Team: "LAA", Latitude: 33.8003, Longitude: -117.8827, Altitude: 160, Roof: RoofOpen, Bearing: 45, Factors: Factors{Runs: 101, HR: 106, LHBHR: 104, RHBHR: 108, Singles: 99, Doubles: 95, Triples: 80}},
	{VenueID: 2, Name: "Oriole Park at Camden Yards", Team: "BAL", Latitude: 39.2840, Longitude: -76.6217, Altitude: 20, Roof: RoofOpen, Bearing: 32, Factors: Factors{Runs: 98, HR: 96, LHBHR: 104, RHBHR: 88, Singles: 101, Doubles: 97, Triples: 85}},
	{VenueID: 3, Name: "Fenway Park", Team: "BOS", Latitude: 42.3467, Longitude: -71.0972, Altitude: 20, Roof: RoofOpen, Bearing: 45, Factors: Factors{Runs: 106, HR: 93, LHBHR: 85, RHBHR: 101, Singles: 104, Doubles: 124, Triples: 110}},
	{VenueID: 4, Name: "Guaranteed Rate Field", Team: "CWS", Latitude: 41.8299, Longitude: -87.6338, Altitude: 595, Roof: RoofOpen, Bearing: 127, Factors: Factors{Runs: 100, HR: 111, LHBHR: 110, RHBHR: 112, Singles: 98, Doubles: 95, Triples: 75}},
	{VenueID: 5, Name: "Progressive Field", Team: "CLE", Latitude: 41.4962, Longitude: -81.6852, Altitude: 650, Roof: RoofOpen, Bearing: 0, Factors: Factors{Runs: 97, HR: 96, LHBHR: 99, RHBHR: 93, Singles: 100, Doubles: 101, Triples: 80}},
	{VenueID: 7, Name: "Kauffman Stadium", Team: "KC", Latitude: 39.0517, Longitude: -94.4803, Altitude: 750, Roof: RoofOpen, Bearing: 45, Factors: Factors{Runs: 104, HR: 87, LHBHR: 88, RHBHR: 86, Singles: 105, Doubles: 110, Triples: 160}},
	{VenueID: 12, Name: "Tropicana Field", Team: "TB", Latitude: 27.7682, Longitude: -82.6534, Altitude: 45, Roof: RoofDome, Bearing: 45, Factors: Factors{Runs: 94, HR: 96, LHBHR: 95, RHBHR: 97, Singles: 97, Doubles: 94, Triples: 90}},
	{VenueID: 14, Name: "Rogers Centre", Team: "TOR", Latitude: 43.6414, Longitude: -79.3894, Altitude: 270, Roof: RoofRetractable, Bearing: 0, Factors: Factors{Runs: 100, HR: 104, LHBHR: 103, RHBHR: 105, Singles: 99, Doubles: 104, Triples: 85}},
	{VenueID: 15, Name: "Chase Field", Team: "ARI", Latitude: 33.4455, Longitude: -112.0667, Altitude: 1082, Roof: RoofRetractable, Bearing: 0, Factors: Factors{Runs: 103, HR: 92, LHBHR: 93, RHBHR: 91, Singles: 102, Doubles: 108, Triples: 175}},
	{VenueID: 17, Name: "Wrigley Field", Team: "CHC", Latitude: 41.9484, Longitude: -87.6553, Altitude: 595, Roof: RoofOpen, Bearing: 37, Factors: Factors{Runs: 99, HR: 100, LHBHR: 98, RHBHR: 102, Singles: 100, Doubles: 96, Triples: 105}},
	{VenueID: 19, Name: "Coors Field", Team: "COL", Latitude: 39.7559, Longitude: -104.9942, Altitude: 5200, Roof: RoofOpen, Bearing: 0, Factors: Factors{Runs: 113, HR: 112, LHBHR: 111, RHBHR: 113, Singles: 112, Doubles: 116, Triples: 190}},
	{VenueID: 22, Name: "Dodger Stadium", Team: "LAD", Latitude: 34.0739, Longitude: -118.2400, Altitude: 515, Roof: RoofOpen, Bearing: 26, Factors: Factors{Runs: 99, HR: 114, LHBHR: 112, RHBHR: 116, Singles: 96, Doubles: 94, Triples: 60}},
	{VenueID: 31, Name: "PNC Park", Team: "PIT", Latitude: 40.4469, Longitude: -80.0057, Altitude: 730, Roof: RoofOpen, Bearing: 116, Factors: Factors{Runs: 97, HR: 88, LHBHR: 94, RHBHR: 83, Singles: 101, Doubles: 104, Triples: 100}},
	{VenueID: 32, Name: "American Family Field", Team: "MIL", Latitude: 43.0280, Longitude: -87.9712, Altitude: 635, Roof: RoofRetractable, Bearing: 135, Factors: Factors{Runs: 100, HR: 108, LHBHR: 107, RHBHR: 109, Singles: 98, Doubles: 97, Triples: 85}},
	{VenueID: 680, Name: "T-Mobile Park", Team: "SEA", Latitude: 47.5914, Longitude: -122.3325, Altitude: 20, Roof: RoofRetractable, Bearing: 45, Factors: Factors{Runs: 92, HR: 95, LHBHR: 96, RHBHR: 94, Singles: 95, Doubles: 92, Triples: 80}},
	{VenueID: 2392, Name: "Minute Maid Park", Team: "HOU", Latitude: 29.7573, Longitude: -95.3555, Altitude: 40, Roof: RoofRetractable, Bearing: 345, Factors: Factors{Runs: 99, HR: 104, LHBHR: 98, RHBHR: 110, Singles: 99, Doubles: 98, Triples: 90}},
	{VenueID: 2394, Name: "Comerica Park", Team: "DET", Latitude: 42.3390, Longitude: -83.0485, Altitude: 600, Roof: RoofOpen, Bearing: 150, Factors: Factors{Runs: 98, HR: 91, LHBHR: 93, RHBHR: 89, Singles: 101, Doubles: 103, Triples: 140}},
	{VenueID: 2395, Name: "Oracle Park", Team: "SF", Latitude: 37.7786, Longitude: -122.3893, Altitude: 10, Roof: RoofOpen, Bearing: 90, Factors: Factors{Runs: 95, HR: 82, LHBHR: 76, RHBHR: 88, Singles: 101, Doubles: 106, Triples: 150}},
	{VenueID: 2529, Name: "Sutter Health Park", Team: "ATH", Latitude: 38.5803, Longitude: -121.5135, Altitude: 25, Roof: RoofOpen, Bearing: 60, Factors: Factors{Runs: 104, HR: 106, LHBHR: 105, RHBHR: 107, Singles: 102, Doubles: 101, Triples: 90}},
	{VenueID: 2602, Name: "Great American Ball Park", Team: "CIN", Latitude: 39.0975, Longitude: -84.5066, Altitude: 490, Roof: RoofOpen, Bearing: 122, Factors: Factors{Runs: 108, HR: 126, LHBHR: 124, RHBHR: 128, Singles: 99, Doubles: 100, Triples: 80}},
	{VenueID: 2680, Name: "Petco Park", Team: "SD", Latitude: 32.7073, Longitude: -117.1566, Altitude: 15, Roof: RoofOpen, Bearing: 0, Factors: Factors{Runs: 95, HR: 98, LHBHR: 97, RHBHR: 99, Singles: 96, Doubles: 95, Triples: 85}},
	{VenueID: 2681, Name: "Citizens Bank Park", Team: "PHI", Latitude: 39.9061, Longitude: -75.1665, Altitude: 20, Roof: RoofOpen, Bearing: 15, Factors: Factors{Runs: 104, HR: 114, LHBHR: 116, RHBHR: 112, Singles: 99, Doubles: 99, Triples: 85}},
	{VenueID: 2889, Name: "Busch Stadium", Team: "STL", Latitude: 38.6226, Longitude: -90.1928, Altitude: 465, Roof: RoofOpen, Bearing: 60, Factors: Factors{Runs: 96, HR: 89, LHBHR: 88, RHBHR: 90, Singles: 101, Doubles: 98, Triples: 90}},
	{VenueID: 3289, Name: "Citi Field", Team: "NYM", Latitude: 40.7571, Longitude: -73.8458, Altitude: 10, Roof: RoofOpen, Bearing: 13, Factors: Factors{Runs: 95, HR: 99, LHBHR: 97, RHBHR: 101, Singles: 96, Doubles: 92, Triples: 80}},
	{VenueID: 3309, Name: "Nationals Park", Team: "WSH", Latitude: 38.8730, Longitude: -77.0074, Altitude: 25, Roof: RoofOpen, Bearing: 30, Factors: Factors{Runs: 100, HR: 103, LHBHR: 101, RHBHR: 105, Singles: 100, Doubles: 101, Triples: 90}},
	{VenueID: 3312, Name: "Target Field", Team: "MIN", Latitude: 44.9817, Longitude: -93.2776, Altitude: 815, Roof: RoofOpen, Bearing: 90, Factors: Factors{Runs: 100, HR: 98, LHBHR: 96, RHBHR: 100, Singles: 101, Doubles: 104, Triples: 100}},
	{VenueID: 3313, Name: "Yankee Stadium", Team: "NYY", Latitude: 40.8296, Longitude: -73.9262, Altitude: 55, Roof: RoofOpen, Bearing: 75, Factors: Factors{Runs: 101, HR: 117, LHBHR: 124, RHBHR: 110, Singles: 97, Doubles: 91, Triples: 70}},
	{VenueID: 4169, Name: "loanDepot park", Team: "MIA", Latitude: 25.7781, Longitude: -80.2196, Altitude: 10, Roof: RoofRetractable, Bearing: 40, Factors: Factors{Runs: 94, HR: 90, LHBHR: 91, RHBHR: 89, Singles: 99, Doubles: 97, Triples: 110}},
	{VenueID: 4705, Name: "Truist Park", Team: "ATL", Latitude: 33.8907, Longitude: -84.4677, Altitude: 1050, Roof: RoofOpen, Bearing: 150, Factors: Factors{Runs: 101, HR: 104, LHBHR: 103, RHBHR: 105, Singles: 99, Doubles: 102, Triples: 85}},
	{VenueID: 5325, Name: "Globe Life Field", Team: "TEX", Latitude: 32.7473, Longitude: -97.0847, Altitude: 550, Roof: RoofRetractable, Bearing: 45, Factors: Factors{Runs: 97, HR: 101, LHBHR: 100, RHBHR: 102, Singles: 98, Doubles: 97, Triples: 85}},
}

// Provider implements dfs.BallparkProvider from the built-in table
type Provider struct {
	byVenue map[int]Park
}

// NewProvider indexes the park table
func NewProvider() *Provider {
	p := &Provider{byVenue: make(map[int]Park, len(parks))}
	for _, park := range parks {
		p.byVenue[park.VenueID] = park
	}
	return p
}

// Park returns the venue's record
func (p *Provider) Park(venueID int) (Park, bool) {
	park, ok := p.byVenue[venueID]
	return park, ok
}

// GetBallparkFactors converts the venue's 100-centred factors to multipliers.
// The table is multi-year, so every season gets the same factors.
func (p *Provider) GetBallparkFactors(_ context.Context, venueID int, season int) (dfs.BallparkFactor, error) {
	park, ok := p.byVenue[venueID]
	if !ok {
		return dfs.BallparkFactor{}, fmt.Errorf("venue %d: %w", venueID, dfs.ErrNotFound)
	}

	f := park.Factors
	return dfs.BallparkFactor{
		VenueID:     venueID,
		Season:      season,
		Runs:        f.Runs / 100,
		Singles:     f.Singles / 100,
		Doubles:     f.Doubles / 100,
		Triples:     f.Triples / 100,
		HomeRuns:    f.HR / 100,
		HomeRunsLHB: f.LHBHR / 100,
		HomeRunsRHB: f.RHBHR / 100,
		Known:       true,
	}, nil
}

// WindRelativeToField classifies a compass wind (the direction it blows from) against the park's
// orientation: blowing toward center field is out, toward home plate is in
func (p Park) WindRelativeToField(fromDegrees int) dfs.WindDirection {
	toward := (fromDegrees + 180) % 360
	diff := (toward - p.Bearing + 360) % 360
	switch {
	case diff <= 45 || diff >= 315:
		return dfs.WindOut
	case diff >= 135 && diff <= 225:
		return dfs.WindIn
	default:
		return dfs.WindCross
	}
}
