// Package openweather fills in game-time weather for outdoor parks when the schedule feed has none.
package openweather

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/mlb-dfs-projections/internal/dfs"
	"github.com/jstittsworth/mlb-dfs-projections/internal/providers"
	"github.com/jstittsworth/mlb-dfs-projections/internal/providers/ballparks"
)

// calm below this speed, mph
const calmWind = 1.0

// Config holds the API credentials
type Config struct {
	APIKey   string
	BaseURL  string
	CacheTTL time.Duration
}

type currentWeather struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   int     `json:"deg"`
	} `json:"wind"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
}

// Provider decorates another EnvironmentProvider. Domes short-circuit to an indoor
// environment and unknown outdoor reports are filled from OpenWeatherMap.
type Provider struct {
	next   dfs.EnvironmentProvider
	api    *providers.Client
	parks  *ballparks.Provider
	cfg    Config
	logger *logrus.Logger
}

// NewProvider wraps next, which may be nil
func NewProvider(next dfs.EnvironmentProvider, api *providers.Client, parks *ballparks.Provider, cfg Config, logger *logrus.Logger) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openweathermap.org/data/2.5"
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}
	return &Provider{next: next, api: api, parks: parks, cfg: cfg, logger: logger}
}

// GetGameEnvironmentData implements dfs.EnvironmentProvider
func (p *Provider) GetGameEnvironmentData(ctx context.Context, game dfs.GameRef) (*dfs.EnvironmentContext, error) {
	park, known := p.parks.Park(game.Venue.ID)
	if known && park.Indoor() {
		env := dfs.IndoorEnvironment(game.GamePk, game.Venue)
		return &env, nil
	}

	var (
		base    *dfs.EnvironmentContext
		nextErr error
	)
	if p.next != nil {
		base, nextErr = p.next.GetGameEnvironmentData(ctx, game)
		if nextErr == nil && base != nil && base.Known {
			return base, nil
		}
	}

	if !known || p.cfg.APIKey == "" {
		return orUnknown(base, nextErr, game)
	}

	env, err := p.current(ctx, game, park)
	if err != nil {
		p.logger.WithError(err).WithFields(logrus.Fields{
			"game_pk": game.GamePk,
			"venue":   park.Name,
		}).Warn("Weather lookup failed")
		return orUnknown(base, nextErr, game)
	}
	return env, nil
}

func (p *Provider) current(ctx context.Context, game dfs.GameRef, park ballparks.Park) (*dfs.EnvironmentContext, error) {
	params := url.Values{}
	params.Add("lat", strconv.FormatFloat(park.Latitude, 'f', 4, 64))
	params.Add("lon", strconv.FormatFloat(park.Longitude, 'f', 4, 64))
	params.Add("appid", p.cfg.APIKey)
	params.Add("units", "imperial")
	endpoint := fmt.Sprintf("%s/weather?%s", p.cfg.BaseURL, params.Encode())

	var resp currentWeather
	key := fmt.Sprintf("owm:venue:%d", park.VenueID)
	if err := p.api.GetJSON(ctx, endpoint, key, p.cfg.CacheTTL, &resp); err != nil {
		return nil, err
	}

	dir := park.WindRelativeToField(resp.Wind.Deg)
	if resp.Wind.Speed < calmWind {
		dir = dfs.WindCalm
	}
	env := dfs.EnvironmentContext{
		GamePk:        game.GamePk,
		Venue:         game.Venue,
		Temperature:   resp.Main.Temp,
		WindSpeed:     resp.Wind.Speed,
		WindDirection: dir,
		Outdoor:       true,
		Known:         true,
	}
	if len(resp.Weather) > 0 {
		env.Condition = resp.Weather[0].Main
	}
	return &env, nil
}

func orUnknown(base *dfs.EnvironmentContext, err error, game dfs.GameRef) (*dfs.EnvironmentContext, error) {
	if err != nil {
		return nil, err
	}
	if base != nil {
		return base, nil
	}
	env := dfs.UnknownEnvironment(game.GamePk, game.Venue)
	return &env, nil
}
