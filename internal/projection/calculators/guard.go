package calculators

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/mlb-dfs-projections/internal/dfs"
)

// Func is the shape every category calculator is run through
type Func func() ([]dfs.CategoryResult, error)

var errNonFinite = errors.New("non-finite calculator output")

// Guard runs fn and returns one result per category. A returned error, a recovered panic,
// a non-finite value or a category fn forgot to produce is replaced by Default(category)
// and logged at warn level.
func Guard(log logrus.FieldLogger, categories []dfs.Category, fn Func) (results []dfs.CategoryResult) {
	defer func() {
		if r := recover(); r != nil {
			results = fallback(log, categories, fmt.Errorf("panic: %v", r))
		}
	}()

	out, err := fn()
	if err != nil {
		return fallback(log, categories, err)
	}

	byCategory := make(map[dfs.Category]dfs.CategoryResult, len(out))
	for _, r := range out {
		if !finite(r.ExpectedValue) || !finite(r.PointValue) || !finite(float64(r.Confidence)) {
			return fallback(log, categories, fmt.Errorf("%w in %s", errNonFinite, r.Category))
		}
		byCategory[r.Category] = r
	}

	results = make([]dfs.CategoryResult, 0, len(categories))
	for _, c := range categories {
		r, ok := byCategory[c]
		if !ok {
			warn(log, c, fmt.Errorf("%w: %s not produced", dfs.ErrShapeMismatch, c))
			r = Default(c)
		}
		results = append(results, r)
	}
	return results
}

func fallback(log logrus.FieldLogger, categories []dfs.Category, err error) []dfs.CategoryResult {
	results := make([]dfs.CategoryResult, 0, len(categories))
	for _, c := range categories {
		warn(log, c, err)
		results = append(results, Default(c))
	}
	return results
}

// FallbackMessage is logged once per category that fell back to its default
const FallbackMessage = "Category calculator fell back to default"

func warn(log logrus.FieldLogger, c dfs.Category, err error) {
	if log == nil {
		return
	}
	log.WithFields(logrus.Fields{
		"category": c,
		"reason":   dfs.FailureReason(err),
	}).WithError(err).Warn(FallbackMessage)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// league-average opportunity assumptions behind the defaults
const (
	defaultPlateAppearances = 4.0
	defaultAtBatShare       = 1 - dfs.LeagueWalkRate - dfs.LeagueHBPRate - dfs.LeagueSacFlyRate
	defaultBattersFaced     = dfs.LeagueInningsPerStart * (2.9 + dfs.LeagueWHIP)
)

// Default is the documented league-average result for a category, at the confidence floor
func Default(c dfs.Category) dfs.CategoryResult {
	ab := defaultPlateAppearances * defaultAtBatShare
	ip := dfs.LeagueInningsPerStart

	var expected float64
	switch c {
	case dfs.CategorySingles:
		expected = dfs.LeagueSingleRate * ab
	case dfs.CategoryDoubles:
		expected = dfs.LeagueDoubleRate * ab
	case dfs.CategoryTriples:
		expected = dfs.LeagueTripleRate * ab
	case dfs.CategoryHomeRuns:
		expected = gameProbability(dfs.LeagueHomeRunRate, ab)
	case dfs.CategoryRuns:
		expected = dfs.LeagueRunRate * defaultPlateAppearances
	case dfs.CategoryRBIs:
		expected = dfs.LeagueRBIRate * defaultPlateAppearances
	case dfs.CategoryWalks:
		expected = (dfs.LeagueWalkRate + dfs.LeagueHBPRate) * defaultPlateAppearances
	case dfs.CategoryStolenBases:
		expected = defaultStolenBaseProbability
	case dfs.CategoryStrikeouts:
		expected = dfs.LeagueStrikeoutRate * defaultBattersFaced
	case dfs.CategoryInningsPitched:
		expected = ip
	case dfs.CategoryWins:
		expected = 0.5 * decisionShare(ip)
	case dfs.CategoryEarnedRuns:
		expected = dfs.LeagueERA * ip / 9
	case dfs.CategoryHitsAllowed:
		expected = dfs.LeagueHPer9 * ip / 9
	case dfs.CategoryWalksAllowed:
		expected = (dfs.LeagueBBPer9 + dfs.LeagueHBPPer9) * ip / 9
	case dfs.CategoryRareEvents:
		r := rareEventResult(rareEventOdds{
			CompleteGame: dfs.LeagueCompleteGame,
			Shutout:      minShutout,
			NoHitter:     minNoHitter,
			PerfectGame:  minPerfectGame,
		}, dfs.ConfidenceFloor, nil)
		r.Defaulted = true
		return r
	}

	r := dfs.NewResult(c, expected, dfs.ConfidenceFloor, nil)
	r.Defaulted = true
	return r
}

// Defaults returns Default for every category in order
func Defaults(categories []dfs.Category) []dfs.CategoryResult {
	out := make([]dfs.CategoryResult, 0, len(categories))
	for _, c := range categories {
		out = append(out, Default(c))
	}
	return out
}
