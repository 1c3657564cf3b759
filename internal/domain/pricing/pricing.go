// Package pricing derives player market prices from season output and form.
package pricing

import "github.com/schoolleague/fantasy-engine/internal/domain/player"

const (
	matchBonusPerGame = 0.1
	matchBonusCap     = 2.0
	assistBonus       = 0.3
	redCardMalus      = 0.5
	teamCaptainBonus  = 1.0
	ratingFloor       = 70
	ratingStep        = 0.1

	maxDelta = 0.5
)

var basePriceByPosition = map[player.Position]float64{
	player.PositionGoalkeeper: 4.5,
	player.PositionDefender:   5.0,
	player.PositionMidfielder: 6.0,
	player.PositionForward:    7.0,
}

var goalBonusByPosition = map[player.Position]float64{
	player.PositionGoalkeeper: 0.8,
	player.PositionDefender:   0.6,
	player.PositionMidfielder: 0.4,
	player.PositionForward:    0.5,
}

// CalculateInitialPrice sets a player's opening market price from season
// stats. The result is always inside [player.MinPrice, player.MaxPrice].
func CalculateInitialPrice(p player.Player) float64 {
	price := basePriceByPosition[p.Position]

	stats := p.SeasonStats
	price += float64(stats.Goals) * goalBonusByPosition[p.Position]
	price += float64(stats.Assists) * assistBonus

	matchBonus := float64(stats.MatchesPlayed) * matchBonusPerGame
	if matchBonus > matchBonusCap {
		matchBonus = matchBonusCap
	}
	price += matchBonus

	price -= float64(stats.RedCards) * redCardMalus

	if p.IsTeamCaptain {
		price += teamCaptainBonus
	}
	if p.OverallRating > ratingFloor {
		price += float64(p.OverallRating-ratingFloor) * ratingStep
	}

	return clampPrice(price)
}

// CalculatePriceChange maps recent form onto a bounded price delta. Branches
// form an ordered chain: the first matching bucket wins, so an average of 6.5
// lands in the >6 bucket, never the >4 one. An empty history moves nothing.
func CalculatePriceChange(formHistory []int) float64 {
	if len(formHistory) == 0 {
		return 0
	}

	recent := formHistory
	if len(recent) > player.FormWindow {
		recent = recent[len(recent)-player.FormWindow:]
	}

	sum := 0
	for _, points := range recent {
		sum += points
	}
	avg := float64(sum) / float64(len(recent))

	var delta float64
	switch {
	case avg > 8:
		delta = 0.3
	case avg > 6:
		delta = 0.2
	case avg > 4:
		delta = 0.1
	case avg < 2:
		delta = -0.3
	case avg < 3:
		delta = -0.2
	default:
		delta = 0
	}

	if delta > maxDelta {
		delta = maxDelta
	}
	if delta < -maxDelta {
		delta = -maxDelta
	}
	return delta
}

// ApplyDelta moves a price by a delta and keeps it inside the market bounds.
func ApplyDelta(price, delta float64) float64 {
	return clampPrice(price + delta)
}

func clampPrice(price float64) float64 {
	if price < player.MinPrice {
		return player.MinPrice
	}
	if price > player.MaxPrice {
		return player.MaxPrice
	}
	return price
}
