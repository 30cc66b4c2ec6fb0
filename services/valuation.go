package services

import (
	"math"
	"strings"

	"github.com/avvalues/trade-hub/model"
	"github.com/avvalues/trade-hub/shared"
)

func SumOfferValues(items []model.OfferItem) float64 {
	var total float64
	for _, item := range items {
		if math.IsNaN(item.Value) || math.IsInf(item.Value, 0) {
			continue
		}
		total += item.Value
	}
	return total
}

// ComputeVerdict judges the trade from the advertiser's side: giving less than
// you receive is a win.
func ComputeVerdict(p1Total, p2Total float64) string {
	switch {
	case p1Total == p2Total:
		return shared.VerdictFair
	case p1Total < p2Total:
		return shared.VerdictWin
	default:
		return shared.VerdictLoss
	}
}

// DeriveTitle names a trade after its items, "<offered> for <wanted>", with "?"
// standing in for an empty side.
func DeriveTitle(player1, player2 []model.OfferItem) string {
	offered := joinNames(player1)
	wanted := joinNames(player2)
	if offered == "" && wanted == "" {
		return ""
	}
	if offered == "" {
		offered = "?"
	}
	if wanted == "" {
		wanted = "?"
	}
	return offered + " for " + wanted
}

func joinNames(items []model.OfferItem) string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		if name := strings.TrimSpace(item.Name); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}
