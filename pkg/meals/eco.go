package meals

import (
	"fmt"
	"math"
	"strings"
)

// EcoScore grades a meal's carbon footprint per portion.
type EcoScore struct {
	Label       string `json:"label"`
	Tier        string `json:"tier"`
	Description string `json:"description"`
}

// ecoReferenceMaxKg is the footprint that maps to an empty eco meter.
const ecoReferenceMaxKg = 3.5

var ecoGrades = []struct {
	maxKg float64
	score EcoScore
}{
	{1.3, EcoScore{"A", "excellent", "Sehr klimafreundlich: ideal für ein leichtes CO2-Budget."}},
	{1.8, EcoScore{"B", "good", "Gut ausbalanciert mit niedrigem Emissionsfußabdruck."}},
	{2.3, EcoScore{"C", "balanced", "Solide Wahl: CO2-Emissionen im empfohlenen Bereich."}},
	{2.8, EcoScore{"D", "attention", "Noch optimierbar: wähle lokale Zutaten, um Emissionen zu senken."}},
}

// EcoScoreFor grades carbonKg from A (≤1.3 kg) to E (>2.8 kg).
func EcoScoreFor(carbonKg float64) EcoScore {
	if math.IsNaN(carbonKg) || math.IsInf(carbonKg, 0) {
		return EcoScore{Label: "–", Tier: "neutral", Description: "Keine Eco-Bewertung verfügbar."}
	}
	for _, g := range ecoGrades {
		if carbonKg <= g.maxKg {
			return g.score
		}
	}
	return EcoScore{"E", "critical", "Hoher CO2-Wert: verwende Alternativen mit saisonalen Produkten."}
}

// EcoMeterWidth returns the eco meter fill in percent, at least 8 for any
// finite footprint and 0 when the footprint is unknown.
func EcoMeterWidth(carbonKg float64) int {
	if math.IsNaN(carbonKg) || math.IsInf(carbonKg, 0) {
		return 0
	}
	clamped := math.Min(ecoReferenceMaxKg, math.Max(0, carbonKg))
	score := math.Round((ecoReferenceMaxKg - clamped) / ecoReferenceMaxKg * 100)
	return int(math.Max(8, score))
}

// FormatPrice renders a CHF amount with two decimals.
func FormatPrice(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return fmt.Sprintf("CHF %.2f", v)
}

// ProductPlaceholder returns two upper-case initials for a product without
// an image, taken from its placeholder or name.
func ProductPlaceholder(p Product) string {
	source := p.Placeholder
	if source == "" {
		source = p.Name
	}
	var sb strings.Builder
	for _, r := range source {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
			sb.WriteRune(r)
			if sb.Len() == 2 {
				break
			}
		}
	}
	if sb.Len() == 0 {
		return "PR"
	}
	return strings.ToUpper(sb.String())
}
