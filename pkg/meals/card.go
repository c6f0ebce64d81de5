package meals

import (
	"fmt"

	"github.com/NERVsystems/localhealth/pkg/stores"
)

// ProductLine is a shopping list entry ready for display.
type ProductLine struct {
	Product
	PriceText string `json:"price_text,omitempty"`
	Initials  string `json:"initials"`
}

// Card is a meal prepared for display: labels, eco score, formatted price,
// the shop tip for the selected chain and the recommended store.
type Card struct {
	Meal
	SeasonLabel      string        `json:"season_label"`
	GoalLabel        string        `json:"goal_label"`
	CarbonText       string        `json:"carbon_text"`
	Eco              EcoScore      `json:"eco_score"`
	EcoMeter         int           `json:"eco_meter"`
	PriceText        string        `json:"price_text,omitempty"`
	ShoppingList     []ProductLine `json:"shopping_list,omitempty"`
	ShopTip          string        `json:"shop_tip,omitempty"`
	RecommendedStore string        `json:"recommended_store,omitempty"`
}

// NewCard builds the display card for m. recommended is the store last
// suggested to the user; it is shown only when its chain is the selected one.
func NewCard(m Meal, sel Selection, recommended *stores.Ranked) Card {
	c := Card{
		Meal:        m,
		SeasonLabel: SeasonLabel(m.Season),
		GoalLabel:   GoalLabel(m.Goal),
		CarbonText:  fmt.Sprintf("%.1f kg CO2e", m.CarbonKg),
		Eco:         EcoScoreFor(m.CarbonKg),
		EcoMeter:    EcoMeterWidth(m.CarbonKg),
	}
	if m.PricePerPortion != nil {
		c.PriceText = FormatPrice(*m.PricePerPortion)
	}
	for _, p := range m.Products {
		line := ProductLine{Product: p, Initials: ProductPlaceholder(p)}
		if p.Price > 0 {
			line.PriceText = FormatPrice(p.Price)
		}
		c.ShoppingList = append(c.ShoppingList, line)
	}
	if sel.Chain != "" {
		c.ShopTip = m.ShopNotes[sel.Chain]
	}
	if recommended != nil && recommended.Chain == sel.Chain {
		c.RecommendedStore = "Empfohlener Laden: " + recommended.Name
		if recommended.DistanceText != "" {
			c.RecommendedStore += fmt.Sprintf(" (%s entfernt)", recommended.DistanceText)
		}
	}
	return c
}
