package gazetteer

import "github.com/NERVsystems/localhealth/pkg/geo"

var defaultEntries = []Entry{
	{
		Label:    "Zumikon (8126)",
		Location: geo.Coordinate{Latitude: 47.3310, Longitude: 8.6220},
		Matchers: [][]string{{"zumikon"}, {"8126"}, {"zumikon", "8126"}},
	},
	{
		Label:    "Wiesenstrasse 12, 8126 Zumikon",
		Location: geo.Coordinate{Latitude: 47.3315, Longitude: 8.6215},
		Matchers: [][]string{
			{"wiesenstrasse", "8126"},
			{"wiesenstrasse", "zumikon"},
			{"wiesenstrasse", "12", "8126"},
			{"wiesenstrasse12"},
		},
	},
	{
		Label:    "Zuerich Zentrum (8001)",
		Display:  "Zürich Zentrum (8001)",
		Location: geo.Coordinate{Latitude: 47.3717, Longitude: 8.5420},
		Matchers: [][]string{{"zuerich"}, {"zurich"}, {"8001"}, {"zuerich", "8001"}},
	},
	{
		Label:    "Bahnhofstrasse 1, 8001 Zuerich",
		Display:  "Bahnhofstrasse 1, 8001 Zürich",
		Location: geo.Coordinate{Latitude: 47.3717, Longitude: 8.5398},
		Matchers: [][]string{
			{"bahnhofstrasse", "1", "zuerich"},
			{"bahnhofstrasse", "1", "zurich"},
			{"bahnhofstrasse", "8001"},
			{"bahnhofstrasse1"},
		},
	},
	{
		Label:    "Duebendorf (8600)",
		Display:  "Dübendorf (8600)",
		Location: geo.Coordinate{Latitude: 47.3981, Longitude: 8.6187},
		Matchers: [][]string{{"duebendorf"}, {"8600"}, {"duebendorf", "8600"}},
	},
	{
		Label:    "Uster (8610)",
		Location: geo.Coordinate{Latitude: 47.3468, Longitude: 8.7204},
		Matchers: [][]string{{"uster"}, {"8610"}, {"uster", "8610"}},
	},
	{
		Label:    "Meilen (8706)",
		Location: geo.Coordinate{Latitude: 47.2700, Longitude: 8.6460},
		Matchers: [][]string{{"meilen"}, {"8706"}},
	},
	{
		Label:    "Winterthur (8400)",
		Location: geo.Coordinate{Latitude: 47.4988, Longitude: 8.7241},
		Matchers: [][]string{{"winterthur"}, {"8400"}},
	},
	{
		Label:    "Kuesnacht (8700)",
		Display:  "Küsnacht (8700)",
		Location: geo.Coordinate{Latitude: 47.3185, Longitude: 8.5843},
		Matchers: [][]string{{"kuesnacht"}, {"8700"}, {"kuesnacht", "8700"}},
	},
	{
		Label:    "Bahnhofstrasse 24, 8700 Kuesnacht",
		Display:  "Bahnhofstrasse 24, 8700 Küsnacht",
		Location: geo.Coordinate{Latitude: 47.3182, Longitude: 8.5826},
		Matchers: [][]string{
			{"bahnhofstrasse", "24", "kuesnacht"},
			{"bahnhofstrasse", "8700"},
			{"bahnhofstrasse24"},
		},
	},
	{
		Label:    "Staefa (8712)",
		Display:  "Stäfa (8712)",
		Location: geo.Coordinate{Latitude: 47.2427, Longitude: 8.7236},
		Matchers: [][]string{{"stafa"}, {"staefa"}, {"8712"}},
	},
}

// Default returns the gazetteer of supported Zurich-area locations.
func Default() *Gazetteer {
	return New(defaultEntries)
}
