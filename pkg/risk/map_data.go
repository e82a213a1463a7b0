package risk

// TerritoryID identifies one of the 34 territories.
type TerritoryID string

// ContinentID identifies one of the 6 continents.
type ContinentID string

const (
	NorthAmerica ContinentID = "north-america"
	SouthAmerica ContinentID = "south-america"
	Europe       ContinentID = "europe"
	Africa       ContinentID = "africa"
	Asia         ContinentID = "asia"
	Australia    ContinentID = "australia"
)

// territoryOrder is the canonical iteration order for the map. Map
// iteration in Go is randomized, so anything that must be reproducible
// across runs (deck construction, round-robin distribution, planner
// tie-breaks) walks this slice instead of ranging over the map.
var territoryOrder = []TerritoryID{
	// North America
	"alaska", "northwest-territory", "greenland", "western-us",
	"eastern-us", "central-america",
	// South America
	"venezuela", "peru", "brazil", "argentina",
	// Europe
	"great-britain", "northern-europe", "western-europe",
	"southern-europe", "ukraine",
	// Africa
	"north-africa", "egypt", "congo", "east-africa", "south-africa",
	"madagascar",
	// Asia
	"middle-east", "ural", "siberia", "yakutsk", "kamchatka",
	"mongolia", "china", "india", "japan",
	// Australia
	"indonesia", "new-guinea", "western-australia", "eastern-australia",
}

type territoryDef struct {
	name      string
	continent ContinentID
	adjacent  []TerritoryID
}

var territoryDefs = map[TerritoryID]territoryDef{
	"alaska":              {"Alaska", NorthAmerica, []TerritoryID{"northwest-territory", "western-us", "kamchatka"}},
	"northwest-territory": {"Northwest Territory", NorthAmerica, []TerritoryID{"alaska", "greenland", "western-us", "eastern-us"}},
	"greenland":           {"Greenland", NorthAmerica, []TerritoryID{"northwest-territory", "eastern-us", "great-britain"}},
	"western-us":          {"Western US", NorthAmerica, []TerritoryID{"alaska", "northwest-territory", "eastern-us", "central-america"}},
	"eastern-us":          {"Eastern US", NorthAmerica, []TerritoryID{"northwest-territory", "greenland", "western-us", "central-america"}},
	"central-america":     {"Central America", NorthAmerica, []TerritoryID{"western-us", "eastern-us", "venezuela"}},

	"venezuela": {"Venezuela", SouthAmerica, []TerritoryID{"central-america", "peru", "brazil"}},
	"peru":      {"Peru", SouthAmerica, []TerritoryID{"venezuela", "brazil", "argentina"}},
	"brazil":    {"Brazil", SouthAmerica, []TerritoryID{"venezuela", "peru", "argentina", "north-africa"}},
	"argentina": {"Argentina", SouthAmerica, []TerritoryID{"peru", "brazil"}},

	"great-britain":   {"Great Britain", Europe, []TerritoryID{"greenland", "northern-europe", "western-europe"}},
	"northern-europe": {"Northern Europe", Europe, []TerritoryID{"great-britain", "western-europe", "southern-europe", "ukraine"}},
	"western-europe":  {"Western Europe", Europe, []TerritoryID{"great-britain", "northern-europe", "southern-europe", "north-africa"}},
	"southern-europe": {"Southern Europe", Europe, []TerritoryID{"northern-europe", "western-europe", "ukraine", "north-africa", "egypt", "middle-east"}},
	"ukraine":         {"Ukraine", Europe, []TerritoryID{"northern-europe", "southern-europe", "middle-east", "ural"}},

	"north-africa": {"North Africa", Africa, []TerritoryID{"brazil", "western-europe", "southern-europe", "egypt", "congo", "east-africa"}},
	"egypt":        {"Egypt", Africa, []TerritoryID{"southern-europe", "north-africa", "east-africa", "middle-east"}},
	"congo":        {"Congo", Africa, []TerritoryID{"north-africa", "east-africa", "south-africa"}},
	"east-africa":  {"East Africa", Africa, []TerritoryID{"north-africa", "egypt", "congo", "south-africa", "madagascar", "middle-east"}},
	"south-africa": {"South Africa", Africa, []TerritoryID{"congo", "east-africa", "madagascar"}},
	"madagascar":   {"Madagascar", Africa, []TerritoryID{"east-africa", "south-africa"}},

	"middle-east": {"Middle East", Asia, []TerritoryID{"southern-europe", "ukraine", "egypt", "east-africa", "india", "china"}},
	"ural":        {"Ural", Asia, []TerritoryID{"ukraine", "siberia", "china", "mongolia"}},
	"siberia":     {"Siberia", Asia, []TerritoryID{"ural", "yakutsk", "mongolia", "china"}},
	"yakutsk":     {"Yakutsk", Asia, []TerritoryID{"siberia", "kamchatka", "mongolia"}},
	"kamchatka":   {"Kamchatka", Asia, []TerritoryID{"alaska", "yakutsk", "mongolia", "japan"}},
	"mongolia":    {"Mongolia", Asia, []TerritoryID{"ural", "siberia", "yakutsk", "kamchatka", "china", "japan"}},
	"china":       {"China", Asia, []TerritoryID{"middle-east", "ural", "siberia", "mongolia", "india", "indonesia"}},
	"india":       {"India", Asia, []TerritoryID{"middle-east", "china", "indonesia"}},
	"japan":       {"Japan", Asia, []TerritoryID{"kamchatka", "mongolia"}},

	"indonesia":          {"Indonesia", Australia, []TerritoryID{"china", "india", "new-guinea", "western-australia"}},
	"new-guinea":         {"New Guinea", Australia, []TerritoryID{"indonesia", "western-australia", "eastern-australia"}},
	"western-australia":  {"Western Australia", Australia, []TerritoryID{"indonesia", "new-guinea", "eastern-australia"}},
	"eastern-australia":  {"Eastern Australia", Australia, []TerritoryID{"new-guinea", "western-australia"}},
}

type continentDef struct {
	name  string
	bonus int
}

var continentOrder = []ContinentID{
	NorthAmerica, SouthAmerica, Europe, Africa, Asia, Australia,
}

var continentDefs = map[ContinentID]continentDef{
	NorthAmerica: {"North America", 5},
	SouthAmerica: {"South America", 2},
	Europe:       {"Europe", 5},
	Africa:       {"Africa", 3},
	Asia:         {"Asia", 7},
	Australia:    {"Australia", 2},
}
