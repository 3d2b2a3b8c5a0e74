package scorepage

// Selectors bundles the CSS selectors the adapter scrapes. They are a
// single value so a site redesign means one override, not a code hunt.
type Selectors struct {
	// RegionLinks matches region links on the site index page.
	RegionLinks string
	// CompetitionLinks matches competition links on a region page.
	CompetitionLinks string
	// MatchRows matches one result row per match on a season page.
	MatchRows string
	// ShowMore matches the "show more matches" control.
	ShowMore string
	// HomeTeam, AwayTeam, HomeScore, AwayScore, Status and StartTime
	// match fields on a match detail page.
	HomeTeam  string
	AwayTeam  string
	HomeScore string
	AwayScore string
	Status    string
	StartTime string
	// InfoRows matches key/value detail rows (venue, referee, round).
	InfoRows      string
	InfoRowLabel  string
	InfoRowValue  string
	// StatRows matches one statistics row; the three children carry
	// home value, stat name, away value.
	StatRows     string
	StatRowHome  string
	StatRowName  string
	StatRowAway  string
}

// DefaultSelectors returns the selector set for the current site layout.
func DefaultSelectors() Selectors {
	return Selectors{
		RegionLinks:      "aside .menu--regions a[href]",
		CompetitionLinks: "aside .menu--competitions a[href]",
		MatchRows:        "div.event__match[id]",
		ShowMore:         "a.event__more",
		HomeTeam:         ".duelParticipant__home .participant__participantName",
		AwayTeam:         ".duelParticipant__away .participant__participantName",
		HomeScore:        ".detailScore__wrapper span:nth-child(1)",
		AwayScore:        ".detailScore__wrapper span:nth-child(3)",
		Status:           ".detailScore__status",
		StartTime:        ".duelParticipant__startTime",
		InfoRows:         ".matchInfoItem",
		InfoRowLabel:     ".matchInfoItem__label",
		InfoRowValue:     ".matchInfoItem__value",
		StatRows:         ".stat__row",
		StatRowHome:      ".stat__homeValue",
		StatRowName:      ".stat__categoryName",
		StatRowAway:      ".stat__awayValue",
	}
}

// matchIDPrefix is the element-id prefix the site puts before the
// natural match id on result rows.
const matchIDPrefix = "g_1_"

// feedURLFragment appears in the URL of the background request that
// delivers additional result rows after a "show more" click.
const feedURLFragment = "/x/feed/"
