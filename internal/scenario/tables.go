package scenario

import "time"

// StalkerScenarios are the predefined Stalker portals, keyed by MAC address.
func StalkerScenarios() map[string]Scenario {
	return map[string]Scenario{
		"00:1a:79:00:00:01": {
			Name:              "default",
			Description:       "Balanced portal: 8 categories, 40 items each",
			Seed:              1001,
			Categories:        Counts{Live: 8, Vod: 8, Series: 8},
			ItemsPerCategory:  40,
			SeasonsPerSeries:  3,
			EpisodesPerSeason: 8,
			Status:            StatusActive,
			ExpiresAt:         farFuture,
		},
		"00:1a:79:ff:ff:ff": {
			Name:              "large",
			Description:       "Large catalog: 20 categories, 200 items each",
			Seed:              9999,
			Categories:        Counts{Live: 20, Vod: 20, Series: 20},
			ItemsPerCategory:  200,
			SeasonsPerSeries:  5,
			EpisodesPerSeason: 12,
			Status:            StatusActive,
			ExpiresAt:         farFuture,
		},
		"00:1a:79:00:00:02": {
			Name:              "series-heavy",
			Description:       "Series-heavy portal with deep seasons",
			Seed:              2002,
			Categories:        Counts{Live: 3, Vod: 5, Series: 15},
			ItemsPerCategory:  30,
			SeasonsPerSeries:  6,
			EpisodesPerSeason: 10,
			Status:            StatusActive,
			ExpiresAt:         farFuture,
		},
		"00:1a:79:00:00:03": {
			Name:              "minimal",
			Description:       "Minimal portal: 2 categories, 5 items",
			Seed:              3003,
			Categories:        Counts{Live: 2, Vod: 2, Series: 2},
			ItemsPerCategory:  5,
			SeasonsPerSeries:  1,
			EpisodesPerSeason: 3,
			Status:            StatusActive,
			ExpiresAt:         farFuture,
		},
		"00:1a:79:00:00:04": {
			Name:              "is-series",
			Description:       "VOD with is_series=1 flag",
			Seed:              4004,
			Categories:        Counts{Live: 4, Vod: 6, Series: 4},
			ItemsPerCategory:  20,
			SeasonsPerSeries:  3,
			EpisodesPerSeason: 6,
			IsSeriesFraction:  0.6,
			Status:            StatusActive,
			ExpiresAt:         farFuture,
		},
		"00:1a:79:00:00:05": {
			Name:                   "embedded-series",
			Description:            "VOD with embedded series[] arrays",
			Seed:                   5005,
			Categories:             Counts{Live: 4, Vod: 6, Series: 4},
			ItemsPerCategory:       20,
			SeasonsPerSeries:       2,
			EpisodesPerSeason:      5,
			EmbeddedSeriesFraction: 0.5,
			Status:                 StatusActive,
			ExpiresAt:              farFuture,
		},
	}
}

// XtreamScenarios are the predefined Xtream accounts, keyed by "username:password".
func XtreamScenarios() map[string]Scenario {
	return map[string]Scenario{
		"user1:pass1": {
			Name:              "default",
			Description:       "Balanced portal: 8 categories, 40 items each",
			Seed:              1001,
			Categories:        Counts{Live: 8, Vod: 8, Series: 8},
			ItemsPerCategory:  40,
			SeasonsPerSeries:  3,
			EpisodesPerSeason: 8,
			Status:            StatusActive,
			ExpiresAt:         farFuture,
		},
		"large:large": {
			Name:              "large",
			Description:       "Large catalog: 20 categories, 200 items each",
			Seed:              9999,
			Categories:        Counts{Live: 20, Vod: 20, Series: 20},
			ItemsPerCategory:  200,
			SeasonsPerSeries:  5,
			EpisodesPerSeason: 12,
			Status:            StatusActive,
			ExpiresAt:         farFuture,
		},
		"series:series": {
			Name:              "series-heavy",
			Description:       "Series-heavy: 15 series categories, 6 seasons x 10 episodes",
			Seed:              2002,
			Categories:        Counts{Live: 3, Vod: 4, Series: 15},
			ItemsPerCategory:  30,
			SeasonsPerSeries:  6,
			EpisodesPerSeason: 10,
			Status:            StatusActive,
			ExpiresAt:         farFuture,
		},
		"minimal:minimal": {
			Name:              "minimal",
			Description:       "Minimal: 2 categories, 5 items",
			Seed:              3003,
			Categories:        Counts{Live: 2, Vod: 2, Series: 2},
			ItemsPerCategory:  5,
			SeasonsPerSeries:  1,
			EpisodesPerSeason: 3,
			Status:            StatusActive,
			ExpiresAt:         farFuture,
		},
		// Expired accounts keep status Active; the past exp_date is what clients check.
		"expired:expired": {
			Name:              "expired",
			Description:       "Expired account",
			Seed:              4004,
			Categories:        Counts{Live: 4, Vod: 4, Series: 4},
			ItemsPerCategory:  10,
			SeasonsPerSeries:  2,
			EpisodesPerSeason: 5,
			Status:            StatusActive,
			ExpiresAt:         date(2020, time.January, 1),
		},
		"inactive:inactive": {
			Name:              "inactive",
			Description:       "Disabled account",
			Seed:              5005,
			Categories:        Counts{Live: 4, Vod: 4, Series: 4},
			ItemsPerCategory:  10,
			SeasonsPerSeries:  2,
			EpisodesPerSeason: 5,
			Status:            StatusDisabled,
			ExpiresAt:         date(2020, time.January, 1),
		},
	}
}

// autoScenario is the shape given to identities without a named scenario.
func autoScenario(description string, seed uint64) Scenario {
	return Scenario{
		Name:              "auto",
		Description:       description,
		Seed:              seed,
		Categories:        Counts{Live: 6, Vod: 6, Series: 6},
		ItemsPerCategory:  30,
		SeasonsPerSeries:  3,
		EpisodesPerSeason: 8,
		Status:            StatusActive,
		ExpiresAt:         farFuture,
	}
}
