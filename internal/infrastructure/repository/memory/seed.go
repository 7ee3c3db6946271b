package memory

import (
	"time"

	"github.com/riskibarqy/sports-sync/internal/domain/datasource"
	"github.com/riskibarqy/sports-sync/internal/domain/sport"
)

func SeedSports() []sport.Sport {
	return []sport.Sport{
		{ID: sport.FootballID, Name: "Football", Slug: "football", IsActive: true},
	}
}

func SeedDataSources() []datasource.DataSource {
	return []datasource.DataSource{
		{
			Name:            "api_football",
			SourceType:      datasource.TypeFootballAPI,
			APIURL:          "https://v3.football.api-sports.io",
			RateLimitCalls:  100,
			RateLimitWindow: 24 * time.Hour,
			IsActive:        true,
		},
		{
			Name:            "football_data",
			SourceType:      datasource.TypeFootballAPI,
			APIURL:          "https://api.football-data.org/v4",
			RateLimitCalls:  10,
			RateLimitWindow: time.Minute,
			IsActive:        true,
		},
	}
}
