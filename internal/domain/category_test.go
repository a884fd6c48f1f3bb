package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapTicketmasterCategory(t *testing.T) {
	tests := []struct {
		name     string
		segment  string
		genre    string
		expected Category
	}{
		{"music segment", "Music", "", CategoryMusic},
		{"sports segment", "Sports", "", CategorySports},
		{"arts segment", "Arts & Theatre", "", CategoryArts},
		{"genre overrides segment", "Music", "Comedy", CategoryNightlife},
		{"childrens theatre is family", "Arts & Theatre", "Children's Theatre", CategoryFamily},
		{"festival genre", "Music", "Festival", CategoryFestival},
		{"unknown falls back to segment", "Sports", "UnknownGenre", CategorySports},
		{"unknown everything", "Unknown", "Unknown", CategoryOther},
		{"empty", "", "", CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapTicketmasterCategory(tt.segment, tt.genre))
		})
	}
}

func TestMapEventbriteCategory(t *testing.T) {
	assert.Equal(t, CategoryMusic, MapEventbriteCategory("103"))
	assert.Equal(t, CategoryTech, MapEventbriteCategory("102"))
	assert.Equal(t, CategoryOther, MapEventbriteCategory("199"))
	assert.Equal(t, CategoryOther, MapEventbriteCategory(""))
	assert.Equal(t, CategoryOther, MapEventbriteCategory("does-not-exist"))
}

func TestInferCategory(t *testing.T) {
	tests := []struct {
		text     string
		expected Category
	}{
		{"Live Concert at the Park", CategoryMusic},
		{"Jazz Night with DJ", CategoryMusic},
		{"Gallery Opening Night", CategoryArts},
		{"Basketball Tournament", CategorySports},
		{"Soccer Match: Lions vs Tigers", CategorySports},
		{"Food Truck Rally", CategoryFood},
		{"Wine Tasting Experience", CategoryFood},
		{"AI Hackathon 2026", CategoryTech},
		{"Kids Puppet Show", CategoryFamily},
		{"Bar Crawl Downtown", CategoryNightlife},
		{"Stand-up Comedy Night", CategoryNightlife},
		{"Morning Hike", CategoryOutdoor},
		{"5K Fun Run", CategoryOutdoor},
		{"Workshop on Photography", CategoryEducation},
		{"Orlando Film Festival", CategoryFestival},
		{"Flea Market Sunday", CategoryMarket},
		{"Volunteer Beach Cleanup", CategoryCommunity},
		{"Mystery Gathering", CategoryOther},
		{"", CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.expected, InferCategory(tt.text))
		})
	}
}
