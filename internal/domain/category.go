package domain

import "regexp"

// tmSegmentMap maps Ticketmaster segment names to categories.
var tmSegmentMap = map[string]Category{
	"Music":          CategoryMusic,
	"Sports":         CategorySports,
	"Arts & Theatre": CategoryArts,
	"Film":           CategoryArts,
	"Miscellaneous":  CategoryOther,
}

// tmGenreMap maps Ticketmaster genre names to categories. Genre is more
// specific than segment and wins when both are present.
var tmGenreMap = map[string]Category{
	"Comedy":             CategoryNightlife,
	"Children's Theatre": CategoryFamily,
	"Children's Music":   CategoryFamily,
	"Circus":             CategoryFamily,
	"Magic":              CategoryFamily,
	"Dance":              CategoryArts,
	"Opera":              CategoryArts,
	"Classical":          CategoryArts,
	"Jazz":               CategoryMusic,
	"R&B":                CategoryMusic,
	"Pop":                CategoryMusic,
	"Rock":               CategoryMusic,
	"Country":            CategoryMusic,
	"Hip-Hop/Rap":        CategoryMusic,
	"Electronic":         CategoryNightlife,
	"Folk":               CategoryMusic,
	"Latin":              CategoryMusic,
	"World Music":        CategoryMusic,
	"Basketball":         CategorySports,
	"Football":           CategorySports,
	"Baseball":           CategorySports,
	"Soccer":             CategorySports,
	"Hockey":             CategorySports,
	"Tennis":             CategorySports,
	"Golf":               CategorySports,
	"Martial Arts":       CategorySports,
	"Wrestling":          CategorySports,
	"Boxing":             CategorySports,
	"Equestrian":         CategoryOutdoor,
	"Motor Sports":       CategorySports,
	"Festival":           CategoryFestival,
	"Food & Drink":       CategoryFood,
	"Fairs":              CategoryFestival,
	"Community/Civic":    CategoryCommunity,
	"Community/Social":   CategoryCommunity,
	"Family":             CategoryFamily,
	"Hobby":              CategoryCommunity,
	"Ice Shows":          CategoryFamily,
}

// MapTicketmasterCategory resolves a category from a Ticketmaster
// classification's segment and genre names. Genre overrides segment.
func MapTicketmasterCategory(segment, genre string) Category {
	if c, ok := tmGenreMap[genre]; ok && genre != "" {
		return c
	}
	if c, ok := tmSegmentMap[segment]; ok && segment != "" {
		return c
	}
	return CategoryOther
}

// eventbriteCategoryMap maps Eventbrite numeric category IDs to categories.
// See https://www.eventbrite.com/platform/api#/reference/categories
var eventbriteCategoryMap = map[string]Category{
	"101": CategoryCommunity, // Business & Professional
	"102": CategoryTech,      // Science & Technology
	"103": CategoryMusic,     // Music
	"104": CategoryArts,      // Film, Media & Entertainment
	"105": CategoryArts,      // Performing & Visual Arts
	"106": CategoryFestival,  // Fashion & Beauty
	"107": CategoryEducation, // Health & Wellness
	"108": CategorySports,    // Sports & Fitness
	"109": CategoryOutdoor,   // Travel & Outdoor
	"110": CategoryFood,      // Food & Drink
	"111": CategoryNightlife, // Nightlife
	"112": CategoryCommunity, // Government & Politics
	"113": CategoryCommunity, // Community & Culture
	"114": CategoryCommunity, // Religion & Spirituality
	"115": CategoryFamily,    // Family & Education
	"116": CategoryCommunity, // Charity & Causes
	"199": CategoryOther,     // Other
}

// MapEventbriteCategory resolves a category from an Eventbrite category ID.
func MapEventbriteCategory(categoryID string) Category {
	if c, ok := eventbriteCategoryMap[categoryID]; ok {
		return c
	}
	return CategoryOther
}

// keywordPattern pairs a compiled pattern with the category it implies.
// Ordered: the first match wins, so more specific vocabularies come first.
type keywordPattern struct {
	re       *regexp.Regexp
	category Category
}

var keywordPatterns = []keywordPattern{
	{regexp.MustCompile(`(?i)\b(concert|band|dj|live music|singer|songwriter|orchestra|symphony|jazz|blues|rock|hip[- ]?hop|rap|edm|karaoke)\b`), CategoryMusic},
	{regexp.MustCompile(`(?i)\b(gallery|exhibit|museum|art walk|paint|sculpture|theater|theatre|ballet|opera|dance performance|poetry|spoken word)\b`), CategoryArts},
	{regexp.MustCompile(`(?i)\b(game|match|tournament|championship|soccer|football|basketball|baseball|tennis|golf|wrestling|boxing|mma|racing)\b`), CategorySports},
	{regexp.MustCompile(`(?i)\b(food truck|tasting|brunch|dinner|cooking class|wine|beer|brewery|cocktail|chef|culinary|bbq|barbecue|foodie)\b`), CategoryFood},
	{regexp.MustCompile(`(?i)\b(tech|hackathon|coding|developer|startup|ai\b|machine learning|cyber|software|web3|blockchain)\b`), CategoryTech},
	{regexp.MustCompile(`(?i)\b(kids|children|family|toddler|puppet|storytime|story time|bounce house|petting zoo|easter egg|trick or treat)\b`), CategoryFamily},
	{regexp.MustCompile(`(?i)\b(bar crawl|club|nightclub|drag|burlesque|happy hour|comedy show|comedy night|stand[- ]?up|open mic|late night)\b`), CategoryNightlife},
	{regexp.MustCompile(`(?i)\b(hike|kayak|paddle|bike|cycling|run\b|running|5k|10k|marathon|trail|nature|park|garden|outdoor|camping|fishing|surf)\b`), CategoryOutdoor},
	{regexp.MustCompile(`(?i)\b(workshop|class|seminar|lecture|panel|webinar|conference|summit|training|education|learn|course|certification)\b`), CategoryEducation},
	{regexp.MustCompile(`(?i)\b(festival|fest\b|carnival|fiesta|celebration|block party|parade|fireworks|gala)\b`), CategoryFestival},
	{regexp.MustCompile(`(?i)\b(market|farmer|flea|craft fair|vendor|artisan|swap meet|bazaar|pop[- ]?up shop)\b`), CategoryMarket},
	{regexp.MustCompile(`(?i)\b(volunteer|cleanup|fundrais|charity|nonprofit|community meeting|town hall|civic|neighborhood)\b`), CategoryCommunity},
}

// InferCategory guesses a category from free text (title + tags +
// description concatenated). Used by the scrapers and the keyword aggregator,
// which have no structured taxonomy to map from.
func InferCategory(text string) Category {
	for _, kp := range keywordPatterns {
		if kp.re.MatchString(text) {
			return kp.category
		}
	}
	return CategoryOther
}
