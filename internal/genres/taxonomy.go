package genres

import "strings"

// normalize lower-cases and trims a genre tag before lookup or accumulation.
func normalize(genre string) string {
	return strings.ToLower(strings.TrimSpace(genre))
}

// ParentOther is the sentinel category for genres no rule can place.
const ParentOther = "other"

// taxonomy maps each parent category to the specific genre tags that roll up
// into it. The streaming platform emits free-text genre strings, so the table
// only needs to cover the common tags; substring rules catch the long tail.
var taxonomy = map[string][]string{
	"pop": {
		"pop", "dance pop", "electropop", "indie pop", "synth-pop", "synthpop",
		"art pop", "baroque pop", "chamber pop", "dream pop", "hyperpop",
		"k-pop", "j-pop", "power pop", "bedroom pop", "bubblegum pop",
		"teen pop", "europop", "sophisti-pop", "swedish pop",
	},
	"rock": {
		"rock", "classic rock", "alternative rock", "hard rock", "soft rock",
		"psychedelic rock", "progressive rock", "garage rock", "glam rock",
		"grunge", "post-grunge", "britpop", "southern rock", "surf rock",
		"space rock", "math rock", "post-rock", "stoner rock", "yacht rock",
		"rock and roll", "rockabilly", "shoegaze", "krautrock", "indie rock",
	},
	"metal": {
		"metal", "heavy metal", "death metal", "black metal", "thrash metal",
		"doom metal", "power metal", "progressive metal", "nu metal",
		"metalcore", "deathcore", "sludge metal", "speed metal",
		"symphonic metal", "folk metal", "groove metal", "djent",
	},
	"hip hop": {
		"hip hop", "rap", "trap", "gangster rap", "conscious hip hop",
		"southern hip hop", "east coast hip hop", "west coast rap",
		"underground hip hop", "alternative hip hop", "boom bap", "drill",
		"uk drill", "grime", "cloud rap", "mumble rap", "emo rap",
		"melodic rap", "phonk",
	},
	"r&b": {
		"r&b", "rnb", "contemporary r&b", "alternative r&b", "neo soul",
		"new jack swing", "quiet storm", "urban contemporary", "funk",
		"g funk", "motown",
	},
	"electronic": {
		"electronic", "electronica", "edm", "dubstep", "drum and bass",
		"jungle", "breakbeat", "idm", "glitch", "downtempo", "trip hop",
		"ambient", "chillwave", "synthwave", "vaporwave", "future bass",
		"big room", "hardstyle", "gabber", "electro",
	},
	"house": {
		"house", "deep house", "tech house", "progressive house",
		"tropical house", "future house", "acid house", "electro house",
		"techno", "minimal techno", "detroit techno", "trance",
		"progressive trance", "psytrance", "garage", "uk garage",
	},
	"indie": {
		"indie", "indie folk", "indietronica", "lo-fi", "lo-fi indie",
		"freak folk", "slacker rock", "jangle pop", "twee pop", "c86",
	},
	"folk": {
		"folk", "folk rock", "americana", "singer-songwriter",
		"traditional folk", "celtic", "bluegrass", "appalachian folk",
		"anti-folk", "new americana", "stomp and holler",
	},
	"country": {
		"country", "contemporary country", "country rock", "country pop",
		"outlaw country", "classic country", "alt-country", "honky tonk",
		"nashville sound", "red dirt", "texas country",
	},
	"jazz": {
		"jazz", "smooth jazz", "vocal jazz", "cool jazz", "bebop",
		"hard bop", "free jazz", "jazz fusion", "swing", "big band",
		"dixieland", "nu jazz", "jazz funk", "bossa nova",
	},
	"classical": {
		"classical", "baroque", "romantic", "opera", "chamber music",
		"orchestral", "symphony", "early music", "modern classical",
		"contemporary classical", "minimalism", "neoclassical",
		"classical piano", "choral",
	},
	"latin": {
		"latin", "latin pop", "reggaeton", "salsa", "bachata", "merengue",
		"cumbia", "banda", "corrido", "mariachi", "latin rock",
		"latin alternative", "tropical", "urbano latino", "dembow",
	},
	"reggae": {
		"reggae", "roots reggae", "dancehall", "dub", "ska", "rocksteady",
		"reggae fusion", "lovers rock",
	},
	"punk": {
		"punk", "punk rock", "pop punk", "post-punk", "hardcore punk",
		"hardcore", "post-hardcore", "emo", "screamo", "skate punk",
		"ska punk", "oi", "riot grrrl", "crust punk",
	},
	"soul": {
		"soul", "southern soul", "northern soul", "psychedelic soul",
		"blue-eyed soul", "gospel", "doo-wop", "philly soul",
	},
	"blues": {
		"blues", "delta blues", "chicago blues", "electric blues",
		"blues rock", "country blues", "jump blues", "texas blues",
	},
}

// parentOrder fixes the iteration order for the substring passes so that
// classification is deterministic when more than one parent could match.
var parentOrder = []string{
	"pop", "rock", "metal", "hip hop", "r&b", "electronic", "house",
	"indie", "folk", "country", "jazz", "classical", "latin", "reggae",
	"punk", "soul", "blues",
}

// reverseIndex maps each child genre string to its parent, built once at
// startup.
var reverseIndex = buildReverseIndex()

func buildReverseIndex() map[string]string {
	index := make(map[string]string, 256)
	for parent, children := range taxonomy {
		for _, child := range children {
			index[child] = parent
		}
	}
	return index
}

// FindParentGenre classifies a free-text genre string into a parent
// category. Matching is attempted in order: exact reverse-index hit, parent
// name contained in the input, substring overlap with any known child tag,
// then the "other" sentinel. It never fails; any non-empty input yields a
// non-empty category.
func FindParentGenre(genre string) string {
	normalized := normalize(genre)
	if normalized == "" {
		return ParentOther
	}

	if parent, ok := reverseIndex[normalized]; ok {
		return parent
	}

	for _, parent := range parentOrder {
		if strings.Contains(normalized, parent) {
			return parent
		}
	}

	for _, parent := range parentOrder {
		for _, child := range taxonomy[parent] {
			if strings.Contains(normalized, child) || strings.Contains(child, normalized) {
				return parent
			}
		}
	}

	return ParentOther
}

// Parents returns the parent category names in classification order,
// excluding the sentinel.
func Parents() []string {
	names := make([]string, len(parentOrder))
	copy(names, parentOrder)
	return names
}
