package search

// categorySynonyms maps each category to the Dutch and English words a
// visitor may type for it.
var categorySynonyms = map[string][]string{
	CategoryScience: {
		"science", "scientific", "wetenschap", "wetenschappelijk", "wetenschappen",
		"technology", "technologie", "tech", "biologie", "natuurwetenschap", "natuurwetenschappen",
	},
	CategoryHistory: {
		"history", "historic", "historical", "geschiedenis", "historisch", "erfgoed", "heritage",
	},
	CategoryArt: {
		"art", "arts", "kunst", "fine art", "klassieke kunst", "schilderkunst",
	},
	CategoryModernArt: {
		"modern art", "modern-art", "moderne kunst", "moderne-kunst", "contemporary art",
		"hedendaagse kunst", "digital art", "digitale kunst", "street art", "straatkunst",
	},
	CategoryPhotography: {
		"photography", "photograph", "photographs", "photo", "photos", "fotografie", "foto", "fotomuseum",
	},
	CategoryArchitecture: {
		"architecture", "architectuur", "architectural", "bouwkunst",
	},
	CategoryMaritime: {
		"maritime", "scheepvaart", "zeevaart", "shipping", "naval",
	},
	CategoryCulture: {
		"culture", "cultuur", "world cultures", "wereldculturen", "ethnography", "ethnographic",
		"ethnografisch", "ethnografische",
	},
	CategoryReligion: {
		"religion", "religie", "church", "kerk", "faith", "geloof",
	},
	CategoryFilm: {
		"film", "films", "cinema", "movie", "movies", "bioscoop",
	},
}
