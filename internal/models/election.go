package models

// Parties is the fixed list of political parties a constituency can be
// predicted for. The slice order matters: it is the tie-break order when
// deriving the overall winner, so keep it a slice, not a map.
var Parties = []string{
	"BJP", // Bharatiya Janata Party
	"JDU", // Janata Dal (United)
	"RJD", // Rashtriya Janata Dal
	"INC", // Indian National Congress
	"LJP", // Lok Janshakti Party
}

// BiharAreas is the closed set of valid areas a constituency belongs to.
var BiharAreas = []string{
	"Valmiki Nagar", "Paschim Champaran", "Purvi Champaran", "Sheohar",
	"Sitamarhi", "Madhubani", "Jhanjharpur", "Supaul", "Araria",
	"Kishanganj", "Katihar", "Purnia", "Madhepura", "Darbhanga",
	"Muzaffarpur", "Vaishali", "Gopalganj (SC)", "Siwan", "Maharajganj",
	"Saran", "Hajipur (SC)", "Ujiarpur", "Samastipur (SC)", "Begusarai",
	"Khagaria", "Bhagalpur", "Banka", "Munger", "Nalanda", "Patna Sahib",
	"Pataliputra", "Arrah", "Buxar", "Sasaram (SC)", "Karakat",
	"Jehanabad", "Aurangabad", "Gaya (SC)", "Nawada", "Jamui (SC)",
}

const (
	// DefaultState is the region scope a prediction set belongs to unless
	// the caller says otherwise.
	DefaultState = "Bihar"

	// DefaultTotalConstituencies is the progress ceiling (Bihar has 243
	// assembly constituencies).
	DefaultTotalConstituencies = 243

	// MinPredictionsToSubmit is the record floor below which a set cannot
	// be submitted.
	MinPredictionsToSubmit = 50
)

// IsValidParty reports whether party is in the fixed party list.
func IsValidParty(party string) bool {
	for _, p := range Parties {
		if p == party {
			return true
		}
	}
	return false
}

// IsValidArea reports whether area is in the fixed area list.
func IsValidArea(area string) bool {
	for _, a := range BiharAreas {
		if a == area {
			return true
		}
	}
	return false
}
