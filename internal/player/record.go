package player

// StatusActive is the handicap status the site assigns to players whose
// index is current. Only active players can receive a playing handicap.
const StatusActive = "Aktif"

// Record is one player on the federation's handicap list.
type Record struct {
	FedNo         string   `json:"fed_no"`
	Name          string   `json:"name"`
	Club          string   `json:"club"`
	ClubCode      string   `json:"club_code"`
	HandicapIndex *float64 `json:"hcp_index"`
	Status        string   `json:"hcp_status"`
	Gender        string   `json:"gender"`
	AgeGroup      string   `json:"age_group"`
}

// Active reports whether the record carries a usable handicap index.
// The index field is meaningless unless the status is active, so callers
// must filter on this before calculating anything.
func (r Record) Active() bool {
	return r.HandicapIndex != nil && r.Status == StatusActive
}

// SplitActive partitions records into those with a usable handicap and the
// rest. The excluded slice is kept so callers can explain why a lookup
// produced nothing instead of reporting a bare "not found".
func SplitActive(records []Record) (active, excluded []Record) {
	for _, r := range records {
		if r.Active() {
			active = append(active, r)
		} else {
			excluded = append(excluded, r)
		}
	}
	return active, excluded
}

// Directory searches the handicap list. An empty result is a legitimate
// outcome, not an error; implementations return an error only when the
// search itself could not be performed.
type Directory interface {
	SearchByName(name string) ([]Record, error)
	SearchByFedNo(fedno string) ([]Record, error)
}
