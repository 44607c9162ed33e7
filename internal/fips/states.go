package fips

import "slices"

// stateAbbreviations maps state FIPS codes to USPS abbreviations for the 50
// states, DC, and Puerto Rico.
var stateAbbreviations = map[State]string{
	1: "AL", 2: "AK", 4: "AZ", 5: "AR", 6: "CA", 8: "CO", 9: "CT", 10: "DE",
	11: "DC", 12: "FL", 13: "GA", 15: "HI", 16: "ID", 17: "IL", 18: "IN",
	19: "IA", 20: "KS", 21: "KY", 22: "LA", 23: "ME", 24: "MD", 25: "MA",
	26: "MI", 27: "MN", 28: "MS", 29: "MO", 30: "MT", 31: "NE", 32: "NV",
	33: "NH", 34: "NJ", 35: "NM", 36: "NY", 37: "NC", 38: "ND", 39: "OH",
	40: "OK", 41: "OR", 42: "PA", 44: "RI", 45: "SC", 46: "SD", 47: "TN",
	48: "TX", 49: "UT", 50: "VT", 51: "VA", 53: "WA", 54: "WV", 55: "WI",
	56: "WY", 72: "PR",
}

// Abbreviation returns the USPS abbreviation for a state FIPS code.
func (s State) Abbreviation() (string, bool) {
	abbrev, ok := stateAbbreviations[s]
	return abbrev, ok
}

// AllStates returns the state FIPS codes for the 50 states, DC, and Puerto
// Rico in ascending order.
func AllStates() []State {
	out := make([]State, 0, len(stateAbbreviations))
	for s := range stateAbbreviations {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}
