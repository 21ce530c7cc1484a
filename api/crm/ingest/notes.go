package ingest

// LatestNote returns the most recent note of a unit's history: greatest
// Ts first, ties (including all-zero Ts legacy entries) broken by Date
// descending lexically. An absent or empty list yields the zero-value
// sentinel rather than an error.
func LatestNote(notes []Note) Note {
	var best Note
	found := false
	for _, n := range notes {
		if !found || newerNote(n, best) {
			best = n
			found = true
		}
	}
	if !found {
		return Note{}
	}
	return best
}

func newerNote(a, b Note) bool {
	if a.Ts != b.Ts {
		return a.Ts > b.Ts
	}
	return a.Date > b.Date
}
