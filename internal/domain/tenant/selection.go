package tenant

// ResolveCurrent picks the current team for a freshly fetched list.
// It keeps current when still present, falls back to the persisted id,
// then to the first team. It returns nil only for an empty list.
func ResolveCurrent(teams []Team, current, persisted *int64) *int64 {
	if len(teams) == 0 {
		return nil
	}
	for _, candidate := range []*int64{current, persisted} {
		if candidate == nil {
			continue
		}
		if _, ok := Find(teams, *candidate); ok {
			id := *candidate
			return &id
		}
	}
	id := teams[0].ID
	return &id
}

// Contains reports whether id is nil or references a team in the list.
func Contains(teams []Team, id *int64) bool {
	if id == nil {
		return true
	}
	_, ok := Find(teams, *id)
	return ok
}

// FirstRemaining returns the first team whose id differs from removed.
func FirstRemaining(teams []Team, removed int64) *int64 {
	for _, t := range teams {
		if t.ID != removed {
			id := t.ID
			return &id
		}
	}
	return nil
}
