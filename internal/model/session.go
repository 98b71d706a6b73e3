package model

// SearchParams are derived from the requester profile on start.
type SearchParams struct {
	Age    int   `json:"age"`
	CityID int64 `json:"city_id"`
	Sex    int   `json:"sex"`
}

// Session stores the discovery state of one user.
type Session struct {
	UserID  int64
	Params  SearchParams
	Current *Candidate
	// Shown holds ids presented since the last start.
	Shown map[int64]bool
}

// Clone returns a deep copy so callers never share maps or slices with a store.
func (s *Session) Clone() *Session {
	c := *s
	if s.Current != nil {
		cur := *s.Current
		cur.Photos = append([]string(nil), s.Current.Photos...)
		c.Current = &cur
	}
	c.Shown = make(map[int64]bool, len(s.Shown))
	for k, v := range s.Shown {
		c.Shown[k] = v
	}
	return &c
}
