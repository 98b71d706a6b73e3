package model

// Sex values used by the directory.
const (
	SexUnknown = 0
	SexFemale  = 1
	SexMale    = 2
)

// Profile holds the requester attributes needed to build a search.
// BDate is raw, DD.MM.YYYY is expected but not guaranteed. CityID is zero when
// the user did not specify a city.
type Profile struct {
	ID     int64
	BDate  string
	CityID int64
	Sex    int
}

// ProfileSummary is one directory search hit.
type ProfileSummary struct {
	ID        int64
	FirstName string
	LastName  string
}

// SearchFilter narrows a directory search. Age bounds are inclusive.
type SearchFilter struct {
	AgeFrom int
	AgeTo   int
	Sex     int
	CityID  int64
}
