package service

import (
	"context"
	"log"
	"sort"

	"github.com/ilinovom/profile-match-bot/internal/model"
	"github.com/ilinovom/profile-match-bot/pkg/vk"
)

const (
	// DefaultTopPhotos is how many photos accompany a candidate.
	DefaultTopPhotos = 3

	searchPageSize     = 50
	statusActiveSearch = 6
	sortByPopularity   = 0
	profileAlbum       = "profile"
)

// VKAPI describes the part of the VK client used by the directory.
type VKAPI interface {
	UsersGet(ctx context.Context, userID int64, fields ...string) ([]vk.User, error)
	UsersSearch(ctx context.Context, p vk.SearchParams) ([]vk.User, error)
	PhotosGet(ctx context.Context, ownerID int64, albumID string, extended bool) ([]vk.Photo, error)
}

// DirectoryService looks up, searches and ranks VK profiles. Search and photo
// failures are logged and reported as empty results.
type DirectoryService struct {
	api VKAPI
}

func NewDirectoryService(api VKAPI) *DirectoryService {
	return &DirectoryService{api: api}
}

// FetchProfile returns the attributes needed to build a search for id.
// Completeness is not checked here.
func (s *DirectoryService) FetchProfile(ctx context.Context, id int64) (*model.Profile, error) {
	users, err := s.api.UsersGet(ctx, id, "city", "bdate", "sex")
	if err != nil {
		log.Printf("directory: users.get %d: %v", id, err)
		return nil, &LookupError{UserID: id, Err: err}
	}
	if len(users) == 0 {
		return nil, &LookupError{UserID: id, Err: errUserNotFound}
	}
	u := users[0]
	p := &model.Profile{ID: u.ID, BDate: u.BDate, Sex: u.Sex}
	if u.City != nil {
		p.CityID = u.City.ID
	}
	return p, nil
}

// SearchProfiles returns actively searching, open profiles with photos in
// the directory's popularity order.
func (s *DirectoryService) SearchProfiles(ctx context.Context, f model.SearchFilter) []model.ProfileSummary {
	users, err := s.api.UsersSearch(ctx, vk.SearchParams{
		AgeFrom:  f.AgeFrom,
		AgeTo:    f.AgeTo,
		Sex:      f.Sex,
		City:     f.CityID,
		Status:   statusActiveSearch,
		HasPhoto: true,
		Sort:     sortByPopularity,
		Count:    searchPageSize,
		OnlyOpen: true,
	})
	if err != nil {
		log.Printf("directory: users.search %+v: %v", f, err)
		return []model.ProfileSummary{}
	}
	out := make([]model.ProfileSummary, 0, len(users))
	for _, u := range users {
		out = append(out, model.ProfileSummary{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName})
	}
	return out
}

// FetchTopPhotos returns up to n profile photos of ownerID ranked by likes.
func (s *DirectoryService) FetchTopPhotos(ctx context.Context, ownerID int64, n int) []string {
	photos, err := s.api.PhotosGet(ctx, ownerID, profileAlbum, true)
	if err != nil {
		log.Printf("directory: photos.get %d: %v", ownerID, err)
		return []string{}
	}
	return RankPhotos(photos, n)
}

// RankPhotos orders photos by like count, most liked first, keeping the input
// order for equal counts, and returns the first n as attachment references.
func RankPhotos(photos []vk.Photo, n int) []string {
	sorted := append([]vk.Photo(nil), photos...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Likes.Count > sorted[j].Likes.Count
	})
	if n < 0 {
		n = 0
	}
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	out := make([]string, 0, len(sorted))
	for _, p := range sorted {
		out = append(out, p.Attachment())
	}
	return out
}
