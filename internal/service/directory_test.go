package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/ilinovom/profile-match-bot/internal/model"
	"github.com/ilinovom/profile-match-bot/pkg/vk"
)

type fakeVK struct {
	users     []vk.User
	usersErr  error
	found     []vk.User
	searchErr error
	search    vk.SearchParams
	photos    []vk.Photo
	photosErr error
	album     string
}

func (f *fakeVK) UsersGet(ctx context.Context, userID int64, fields ...string) ([]vk.User, error) {
	return f.users, f.usersErr
}

func (f *fakeVK) UsersSearch(ctx context.Context, p vk.SearchParams) ([]vk.User, error) {
	f.search = p
	return f.found, f.searchErr
}

func (f *fakeVK) PhotosGet(ctx context.Context, ownerID int64, albumID string, extended bool) ([]vk.Photo, error) {
	f.album = albumID
	return f.photos, f.photosErr
}

func photo(id int64, likes int) vk.Photo {
	return vk.Photo{ID: id, OwnerID: 42, Likes: vk.Likes{Count: likes}}
}

func TestRankPhotos_ByLikes(t *testing.T) {
	got := RankPhotos([]vk.Photo{photo(1, 3), photo(2, 10), photo(3, 1)}, 3)
	want := []string{"photo42_2", "photo42_1", "photo42_3"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestRankPhotos_TruncatesAndKeepsTieOrder(t *testing.T) {
	photos := []vk.Photo{photo(1, 5), photo(2, 7), photo(3, 5), photo(4, 5), photo(5, 0)}
	got := RankPhotos(photos, 3)
	want := []string{"photo42_2", "photo42_1", "photo42_3"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if n := len(RankPhotos(photos, 0)); n != 0 {
		t.Fatalf("expected no photos, got %d", n)
	}
	if photos[0].ID != 1 || photos[1].ID != 2 {
		t.Fatalf("input was reordered")
	}
}

func TestDirectoryService_FetchProfile(t *testing.T) {
	api := &fakeVK{users: []vk.User{{ID: 1, BDate: "15.06.1995", City: &vk.City{ID: 2}, Sex: 1}}}
	p, err := NewDirectoryService(api).FetchProfile(context.Background(), 1)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if p.BDate != "15.06.1995" || p.CityID != 2 || p.Sex != 1 {
		t.Fatalf("unexpected profile: %#v", p)
	}

	api = &fakeVK{users: []vk.User{{ID: 1}}}
	p, err = NewDirectoryService(api).FetchProfile(context.Background(), 1)
	if err != nil || p.CityID != 0 {
		t.Fatalf("missing city should be zero: %#v, %v", p, err)
	}
}

func TestDirectoryService_FetchProfileErrors(t *testing.T) {
	remote := errors.New("boom")
	for name, api := range map[string]*fakeVK{
		"remote": {usersErr: remote},
		"empty":  {},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NewDirectoryService(api).FetchProfile(context.Background(), 1)
			var lookup *LookupError
			if !errors.As(err, &lookup) {
				t.Fatalf("expected LookupError, got %v", err)
			}
		})
	}
}

func TestDirectoryService_SearchProfiles(t *testing.T) {
	api := &fakeVK{found: []vk.User{{ID: 42, FirstName: "Анна", LastName: "Б"}, {ID: 7}}}
	got := NewDirectoryService(api).SearchProfiles(context.Background(), model.SearchFilter{AgeFrom: 29, AgeTo: 33, Sex: 1, CityID: 2})
	if len(got) != 2 || got[0].ID != 42 || got[0].FirstName != "Анна" {
		t.Fatalf("unexpected result: %#v", got)
	}
	p := api.search
	if p.AgeFrom != 29 || p.AgeTo != 33 || p.Sex != 1 || p.City != 2 || p.Status != 6 || !p.HasPhoto || !p.OnlyOpen || p.Count != 50 {
		t.Fatalf("unexpected search params: %#v", p)
	}
}

func TestDirectoryService_FailuresAreEmpty(t *testing.T) {
	api := &fakeVK{searchErr: errors.New("timeout"), photosErr: errors.New("denied")}
	svc := NewDirectoryService(api)
	if got := svc.SearchProfiles(context.Background(), model.SearchFilter{}); got == nil || len(got) != 0 {
		t.Fatalf("expected empty search, got %#v", got)
	}
	if got := svc.FetchTopPhotos(context.Background(), 42, 3); got == nil || len(got) != 0 {
		t.Fatalf("expected empty photos, got %#v", got)
	}
}

func TestDirectoryService_FetchTopPhotos(t *testing.T) {
	api := &fakeVK{photos: []vk.Photo{photo(1, 3), photo(2, 10), photo(3, 1), photo(4, 2)}}
	got := NewDirectoryService(api).FetchTopPhotos(context.Background(), 42, DefaultTopPhotos)
	want := []string{"photo42_2", "photo42_1", "photo42_4"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if api.album != "profile" {
		t.Fatalf("expected profile album, got %q", api.album)
	}
}
