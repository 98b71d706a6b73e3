package service

import (
	"context"
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ilinovom/profile-match-bot/internal/model"
	"github.com/ilinovom/profile-match-bot/internal/repository"
)

const (
	ageSpread = 2
	// FavoritesPageSize is how many recent favorites are listed.
	FavoritesPageSize = 5
)

// Directory describes the profile directory used by the workflow.
type Directory interface {
	FetchProfile(ctx context.Context, id int64) (*model.Profile, error)
	SearchProfiles(ctx context.Context, f model.SearchFilter) []model.ProfileSummary
	FetchTopPhotos(ctx context.Context, ownerID int64, n int) []string
}

// MatchService runs the per-user discovery workflow: start a session from the
// requester profile, present candidates one at a time, save favorites.
type MatchService struct {
	dir           Directory
	sessions      repository.SessionRepository
	favorites     repository.FavoritesRepository
	referenceYear int
	skipShown     bool
	now           func() time.Time
}

// NewMatchService creates the workflow. A zero referenceYear means ages are
// computed against the current year.
func NewMatchService(dir Directory, sessions repository.SessionRepository, favorites repository.FavoritesRepository, referenceYear int) *MatchService {
	return &MatchService{
		dir:           dir,
		sessions:      sessions,
		favorites:     favorites,
		referenceYear: referenceYear,
		now:           time.Now,
	}
}

// SkipShown makes Advance pass over candidates already presented since the
// last start. When every result was shown the cycle begins again. By default
// Advance always presents the first search result.
func (s *MatchService) SkipShown(on bool) {
	s.skipShown = on
}

// Active reports whether the user has a discovery session.
func (s *MatchService) Active(ctx context.Context, userID int64) bool {
	_, err := s.sessions.Get(ctx, userID)
	return err == nil
}

// Start (re)creates the user's session from their profile and presents the
// first candidate. The session is left untouched when the profile is
// incomplete or cannot be fetched.
func (s *MatchService) Start(ctx context.Context, userID int64) (*model.Candidate, error) {
	profile, err := s.dir.FetchProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	params, err := s.searchParams(userID, profile)
	if err != nil {
		return nil, err
	}
	sess := &model.Session{UserID: userID, Params: params, Shown: map[int64]bool{}}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return s.advance(ctx, sess)
}

func (s *MatchService) searchParams(userID int64, p *model.Profile) (model.SearchParams, error) {
	parts := strings.Split(p.BDate, ".")
	if len(parts) != 3 {
		return model.SearchParams{}, &IncompleteProfileError{UserID: userID, Field: FieldBirthDate}
	}
	birthYear, err := strconv.Atoi(parts[2])
	if err != nil {
		return model.SearchParams{}, &IncompleteProfileError{UserID: userID, Field: FieldBirthDate}
	}
	if p.CityID == 0 {
		return model.SearchParams{}, &IncompleteProfileError{UserID: userID, Field: FieldCity}
	}
	year := s.referenceYear
	if year == 0 {
		year = s.now().Year()
	}
	sex := model.SexMale
	if p.Sex == model.SexMale {
		sex = model.SexFemale
	}
	return model.SearchParams{Age: year - birthYear, CityID: p.CityID, Sex: sex}, nil
}

// Advance presents the next candidate. Users without a session are started.
// When the search is empty ErrNoCandidates is returned and the current
// candidate stays as it was.
func (s *MatchService) Advance(ctx context.Context, userID int64) (*model.Candidate, error) {
	sess, err := s.sessions.Get(ctx, userID)
	if errors.Is(err, os.ErrNotExist) {
		return s.Start(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	return s.advance(ctx, sess)
}

func (s *MatchService) advance(ctx context.Context, sess *model.Session) (*model.Candidate, error) {
	p := sess.Params
	found := s.dir.SearchProfiles(ctx, model.SearchFilter{
		AgeFrom: p.Age - ageSpread,
		AgeTo:   p.Age + ageSpread,
		Sex:     p.Sex,
		CityID:  p.CityID,
	})
	if len(found) == 0 {
		return nil, ErrNoCandidates
	}
	if sess.Shown == nil {
		sess.Shown = map[int64]bool{}
	}
	next := &found[0]
	if s.skipShown {
		if next = firstUnseen(found, sess.Shown); next == nil {
			// everything was shown already, go around again
			sess.Shown = map[int64]bool{}
			next = &found[0]
		}
	}
	c := &model.Candidate{
		VKID:       next.ID,
		FirstName:  next.FirstName,
		LastName:   next.LastName,
		ProfileURL: model.ProfileURL(next.ID),
		Photos:     s.dir.FetchTopPhotos(ctx, next.ID, DefaultTopPhotos),
	}
	sess.Current = c
	sess.Shown[c.VKID] = true
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return c, nil
}

func firstUnseen(found []model.ProfileSummary, shown map[int64]bool) *model.ProfileSummary {
	for i := range found {
		if !shown[found[i].ID] {
			return &found[i]
		}
	}
	return nil
}

// Favorite saves the user's current candidate. Storage failures are logged
// and not returned.
func (s *MatchService) Favorite(ctx context.Context, userID int64) (*model.Candidate, error) {
	sess, err := s.sessions.Get(ctx, userID)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if sess == nil || sess.Current == nil {
		return nil, ErrNoCurrentCandidate
	}
	added, err := s.favorites.Add(ctx, sess.Current)
	if err != nil {
		log.Printf("favorites: add %d for user %d: %v", sess.Current.VKID, userID, err)
	} else if !added {
		log.Printf("favorites: %d already saved", sess.Current.VKID)
	}
	return sess.Current, nil
}

// ListFavorites returns the last limit saved records in save order.
func (s *MatchService) ListFavorites(ctx context.Context, limit int) []*model.FavoriteRecord {
	all, err := s.favorites.List(ctx)
	if err != nil {
		log.Println("favorites: list:", err)
		return nil
	}
	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all
}
