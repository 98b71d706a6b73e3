package repository

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/afero"

	"github.com/ilinovom/profile-match-bot/internal/model"
)

// FavoritesRepository abstracts persistence of saved candidates. Records are
// unique by VK id and listed in the order they were saved.
type FavoritesRepository interface {
	// Add saves the candidate unless a record with the same VK id exists.
	Add(ctx context.Context, c *model.Candidate) (bool, error)
	List(ctx context.Context) ([]*model.FavoriteRecord, error)
}

// FileFavoritesRepository stores favorites as a JSON list in a single file.
// Every read loads the whole document and every write replaces it.
type FileFavoritesRepository struct {
	fs   afero.Fs
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// NewFileFavoritesRepository returns a repository backed by path on fs.
// The file is created lazily on first read.
func NewFileFavoritesRepository(fs afero.Fs, path string) *FileFavoritesRepository {
	return &FileFavoritesRepository{fs: fs, path: path, now: time.Now}
}

// Load returns all records. A missing file is created empty, a malformed one
// is reported as empty and left as is.
func (r *FileFavoritesRepository) Load() []*model.FavoriteRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadLocked()
}

func (r *FileFavoritesRepository) loadLocked() []*model.FavoriteRecord {
	file, err := r.fs.Open(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err := r.writeLocked(nil, os.O_WRONLY|os.O_CREATE|os.O_EXCL); err != nil && !errors.Is(err, os.ErrExist) {
				log.Printf("favorites: create %s: %v", r.path, err)
			}
			return []*model.FavoriteRecord{}
		}
		log.Printf("favorites: read %s: %v", r.path, err)
		return []*model.FavoriteRecord{}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Printf("favorites: read %s: %v", r.path, err)
		return []*model.FavoriteRecord{}
	}
	var records []*model.FavoriteRecord
	if err := json.Unmarshal(data, &records); err != nil || records == nil {
		log.Printf("favorites: %s is not a list, treating as empty: %v", r.path, err)
		return []*model.FavoriteRecord{}
	}
	return records
}

// Save overwrites the file with records.
func (r *FileFavoritesRepository) Save(records []*model.FavoriteRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writeLocked(records, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
}

func (r *FileFavoritesRepository) writeLocked(records []*model.FavoriteRecord, flag int) error {
	if records == nil {
		records = []*model.FavoriteRecord{}
	}
	file, err := r.fs.OpenFile(r.path, flag, 0o644)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Add appends the candidate with the current time unless it is already saved.
func (r *FileFavoritesRepository) Add(ctx context.Context, c *model.Candidate) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	records := r.loadLocked()
	for _, rec := range records {
		if rec.VKID == c.VKID {
			return false, nil
		}
	}
	records = append(records, newRecord(c, r.now()))
	if err := r.writeLocked(records, os.O_WRONLY|os.O_CREATE|os.O_TRUNC); err != nil {
		return false, err
	}
	return true, nil
}

// List is Load behind the repository interface.
func (r *FileFavoritesRepository) List(ctx context.Context) ([]*model.FavoriteRecord, error) {
	return r.Load(), nil
}

func newRecord(c *model.Candidate, at time.Time) *model.FavoriteRecord {
	rec := &model.FavoriteRecord{Candidate: *c, SavedAt: at.Format(model.SavedAtLayout)}
	rec.Photos = append([]string{}, c.Photos...)
	return rec
}
