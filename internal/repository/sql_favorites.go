package repository

import (
	"context"
	"database/sql"
	"time"

	json "github.com/goccy/go-json"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/ilinovom/profile-match-bot/internal/model"
)

const postgresSchema = `
    CREATE TABLE IF NOT EXISTS favorites (
        seq BIGSERIAL,
        vk_id BIGINT PRIMARY KEY,
        first_name TEXT NOT NULL,
        last_name TEXT NOT NULL,
        profile_url TEXT NOT NULL,
        photos JSONB NOT NULL,
        saved_at TEXT NOT NULL
    )`

const sqliteSchema = `
    CREATE TABLE IF NOT EXISTS favorites (
        seq INTEGER PRIMARY KEY AUTOINCREMENT,
        vk_id INTEGER NOT NULL UNIQUE,
        first_name TEXT NOT NULL,
        last_name TEXT NOT NULL,
        profile_url TEXT NOT NULL,
        photos TEXT NOT NULL,
        saved_at TEXT NOT NULL
    )`

// SQLFavoritesRepository stores favorites in Postgres or SQLite. The vk_id
// constraint keeps records unique and seq keeps the save order.
type SQLFavoritesRepository struct {
	db          *sql.DB
	insertQuery string
	now         func() time.Time
}

// NewPostgresFavoritesRepository connects through the pgx driver.
func NewPostgresFavoritesRepository(connStr string) (*SQLFavoritesRepository, error) {
	return openSQLFavorites("pgx", connStr, postgresSchema, `
        INSERT INTO favorites (vk_id, first_name, last_name, profile_url, photos, saved_at)
        VALUES ($1,$2,$3,$4,$5,$6)
        ON CONFLICT (vk_id) DO NOTHING`)
}

// NewSQLiteFavoritesRepository opens an embedded database file.
func NewSQLiteFavoritesRepository(path string) (*SQLFavoritesRepository, error) {
	r, err := openSQLFavorites("sqlite", path+"?_pragma=busy_timeout(5000)", sqliteSchema, `
        INSERT INTO favorites (vk_id, first_name, last_name, profile_url, photos, saved_at)
        VALUES (?,?,?,?,?,?)
        ON CONFLICT (vk_id) DO NOTHING`)
	if err != nil {
		return nil, err
	}
	r.db.SetMaxOpenConns(1)
	return r, nil
}

func openSQLFavorites(driver, dsn, schema, insert string) (*SQLFavoritesRepository, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLFavoritesRepository{db: db, insertQuery: insert, now: time.Now}, nil
}

func (r *SQLFavoritesRepository) Add(ctx context.Context, c *model.Candidate) (bool, error) {
	rec := newRecord(c, r.now())
	photos, err := json.Marshal(rec.Photos)
	if err != nil {
		return false, err
	}
	res, err := r.db.ExecContext(ctx, r.insertQuery, rec.VKID, rec.FirstName, rec.LastName, rec.ProfileURL, string(photos), rec.SavedAt)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *SQLFavoritesRepository) List(ctx context.Context) ([]*model.FavoriteRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT vk_id, first_name, last_name, profile_url, photos, saved_at FROM favorites ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := []*model.FavoriteRecord{}
	for rows.Next() {
		var rec model.FavoriteRecord
		var photos []byte
		if err := rows.Scan(&rec.VKID, &rec.FirstName, &rec.LastName, &rec.ProfileURL, &photos, &rec.SavedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(photos, &rec.Photos); err != nil {
			return nil, err
		}
		result = append(result, &rec)
	}
	return result, rows.Err()
}

func (r *SQLFavoritesRepository) Close() error {
	return r.db.Close()
}
