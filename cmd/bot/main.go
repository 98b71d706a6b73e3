package main

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/spf13/afero"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ilinovom/profile-match-bot/internal/app"
	"github.com/ilinovom/profile-match-bot/internal/config"
	"github.com/ilinovom/profile-match-bot/internal/repository"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal(err)
	}
	setupLogging(cfg.LogFile)

	favorites, err := newFavoritesRepository(cfg)
	if err != nil {
		log.Fatal(err)
	}

	application := app.New(cfg, favorites)
	if err := application.Run(context.Background()); err != nil {
		log.Fatal(err)
	}
}

// setupLogging mirrors the standard logger into a rotated file when path is set.
func setupLogging(path string) {
	if path == "" {
		return
	}
	log.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	}))
}

func newFavoritesRepository(cfg *config.Config) (repository.FavoritesRepository, error) {
	switch {
	case cfg.DBConnString != "":
		return repository.NewPostgresFavoritesRepository(cfg.DBConnString)
	case cfg.SQLitePath != "":
		return repository.NewSQLiteFavoritesRepository(cfg.SQLitePath)
	default:
		return repository.NewFileFavoritesRepository(afero.NewOsFs(), cfg.FavoritesFile), nil
	}
}
