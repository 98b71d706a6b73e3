package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/sourcegraph/conc"

	"github.com/ilinovom/profile-match-bot/internal/app/cmdHandlers"
	"github.com/ilinovom/profile-match-bot/internal/config"
	"github.com/ilinovom/profile-match-bot/internal/repository"
	"github.com/ilinovom/profile-match-bot/internal/service"
	"github.com/ilinovom/profile-match-bot/pkg/vk"
)

const shutdownTimeout = 5 * time.Second

// Poller yields batches of community events.
type Poller interface {
	Poll(ctx context.Context) ([]vk.Event, error)
}

// MessageHandler processes a single incoming message.
type MessageHandler interface {
	HandleMessage(ctx context.Context, m *vk.IncomingMessage)
}

// App coordinates the VK clients, the discovery workflow and the admin API.
type App struct {
	cfg         *config.Config
	groupClient *vk.Client
	matcher     *service.MatchService
	handler     MessageHandler
	retry       backoff.BackOff
}

func New(cfg *config.Config, favorites repository.FavoritesRepository) *App {
	groupClient := vk.NewClient(cfg.GroupToken,
		vk.WithBaseURL(cfg.APIURL), vk.WithVersion(cfg.APIVersion), vk.WithRateLimit(cfg.GroupRPS))
	userClient := vk.NewClient(cfg.UserToken,
		vk.WithBaseURL(cfg.APIURL), vk.WithVersion(cfg.APIVersion), vk.WithRateLimit(cfg.UserRPS))

	matcher := service.NewMatchService(
		service.NewDirectoryService(userClient),
		repository.NewMemorySessionRepository(),
		favorites,
		cfg.ReferenceYear,
	)
	matcher.SkipShown(cfg.SkipShown)
	retry := backoff.NewExponentialBackOff()
	retry.MaxInterval = 30 * time.Second
	return &App{
		cfg:         cfg,
		groupClient: groupClient,
		matcher:     matcher,
		handler:     cmdHandlers.NewCmdHandler(cfg, matcher, groupClient),
		retry:       retry,
	}
}

func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	groupID := a.cfg.GroupID
	if groupID == 0 {
		id, err := a.groupClient.GroupsGetByID(ctx)
		if err != nil {
			return err
		}
		groupID = id
	}

	var wg conc.WaitGroup
	wg.Go(func() {
		a.handleUpdates(ctx, vk.NewLongPoll(a.groupClient, groupID))
	})
	if a.cfg.HTTPAddr != "" {
		a.serveAdmin(ctx, &wg)
	}

	log.Printf("bot started for community %d, waiting for messages", groupID)
	<-ctx.Done()
	wg.Wait()
	return nil
}

// handleUpdates pulls events and handles them strictly one after another.
// Session state and the favorites file rely on this ordering.
func (a *App) handleUpdates(ctx context.Context, poller Poller) {
	for ctx.Err() == nil {
		events, err := poller.Poll(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			sleep := a.retry.NextBackOff()
			log.Printf("long poll: %v, retrying in %s", err, sleep)
			select {
			case <-ctx.Done():
				return
			case <-time.After(sleep):
			}
			continue
		}
		a.retry.Reset()
		for _, e := range events {
			m, ok := e.Message()
			if !ok || !m.ToMe() {
				continue
			}
			a.handler.HandleMessage(ctx, m)
		}
	}
}

func (a *App) serveAdmin(ctx context.Context, wg *conc.WaitGroup) {
	server := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           a.adminRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	wg.Go(func() {
		log.Printf("admin api listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("admin api: %v", err)
		}
	})
	wg.Go(func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("admin api shutdown: %v", err)
		}
	})
}
