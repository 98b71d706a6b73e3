package cmdHandlers

import (
	"context"
	"errors"
	"log"

	"github.com/ilinovom/profile-match-bot/internal/model"
	"github.com/ilinovom/profile-match-bot/internal/service"
	"github.com/ilinovom/profile-match-bot/pkg/vk"
)

// handleStartCommand builds search parameters from the user's profile and
// shows the first candidate.
func (c *CmdHandler) handleStartCommand(ctx context.Context, m *vk.IncomingMessage) {
	log.Printf("user %d called start", m.FromID)
	cand, err := c.matcher.Start(ctx, m.FromID)
	if err == nil || errors.Is(err, service.ErrNoCandidates) {
		c.sendMessage(ctx, m.FromID, c.messages["searching"], nil)
	}
	if err != nil {
		c.replyError(ctx, m.FromID, err)
		return
	}
	c.sendCandidate(ctx, m.FromID, cand)
}

// handleNextCommand shows the next candidate for the stored search. Users
// without a session go through start.
func (c *CmdHandler) handleNextCommand(ctx context.Context, m *vk.IncomingMessage) {
	if !c.matcher.Active(ctx, m.FromID) {
		c.handleStartCommand(ctx, m)
		return
	}
	log.Printf("user %d called next", m.FromID)
	cand, err := c.matcher.Advance(ctx, m.FromID)
	if err != nil {
		c.replyError(ctx, m.FromID, err)
		return
	}
	c.sendCandidate(ctx, m.FromID, cand)
}

func (c *CmdHandler) sendCandidate(ctx context.Context, userID int64, cand *model.Candidate) {
	c.sendMessage(ctx, userID, cand.FullName()+"\n"+cand.ProfileURL, cand.Photos)
}

// replyError turns workflow errors into user-facing texts.
func (c *CmdHandler) replyError(ctx context.Context, userID int64, err error) {
	var incomplete *service.IncompleteProfileError
	var key string
	switch {
	case errors.As(err, &incomplete) && incomplete.Field == service.FieldCity:
		key = "need_city"
	case errors.As(err, &incomplete):
		key = "need_bdate"
	case errors.Is(err, service.ErrNoCandidates):
		key = "not_found"
	case errors.Is(err, service.ErrNoCurrentCandidate):
		key = "no_current"
	default:
		log.Printf("user %d: %v", userID, err)
		key = "profile_error"
	}
	c.sendMessage(ctx, userID, c.messages[key], nil)
}
