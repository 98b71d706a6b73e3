package cmdHandlers

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ilinovom/profile-match-bot/internal/config"
	"github.com/ilinovom/profile-match-bot/internal/model"
	"github.com/ilinovom/profile-match-bot/pkg/vk"
)

const (
	NextButton      = "Следующий"
	FavoriteButton  = "В избранное"
	FavoritesButton = "Избранные"
)

type command int

const (
	cmdUnknown command = iota
	cmdStart
	cmdNext
	cmdFavorite
	cmdListFavorites
)

// commands maps normalized text to a command. Button labels are included in
// lower case because that is what arrives when a button is pressed.
var commands = map[string]command{
	"":                   cmdStart,
	"привет":             cmdStart,
	"начать":             cmdStart,
	"start":              cmdStart,
	"/start":             cmdStart,
	"следующий":          cmdNext,
	"next":               cmdNext,
	"в избранное":        cmdFavorite,
	"add to favorites":   cmdFavorite,
	"избранные":          cmdListFavorites,
	"показать избранных": cmdListFavorites,
	"show favorites":     cmdListFavorites,
}

// Sender delivers outgoing messages on behalf of the community.
type Sender interface {
	MessagesSend(ctx context.Context, p vk.SendParams) (int64, error)
}

// Matcher is the discovery workflow driven by chat commands.
type Matcher interface {
	Active(ctx context.Context, userID int64) bool
	Start(ctx context.Context, userID int64) (*model.Candidate, error)
	Advance(ctx context.Context, userID int64) (*model.Candidate, error)
	Favorite(ctx context.Context, userID int64) (*model.Candidate, error)
	ListFavorites(ctx context.Context, limit int) []*model.FavoriteRecord
}

type CmdHandler struct {
	sender   Sender
	matcher  Matcher
	messages map[string]string
	keyboard *vk.Keyboard
}

func NewCmdHandler(cfg *config.Config, matcher Matcher, sender Sender) *CmdHandler {
	return &CmdHandler{
		sender:   sender,
		matcher:  matcher,
		messages: cfg.Messages,
		keyboard: replyKeyboard(),
	}
}

func replyKeyboard() *vk.Keyboard {
	return vk.NewKeyboard(false).
		AddButton(NextButton, vk.ColorPrimary).
		AddButton(FavoriteButton, vk.ColorPositive).
		AddLine().
		AddButton(FavoritesButton, vk.ColorSecondary)
}

// normalize trims the text and lower-cases it, Cyrillic included.
func normalize(text string) string {
	return cases.Lower(language.Russian).String(strings.TrimSpace(text))
}

func classify(text string) command {
	if cmd, ok := commands[normalize(text)]; ok {
		return cmd
	}
	return cmdUnknown
}

// HandleMessage processes one incoming message to completion.
func (c *CmdHandler) HandleMessage(ctx context.Context, m *vk.IncomingMessage) {
	if !m.ToMe() {
		return
	}
	switch classify(m.Text) {
	case cmdStart:
		c.handleStartCommand(ctx, m)
	case cmdNext:
		c.handleNextCommand(ctx, m)
	case cmdFavorite:
		c.handleFavoriteCommand(ctx, m)
	case cmdListFavorites:
		c.handleListFavoritesCommand(ctx, m)
	default:
		log.Printf("user %d texted: %s", m.FromID, m.Text)
		c.sendMessage(ctx, m.FromID, c.messages["use_buttons"], nil)
	}
}

// sendMessage sends text with attachments and the reply keyboard. Failures
// are logged only.
func (c *CmdHandler) sendMessage(ctx context.Context, userID int64, text string, attachments []string) {
	_, err := c.sender.MessagesSend(ctx, vk.SendParams{
		UserID:      userID,
		Message:     text,
		Attachments: attachments,
		RandomID:    randomID(),
		Keyboard:    c.keyboard,
	})
	if err != nil {
		log.Printf("vk send message: %v\ntext: %s", err, text)
	}
}

// randomID returns the deduplication id VK requires for every message.
func randomID() int32 {
	return int32(uuid.New().ID() & 0x7fffffff)
}
