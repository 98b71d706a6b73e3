package cmdHandlers

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/ilinovom/profile-match-bot/internal/model"
	"github.com/ilinovom/profile-match-bot/internal/service"
	"github.com/ilinovom/profile-match-bot/pkg/vk"
)

// handleFavoriteCommand saves the candidate currently shown to the user.
func (c *CmdHandler) handleFavoriteCommand(ctx context.Context, m *vk.IncomingMessage) {
	log.Printf("user %d called add to favorites", m.FromID)
	if _, err := c.matcher.Favorite(ctx, m.FromID); err != nil {
		c.replyError(ctx, m.FromID, err)
		return
	}
	c.sendMessage(ctx, m.FromID, c.messages["added"], nil)
}

// handleListFavoritesCommand prints the most recently saved favorites.
func (c *CmdHandler) handleListFavoritesCommand(ctx context.Context, m *vk.IncomingMessage) {
	log.Printf("user %d called show favorites", m.FromID)
	favs := c.matcher.ListFavorites(ctx, service.FavoritesPageSize)
	if len(favs) == 0 {
		c.sendMessage(ctx, m.FromID, c.messages["no_favorites"], nil)
		return
	}
	c.sendMessage(ctx, m.FromID, c.formatFavorites(favs), nil)
}

func (c *CmdHandler) formatFavorites(favs []*model.FavoriteRecord) string {
	var b strings.Builder
	b.WriteString(c.messages["favorites_header"])
	for _, f := range favs {
		fmt.Fprintf(&b, "- %s\n%s\n\n", f.FullName(), f.ProfileURL)
	}
	return b.String()
}
