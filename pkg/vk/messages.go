package vk

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

type SendParams struct {
	UserID      int64
	Message     string
	Attachments []string
	RandomID    int32
	Keyboard    *Keyboard
}

// MessagesSend delivers a message from the community and returns its id.
func (c *Client) MessagesSend(ctx context.Context, p SendParams) (int64, error) {
	params := url.Values{}
	params.Set("user_id", itoa(p.UserID))
	params.Set("message", p.Message)
	params.Set("attachment", strings.Join(p.Attachments, ","))
	params.Set("random_id", strconv.FormatInt(int64(p.RandomID), 10))
	if p.Keyboard != nil {
		kb, err := p.Keyboard.JSON()
		if err != nil {
			return 0, err
		}
		params.Set("keyboard", kb)
	}
	var id int64
	if err := c.call(ctx, "messages.send", params, &id); err != nil {
		return 0, err
	}
	return id, nil
}
