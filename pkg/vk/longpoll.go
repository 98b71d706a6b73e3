package vk

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	json "github.com/goccy/go-json"
)

// flexString accepts both JSON strings and numbers. VK sends ts either way
// depending on the method.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	*s = flexString(b)
	return nil
}

type LongPollServer struct {
	Key    string     `json:"key"`
	Server string     `json:"server"`
	TS     flexString `json:"ts"`
}

type group struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// GroupsGetByID resolves the community that owns the client's token.
func (c *Client) GroupsGetByID(ctx context.Context) (int64, error) {
	var raw json.RawMessage
	if err := c.call(ctx, "groups.getById", url.Values{}, &raw); err != nil {
		return 0, err
	}
	var groups []group
	// Newer API versions wrap the list into {"groups": [...]}.
	var wrapped struct {
		Groups []group `json:"groups"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped.Groups) > 0 {
		groups = wrapped.Groups
	} else if err := json.Unmarshal(raw, &groups); err != nil {
		return 0, fmt.Errorf("vk: groups.getById: %w", err)
	}
	if len(groups) == 0 {
		return 0, errors.New("vk: groups.getById: empty response")
	}
	return groups[0].ID, nil
}

func (c *Client) GroupsGetLongPollServer(ctx context.Context, groupID int64) (*LongPollServer, error) {
	params := url.Values{}
	params.Set("group_id", itoa(groupID))
	var srv LongPollServer
	if err := c.call(ctx, "groups.getLongPollServer", params, &srv); err != nil {
		return nil, err
	}
	return &srv, nil
}

// Event is a single Bots Long Poll update.
type Event struct {
	Type    string          `json:"type"`
	EventID string          `json:"event_id"`
	GroupID int64           `json:"group_id"`
	Object  json.RawMessage `json:"object"`
}

// IncomingMessage is the message part of a message_new event.
type IncomingMessage struct {
	ID     int64  `json:"id"`
	FromID int64  `json:"from_id"`
	PeerID int64  `json:"peer_id"`
	Text   string `json:"text"`
	Out    int    `json:"out"`
}

// ToMe reports whether the message was written by a user to the community.
func (m *IncomingMessage) ToMe() bool {
	return m.Out == 0 && m.FromID > 0
}

// Message decodes a message_new event. ok is false for other event types.
func (e Event) Message() (*IncomingMessage, bool) {
	if e.Type != "message_new" {
		return nil, false
	}
	var obj struct {
		Message *IncomingMessage `json:"message"`
	}
	if err := json.Unmarshal(e.Object, &obj); err != nil || obj.Message == nil {
		return nil, false
	}
	return obj.Message, true
}

// LongPoll reads the community event stream.
type LongPoll struct {
	client     *Client
	groupID    int64
	wait       int
	httpClient *http.Client
	server     *LongPollServer
}

func NewLongPoll(c *Client, groupID int64) *LongPoll {
	return &LongPoll{client: c, groupID: groupID, wait: 25, httpClient: c.httpClient}
}

// Poll blocks until VK returns a batch of events or the wait period expires.
// An empty batch with nil error is normal.
func (lp *LongPoll) Poll(ctx context.Context) ([]Event, error) {
	if lp.server == nil {
		srv, err := lp.client.GroupsGetLongPollServer(ctx, lp.groupID)
		if err != nil {
			return nil, err
		}
		lp.server = srv
	}
	q := url.Values{}
	q.Set("act", "a_check")
	q.Set("key", lp.server.Key)
	q.Set("ts", string(lp.server.TS))
	q.Set("wait", strconv.Itoa(lp.wait))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lp.server.Server, nil)
	if err != nil {
		return nil, err
	}
	req.URL.RawQuery = q.Encode()
	resp, err := lp.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("vk: long poll: unexpected status " + resp.Status)
	}
	var body struct {
		TS      flexString `json:"ts"`
		Updates []Event    `json:"updates"`
		Failed  int        `json:"failed"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("vk: long poll: decode: %w", err)
	}
	switch body.Failed {
	case 0:
		lp.server.TS = body.TS
		return body.Updates, nil
	case 1:
		// history is outdated, continue from the ts VK suggests
		lp.server.TS = body.TS
		return nil, nil
	case 2, 3:
		// key expired or information lost, request a new server
		lp.server = nil
		return nil, nil
	default:
		return nil, fmt.Errorf("vk: long poll: failed %d", body.Failed)
	}
}
