package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cenkalti/backoff/v5"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/ilinovom/profile-match-bot/internal/config"
	"github.com/ilinovom/profile-match-bot/internal/model"
	"github.com/ilinovom/profile-match-bot/pkg/vk"
)

type scriptedPoller struct {
	steps  []func() ([]vk.Event, error)
	cancel context.CancelFunc
}

func (p *scriptedPoller) Poll(ctx context.Context) ([]vk.Event, error) {
	if len(p.steps) == 0 {
		p.cancel()
		return nil, ctx.Err()
	}
	step := p.steps[0]
	p.steps = p.steps[1:]
	return step()
}

type recordingHandler struct {
	texts []string
}

func (h *recordingHandler) HandleMessage(ctx context.Context, m *vk.IncomingMessage) {
	h.texts = append(h.texts, m.Text)
}

func messageEvent(text string, out int) vk.Event {
	payload, _ := json.Marshal(map[string]any{
		"message": map[string]any{"id": 1, "from_id": 5, "peer_id": 5, "text": text, "out": out},
	})
	return vk.Event{Type: "message_new", Object: payload}
}

type memFavorites struct {
	records []*model.FavoriteRecord
}

func (m *memFavorites) Add(ctx context.Context, c *model.Candidate) (bool, error) {
	m.records = append(m.records, &model.FavoriteRecord{Candidate: *c})
	return true, nil
}

func (m *memFavorites) List(ctx context.Context) ([]*model.FavoriteRecord, error) {
	return m.records, nil
}

func newTestApp(favs *memFavorites) *App {
	cfg := &config.Config{GroupToken: "g", UserToken: "u", Messages: map[string]string{}}
	a := New(cfg, favs)
	a.retry = &backoff.ZeroBackOff{}
	return a
}

func TestApp_HandleUpdates(t *testing.T) {
	a := newTestApp(&memFavorites{})
	h := &recordingHandler{}
	a.handler = h

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	poller := &scriptedPoller{cancel: cancel, steps: []func() ([]vk.Event, error){
		func() ([]vk.Event, error) { return nil, errors.New("connection reset") },
		func() ([]vk.Event, error) {
			return []vk.Event{
				messageEvent("start", 0),
				messageEvent("echo", 1),
				{Type: "message_typing_state"},
				messageEvent("следующий", 0),
			}, nil
		},
		func() ([]vk.Event, error) { return nil, nil },
	}}

	a.handleUpdates(ctx, poller)

	require.Equal(t, []string{"start", "следующий"}, h.texts)
}

func TestAdminRouter(t *testing.T) {
	favs := &memFavorites{}
	for i := int64(1); i <= 3; i++ {
		favs.Add(context.Background(), &model.Candidate{VKID: i, FirstName: "Анна", ProfileURL: model.ProfileURL(i)})
	}
	router := newTestApp(favs).adminRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/favorites?limit=2", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var got []model.FavoriteRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	require.EqualValues(t, 2, got[0].VKID)
	require.EqualValues(t, 3, got[1].VKID)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/favorites?limit=x", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/favorites", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
