package domain

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// In-memory fakes shared by the service tests.

type fakeConnRepo struct {
	mu    sync.Mutex
	conns map[uuid.UUID]*Connection
}

func newFakeConnRepo() *fakeConnRepo {
	return &fakeConnRepo{conns: make(map[uuid.UUID]*Connection)}
}

func (f *fakeConnRepo) CreateConnection(_ context.Context, params CreateConnectionParams) (*Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := &Connection{
		ID:          uuid.New(),
		RequesterID: params.RequesterID,
		ReceiverID:  params.ReceiverID,
		Type:        params.Type,
		Status:      ConnectionStatusPending,
		Notes:       params.Notes,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	f.conns[c.ID] = c
	return c, nil
}

func (f *fakeConnRepo) GetConnectionByID(_ context.Context, id uuid.UUID) (*Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.conns[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

func (f *fakeConnRepo) GetConnectionBetween(_ context.Context, a, b uuid.UUID) (*Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.conns {
		if (c.RequesterID == a && c.ReceiverID == b) || (c.RequesterID == b && c.ReceiverID == a) {
			return c, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeConnRepo) UpdateConnectionStatus(_ context.Context, id uuid.UUID, status ConnectionStatus) (*Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.conns[id]
	if !ok {
		return nil, ErrNotFound
	}
	c.Status = status
	c.UpdatedAt = time.Now()
	return c, nil
}

func (f *fakeConnRepo) DeleteConnection(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.conns[id]; !ok {
		return ErrNotFound
	}
	delete(f.conns, id)
	return nil
}

func (f *fakeConnRepo) GetConnections(_ context.Context, userID uuid.UUID, status ConnectionStatus, limit, offset int) ([]*Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Connection
	for _, c := range f.conns {
		if c.Status == status && (c.RequesterID == userID || c.ReceiverID == userID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeConnRepo) GetIncomingRequests(_ context.Context, userID uuid.UUID, limit, offset int) ([]*Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Connection
	for _, c := range f.conns {
		if c.Status == ConnectionStatusPending && c.ReceiverID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeSocialRepo struct {
	mu       sync.Mutex
	settings map[uuid.UUID]*SocialSettings
}

func newFakeSocialRepo() *fakeSocialRepo {
	return &fakeSocialRepo{settings: make(map[uuid.UUID]*SocialSettings)}
}

func (f *fakeSocialRepo) GetSettings(_ context.Context, userID uuid.UUID) (*SocialSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.settings[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (f *fakeSocialRepo) UpsertSettings(_ context.Context, settings *SocialSettings) (*SocialSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	settings.UpdatedAt = time.Now()
	f.settings[settings.UserID] = settings
	return settings, nil
}

func (f *fakeSocialRepo) GetStats(context.Context, uuid.UUID) (*SocialStats, error) {
	return &SocialStats{}, nil
}

func (f *fakeSocialRepo) UpsertPushToken(context.Context, uuid.UUID, string) error { return nil }

func (f *fakeSocialRepo) GetPushTokens(context.Context, uuid.UUID) ([]string, error) {
	return nil, nil
}

type fakeActivityRepo struct {
	mu         sync.Mutex
	activities []*Activity
}

func (f *fakeActivityRepo) InsertActivity(_ context.Context, params CreateActivityParams) (*Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := &Activity{
		ID:        uuid.New(),
		UserID:    params.UserID,
		Type:      params.Type,
		Payload:   params.Payload,
		Rating:    params.Rating,
		IsPublic:  params.IsPublic,
		CreatedAt: time.Now(),
	}
	f.activities = append(f.activities, a)
	return a, nil
}

func (f *fakeActivityRepo) GetUserActivities(_ context.Context, userID uuid.UUID, limit, offset int) ([]*Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Activity
	for _, a := range f.activities {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeActivityRepo) GetFeedActivities(_ context.Context, userID uuid.UUID, limit, offset int) ([]*Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*Activity(nil), f.activities...), nil
}

type fakeCollabRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*CollabSession
	options  []*CollabOption
	votes    []*CollabVote
}

func newFakeCollabRepo() *fakeCollabRepo {
	return &fakeCollabRepo{sessions: make(map[uuid.UUID]*CollabSession)}
}

func (f *fakeCollabRepo) CreateSession(_ context.Context, params CreateSessionParams) (*CollabSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := &CollabSession{
		ID:          uuid.New(),
		CreatorID:   params.CreatorID,
		Title:       params.Title,
		Description: params.Description,
		Type:        params.Type,
		Status:      SessionStatusActive,
		Deadline:    params.Deadline,
		Rules:       params.Rules,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	f.sessions[s.ID] = s
	return s, nil
}

func (f *fakeCollabRepo) GetSessionByID(_ context.Context, id uuid.UUID) (*CollabSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (f *fakeCollabRepo) UpdateSessionStatus(_ context.Context, id uuid.UUID, status SessionStatus) (*CollabSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	s.Status = status
	s.UpdatedAt = time.Now()
	return s, nil
}

func (f *fakeCollabRepo) ListSessionsForUser(_ context.Context, userID uuid.UUID, status *SessionStatus, limit, offset int) ([]*CollabSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*CollabSession
	for _, s := range f.sessions {
		if s.CreatorID != userID {
			continue
		}
		if status != nil && s.Status != *status {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeCollabRepo) ListExpiredActiveSessions(_ context.Context, now time.Time) ([]*CollabSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*CollabSession
	for _, s := range f.sessions {
		if s.Status == SessionStatusActive && s.Deadline != nil && !s.Deadline.After(now) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeCollabRepo) AddOption(_ context.Context, params AddOptionParams) (*CollabOption, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o := &CollabOption{
		ID:           uuid.New(),
		SessionID:    params.SessionID,
		RestaurantID: params.RestaurantID,
		SuggestedBy:  params.SuggestedBy,
		Reason:       params.Reason,
		CreatedAt:    time.Now(),
	}
	f.options = append(f.options, o)
	return o, nil
}

func (f *fakeCollabRepo) GetOptionByID(_ context.Context, id uuid.UUID) (*CollabOption, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.options {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeCollabRepo) GetOptions(_ context.Context, sessionID uuid.UUID) ([]*CollabOption, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*CollabOption
	for _, o := range f.options {
		if o.SessionID == sessionID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeCollabRepo) OptionExists(_ context.Context, sessionID, restaurantID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.options {
		if o.SessionID == sessionID && o.RestaurantID == restaurantID {
			return true, nil
		}
	}
	return false, nil
}

// UpsertVote mirrors the Postgres implementation: per-option upsert, and
// under single-choice rules prior votes on other options are removed.
func (f *fakeCollabRepo) UpsertVote(_ context.Context, params CastVoteParams) (*CollabVote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if params.SingleChoice {
		kept := f.votes[:0]
		for _, v := range f.votes {
			if v.SessionID == params.SessionID && v.VoterID == params.VoterID && v.OptionID != params.OptionID {
				continue
			}
			kept = append(kept, v)
		}
		f.votes = kept
	}

	for _, v := range f.votes {
		if v.SessionID == params.SessionID && v.VoterID == params.VoterID && v.OptionID == params.OptionID {
			v.Weight = params.Weight
			v.Comment = params.Comment
			v.UpdatedAt = time.Now()
			return v, nil
		}
	}

	v := &CollabVote{
		ID:        uuid.New(),
		SessionID: params.SessionID,
		OptionID:  params.OptionID,
		VoterID:   params.VoterID,
		Weight:    params.Weight,
		Comment:   params.Comment,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.votes = append(f.votes, v)
	return v, nil
}

func (f *fakeCollabRepo) GetVotes(_ context.Context, sessionID uuid.UUID) ([]*CollabVote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*CollabVote
	for _, v := range f.votes {
		if v.SessionID == sessionID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeCollabRepo) GetUserVotes(_ context.Context, sessionID, voterID uuid.UUID) ([]*CollabVote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*CollabVote
	for _, v := range f.votes {
		if v.SessionID == sessionID && v.VoterID == voterID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeCollabRepo) GetParticipants(_ context.Context, sessionID uuid.UUID) ([]Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	seen := map[uuid.UUID]bool{s.CreatorID: true}
	participants := []Participant{{UserID: s.CreatorID, IsCreator: true}}
	for _, v := range f.votes {
		if v.SessionID != sessionID || seen[v.VoterID] {
			continue
		}
		seen[v.VoterID] = true
		participants = append(participants, Participant{UserID: v.VoterID, HasVoted: true})
	}
	return participants, nil
}
