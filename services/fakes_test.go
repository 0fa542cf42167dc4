package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"matchnight/models"
	"matchnight/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeMatchRepo — журнал матчей в памяти, порядок вставки сохраняется.
type fakeMatchRepo struct {
	matches   []models.Match
	createErr error
	deleteErr error
	listErr   error
}

func (f *fakeMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	if f.createErr != nil {
		return f.createErr
	}
	match.CreatedAt = time.Now()
	f.matches = append(f.matches, *match)
	return nil
}

func (f *fakeMatchRepo) GetByID(ctx context.Context, id string) (*models.Match, error) {
	for _, m := range f.matches {
		if m.ID == id {
			match := m
			return &match, nil
		}
	}
	return nil, repositories.ErrMatchNotFound
}

func (f *fakeMatchRepo) ListBySession(ctx context.Context, sessionID string) ([]models.Match, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Match, 0)
	for _, m := range f.matches {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMatchRepo) CountBySession(ctx context.Context, sessionID string) (int, error) {
	matches, err := f.ListBySession(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return len(matches), nil
}

func (f *fakeMatchRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, m := range f.matches {
		if m.ID == id {
			f.matches = append(f.matches[:i], f.matches[i+1:]...)
			return nil
		}
	}
	return repositories.ErrMatchNotFound
}

type fakeSessionRepo struct {
	sessions  map[string]*models.Session
	createErr error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*models.Session)}
}

func (f *fakeSessionRepo) Create(ctx context.Context, session *models.Session) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, s := range f.sessions {
		if s.JoinCode == session.JoinCode {
			return repositories.ErrSessionCodeConflict
		}
	}
	session.CreatedAt = time.Now()
	stored := *session
	f.sessions[session.ID] = &stored
	return nil
}

func (f *fakeSessionRepo) GetByID(ctx context.Context, id string) (*models.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, repositories.ErrSessionNotFound
	}
	session := *s
	return &session, nil
}

func (f *fakeSessionRepo) GetByJoinCode(ctx context.Context, joinCode string) (*models.Session, error) {
	for _, s := range f.sessions {
		if s.JoinCode == joinCode && s.Status == models.SessionStatusActive {
			session := *s
			return &session, nil
		}
	}
	return nil, repositories.ErrSessionNotFound
}

func (f *fakeSessionRepo) ListByGroup(ctx context.Context, groupID string) ([]models.Session, error) {
	out := make([]models.Session, 0)
	for _, s := range f.sessions {
		if s.GroupID != nil && *s.GroupID == groupID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) UpdateStatus(ctx context.Context, id string, status models.SessionStatus, endedAt *time.Time) error {
	s, ok := f.sessions[id]
	if !ok {
		return repositories.ErrSessionNotFound
	}
	s.Status = status
	s.EndedAt = endedAt
	return nil
}

type fakePlayerRepo struct {
	players []models.SessionPlayer
}

func (f *fakePlayerRepo) Create(ctx context.Context, player *models.SessionPlayer) error {
	for _, p := range f.players {
		if p.SessionID == player.SessionID && p.AccountID != nil && player.AccountID != nil && *p.AccountID == *player.AccountID {
			return repositories.ErrSessionPlayerAccountConflict
		}
	}
	player.CreatedAt = time.Now()
	f.players = append(f.players, *player)
	return nil
}

func (f *fakePlayerRepo) GetByID(ctx context.Context, id string) (*models.SessionPlayer, error) {
	for _, p := range f.players {
		if p.ID == id {
			player := p
			return &player, nil
		}
	}
	return nil, repositories.ErrSessionPlayerNotFound
}

func (f *fakePlayerRepo) ListBySession(ctx context.Context, sessionID string) ([]models.SessionPlayer, error) {
	out := make([]models.SessionPlayer, 0)
	for _, p := range f.players {
		if p.SessionID == sessionID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePlayerRepo) ListBySessions(ctx context.Context, sessionIDs []string) ([]models.SessionPlayer, error) {
	wanted := make(map[string]bool, len(sessionIDs))
	for _, id := range sessionIDs {
		wanted[id] = true
	}
	out := make([]models.SessionPlayer, 0)
	for _, p := range f.players {
		if wanted[p.SessionID] {
			out = append(out, p)
		}
	}
	return out, nil
}

// fakeStandingRepo фиксирует, что именно было записано последней заменой.
type fakeStandingRepo struct {
	players    map[string][]models.PlayerStanding
	pairs      map[string][]models.PairStanding
	replaceErr error
	replaces   int
}

func newFakeStandingRepo() *fakeStandingRepo {
	return &fakeStandingRepo{
		players: make(map[string][]models.PlayerStanding),
		pairs:   make(map[string][]models.PairStanding),
	}
}

func (f *fakeStandingRepo) ReplaceForSession(ctx context.Context, exec repositories.SQLExecutor, sessionID string, players []models.PlayerStanding, pairs []models.PairStanding) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.players[sessionID] = players
	f.pairs[sessionID] = pairs
	f.replaces++
	return nil
}

func (f *fakeStandingRepo) ListPlayerStandingsBySession(ctx context.Context, sessionID string) ([]models.PlayerStanding, error) {
	return append([]models.PlayerStanding(nil), f.players[sessionID]...), nil
}

func (f *fakeStandingRepo) ListPairStandingsBySession(ctx context.Context, sessionID string) ([]models.PairStanding, error) {
	return append([]models.PairStanding(nil), f.pairs[sessionID]...), nil
}

func (f *fakeStandingRepo) ListPlayerStandingsBySessions(ctx context.Context, sessionIDs []string) ([]models.PlayerStanding, error) {
	out := make([]models.PlayerStanding, 0)
	for _, id := range sessionIDs {
		out = append(out, f.players[id]...)
	}
	return out, nil
}

func (f *fakeStandingRepo) ListPairStandingsBySessions(ctx context.Context, sessionIDs []string) ([]models.PairStanding, error) {
	out := make([]models.PairStanding, 0)
	for _, id := range sessionIDs {
		out = append(out, f.pairs[id]...)
	}
	return out, nil
}

type fakeGroupRepo struct {
	groups  map[string]*models.Group
	members map[string][]models.GroupMember
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{
		groups:  make(map[string]*models.Group),
		members: make(map[string][]models.GroupMember),
	}
}

func (f *fakeGroupRepo) Create(ctx context.Context, group *models.Group) error {
	group.CreatedAt = time.Now()
	stored := *group
	f.groups[group.ID] = &stored
	return nil
}

func (f *fakeGroupRepo) GetByID(ctx context.Context, id string) (*models.Group, error) {
	g, ok := f.groups[id]
	if !ok {
		return nil, repositories.ErrGroupNotFound
	}
	group := *g
	return &group, nil
}

func (f *fakeGroupRepo) AddMember(ctx context.Context, member *models.GroupMember) error {
	for _, m := range f.members[member.GroupID] {
		if m.AccountID == member.AccountID {
			return repositories.ErrGroupMemberConflict
		}
	}
	member.JoinedAt = time.Now()
	f.members[member.GroupID] = append(f.members[member.GroupID], *member)
	return nil
}

func (f *fakeGroupRepo) ListMembers(ctx context.Context, groupID string) ([]models.GroupMember, error) {
	return append([]models.GroupMember(nil), f.members[groupID]...), nil
}

func (f *fakeGroupRepo) IsMember(ctx context.Context, groupID, accountID string) (bool, error) {
	for _, m := range f.members[groupID] {
		if m.AccountID == accountID {
			return true, nil
		}
	}
	return false, nil
}

type fakeAccountRepo struct {
	accounts map[string]*models.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[string]*models.Account)}
}

func (f *fakeAccountRepo) Create(ctx context.Context, account *models.Account) error {
	account.CreatedAt = time.Now()
	stored := *account
	f.accounts[account.ID] = &stored
	return nil
}

func (f *fakeAccountRepo) GetByID(ctx context.Context, id string) (*models.Account, error) {
	a, ok := f.accounts[id]
	if !ok {
		return nil, repositories.ErrAccountNotFound
	}
	account := *a
	return &account, nil
}

type fakeInviteRepo struct {
	invites map[string]*models.GroupInvite
}

func newFakeInviteRepo() *fakeInviteRepo {
	return &fakeInviteRepo{invites: make(map[string]*models.GroupInvite)}
}

func (f *fakeInviteRepo) Create(ctx context.Context, invite *models.GroupInvite) error {
	for _, inv := range f.invites {
		if inv.Token == invite.Token {
			return repositories.ErrInviteTokenConflict
		}
	}
	invite.CreatedAt = time.Now()
	stored := *invite
	f.invites[invite.ID] = &stored
	return nil
}

func (f *fakeInviteRepo) GetByID(ctx context.Context, id string) (*models.GroupInvite, error) {
	inv, ok := f.invites[id]
	if !ok {
		return nil, repositories.ErrInviteNotFound
	}
	invite := *inv
	return &invite, nil
}

func (f *fakeInviteRepo) GetByToken(ctx context.Context, token string) (*models.GroupInvite, error) {
	for _, inv := range f.invites {
		if inv.Token == token {
			invite := *inv
			return &invite, nil
		}
	}
	return nil, repositories.ErrInviteNotFound
}

func (f *fakeInviteRepo) ListByGroup(ctx context.Context, groupID string) ([]models.GroupInvite, error) {
	out := make([]models.GroupInvite, 0)
	for _, inv := range f.invites {
		if inv.GroupID == groupID {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (f *fakeInviteRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.invites[id]; !ok {
		return repositories.ErrInviteNotFound
	}
	delete(f.invites, id)
	return nil
}
