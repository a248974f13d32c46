package service

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"hackportal/internal/common"
	"hackportal/internal/common/security"
	"hackportal/internal/domain/model"
	"hackportal/internal/platform/config"
)

func TestMain(m *testing.M) {
	config.AppConfig = &config.Config{
		JWTKey:                []byte("test-secret"),
		JWTExp:                time.Hour,
		AnnouncementQueueName: "announcement_fanout_queue",
		JoinCodeLength:        8,
		InviteCodeLength:      12,
		DefaultTeamSize:       4,
	}
	security.InitJWT()
	os.Exit(m.Run())
}

// The services run their invariant checks inside database/sql
// transactions while the fakes below hold the actual data, so the
// transaction handle only needs to begin, commit and roll back.
type stubDriver struct{}

func (stubDriver) Open(string) (driver.Conn, error) { return stubConn{}, nil }

type stubConn struct{}

func (stubConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (stubConn) Close() error                        { return nil }
func (stubConn) Begin() (driver.Tx, error)           { return stubTx{}, nil }

type stubTx struct{}

func (stubTx) Commit() error   { return nil }
func (stubTx) Rollback() error { return nil }

func init() {
	sql.Register("txstub", stubDriver{})
}

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("txstub", "")
	if err != nil {
		t.Fatalf("open stub db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func strPtr(s string) *string { return &s }

// --- fakes ---

type fakeUserRepo struct {
	users    map[string]*model.User    // by id
	profiles map[string]*model.Profile // by user id
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:    make(map[string]*model.User),
		profiles: make(map[string]*model.Profile),
	}
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, tx *sql.Tx, user *model.User) error {
	for _, u := range f.users {
		if strings.EqualFold(u.Username, user.Username) || strings.EqualFold(u.Email, user.Email) {
			return common.Errorf("username or email already taken: %w", common.ErrConflict)
		}
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) CreateProfile(ctx context.Context, tx *sql.Tx, profile *model.Profile) error {
	if _, ok := f.profiles[profile.UserID]; ok {
		return common.Errorf("profile already exists: %w", common.ErrConflict)
	}
	cp := *profile
	f.profiles[profile.UserID] = &cp
	return nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Username, username) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) FindProfileByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeUserRepo) UpdateProfile(ctx context.Context, profile *model.Profile) error {
	if _, ok := f.profiles[profile.UserID]; !ok {
		return common.ErrNotFound
	}
	cp := *profile
	f.profiles[profile.UserID] = &cp
	return nil
}

type fakeEventRepo struct {
	events map[string]*model.Event // by id
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[string]*model.Event)}
}

func (f *fakeEventRepo) addEvent(e model.Event) {
	cp := e
	f.events[e.ID] = &cp
}

func (f *fakeEventRepo) CreateEvent(ctx context.Context, tx *sql.Tx, event *model.Event) error {
	for _, e := range f.events {
		if e.Slug == event.Slug {
			return common.Errorf("slug already taken: %w", common.ErrConflict)
		}
	}
	cp := *event
	f.events[event.ID] = &cp
	return nil
}

func (f *fakeEventRepo) UpdateEvent(ctx context.Context, tx *sql.Tx, event *model.Event) error {
	if _, ok := f.events[event.ID]; !ok {
		return common.ErrNotFound
	}
	cp := *event
	f.events[event.ID] = &cp
	return nil
}

func (f *fakeEventRepo) FindEventByID(ctx context.Context, id string) (*model.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEventRepo) FindEventBySlug(ctx context.Context, slug string) (*model.Event, error) {
	for _, e := range f.events {
		if e.Slug == slug {
			cp := *e
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeEventRepo) ListPublished(ctx context.Context, limit, offset int) ([]model.Event, error) {
	var out []model.Event
	for _, e := range f.events {
		if e.Status == model.EventPublished {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) ListByCreator(ctx context.Context, creatorID string) ([]model.Event, error) {
	var out []model.Event
	for _, e := range f.events {
		if e.CreatedByID != nil && *e.CreatedByID == creatorID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) ReplaceProblemStatements(ctx context.Context, tx *sql.Tx, eventID string, items []model.ProblemStatement) error {
	f.events[eventID].ProblemStatements = items
	return nil
}

func (f *fakeEventRepo) ReplaceFAQs(ctx context.Context, tx *sql.Tx, eventID string, items []model.FAQ) error {
	f.events[eventID].FAQs = items
	return nil
}

func (f *fakeEventRepo) ReplaceEligibility(ctx context.Context, tx *sql.Tx, eventID string, items []model.EligibilityRule) error {
	f.events[eventID].Eligibility = items
	return nil
}

func (f *fakeEventRepo) ReplaceSteps(ctx context.Context, tx *sql.Tx, eventID string, items []model.ParticipationStep) error {
	f.events[eventID].Steps = items
	return nil
}

func (f *fakeEventRepo) ReplaceOrganizers(ctx context.Context, tx *sql.Tx, eventID string, items []model.Organizer) error {
	f.events[eventID].Organizers = items
	return nil
}

func (f *fakeEventRepo) ReplaceSponsors(ctx context.Context, tx *sql.Tx, eventID string, items []model.Sponsor) error {
	f.events[eventID].Sponsors = items
	return nil
}

func (f *fakeEventRepo) ReplaceSchedule(ctx context.Context, tx *sql.Tx, eventID string, days []model.ScheduleDay) error {
	f.events[eventID].ScheduleDays = days
	return nil
}

func (f *fakeEventRepo) LoadDetails(ctx context.Context, event *model.Event) error {
	stored, ok := f.events[event.ID]
	if !ok {
		return common.ErrNotFound
	}
	event.ProblemStatements = stored.ProblemStatements
	event.ScheduleDays = stored.ScheduleDays
	event.Eligibility = stored.Eligibility
	event.Steps = stored.Steps
	event.Organizers = stored.Organizers
	event.FAQs = stored.FAQs
	event.Sponsors = stored.Sponsors
	return nil
}

type fakeTeamRepo struct {
	teams   map[string]*model.Team // by id
	members []model.TeamMember
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{teams: make(map[string]*model.Team)}
}

func (f *fakeTeamRepo) CreateTeam(ctx context.Context, tx *sql.Tx, t *model.Team) error {
	for _, existing := range f.teams {
		if existing.EventID == t.EventID && strings.EqualFold(existing.Name, t.Name) {
			return common.Errorf("team name already taken: %w", common.ErrConflict)
		}
		if strings.EqualFold(existing.JoinCode, t.JoinCode) {
			return common.Errorf("join code already taken: %w", common.ErrConflict)
		}
	}
	cp := *t
	f.teams[t.ID] = &cp
	return nil
}

func (f *fakeTeamRepo) CreateMember(ctx context.Context, tx *sql.Tx, m *model.TeamMember) error {
	for _, existing := range f.members {
		if existing.EventID == m.EventID && existing.UserID == m.UserID {
			return common.Errorf("account already has a team in this event: %w", common.ErrConflict)
		}
	}
	f.members = append(f.members, *m)
	return nil
}

func (f *fakeTeamRepo) FindTeamByID(ctx context.Context, id string) (*model.Team, error) {
	t, ok := f.teams[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTeamRepo) FindTeamByCodeForUpdate(ctx context.Context, tx *sql.Tx, eventID, joinCode string) (*model.Team, error) {
	for _, t := range f.teams {
		if t.EventID == eventID && strings.EqualFold(t.JoinCode, joinCode) {
			cp := *t
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeTeamRepo) HasMembership(ctx context.Context, tx *sql.Tx, eventID, userID string) (bool, error) {
	for _, m := range f.members {
		if m.EventID == eventID && m.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTeamRepo) CountAcceptedMembers(ctx context.Context, tx *sql.Tx, teamID string) (int, error) {
	count := 0
	for _, m := range f.members {
		if m.TeamID == teamID && m.Status == model.MemberAccepted {
			count++
		}
	}
	return count, nil
}

func (f *fakeTeamRepo) TeamNameExists(ctx context.Context, tx *sql.Tx, eventID, name string) (bool, error) {
	for _, t := range f.teams {
		if t.EventID == eventID && strings.EqualFold(t.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTeamRepo) JoinCodeExists(ctx context.Context, tx *sql.Tx, joinCode string) (bool, error) {
	for _, t := range f.teams {
		if strings.EqualFold(t.JoinCode, joinCode) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTeamRepo) FindMembershipByUser(ctx context.Context, eventID, userID string) (*model.TeamMember, error) {
	for _, m := range f.members {
		if m.EventID == eventID && m.UserID == userID {
			cp := m
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeTeamRepo) GetMembers(ctx context.Context, teamID string) ([]model.TeamMember, error) {
	var out []model.TeamMember
	for _, m := range f.members {
		if m.TeamID == teamID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeTeamRepo) ListAcceptedUserIDsByEvent(ctx context.Context, eventID string) ([]string, error) {
	var out []string
	for _, m := range f.members {
		if m.EventID == eventID && m.Status == model.MemberAccepted {
			out = append(out, m.UserID)
		}
	}
	return out, nil
}

func (f *fakeTeamRepo) CountTeamsByEvent(ctx context.Context, eventID string) (int, error) {
	count := 0
	for _, t := range f.teams {
		if t.EventID == eventID {
			count++
		}
	}
	return count, nil
}

func (f *fakeTeamRepo) CountAcceptedMembersByEvent(ctx context.Context, eventID string) (int, error) {
	count := 0
	for _, m := range f.members {
		if m.EventID == eventID && m.Status == model.MemberAccepted {
			count++
		}
	}
	return count, nil
}

type fakeSubmissionRepo struct {
	byTeam    map[string]*model.Submission
	published map[string]bool // by submission id, mirrors the event status join
	scores    []model.JudgingScore
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{
		byTeam:    make(map[string]*model.Submission),
		published: make(map[string]bool),
	}
}

func (f *fakeSubmissionRepo) UpsertSubmission(ctx context.Context, s *model.Submission) error {
	if existing, ok := f.byTeam[s.TeamID]; ok {
		existing.ProblemStatementID = s.ProblemStatementID
		existing.Title = s.Title
		existing.Description = s.Description
		existing.RepoLink = s.RepoLink
		existing.DemoLink = s.DemoLink
		existing.UpdatedAt = time.Now()
		return nil
	}
	cp := *s
	cp.SubmittedAt = time.Now()
	cp.UpdatedAt = cp.SubmittedAt
	f.byTeam[s.TeamID] = &cp
	f.published[s.ID] = true
	return nil
}

func (f *fakeSubmissionRepo) FindByTeamID(ctx context.Context, teamID string) (*model.Submission, error) {
	s, ok := f.byTeam[teamID]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSubmissionRepo) FindByID(ctx context.Context, id string) (*model.Submission, error) {
	for _, s := range f.byTeam {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeSubmissionRepo) CreateScore(ctx context.Context, score *model.JudgingScore) error {
	for _, sc := range f.scores {
		if sc.JudgeID == score.JudgeID && sc.SubmissionID == score.SubmissionID {
			return common.Errorf("judge already scored this submission: %w", common.ErrConflict)
		}
	}
	cp := *score
	cp.CreatedAt = time.Now()
	f.scores = append(f.scores, cp)
	return nil
}

func (f *fakeSubmissionRepo) ListScoresBySubmission(ctx context.Context, submissionID string) ([]model.JudgingScore, error) {
	var out []model.JudgingScore
	for _, sc := range f.scores {
		if sc.SubmissionID == submissionID {
			out = append(out, sc)
		}
	}
	return out, nil
}

func (f *fakeSubmissionRepo) ListUnscoredForJudge(ctx context.Context, judgeID string) ([]model.Submission, error) {
	var out []model.Submission
	for _, s := range f.byTeam {
		if !f.published[s.ID] {
			continue
		}
		scored := false
		for _, sc := range f.scores {
			if sc.JudgeID == judgeID && sc.SubmissionID == s.ID {
				scored = true
				break
			}
		}
		if !scored {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSubmissionRepo) CountScoresByJudge(ctx context.Context, judgeID string) (int, error) {
	count := 0
	for _, sc := range f.scores {
		if sc.JudgeID == judgeID {
			count++
		}
	}
	return count, nil
}

type fakeInviteRepo struct {
	codes map[string]*model.InviteCode // by lower(code)
}

func newFakeInviteRepo() *fakeInviteRepo {
	return &fakeInviteRepo{codes: make(map[string]*model.InviteCode)}
}

func (f *fakeInviteRepo) CreateInviteCode(ctx context.Context, code *model.InviteCode) error {
	key := strings.ToLower(code.Code)
	if _, ok := f.codes[key]; ok {
		return common.Errorf("code already exists: %w", common.ErrConflict)
	}
	cp := *code
	f.codes[key] = &cp
	return nil
}

func (f *fakeInviteRepo) RedeemInviteCode(ctx context.Context, tx *sql.Tx, code string) (string, error) {
	c, ok := f.codes[strings.ToLower(code)]
	if !ok {
		return "", common.ErrNotFound
	}
	if c.UsedCount >= c.MaxUses {
		return "", common.Errorf("invite code exhausted: %w", common.ErrConflict)
	}
	c.UsedCount++
	return c.Role, nil
}

func (f *fakeInviteRepo) ListByCreator(ctx context.Context, creatorID string) ([]model.InviteCode, error) {
	var out []model.InviteCode
	for _, c := range f.codes {
		if c.CreatedByID == creatorID {
			out = append(out, *c)
		}
	}
	return out, nil
}

type fakeNotificationRepo struct {
	announcements map[string]*model.Announcement
	inbox         map[string]model.Notification // by notification id
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{
		announcements: make(map[string]*model.Announcement),
		inbox:         make(map[string]model.Notification),
	}
}

func (f *fakeNotificationRepo) CreateAnnouncement(ctx context.Context, a *model.Announcement) error {
	cp := *a
	cp.CreatedAt = time.Now()
	f.announcements[a.ID] = &cp
	return nil
}

func (f *fakeNotificationRepo) FindAnnouncementByID(ctx context.Context, id string) (*model.Announcement, error) {
	a, ok := f.announcements[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeNotificationRepo) ListAnnouncementsByEvent(ctx context.Context, eventID string) ([]model.Announcement, error) {
	var out []model.Announcement
	for _, a := range f.announcements {
		if a.EventID == eventID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) CreateNotifications(ctx context.Context, notifications []model.Notification) error {
	for _, n := range notifications {
		if _, ok := f.inbox[n.ID]; ok {
			continue // redelivered rows are skipped, as ON CONFLICT DO NOTHING would
		}
		n.CreatedAt = time.Now()
		f.inbox[n.ID] = n
	}
	return nil
}

func (f *fakeNotificationRepo) ListByUser(ctx context.Context, userID string) ([]model.Notification, error) {
	var out []model.Notification
	for _, n := range f.inbox {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID string) (int, error) {
	count := 0
	for id, n := range f.inbox {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			f.inbox[id] = n
			count++
		}
	}
	return count, nil
}
