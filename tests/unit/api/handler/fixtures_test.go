package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/huddle14/huddle/internal/api/middleware"
	"github.com/huddle14/huddle/internal/auth"
	"github.com/huddle14/huddle/internal/database"
	"github.com/huddle14/huddle/internal/invite"
	"github.com/huddle14/huddle/internal/project"
	"github.com/huddle14/huddle/internal/team"
)

// --- Request helpers ---

func makeChiRequest(method, path string, body []byte, params map[string]string) (*http.Request, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	return req, w
}

func asUser(req *http.Request, userID uuid.UUID) *http.Request {
	return req.WithContext(middleware.WithIdentity(req.Context(), &auth.Identity{UserID: userID}))
}

func parseEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var env map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &env)
	require.NoError(t, err, "failed to parse response body")
	return env
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	env := parseEnvelope(t, w)
	errObj, ok := env["error"].(map[string]interface{})
	require.True(t, ok, "expected an error envelope, got %s", w.Body.String())
	return errObj["code"].(string)
}

// --- In-memory world ---

// world is a small in-memory backend playing every repository role, so
// handlers can be exercised through real services without a database.
type world struct {
	users    map[uuid.UUID]*auth.User
	teams    map[uuid.UUID]*team.Team
	members  map[uuid.UUID]*team.Member
	invites  map[uuid.UUID]*invite.Invite
	projects map[uuid.UUID]*project.Project
	tasks    map[uuid.UUID]*project.Task
	subTasks map[uuid.UUID]*project.SubTask
}

func newWorld() *world {
	return &world{
		users:    map[uuid.UUID]*auth.User{},
		teams:    map[uuid.UUID]*team.Team{},
		members:  map[uuid.UUID]*team.Member{},
		invites:  map[uuid.UUID]*invite.Invite{},
		projects: map[uuid.UUID]*project.Project{},
		tasks:    map[uuid.UUID]*project.Task{},
		subTasks: map[uuid.UUID]*project.SubTask{},
	}
}

func (w *world) addUser(email string) *auth.User {
	u := &auth.User{ID: uuid.New(), Email: email, CreatedAt: time.Now().UTC()}
	w.users[u.ID] = u
	return u
}

func (w *world) addTeam(name string, ownerID uuid.UUID) *team.Team {
	t := &team.Team{ID: uuid.New(), Name: name, OwnerID: ownerID, CreatedAt: time.Now().UTC()}
	w.teams[t.ID] = t
	w.addMember(t.ID, ownerID, team.RoleOwner)
	return t
}

func (w *world) addMember(teamID, userID uuid.UUID, role string) *team.Member {
	m := &team.Member{ID: uuid.New(), TeamID: teamID, UserID: userID, Role: role, CreatedAt: time.Now().UTC()}
	w.members[m.ID] = m
	return m
}

func (w *world) addInvite(teamID, authorID uuid.UUID, guestEmail string) *invite.Invite {
	inv := &invite.Invite{ID: uuid.New(), TeamID: teamID, AuthorID: authorID, GuestEmail: guestEmail, Status: invite.StatusPending, CreatedAt: time.Now().UTC()}
	w.invites[inv.ID] = inv
	return inv
}

func (w *world) addProject(teamID uuid.UUID, name string) *project.Project {
	p := &project.Project{ID: uuid.New(), TeamID: teamID, Name: name, CreatedAt: time.Now().UTC()}
	w.projects[p.ID] = p
	return p
}

func (w *world) addTask(projectID, memberID uuid.UUID, description string) *project.Task {
	t := &project.Task{ID: uuid.New(), ProjectID: projectID, MemberID: memberID, Description: description, CreatedAt: time.Now().UTC()}
	w.tasks[t.ID] = t
	return t
}

func (w *world) addSubTask(taskID uuid.UUID, description string, done bool) *project.SubTask {
	st := &project.SubTask{ID: uuid.New(), TaskID: taskID, Description: description, IsDone: done, CreatedAt: time.Now().UTC()}
	w.subTasks[st.ID] = st
	return st
}

// --- Transaction fakes ---

type fakeTx struct{}

func (f *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (f *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (f *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }

func (f *fakeTx) Commit(ctx context.Context) error { return nil }

func (f *fakeTx) Rollback(ctx context.Context) error { return nil }

type fakeBeginner struct{}

func (f *fakeBeginner) Begin(ctx context.Context) (database.Tx, error) { return &fakeTx{}, nil }

// --- Repository adapters over world ---

type worldUserRepo struct{ w *world }

func (r *worldUserRepo) Upsert(ctx context.Context, u *auth.User) error {
	for _, existing := range r.w.users {
		if existing.Email == u.Email {
			*u = *existing
			return nil
		}
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now().UTC()
	r.w.users[u.ID] = u
	return nil
}

func (r *worldUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	if u, ok := r.w.users[id]; ok {
		return u, nil
	}
	return nil, auth.ErrUserNotFound
}

func (r *worldUserRepo) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	for _, u := range r.w.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, auth.ErrUserNotFound
}

type worldTeamRepo struct{ w *world }

func (r *worldTeamRepo) WithTx(tx database.Tx) team.Repository { return r }

func (r *worldTeamRepo) Create(ctx context.Context, t *team.Team) error {
	t.ID = uuid.New()
	t.CreatedAt = time.Now().UTC()
	r.w.teams[t.ID] = t
	return nil
}

func (r *worldTeamRepo) GetByID(ctx context.Context, id uuid.UUID) (*team.Team, error) {
	if t, ok := r.w.teams[id]; ok {
		return t, nil
	}
	return nil, team.ErrTeamNotFound
}

func (r *worldTeamRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]team.Team, error) {
	var out []team.Team
	for _, m := range r.w.members {
		if m.UserID == userID {
			if t, ok := r.w.teams[m.TeamID]; ok {
				out = append(out, *t)
			}
		}
	}
	return out, nil
}

func (r *worldTeamRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.w.teams[id]; !ok {
		return team.ErrTeamNotFound
	}
	delete(r.w.teams, id)
	return nil
}

type worldMemberRepo struct{ w *world }

func (r *worldMemberRepo) WithTx(tx database.Tx) team.MemberRepository { return r }

func (r *worldMemberRepo) Create(ctx context.Context, m *team.Member) error {
	for _, existing := range r.w.members {
		if existing.TeamID == m.TeamID && existing.UserID == m.UserID {
			return team.ErrAlreadyMember
		}
	}
	m.ID = uuid.New()
	m.CreatedAt = time.Now().UTC()
	r.w.members[m.ID] = m
	return nil
}

func (r *worldMemberRepo) Get(ctx context.Context, teamID, userID uuid.UUID) (*team.Member, error) {
	for _, m := range r.w.members {
		if m.TeamID == teamID && m.UserID == userID {
			return m, nil
		}
	}
	return nil, team.ErrMemberNotFound
}

func (r *worldMemberRepo) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]team.Member, error) {
	var out []team.Member
	for _, m := range r.w.members {
		if m.TeamID == teamID {
			out = append(out, *m)
		}
	}
	return out, nil
}

type worldInviteRepo struct{ w *world }

func (r *worldInviteRepo) WithTx(tx database.Tx) invite.Repository { return r }

func (r *worldInviteRepo) Create(ctx context.Context, inv *invite.Invite) error {
	for _, existing := range r.w.invites {
		if existing.TeamID == inv.TeamID && existing.GuestEmail == inv.GuestEmail && existing.Status == invite.StatusPending {
			return invite.ErrDuplicateInvite
		}
	}
	inv.ID = uuid.New()
	inv.Status = invite.StatusPending
	inv.CreatedAt = time.Now().UTC()
	r.w.invites[inv.ID] = inv
	return nil
}

func (r *worldInviteRepo) GetByID(ctx context.Context, id uuid.UUID) (*invite.Invite, error) {
	if inv, ok := r.w.invites[id]; ok {
		cp := *inv
		return &cp, nil
	}
	return nil, invite.ErrInviteNotFound
}

func (r *worldInviteRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*invite.Invite, error) {
	return r.GetByID(ctx, id)
}

func (r *worldInviteRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	inv, ok := r.w.invites[id]
	if !ok {
		return invite.ErrInviteNotFound
	}
	inv.Status = status
	return nil
}

func (r *worldInviteRepo) Delete(ctx context.Context, id, teamID uuid.UUID) error {
	inv, ok := r.w.invites[id]
	if !ok || inv.TeamID != teamID {
		return invite.ErrInviteNotFound
	}
	delete(r.w.invites, id)
	return nil
}

func (r *worldInviteRepo) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]invite.Invite, error) {
	var out []invite.Invite
	for _, inv := range r.w.invites {
		if inv.TeamID == teamID {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (r *worldInviteRepo) ListForGuest(ctx context.Context, guestEmail string) ([]invite.GuestInvite, error) {
	var out []invite.GuestInvite
	for _, inv := range r.w.invites {
		if inv.GuestEmail == guestEmail && inv.Status == invite.StatusPending {
			gi := invite.GuestInvite{ID: inv.ID}
			if t, ok := r.w.teams[inv.TeamID]; ok {
				gi.TeamName = t.Name
			}
			if u, ok := r.w.users[inv.AuthorID]; ok {
				gi.AuthorName = u.Name
			}
			out = append(out, gi)
		}
	}
	return out, nil
}

type worldProjectRepo struct{ w *world }

func (r *worldProjectRepo) WithTx(tx database.Tx) project.ProjectRepository { return r }

func (r *worldProjectRepo) Create(ctx context.Context, p *project.Project) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now().UTC()
	r.w.projects[p.ID] = p
	return nil
}

func (r *worldProjectRepo) GetByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	if p, ok := r.w.projects[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, project.ErrProjectNotFound
}

func (r *worldProjectRepo) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]project.Project, error) {
	var out []project.Project
	for _, p := range r.w.projects {
		if p.TeamID == teamID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *worldProjectRepo) Update(ctx context.Context, id uuid.UUID, name, description string) error {
	p, ok := r.w.projects[id]
	if !ok {
		return project.ErrProjectNotFound
	}
	p.Name = name
	p.Description = description
	return nil
}

func (r *worldProjectRepo) SetPercentage(ctx context.Context, id uuid.UUID, percentage float64) error {
	p, ok := r.w.projects[id]
	if !ok {
		return project.ErrProjectNotFound
	}
	p.Percentage = percentage
	return nil
}

func (r *worldProjectRepo) Lock(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.w.projects[id]; !ok {
		return project.ErrProjectNotFound
	}
	return nil
}

type worldTaskRepo struct{ w *world }

func (r *worldTaskRepo) WithTx(tx database.Tx) project.TaskRepository { return r }

func (r *worldTaskRepo) Create(ctx context.Context, t *project.Task) error {
	t.ID = uuid.New()
	t.CreatedAt = time.Now().UTC()
	r.w.tasks[t.ID] = t
	return nil
}

func (r *worldTaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*project.Task, error) {
	if t, ok := r.w.tasks[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, project.ErrTaskNotFound
}

func (r *worldTaskRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]project.TaskWithAssignee, error) {
	var out []project.TaskWithAssignee
	for _, t := range r.w.tasks {
		if t.ProjectID == projectID {
			twa := project.TaskWithAssignee{Task: *t}
			if u, ok := r.w.users[t.MemberID]; ok {
				twa.AssigneeName = u.Name
				twa.AssigneeAvatarURL = &u.AvatarURL
			}
			out = append(out, twa)
		}
	}
	return out, nil
}

func (r *worldTaskRepo) Percentages(ctx context.Context, projectID uuid.UUID) ([]float64, error) {
	var out []float64
	for _, t := range r.w.tasks {
		if t.ProjectID == projectID {
			out = append(out, t.Percentage)
		}
	}
	return out, nil
}

func (r *worldTaskRepo) Update(ctx context.Context, id, projectID, memberID uuid.UUID, description string) error {
	t, ok := r.w.tasks[id]
	if !ok {
		return project.ErrTaskNotFound
	}
	t.MemberID = memberID
	t.Description = description
	return nil
}

func (r *worldTaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.w.tasks[id]; !ok {
		return project.ErrTaskNotFound
	}
	delete(r.w.tasks, id)
	return nil
}

func (r *worldTaskRepo) SetPercentage(ctx context.Context, id uuid.UUID, percentage float64) (uuid.UUID, error) {
	t, ok := r.w.tasks[id]
	if !ok {
		return uuid.Nil, project.ErrTaskNotFound
	}
	t.Percentage = percentage
	return t.ProjectID, nil
}

func (r *worldTaskRepo) Lock(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.w.tasks[id]; !ok {
		return project.ErrTaskNotFound
	}
	return nil
}

func (r *worldTaskRepo) TaskMemberID(ctx context.Context, taskID uuid.UUID) (uuid.UUID, bool, error) {
	if t, ok := r.w.tasks[taskID]; ok {
		return t.MemberID, true, nil
	}
	return uuid.Nil, false, nil
}

type worldSubTaskRepo struct{ w *world }

func (r *worldSubTaskRepo) WithTx(tx database.Tx) project.SubTaskRepository { return r }

func (r *worldSubTaskRepo) CreateMany(ctx context.Context, taskID uuid.UUID, descriptions []string) error {
	for _, d := range descriptions {
		r.w.addSubTask(taskID, d, false)
	}
	return nil
}

func (r *worldSubTaskRepo) ListByTask(ctx context.Context, taskID uuid.UUID) ([]project.SubTask, error) {
	var out []project.SubTask
	for _, st := range r.w.subTasks {
		if st.TaskID == taskID {
			out = append(out, *st)
		}
	}
	return out, nil
}

func (r *worldSubTaskRepo) SetDone(ctx context.Context, id, taskID uuid.UUID, isDone bool) error {
	st, ok := r.w.subTasks[id]
	if !ok || st.TaskID != taskID {
		return project.ErrSubTaskNotFound
	}
	st.IsDone = isDone
	return nil
}

func (r *worldSubTaskRepo) Delete(ctx context.Context, id, taskID uuid.UUID) error {
	st, ok := r.w.subTasks[id]
	if !ok || st.TaskID != taskID {
		return project.ErrSubTaskNotFound
	}
	delete(r.w.subTasks, id)
	return nil
}

// --- Service wiring ---

type services struct {
	auth    *auth.Service
	team    *team.Service
	invite  *invite.Service
	project *project.Service
}

func newServices(w *world, exchanger auth.CodeExchanger) *services {
	db := &fakeBeginner{}
	users := &worldUserRepo{w: w}
	teams := &worldTeamRepo{w: w}
	members := &worldMemberRepo{w: w}
	invites := &worldInviteRepo{w: w}
	projects := &worldProjectRepo{w: w}
	tasks := &worldTaskRepo{w: w}
	subTasks := &worldSubTaskRepo{w: w}

	guard := team.NewGuard(teams, tasks)
	agg := project.NewAggregator(projects, tasks, subTasks, nil)

	return &services{
		auth:    auth.NewService(users, exchanger, []byte("handler-test-secret")),
		team:    team.NewService(db, teams, members, guard),
		invite:  invite.NewService(db, invites, members, users, guard),
		project: project.NewService(db, projects, tasks, subTasks, members, guard, agg),
	}
}
