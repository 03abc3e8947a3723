package project_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/huddle14/huddle/internal/database"
	"github.com/huddle14/huddle/internal/project"
	"github.com/huddle14/huddle/internal/team"
)

// In-memory project/task/sub-task store backing the aggregator and
// service tests. One store instance plays all three repository roles so
// the percentage cascade can be observed end to end without a database.

type memStore struct {
	projects map[uuid.UUID]*project.Project
	tasks    map[uuid.UUID]*project.Task
	subTasks map[uuid.UUID]*project.SubTask
}

func newMemStore() *memStore {
	return &memStore{
		projects: map[uuid.UUID]*project.Project{},
		tasks:    map[uuid.UUID]*project.Task{},
		subTasks: map[uuid.UUID]*project.SubTask{},
	}
}

func (s *memStore) addProject(teamID uuid.UUID) *project.Project {
	p := &project.Project{ID: uuid.New(), TeamID: teamID, Name: "proj", CreatedAt: time.Now().UTC()}
	s.projects[p.ID] = p
	return p
}

func (s *memStore) addTask(projectID, memberID uuid.UUID) *project.Task {
	t := &project.Task{ID: uuid.New(), ProjectID: projectID, MemberID: memberID, Description: "task", CreatedAt: time.Now().UTC()}
	s.tasks[t.ID] = t
	return t
}

func (s *memStore) addSubTask(taskID uuid.UUID, done bool) *project.SubTask {
	st := &project.SubTask{ID: uuid.New(), TaskID: taskID, Description: "sub", IsDone: done, CreatedAt: time.Now().UTC()}
	s.subTasks[st.ID] = st
	return st
}

// --- ProjectRepository ---

type memProjectRepo struct{ s *memStore }

func (r *memProjectRepo) WithTx(tx database.Tx) project.ProjectRepository { return r }

func (r *memProjectRepo) Create(ctx context.Context, p *project.Project) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now().UTC()
	r.s.projects[p.ID] = p
	return nil
}

func (r *memProjectRepo) GetByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	if p, ok := r.s.projects[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, project.ErrProjectNotFound
}

func (r *memProjectRepo) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]project.Project, error) {
	var out []project.Project
	for _, p := range r.s.projects {
		if p.TeamID == teamID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memProjectRepo) Update(ctx context.Context, id uuid.UUID, name, description string) error {
	p, ok := r.s.projects[id]
	if !ok {
		return project.ErrProjectNotFound
	}
	p.Name = name
	p.Description = description
	return nil
}

func (r *memProjectRepo) SetPercentage(ctx context.Context, id uuid.UUID, percentage float64) error {
	p, ok := r.s.projects[id]
	if !ok {
		return project.ErrProjectNotFound
	}
	p.Percentage = percentage
	return nil
}

func (r *memProjectRepo) Lock(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.s.projects[id]; !ok {
		return project.ErrProjectNotFound
	}
	return nil
}

// --- TaskRepository ---

type memTaskRepo struct{ s *memStore }

func (r *memTaskRepo) WithTx(tx database.Tx) project.TaskRepository { return r }

func (r *memTaskRepo) Create(ctx context.Context, t *project.Task) error {
	t.ID = uuid.New()
	t.CreatedAt = time.Now().UTC()
	r.s.tasks[t.ID] = t
	return nil
}

func (r *memTaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*project.Task, error) {
	if t, ok := r.s.tasks[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, project.ErrTaskNotFound
}

func (r *memTaskRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]project.TaskWithAssignee, error) {
	var out []project.TaskWithAssignee
	for _, t := range r.s.tasks {
		if t.ProjectID == projectID {
			out = append(out, project.TaskWithAssignee{Task: *t})
		}
	}
	return out, nil
}

func (r *memTaskRepo) Percentages(ctx context.Context, projectID uuid.UUID) ([]float64, error) {
	var out []float64
	for _, t := range r.s.tasks {
		if t.ProjectID == projectID {
			out = append(out, t.Percentage)
		}
	}
	return out, nil
}

func (r *memTaskRepo) Update(ctx context.Context, id, projectID, memberID uuid.UUID, description string) error {
	t, ok := r.s.tasks[id]
	if !ok {
		return project.ErrTaskNotFound
	}
	t.MemberID = memberID
	t.Description = description
	return nil
}

func (r *memTaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.s.tasks[id]; !ok {
		return project.ErrTaskNotFound
	}
	delete(r.s.tasks, id)
	for stID, st := range r.s.subTasks {
		if st.TaskID == id {
			delete(r.s.subTasks, stID)
		}
	}
	return nil
}

func (r *memTaskRepo) SetPercentage(ctx context.Context, id uuid.UUID, percentage float64) (uuid.UUID, error) {
	t, ok := r.s.tasks[id]
	if !ok {
		return uuid.Nil, project.ErrTaskNotFound
	}
	t.Percentage = percentage
	return t.ProjectID, nil
}

func (r *memTaskRepo) Lock(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.s.tasks[id]; !ok {
		return project.ErrTaskNotFound
	}
	return nil
}

func (r *memTaskRepo) TaskMemberID(ctx context.Context, taskID uuid.UUID) (uuid.UUID, bool, error) {
	if t, ok := r.s.tasks[taskID]; ok {
		return t.MemberID, true, nil
	}
	return uuid.Nil, false, nil
}

// --- SubTaskRepository ---

type memSubTaskRepo struct{ s *memStore }

func (r *memSubTaskRepo) WithTx(tx database.Tx) project.SubTaskRepository { return r }

func (r *memSubTaskRepo) CreateMany(ctx context.Context, taskID uuid.UUID, descriptions []string) error {
	for range descriptions {
		r.s.addSubTask(taskID, false)
	}
	return nil
}

func (r *memSubTaskRepo) ListByTask(ctx context.Context, taskID uuid.UUID) ([]project.SubTask, error) {
	var out []project.SubTask
	for _, st := range r.s.subTasks {
		if st.TaskID == taskID {
			out = append(out, *st)
		}
	}
	return out, nil
}

func (r *memSubTaskRepo) SetDone(ctx context.Context, id, taskID uuid.UUID, isDone bool) error {
	st, ok := r.s.subTasks[id]
	if !ok || st.TaskID != taskID {
		return project.ErrSubTaskNotFound
	}
	st.IsDone = isDone
	return nil
}

func (r *memSubTaskRepo) Delete(ctx context.Context, id, taskID uuid.UUID) error {
	st, ok := r.s.subTasks[id]
	if !ok || st.TaskID != taskID {
		return project.ErrSubTaskNotFound
	}
	delete(r.s.subTasks, id)
	return nil
}

// --- Transaction + team fakes ---

type fakeTx struct {
	commits   int
	rollbacks int
}

func (f *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (f *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (f *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

func (f *fakeTx) Commit(ctx context.Context) error { f.commits++; return nil }

func (f *fakeTx) Rollback(ctx context.Context) error { f.rollbacks++; return nil }

type fakeBeginner struct {
	tx *fakeTx
}

func (f *fakeBeginner) Begin(ctx context.Context) (database.Tx, error) {
	if f.tx == nil {
		f.tx = &fakeTx{}
	}
	return f.tx, nil
}

type stubTeamRepo struct {
	ownerID uuid.UUID
	teamID  uuid.UUID
}

func (s *stubTeamRepo) WithTx(tx database.Tx) team.Repository { return s }

func (s *stubTeamRepo) Create(ctx context.Context, t *team.Team) error { return nil }

func (s *stubTeamRepo) GetByID(ctx context.Context, id uuid.UUID) (*team.Team, error) {
	if id != s.teamID {
		return nil, team.ErrTeamNotFound
	}
	return &team.Team{ID: id, OwnerID: s.ownerID}, nil
}

func (s *stubTeamRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]team.Team, error) {
	return nil, nil
}

func (s *stubTeamRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

type stubMemberRepo struct {
	userIDs map[uuid.UUID]bool
}

func (s *stubMemberRepo) WithTx(tx database.Tx) team.MemberRepository { return s }

func (s *stubMemberRepo) Create(ctx context.Context, m *team.Member) error { return nil }

func (s *stubMemberRepo) Get(ctx context.Context, teamID, userID uuid.UUID) (*team.Member, error) {
	if s.userIDs[userID] {
		return &team.Member{ID: uuid.New(), TeamID: teamID, UserID: userID, Role: team.RoleMember}, nil
	}
	return nil, team.ErrMemberNotFound
}

func (s *stubMemberRepo) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]team.Member, error) {
	return nil, nil
}
