package application_test

import (
	"context"
	"strconv"
	"sync"

	"github.com/oksasatya/tasky/internal/domain/entity"
	"github.com/oksasatya/tasky/internal/domain/repository"
	"github.com/oksasatya/tasky/pkg/apperr"
)

// fakeUserRepo is an in-memory UserRepository that mirrors the store's
// uniqueness behavior: duplicate emails and provider ids are rejected with
// apperr.Duplicate, missing rows with apperr.NotFound.
type fakeUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ex := range r.users {
		if ex.Email == u.Email {
			return apperr.E(apperr.Duplicate, "email already registered")
		}
		for _, p := range []entity.OAuthProvider{entity.ProviderGoogle, entity.ProviderGithub} {
			if a, b := ex.ProviderID(p), u.ProviderID(p); a != nil && b != nil && *a == *b {
				return apperr.E(apperr.Duplicate, "provider identity already linked")
			}
		}
	}
	r.seq++
	u.ID = "user-" + strconv.Itoa(r.seq)
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperr.E(apperr.NotFound, "user not found")
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.E(apperr.NotFound, "user not found")
}

func (r *fakeUserRepo) GetByProviderID(_ context.Context, provider entity.OAuthProvider, providerID string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if id := u.ProviderID(provider); id != nil && *id == providerID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.E(apperr.NotFound, "user not found")
}

func (r *fakeUserRepo) List(_ context.Context) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, id string, upd repository.UserUpdate) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperr.E(apperr.NotFound, "user not found")
	}
	if upd.Fullname != nil {
		u.Fullname = *upd.Fullname
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.Password != nil {
		u.Password = *upd.Password
	}
	if upd.AvatarURL != nil {
		u.AvatarURL = *upd.AvatarURL
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) LinkProvider(_ context.Context, id string, provider entity.OAuthProvider, providerID string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperr.E(apperr.NotFound, "user not found")
	}
	u.SetProviderID(provider, providerID)
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) UpdateRole(_ context.Context, id string, role entity.Role) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperr.E(apperr.NotFound, "user not found")
	}
	u.Role = role
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return apperr.E(apperr.NotFound, "user not found")
	}
	delete(r.users, id)
	return nil
}

// fakeTaskRepo is an in-memory TaskRepository with owner filtering.
type fakeTaskRepo struct {
	mu    sync.Mutex
	seq   int
	tasks map[string]*entity.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[string]*entity.Task)}
}

func (r *fakeTaskRepo) Create(_ context.Context, t *entity.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	t.ID = "task-" + strconv.Itoa(r.seq)
	cp := *t
	r.tasks[t.ID] = &cp
	return nil
}

func (r *fakeTaskRepo) GetByID(_ context.Context, id string) (*entity.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, apperr.E(apperr.NotFound, "task not found")
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTaskRepo) List(_ context.Context, f repository.TaskFilter) ([]*entity.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		if f.UserID != "" && t.UserID != f.UserID {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.Priority != "" && t.Priority != f.Priority {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeTaskRepo) Update(_ context.Context, id string, upd repository.TaskUpdate) (*entity.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, apperr.E(apperr.NotFound, "task not found")
	}
	if upd.Title != nil {
		t.Title = *upd.Title
	}
	if upd.Description != nil {
		t.Description = *upd.Description
	}
	if upd.DueDate != nil {
		t.DueDate = *upd.DueDate
	}
	if upd.Priority != nil {
		t.Priority = *upd.Priority
	}
	if upd.Status != nil {
		t.Status = *upd.Status
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return apperr.E(apperr.NotFound, "task not found")
	}
	delete(r.tasks, id)
	return nil
}
