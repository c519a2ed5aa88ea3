package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/jhoicas/pyme-erp/internal/domain"
	"github.com/jhoicas/pyme-erp/internal/domain/entity"
)

type userRepo struct {
	mu     sync.RWMutex
	byName map[string]*entity.User
}

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(u.Username)
	if _, ok := r.byName[key]; ok {
		return domain.ErrDuplicate
	}
	cp := *u
	r.byName[key] = &cp
	return nil
}

func (r *userRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byName[strings.ToLower(username)]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}
