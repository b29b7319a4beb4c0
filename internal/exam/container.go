package exam

import (
	"gorm.io/gorm"

	"github.com/examforge/examforge/internal/history"
	"github.com/examforge/examforge/internal/sandbox"
	"github.com/examforge/examforge/internal/selector"
)

type Container struct {
	Handler *Handler
	Service Service
	Repo    Repository
}

func NewContainer(db *gorm.DB, selectorService selector.Service, historyService history.Service, executor sandbox.Executor) *Container {
	repo := NewRepository(db)
	grader := NewGrader(executor)
	service := NewService(repo, selectorService, grader, historyService, executor)
	handler := NewHandler(service)

	return &Container{
		Handler: handler,
		Service: service,
		Repo:    repo,
	}
}
