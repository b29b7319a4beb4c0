package selector

import (
	"github.com/examforge/examforge/internal/generator"
	"github.com/examforge/examforge/internal/history"
	"github.com/examforge/examforge/internal/question"
)

type Container struct {
	Service Service
}

func NewContainer(store question.Repository, historyService history.Service, generatorService generator.Service) *Container {
	return &Container{
		Service: NewService(store, historyService, generatorService),
	}
}
