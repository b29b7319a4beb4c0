package container

import (
	"context"
	"log"
	"os"
	"strconv"

	"github.com/examforge/examforge/internal/auth"
	"github.com/examforge/examforge/internal/config"
	"github.com/examforge/examforge/internal/exam"
	"github.com/examforge/examforge/internal/generator"
	"github.com/examforge/examforge/internal/history"
	"github.com/examforge/examforge/internal/question"
	"github.com/examforge/examforge/internal/sandbox"
	"github.com/examforge/examforge/internal/selector"
)

type Container struct {
	QuestionContainer  *question.Container
	HistoryContainer   *history.Container
	GeneratorContainer *generator.Container
	SelectorContainer  *selector.Container
	ExamContainer      *exam.Container
}

func New() *Container {
	config.Init()
	auth.Init()

	dsn := os.Getenv("DATABASE_DSN")
	if err := config.Connect(context.Background(), dsn); err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}

	questionContainer := question.NewContainer(config.DB)
	historyContainer := history.NewContainer(config.DB)
	generatorContainer := generator.NewContainer()

	selectorContainer := selector.NewContainer(
		questionContainer.Repo,
		historyContainer.Service,
		generatorContainer.Service,
	)

	executor, err := sandbox.NewProcessExecutor(executorOptions())
	if err != nil {
		log.Fatalf("failed to initialize sandbox executor: %v", err)
	}

	examContainer := exam.NewContainer(
		config.DB,
		selectorContainer.Service,
		historyContainer.Service,
		executor,
	)

	return &Container{
		QuestionContainer:  questionContainer,
		HistoryContainer:   historyContainer,
		GeneratorContainer: generatorContainer,
		SelectorContainer:  selectorContainer,
		ExamContainer:      examContainer,
	}
}

func executorOptions() sandbox.Options {
	opts := sandbox.Options{
		Interpreter: os.Getenv("SANDBOX_INTERPRETER"),
		SourceFile:  os.Getenv("SANDBOX_SOURCE_FILE"),
	}
	if raw := os.Getenv("SANDBOX_MEMORY_LIMIT_MB"); raw != "" {
		if mb, err := strconv.Atoi(raw); err == nil && mb > 0 {
			opts.MemoryLimitMB = mb
		}
	}
	return opts
}
