package app

import (
	"context"
	"database/sql"

	"github.com/finvoice/finvoice/internal/auth"
	"github.com/finvoice/finvoice/internal/config"
	"github.com/finvoice/finvoice/internal/event_bus"
	"github.com/finvoice/finvoice/internal/rest"
	"github.com/finvoice/finvoice/internal/store"
	"github.com/finvoice/finvoice/internal/utils"
	"github.com/finvoice/finvoice/pkg/budget"
	"github.com/finvoice/finvoice/pkg/expense"
	"github.com/finvoice/finvoice/pkg/insights"
	"github.com/finvoice/finvoice/pkg/profile"
	"github.com/finvoice/finvoice/pkg/session"
	"github.com/finvoice/finvoice/pkg/user"
	"github.com/finvoice/finvoice/pkg/voice"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	CredentialVerifier auth.CredentialVerifier

	StoreClient store.Client
	EventBus    *event_bus.EventBus
	Clock       utils.Clock

	ProfileRepo    profile.Repo
	SessionManager *session.Manager
	UserService    user.Service
	UserHandler    *user.Handler

	ExpenseRemoteRepo expense.Repo
	ExpenseLocalRepo  expense.Repo
	ExpenseService    expense.Service
	ExpenseHandler    *expense.Handler

	BudgetRepo    budget.Repo
	BudgetService budget.Service
	BudgetHandler *budget.Handler

	VoiceHandler *voice.Handler

	AIClient        insights.Client
	InsightsService insights.Service
	InsightsHandler *insights.Handler

	HealthHandler *rest.HealthHandler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) (*Dependencies, error) {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}
	deps.EventBus = event_bus.NewEventBus()
	deps.CredentialVerifier = auth.PassthroughVerifier{}
	deps.StoreClient = store.NewClient(cfg.Store)

	deps.ProfileRepo = profile.NewRepo(deps.StoreClient, deps.Clock)
	deps.SessionManager = session.NewManager(deps.ProfileRepo, deps.Clock, cfg.Session)
	deps.UserService = user.NewService(deps.SessionManager, deps.ProfileRepo)
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.ExpenseRemoteRepo = expense.NewRemoteRepo(deps.StoreClient, deps.Clock)
	deps.ExpenseLocalRepo = expense.NewLocalRepo(db, deps.Clock)
	deps.ExpenseService = expense.NewService(deps.ExpenseRemoteRepo, deps.ExpenseLocalRepo, deps.EventBus)
	deps.ExpenseHandler = expense.NewHandler(deps.ExpenseService, deps.Clock)

	deps.BudgetRepo = budget.NewRepo(deps.StoreClient, deps.Clock)
	deps.BudgetService = budget.NewService(deps.BudgetRepo, deps.EventBus)
	deps.BudgetHandler = budget.NewHandler(deps.BudgetService)

	deps.VoiceHandler = voice.NewHandler(voice.NoopTranscriber{})

	if cfg.Gemini.Configured() {
		aiClient, err := insights.NewGeminiClient(context.Background(), cfg.Gemini)
		if err != nil {
			return nil, err
		}
		deps.AIClient = aiClient
		deps.InsightsService = insights.NewService(deps.AIClient)
	} else {
		log.Warn("Gemini is not configured, AI endpoints will serve fallbacks")
		deps.InsightsService = insights.NewService(nil)
	}
	deps.InsightsHandler = insights.NewHandler(deps.InsightsService)

	deps.HealthHandler = rest.NewHealthHandler(cfg, deps.Clock)

	return deps, nil
}
