package app

import (
	"github.com/finvoice/finvoice/internal/config"
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Health
	r.HandleFunc("/health", deps.HealthHandler.Health).Methods("GET")

	// Users and sessions
	r.HandleFunc("/api/users/create", deps.UserHandler.Login).Methods("POST")
	r.HandleFunc("/api/users/logout", deps.UserHandler.Logout).Methods("POST")
	r.HandleFunc("/api/users/foreground", deps.UserHandler.Foreground).Methods("POST")
	r.HandleFunc("/api/users/lookup", deps.UserHandler.LookupByPhone).Methods("GET")
	r.HandleFunc("/api/users/profile", deps.UserHandler.GetProfile).Methods("GET")
	r.HandleFunc("/api/users/profile", deps.UserHandler.UpdateProfile).Methods("PUT")

	// Expenses
	r.HandleFunc("/api/expenses", deps.ExpenseHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/expenses", deps.ExpenseHandler.Create).Methods("POST")
	r.HandleFunc("/api/expenses/{id}", deps.ExpenseHandler.Update).Methods("PUT")
	r.HandleFunc("/api/expenses/{id}", deps.ExpenseHandler.Delete).Methods("DELETE")

	// Budgets
	r.HandleFunc("/api/budgets", deps.BudgetHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/budgets", deps.BudgetHandler.Upsert).Methods("POST")
	r.HandleFunc("/api/budgets/{id}", deps.BudgetHandler.Update).Methods("PUT")
	r.HandleFunc("/api/budgets/{id}", deps.BudgetHandler.Delete).Methods("DELETE")

	// Voice expense parsing
	r.HandleFunc("/api/voice/process", deps.VoiceHandler.ProcessVoiceInput).Methods("POST")
	r.HandleFunc("/api/voice/transcribe", deps.VoiceHandler.TranscribeAudio).Methods("POST")

	// AI insights
	r.HandleFunc("/api/ai/insights", deps.InsightsHandler.FinancialInsights).Methods("POST")
	r.HandleFunc("/api/ai/investment-advice", deps.InsightsHandler.InvestmentAdvice).Methods("POST")
}
