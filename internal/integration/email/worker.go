// Package email sends the debt reminder e-mails.
package email

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nivi-finance/backend/internal/application/adapter"
	"github.com/nivi-finance/backend/internal/application/usecase/reminder"
	"github.com/nivi-finance/backend/internal/domain/entity"
	domainerror "github.com/nivi-finance/backend/internal/domain/error"
	"github.com/nivi-finance/backend/internal/integration/email/templates"
)

// Worker periodically collects due debt reminders and e-mails them.
type Worker struct {
	collect      *reminder.CollectDueRemindersUseCase
	sender       adapter.EmailSender
	renderer     *templates.Renderer
	pollInterval time.Duration
	appURL       string
	now          func() time.Time
}

// WorkerConfig holds configuration for the reminder worker.
type WorkerConfig struct {
	PollInterval time.Duration
	AppBaseURL   string
}

// DefaultWorkerConfig returns the default worker configuration.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		PollInterval: time.Hour,
		AppBaseURL:   "http://localhost:5173",
	}
}

// NewWorker creates a new reminder worker.
func NewWorker(collect *reminder.CollectDueRemindersUseCase, sender adapter.EmailSender, renderer *templates.Renderer, config WorkerConfig) *Worker {
	return &Worker{
		collect:      collect,
		sender:       sender,
		renderer:     renderer,
		pollInterval: config.PollInterval,
		appURL:       config.AppBaseURL,
		now:          time.Now,
	}
}

// SetClock replaces the time source used to decide which reminders are due.
func (w *Worker) SetClock(now func() time.Time) {
	w.now = now
}

// Start begins the worker loop. It blocks until the context is cancelled.
func (w *Worker) Start(ctx context.Context) {
	slog.Info("Reminder worker started", "poll_interval", w.pollInterval)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.ProcessNow(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Reminder worker shutting down")
			return
		case <-ticker.C:
			w.ProcessNow(ctx)
		}
	}
}

// ProcessNow sends every reminder due at this moment and returns how many
// were sent.
func (w *Worker) ProcessNow(ctx context.Context) int {
	due, err := w.collect.Execute(ctx, w.now())
	if err != nil {
		slog.Error("Failed to collect debt reminders", "error", err)
		return 0
	}

	sent := 0
	for _, r := range due {
		if ctx.Err() != nil {
			return sent
		}
		if w.send(ctx, r) {
			sent++
		}
	}
	if sent > 0 {
		slog.Debug("Debt reminders sent", "count", sent)
	}
	return sent
}

// send delivers one reminder. A reminder is claimed before it is sent, so a
// failed delivery is logged and not retried.
func (w *Worker) send(ctx context.Context, r reminder.DueReminder) bool {
	logger := slog.With(
		"user_id", r.User.ID,
		"debt_id", r.Debt.ID,
	)

	html, text, err := w.renderer.Render(templates.DebtReminderTemplate, w.templateData(r))
	if err != nil {
		logger.Error("Failed to render debt reminder", "error",
			domainerror.NewEmailError(domainerror.ErrCodeTemplateRenderFailed, "failed to render debt reminder", err))
		return false
	}

	result, err := w.sender.Send(ctx, adapter.SendEmailInput{
		To:      r.User.Email,
		Name:    r.User.Name,
		Subject: "Payment reminder: " + r.Debt.Name,
		HTML:    html,
		Text:    text,
	})
	if err != nil {
		var emailErr *domainerror.EmailError
		permanent := errors.As(err, &emailErr) && emailErr.IsPermanent()
		logger.Warn("Failed to send debt reminder", "error", err, "permanent", permanent)
		return false
	}

	logger.Info("Debt reminder sent", "resend_id", result.ResendID)
	return true
}

func (w *Worker) templateData(r reminder.DueReminder) templates.DebtReminderData {
	data := templates.DebtReminderData{
		UserName:       r.User.Name,
		DebtName:       r.Debt.Name,
		MonthlyPayment: formatAmount(r.Debt.MonthlyPayment),
		PendingAmount:  formatAmount(r.Debt.PendingAmount),
		MonthsLeft:     entity.DebtTimeline(r.Debt.PendingAmount, r.Debt.MonthlyPayment),
		AppURL:         w.appURL,
	}
	if r.Debt.ReminderDate != nil {
		data.DueDate = r.Debt.ReminderDate.Format("Jan 2, 2006")
	}
	return data
}

func formatAmount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
