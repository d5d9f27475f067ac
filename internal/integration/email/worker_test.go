package email

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nivi-finance/backend/internal/application/usecase/reminder"
	"github.com/nivi-finance/backend/internal/domain/entity"
	domainerror "github.com/nivi-finance/backend/internal/domain/error"
	"github.com/nivi-finance/backend/internal/integration/email/templates"
)

type staticDocs map[uuid.UUID]*entity.FinanceState

func (d staticDocs) Get(_ context.Context, userID uuid.UUID) (*entity.FinanceState, error) {
	return d[userID].Clone(), nil
}

func (d staticDocs) Put(context.Context, uuid.UUID, *entity.FinanceState) error { return nil }

func (d staticDocs) ListUserIDs(context.Context) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(d))
	for id := range d {
		ids = append(ids, id)
	}
	return ids, nil
}

type staticUsers map[uuid.UUID]*entity.User

func (u staticUsers) Create(context.Context, *entity.User) error { return nil }

func (u staticUsers) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	if user, ok := u[id]; ok {
		return user, nil
	}
	return nil, domainerror.ErrUserNotFound
}

func (u staticUsers) FindByEmail(context.Context, string) (*entity.User, error) {
	return nil, domainerror.ErrUserNotFound
}

func (u staticUsers) ExistsByEmail(context.Context, string) (bool, error) { return false, nil }

type onceLedger struct {
	mu   sync.Mutex
	seen map[string]bool
}

func (l *onceLedger) MarkSent(_ context.Context, debtID string, due time.Time) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := debtID + due.Format(time.DateOnly)
	if l.seen[key] {
		return false, nil
	}
	l.seen[key] = true
	return true, nil
}

func newTestWorker(t *testing.T, sender *MockEmailSender, now time.Time) *Worker {
	t.Helper()
	user := entity.NewUser("ada@example.com", "Ada", "hash")
	reminderDate := now.Add(12 * time.Hour)
	debt, err := entity.NewDebt("Car loan", 1250, 500, &reminderDate)
	require.NoError(t, err)
	state := entity.NewFinanceState()
	state.Debts = append(state.Debts, *debt)

	collect := reminder.NewCollectDueRemindersUseCase(
		staticDocs{user.ID: state},
		staticUsers{user.ID: user},
		&onceLedger{seen: make(map[string]bool)},
	)
	renderer, err := templates.NewRenderer()
	require.NoError(t, err)

	worker := NewWorker(collect, sender, renderer, WorkerConfig{PollInterval: time.Hour, AppBaseURL: "https://app.example.com"})
	worker.now = func() time.Time { return now }
	return worker
}

func TestWorkerSendsDueReminderOnce(t *testing.T) {
	now := time.Date(2026, 6, 14, 8, 0, 0, 0, time.UTC)
	sender := NewMockEmailSender()
	worker := newTestWorker(t, sender, now)

	assert.Equal(t, 1, worker.ProcessNow(context.Background()))
	assert.Equal(t, 0, worker.ProcessNow(context.Background()))

	sent := sender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "ada@example.com", sent[0].To)
	assert.Equal(t, "Payment reminder: Car loan", sent[0].Subject)
	assert.Contains(t, sent[0].Text, "Monthly payment: 500.00")
	assert.Contains(t, sent[0].Text, "Still pending:   1250.00")
	assert.Contains(t, sent[0].Text, "Payments left:   3")
	assert.Contains(t, sent[0].Text, "Jun 14, 2026")
	assert.Contains(t, sent[0].HTML, "https://app.example.com")
}

func TestWorkerFailedSendIsNotCounted(t *testing.T) {
	now := time.Date(2026, 6, 14, 8, 0, 0, 0, time.UTC)
	sender := NewMockEmailSender()
	sender.SetFailure(errors.New("503 service unavailable"), false)
	worker := newTestWorker(t, sender, now)

	assert.Equal(t, 0, worker.ProcessNow(context.Background()))
	assert.Empty(t, sender.Sent())
}

func TestIsPermanentError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{err: errors.New("401 Unauthorized"), want: true},
		{err: errors.New("422 validation_error: invalid `to` field"), want: true},
		{err: errors.New("429 rate limit exceeded"), want: false},
		{err: errors.New("500 internal server error"), want: false},
		{err: nil, want: false},
	}
	for _, tt := range tests {
		name := "nil"
		if tt.err != nil {
			name = tt.err.Error()
		}
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, isPermanentError(tt.err))
		})
	}
}
