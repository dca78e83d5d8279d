package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"herohub/internal/domain/auth"
	"herohub/internal/domain/onboarding"
	"herohub/internal/platform/config"
	"herohub/internal/platform/email"
)

const (
	JobSessionSweep       = "session_sweep"
	JobOnboardingReminder = "onboarding_reminder"
)

type Service struct {
	DB         *pgxpool.Pool
	Cfg        config.Config
	Mailer     email.Mailer
	Sessions   *auth.Store
	Onboarding *onboarding.Store
	queue      chan job
}

type job struct {
	Type     string
	TenantID string
	Run      func(context.Context) (any, error)
}

func New(db *pgxpool.Pool, cfg config.Config, mailer email.Mailer, sessionStore *auth.Store, onboardingStore *onboarding.Store) *Service {
	return &Service{
		DB:         db,
		Cfg:        cfg,
		Mailer:     mailer,
		Sessions:   sessionStore,
		Onboarding: onboardingStore,
		queue:      make(chan job, 128),
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.Cfg.SessionSweepInterval > 0 {
		go s.schedule(ctx, s.Cfg.SessionSweepInterval, s.enqueueSessionSweep)
	}
	if s.Cfg.OnboardingReminderInterval > 0 {
		go s.schedule(ctx, s.Cfg.OnboardingReminderInterval, s.enqueueReminders)
	}
}

func (s *Service) Enqueue(jobType, tenantID string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, TenantID: tenantID, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType, "tenantId", tenantID)
	}
}

func (s *Service) RunNow(ctx context.Context, jobType, tenantID string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, TenantID: tenantID, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "tenantId", j.TenantID, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (tenant_id, job_type, status)
    VALUES (NULLIF($1,'')::uuid,$2,$3)
    RETURNING id
  `, j.TenantID, j.Type, "running").Scan(&runID); err != nil {
		slog.Warn("job run insert failed", "err", err)
	}

	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, details_json = $2, completed_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	return details, err
}

func (s *Service) schedule(ctx context.Context, interval time.Duration, enqueue func(context.Context)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			enqueue(ctx)
		}
	}
}

// enqueueSessionSweep removes dead session rows, keeping them a day past
// expiry or revocation so recent activity stays inspectable.
func (s *Service) enqueueSessionSweep(context.Context) {
	s.Enqueue(JobSessionSweep, "", func(ctx context.Context) (any, error) {
		deleted, err := s.Sessions.DeleteExpiredSessions(ctx, 24*time.Hour)
		if err != nil {
			return nil, err
		}
		return map[string]any{"deleted": deleted}, nil
	})
}

// enqueueReminders emails employees about onboarding tasks past their due
// date. Sending is best effort per recipient.
func (s *Service) enqueueReminders(context.Context) {
	s.Enqueue(JobOnboardingReminder, "", func(ctx context.Context) (any, error) {
		tasks, err := s.Onboarding.OverdueTasks(ctx, time.Now().UTC())
		if err != nil {
			return nil, err
		}
		byEmployee := map[string][]onboarding.Task{}
		for _, task := range tasks {
			byEmployee[task.EmployeeID] = append(byEmployee[task.EmployeeID], task)
		}

		sent := 0
		for employeeID, overdue := range byEmployee {
			addr, err := s.employeeEmail(ctx, employeeID)
			if err != nil || addr == "" {
				slog.Warn("reminder recipient lookup failed", "employeeId", employeeID, "err", err)
				continue
			}
			body := fmt.Sprintf("You have %d overdue onboarding task(s):\n", len(overdue))
			for _, task := range overdue {
				body += " - " + task.Title + "\n"
			}
			if err := s.Mailer.Send(ctx, addr, "Onboarding tasks overdue", body); err != nil {
				slog.Warn("reminder send failed", "employeeId", employeeID, "err", err)
				continue
			}
			sent++
		}
		return map[string]any{"overdueTasks": len(tasks), "remindersSent": sent}, nil
	})
}

func (s *Service) employeeEmail(ctx context.Context, employeeID string) (string, error) {
	var addr string
	err := s.DB.QueryRow(ctx, `SELECT email FROM employees WHERE id = $1`, employeeID).Scan(&addr)
	return addr, err
}
