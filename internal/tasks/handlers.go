package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"

	"campdir/internal/config"
	"campdir/internal/services"
	"campdir/internal/utils/logger"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

// TaskHandler processes background tasks against the store.
type TaskHandler struct {
	db  *gorm.DB
	cfg *config.Config
	log *logger.Logger
}

func NewTaskHandler(db *gorm.DB, cfg *config.Config) *TaskHandler {
	return &TaskHandler{
		db:  db,
		cfg: cfg,
		log: logger.New("TaskHandler"),
	}
}

func (h *TaskHandler) HandleRecomputeRating(ctx context.Context, t *asynq.Task) error {
	var payload RecomputePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return err
	}
	if err := services.RecomputeAverageRating(ctx, h.db, payload.BootcampID); err != nil {
		return h.log.Error("rating recompute failed for bootcamp %s", err, payload.BootcampID)
	}
	h.log.Info("recomputed average rating for bootcamp %s", payload.BootcampID)
	return nil
}

func (h *TaskHandler) HandleRecomputeCost(ctx context.Context, t *asynq.Task) error {
	var payload RecomputePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return err
	}
	if err := services.RecomputeAverageCost(ctx, h.db, payload.BootcampID); err != nil {
		return h.log.Error("cost recompute failed for bootcamp %s", err, payload.BootcampID)
	}
	h.log.Info("recomputed average cost for bootcamp %s", payload.BootcampID)
	return nil
}

// HandleReconcileAggregates heals aggregate drift across all bootcamps.
// Scheduled nightly.
func (h *TaskHandler) HandleReconcileAggregates(ctx context.Context, t *asynq.Task) error {
	return services.RecomputeAllAggregates(ctx, h.db)
}

func (h *TaskHandler) HandleResetPasswordEmail(ctx context.Context, t *asynq.Task) error {
	var payload ResetPasswordEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return err
	}

	smtpCfg := h.cfg.SMTP
	body := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Password reset token\r\n\r\n"+
			"You are receiving this mail because you (or someone else) requested a password reset. "+
			"Make a PUT request to %s\r\n",
		smtpCfg.From, payload.Email, payload.ResetURL,
	)

	addr := fmt.Sprintf("%s:%d", smtpCfg.Host, smtpCfg.Port)
	var auth smtp.Auth
	if smtpCfg.Username != "" {
		auth = smtp.PlainAuth("", smtpCfg.Username, smtpCfg.Password, smtpCfg.Host)
	}

	if err := smtp.SendMail(addr, auth, smtpCfg.From, []string{payload.Email}, []byte(body)); err != nil {
		return h.log.Error("failed to send reset email to %s", err, payload.Email)
	}

	h.log.Success("sent reset email to %s", payload.Email)
	return nil
}
