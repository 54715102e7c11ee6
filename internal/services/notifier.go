package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aslectra/backend/internal/mail"
	"github.com/aslectra/backend/internal/models"
	"github.com/aslectra/backend/internal/repositories"
)

const mailTimeout = 30 * time.Second

// Notifier tells the users who prefer a category about its new actualities:
// an in-app notification written right away and an e-mail sent in the
// background.
type Notifier struct {
	preferences   repositories.PreferenceRepository
	notifications repositories.NotificationRepository
	mailer        mail.Mailer
	appURL        string
	logger        *slog.Logger
	wg            sync.WaitGroup
}

func NewNotifier(preferences repositories.PreferenceRepository, notifications repositories.NotificationRepository, mailer mail.Mailer, appURL string, logger *slog.Logger) *Notifier {
	return &Notifier{
		preferences:   preferences,
		notifications: notifications,
		mailer:        mailer,
		appURL:        appURL,
		logger:        logger,
	}
}

// ActualityCreated notifies every user preferring the actuality's category,
// the author excepted. Mail failures are logged only.
func (n *Notifier) ActualityCreated(ctx context.Context, author *models.User, actuality *models.Actuality, category *models.Category) error {
	users, err := n.preferences.GetUsersPreferringCategory(ctx, actuality.CategoryID)
	if err != nil {
		return fmt.Errorf("resolve audience: %w", err)
	}

	recipients := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.ID != author.ID {
			recipients = append(recipients, u)
		}
	}
	if len(recipients) == 0 {
		return nil
	}

	text := fmt.Sprintf("%s a publié une actualité dans %s", author.FullName(), category.Name)
	notifications := make([]models.Notification, len(recipients))
	for i, u := range recipients {
		notifications[i] = models.Notification{
			Type:        models.NotificationActualityCreated,
			ActorID:     author.ID,
			RecipientID: u.ID,
			ActualityID: actuality.ID,
			Message:     text,
		}
	}
	if err := n.notifications.CreateNotifications(ctx, notifications); err != nil {
		return fmt.Errorf("create notifications: %w", err)
	}

	subject := "Nouvelle actualité : " + category.Name
	body := fmt.Sprintf("%s :\n\n%s\n\n%s/%d#%d", text, actuality.Message, n.appURL, actuality.CategoryID, actuality.ID)

	// the request context ends with the response
	bg := context.WithoutCancel(ctx)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		for _, u := range recipients {
			mctx, cancel := context.WithTimeout(bg, mailTimeout)
			if err := n.mailer.Send(mctx, u.Email, subject, body); err != nil {
				n.logger.Error("failed to send actuality mail", "error", err, "recipient_id", u.ID, "actuality_id", actuality.ID)
			}
			cancel()
		}
	}()
	return nil
}

// Wait blocks until every background mail has been handed to the mailer.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

// WaitContext is Wait bounded by ctx. It returns ctx's error while mails are
// still in flight.
func (n *Notifier) WaitContext(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
