package email

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/i-pranav/TLE-ACodeDaily/internal/service"
	"github.com/sirupsen/logrus"
)

const escalationQueueTimeout = 5 * time.Second

// EmailService mails the moderators listed in ESCALATION_EMAILS.
type EmailService struct {
	Managers []string
	logger   *logrus.Entry
}

var _ service.Escalator = (*EmailService)(nil)

func NewEmailService() *EmailService {
	managers := make([]string, 0)
	for _, m := range strings.Split(os.Getenv(KeyEscalationEmails), ",") {
		if m = strings.TrimSpace(m); m != "" {
			managers = append(managers, m)
		}
	}
	return &EmailService{
		Managers: managers,
		logger:   logrus.WithField("from", "email service"),
	}
}

func (e *EmailService) MailManagers(ctx context.Context, req EmailRequest) error {
	if len(e.Managers) == 0 {
		e.logger.Warnf("no managers configured, %v mail not sent", req.Purpose)
		return nil
	}
	err := NewMail(
		ctx,
		req.Subject,
		req.Body,
		req.BodyType,
		req.Purpose,
		e.Managers...,
	)
	if err != nil {
		return err
	}
	e.logger.Infof("sent mail to managers for %v purpose", req.Purpose)
	return nil
}

// EscalatePersistenceError queues a mail about a failed store operation.
// The request context may already be cancelled, so queueing gets its own
// deadline.
func (e *EmailService) EscalatePersistenceError(_ context.Context, operation string, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), escalationQueueTimeout)
	defer cancel()

	mailErr := e.MailManagers(ctx, EmailRequest{
		Subject:  "[TLE] persistence failure: " + operation,
		Body:     fmt.Sprintf("operation: %s\nerror: %v\ntime: %s\n", operation, err, time.Now().UTC().Format(time.RFC3339)),
		BodyType: KeyEmailBodyPlain,
		Purpose:  PurposePersistenceEscalation,
	})
	if mailErr != nil {
		e.logger.Errorf("cannot escalate %q, %v", operation, mailErr)
	}
}
