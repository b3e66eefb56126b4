package email

import (
	"context"
	"errors"
	"os"

	"github.com/i-pranav/TLE-ACodeDaily/internal/tle_errors"
	log "github.com/sirupsen/logrus"
)

type EmailPurpose string
type EmailBodyType string

const (
	KeyEmailSender              = "SENDER_EMAIL"
	KeyEmailSenderPassword      = "SENDER_EMAIL_PASSWORD"
	KeyEscalationEmails         = "ESCALATION_EMAILS"
	KeyEmailSMTPServer          = "smtp.gmail.com"
	KeyEmailSMTPPort            = 587
	KeyEmailFrom                = "From"
	KeyEmailTo                  = "To"
	KeyEmailSubject             = "Subject"
	defaultEmailChannelCapacity = 100
)

const KeyEmailBodyPlain EmailBodyType = "text/plain"

const PurposePersistenceEscalation EmailPurpose = "persistence escalation"

type EmailRequest struct {
	To       []string
	Subject  string
	Body     string
	BodyType EmailBodyType
	Purpose  EmailPurpose
}

type emailJob struct {
	EmailRequest
	from string
}

var emailChan = make(chan emailJob, defaultEmailChannelCapacity)

// NewMail queues a mail for the workers. It blocks while the queue is full
// and gives up when ctx is done.
func NewMail(
	ctx context.Context,
	subject string,
	body string,
	bodyType EmailBodyType,
	purpose EmailPurpose,
	to ...string,
) error {
	fromMail := os.Getenv(KeyEmailSender)
	if fromMail == "" {
		log.Error("sender email is not configured")
		return tle_errors.ErrEmailServiceStopped
	}
	if len(to) == 0 {
		log.Warnf("no recipients for %v mail, dropping it", purpose)
		return nil
	}
	job := emailJob{
		from: fromMail,
		EmailRequest: EmailRequest{
			To:       to,
			Subject:  subject,
			Body:     body,
			BodyType: bodyType,
			Purpose:  purpose,
		},
	}
	// when all the workers are dead, it shouldn't block indefinetely
	select {
	case <-ctx.Done():
		log.Errorf("email job cancelled: %v", ctx.Err())
		return errors.Join(tle_errors.ErrEmailServiceStopped, ctx.Err())

	case emailChan <- job:
		return nil
	}
}
