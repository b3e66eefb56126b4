package email

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// StartEmailWorkers starts n workers that deliver queued mails over smtp
// until ctx is done.
func StartEmailWorkers(ctx context.Context, n int) {
	dialer := gomail.NewDialer(
		KeyEmailSMTPServer,
		KeyEmailSMTPPort,
		os.Getenv(KeyEmailSender),
		os.Getenv(KeyEmailSenderPassword),
	)
	startWorkers(ctx, n, dialer)
}

func startWorkers(ctx context.Context, n int, s sender) {
	for i := range n {
		go worker(ctx, i, s)
	}
}

func worker(ctx context.Context, id int, s sender) {
	logger := logrus.WithFields(logrus.Fields{
		"from":   "email worker",
		"worker": id,
	})
	logger.Debug("email worker started")
	for {
		select {
		case <-ctx.Done():
			logger.Debug("email worker stopped")
			return
		case job := <-emailChan:
			m := gomail.NewMessage()
			m.SetHeader(KeyEmailFrom, job.from)
			m.SetHeader(KeyEmailTo, job.To...)
			m.SetHeader(KeyEmailSubject, job.Subject)
			m.SetBody(string(job.BodyType), job.Body)

			if err := s.DialAndSend(m); err != nil {
				logger.WithField("purpose", job.Purpose).Errorf("cannot send mail, %v", err)
				continue
			}
			logger.WithField("purpose", job.Purpose).Info("mail sent")
		}
	}
}
