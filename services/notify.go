package services

import (
	"fmt"

	"inkwell/config"
	"inkwell/models"
	"inkwell/utils"
)

// Notifier sends moderator emails for qualifying events. Delivery is
// fire-and-forget: failures are logged and never fail the parent operation.
type Notifier struct {
	siteName   string
	siteURL    string
	recipients []string
}

func NewNotifier(cfg config.AppConfig) *Notifier {
	return &Notifier{
		siteName:   cfg.SiteName,
		siteURL:    cfg.SiteURL,
		recipients: cfg.AskRecipients,
	}
}

func (n *Notifier) send(subject, body string) {
	if len(n.recipients) == 0 {
		return
	}
	go func() {
		if err := utils.SendMail(n.recipients, subject, body); err != nil {
			utils.Sugar.Warnw("notification mail failed", "subject", subject, "err", err)
		}
	}()
}

// CommentPosted notifies the moderator about a new comment.
func (n *Notifier) CommentPosted(c *models.Comment) {
	kind := "comment"
	if c.ParentID != nil {
		kind = "reply"
	}
	subject := fmt.Sprintf("[%s] New %s on %s", n.siteName, kind, c.PostSlug)
	body := fmt.Sprintf("From: %s\nPost: %s/posts/%s\n\n%s\n", c.Name, n.siteURL, c.PostSlug, c.Message)
	n.send(subject, body)
}

// QuestionAsked notifies the moderator about a new ask submission.
func (n *Notifier) QuestionAsked(a *models.AskSubmission) {
	subject := fmt.Sprintf("[%s] New question: %s", n.siteName, a.Subject)
	body := fmt.Sprintf("From: %s <%s>\n\n%s\n", a.Name, a.Email, a.Message)
	n.send(subject, body)
}
