package mail

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"
)

// Notifier sends account-change notifications over SMTP. An empty addr
// disables sending entirely; callers treat a send failure as log-only and
// never roll back the change that triggered it.
type Notifier struct {
	addr string
	from string
}

func NewNotifier(addr, from string) *Notifier {
	return &Notifier{addr: addr, from: from}
}

// Enabled reports whether an SMTP relay is configured.
func (n *Notifier) Enabled() bool {
	return n.addr != ""
}

// PasswordChanged notifies the account address that its password was changed.
func (n *Notifier) PasswordChanged(username, to string) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nYour password was recently changed on your Task Manager account.\n"+
			"If you did not make this change, please contact support immediately.\n\n"+
			"Time of change: %s\n",
		username, time.Now().UTC().Format("2006-01-02 15:04:05"),
	)
	return n.send([]string{to}, "Password Change Notification - Task Manager", body)
}

// EmailChanged notifies both the old and the new address about the change.
func (n *Notifier) EmailChanged(username, oldAddr, newAddr string) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nYour email address has been changed from %s to %s.\n"+
			"If you did not make this change, please contact support immediately.\n\n"+
			"Time of change: %s\n",
		username, oldAddr, newAddr, time.Now().UTC().Format("2006-01-02 15:04:05"),
	)
	return n.send([]string{oldAddr, newAddr}, "Email Change Notification - Task Manager", body)
}

func (n *Notifier) send(to []string, subject, body string) error {
	if !n.Enabled() {
		return nil
	}

	msg := strings.Join([]string{
		"From: " + n.from,
		"To: " + strings.Join(to, ", "),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		body,
	}, "\r\n")

	return smtp.SendMail(n.addr, nil, n.from, to, []byte(msg))
}
