// Package mailer delivers transactional HTML mail. The auth flows only need
// a Send capability; delivery either happens inline over SMTP or is handed
// to RabbitMQ and performed by the background consumer in internal/queue.
package mailer

import "gopkg.in/gomail.v2"

// Message is one outbound mail.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Mailer sends a single message. Implementations must be safe for
// concurrent use by request handlers.
type Mailer interface {
	Send(msg Message) error
}

// SMTP sends mail synchronously through an SMTP server.
type SMTP struct {
	host string
	port int
	user string
	pass string
	from string
}

// NewSMTP builds an SMTP mailer. An empty user disables authentication.
func NewSMTP(host string, port int, user, pass, from string) *SMTP {
	return &SMTP{host: host, port: port, user: user, pass: pass, from: from}
}

// Send dials the server and delivers msg as text/html.
func (s *SMTP) Send(msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	d := gomail.NewDialer(s.host, s.port, s.user, s.pass)
	return d.DialAndSend(m)
}
