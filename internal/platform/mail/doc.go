// Package mail renders and delivers transactional e-mail. SMTPSender talks
// to an SMTP relay through go-mail; LogSender only logs and is used when no
// relay is configured.
package mail
