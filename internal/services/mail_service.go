package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/smtp"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"tabi/internal/config"
)

type IMailService interface {
	SendInvitationMail(to, inviterName, planTitle, token string) error
	SendVerificationCode(to, code string) error
	SendWarikanNotice(to, nickname, planTitle string, share, total int64, members int) error
	SendMailToNotifyUser(to, subject, body, ctaText, ctaURL string) error
}

type smtpMailService struct {
	cfg        config.SMTPConfig
	appName    string
	appBaseURL string
	htmlTpl    *template.Template
	textTpl    *template.Template
	now        func() time.Time
}

func NewSMTPMailService(cfg config.SMTPConfig, appName, appBaseURL string) IMailService {
	return &smtpMailService{
		cfg:        cfg,
		appName:    appName,
		appBaseURL: strings.TrimRight(appBaseURL, "/"),
		htmlTpl:    template.Must(template.New("html").Parse(baseHTMLTemplate)),
		textTpl:    template.Must(template.New("text").Parse(plainTextTemplate)),
		now:        time.Now,
	}
}

// InvitationURL is the front-end page that resolves an invitation token.
func InvitationURL(baseURL, token string) string {
	return fmt.Sprintf("%s/invitations/%s", strings.TrimRight(baseURL, "/"), url.PathEscape(token))
}

func (s *smtpMailService) SendInvitationMail(to, inviterName, planTitle, token string) error {
	subject := fmt.Sprintf("%s invited you to %q", inviterName, planTitle)
	body := fmt.Sprintf("%s invited you to plan the trip %q together.", inviterName, planTitle)
	return s.SendMailToNotifyUser(to, subject, body, "Open invitation", InvitationURL(s.appBaseURL, token))
}

func (s *smtpMailService) SendVerificationCode(to, code string) error {
	subject := fmt.Sprintf("Your %s verification code", s.appName)
	body := fmt.Sprintf("Your verification code is %s. Enter it on the sign up page to finish creating your account.", code)
	return s.SendMailToNotifyUser(to, subject, body, "", "")
}

func (s *smtpMailService) SendWarikanNotice(to, nickname, planTitle string, share, total int64, members int) error {
	subject := fmt.Sprintf("Cost split for %q", planTitle)
	body := fmt.Sprintf("Hi %s, the trip %q cost %d yen in total. Split between %d members, your share is %d yen.",
		nickname, planTitle, total, members, share)
	return s.SendMailToNotifyUser(to, subject, body, "", "")
}

func (s *smtpMailService) SendMailToNotifyUser(to, subject, body, ctaText, ctaURL string) error {
	html, text, err := s.renderEmail(emailData{
		Title:     subject,
		Intro:     body,
		ButtonURL: ctaURL,
		ButtonTxt: ctaText,
		AppName:   s.appName,
		Year:      s.now().Year(),
	})
	if err != nil {
		return err
	}
	return s.send(to, subject, html, text)
}

type emailData struct {
	Title     string
	Intro     string
	ButtonURL string
	ButtonTxt string
	AppName   string
	Year      int
}

const baseHTMLTemplate = `<!doctype html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width,initial-scale=1">
  <title>{{.Title}}</title>
</head>
<body style="margin:0;padding:24px;background:#f8fafc;font-family:-apple-system,'Segoe UI',Roboto,Helvetica,Arial,sans-serif;color:#0f172a">
  <div style="max-width:600px;margin:0 auto;background:#ffffff;border-radius:12px;overflow:hidden">
    <div style="padding:24px 32px;font-weight:700;color:#2563eb">{{.AppName}}</div>
    <div style="padding:8px 32px 32px">
      <h1 style="font-size:22px;margin:0 0 16px">{{.Title}}</h1>
      <p style="line-height:1.7;color:#475569">{{.Intro}}</p>
      {{if .ButtonURL}}
      <p><a href="{{.ButtonURL}}" style="display:inline-block;padding:12px 24px;background:#2563eb;color:#ffffff;border-radius:8px;text-decoration:none">{{.ButtonTxt}}</a></p>
      <p style="font-size:13px;color:#64748b">If the button doesn't work, open this link: {{.ButtonURL}}</p>
      {{end}}
    </div>
    <div style="padding:16px 32px;font-size:13px;color:#64748b;text-align:center">&copy; {{.Year}} {{.AppName}}</div>
  </div>
</body>
</html>`

const plainTextTemplate = `{{.Title}}

{{.Intro}}
{{if .ButtonURL}}
Open this link:
{{.ButtonURL}}
{{end}}
{{.AppName}} (c) {{.Year}}
`

func (s *smtpMailService) renderEmail(data emailData) (string, string, error) {
	var hb, tb bytes.Buffer
	if err := s.htmlTpl.Execute(&hb, data); err != nil {
		return "", "", err
	}
	if err := s.textTpl.Execute(&tb, data); err != nil {
		return "", "", err
	}
	return hb.String(), tb.String(), nil
}

func (s *smtpMailService) buildMessage(to, subject, htmlBody, textBody string) []byte {
	boundary := fmt.Sprintf("mixed_%d", s.now().UnixNano())

	var msg bytes.Buffer
	write := func(format string, a ...any) { _, _ = fmt.Fprintf(&msg, format, a...) }

	write("From: %s\r\n", s.formatFromHeader())
	write("To: %s\r\n", to)
	write("Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject))
	write("Date: %s\r\n", s.now().Format(time.RFC1123Z))
	write("MIME-Version: 1.0\r\n")
	write("Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)

	write("--%s\r\n", boundary)
	write("Content-Type: text/plain; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 8bit\r\n\r\n")
	write("%s\r\n\r\n", textBody)

	write("--%s\r\n", boundary)
	write("Content-Type: text/html; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 8bit\r\n\r\n")
	write("%s\r\n\r\n", htmlBody)

	write("--%s--\r\n", boundary)
	return msg.Bytes()
}

func (s *smtpMailService) send(to, subject, htmlBody, textBody string) error {
	msg := s.buildMessage(to, subject, htmlBody, textBody)
	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprint(s.cfg.Port))
	tlsCfg := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}

	var conn net.Conn
	var err error
	if s.cfg.UseSSL {
		// implicit TLS, usually 465
		conn, err = tls.DialWithDialer(&net.Dialer{Timeout: 10 * time.Second}, "tcp", addr, tlsCfg)
	} else {
		conn, err = (&net.Dialer{Timeout: 10 * time.Second}).Dial("tcp", addr)
	}
	if err != nil {
		return err
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer c.Quit()

	if !s.cfg.UseSSL {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err = c.StartTLS(tlsCfg); err != nil {
				return err
			}
		} else if s.cfg.RequireTLS {
			return fmt.Errorf("smtp server %s does not support STARTTLS", s.cfg.Host)
		}
	}

	if s.cfg.Username != "" {
		if err = c.Auth(smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)); err != nil {
			return err
		}
	}
	if err = c.Mail(s.cfg.From); err != nil {
		return err
	}
	if err = c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write(msg); err != nil {
		return err
	}
	return w.Close()
}

func (s *smtpMailService) formatFromHeader() string {
	name := strings.TrimSpace(s.cfg.FromName)
	if name == "" {
		return s.cfg.From
	}
	return fmt.Sprintf("%s <%s>", mime.BEncoding.Encode("UTF-8", name), s.cfg.From)
}

// logMailService stands in when no SMTP account is configured. Messages are
// written to the log instead of being delivered.
type logMailService struct {
	log        *zap.Logger
	appBaseURL string
}

func NewLogMailService(log *zap.Logger, appBaseURL string) IMailService {
	return &logMailService{log: log, appBaseURL: appBaseURL}
}

func (l *logMailService) SendInvitationMail(to, inviterName, planTitle, token string) error {
	l.log.Info("mail: invitation",
		zap.String("to", to), zap.String("inviter", inviterName), zap.String("plan", planTitle),
		zap.String("url", InvitationURL(l.appBaseURL, token)))
	return nil
}

func (l *logMailService) SendVerificationCode(to, code string) error {
	l.log.Info("mail: verification code", zap.String("to", to), zap.String("code", code))
	return nil
}

func (l *logMailService) SendWarikanNotice(to, nickname, planTitle string, share, total int64, members int) error {
	l.log.Info("mail: warikan notice",
		zap.String("to", to), zap.String("plan", planTitle), zap.Int64("share", share),
		zap.Int64("total", total), zap.Int("members", members))
	return nil
}

func (l *logMailService) SendMailToNotifyUser(to, subject, body, ctaText, ctaURL string) error {
	l.log.Info("mail: notify", zap.String("to", to), zap.String("subject", subject))
	return nil
}
