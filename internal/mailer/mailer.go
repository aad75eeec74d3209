package mailer

import (
	"fmt"
	"log"

	"github.com/galeries/galeries-server/config"
	"github.com/galeries/galeries-server/utils"
	"gopkg.in/gomail.v2"
)

// Mailer 站内邮件服务，注册确认与密码重置链接都从这里发出
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	baseURL  string
	enabled  bool
}

// New 创建邮件服务；未配置 SMTP 时降级为仅打日志
func New(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.MailHost,
		port:     cfg.MailPort,
		username: cfg.MailUsername,
		password: cfg.MailPassword,
		from:     cfg.MailFrom,
		baseURL:  cfg.BaseURL(),
		enabled:  cfg.MailHost != "",
	}
}

func (m *Mailer) send(to, subject, body string) error {
	if !m.enabled {
		log.Printf("[Mailer] SMTP not configured, skipping mail to %s: %s", utils.SanitizeLogMessage(to), subject)
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	d := gomail.NewDialer(m.host, m.port, m.username, m.password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

// SendConfirmation 发送邮箱确认链接，令牌一次性有效
func (m *Mailer) SendConfirmation(to, userName, token string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nConfirm your account by opening the link below:\n\n%s/users/confirmation?token=%s\n\nIgnore this email if you did not create an account.",
		userName, m.baseURL, token,
	)
	return m.send(to, "Confirm your account", body)
}

// SendPasswordReset 发送密码重置链接
func (m *Mailer) SendPasswordReset(to, userName, token string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nReset your password by opening the link below:\n\n%s/users/resetPassword?token=%s\n\nIgnore this email if you did not request a password reset.",
		userName, m.baseURL, token,
	)
	return m.send(to, "Reset your password", body)
}

// SendEmailUpdate 向新邮箱发送变更通知
func (m *Mailer) SendEmailUpdate(to, userName string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nThe email address of your account was changed to this one. All previous sessions were signed out.\n\nContact support if you did not request this change.",
		userName,
	)
	return m.send(to, "Your email address was changed", body)
}
