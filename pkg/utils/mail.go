package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/ssko7098/Harmonize/pkg/logger"
	"gopkg.in/gomail.v2"
)

// EmailConfig holds SMTP and app settings, passed in from app config.
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	AppURL       string
	FromEmail    string
}

// SendActivationEmail sends the account activation email with the OTP code.
func SendActivationEmail(ctx context.Context, config EmailConfig, email, username string, otp int64, log *logger.Logger) error {
	activationLink := fmt.Sprintf("%s/activate?email=%s", config.AppURL, email)

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html lang="en">
<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; margin: 0; padding: 0;">
    <div style="max-width: 600px; margin: 40px auto; background-color: #ffffff; border-radius: 8px; overflow: hidden;">
        <div style="background-color: #6c3fb5; padding: 20px; text-align: center; color: #ffffff;">
            <h1 style="margin: 0;">Welcome to Harmonize!</h1>
        </div>
        <div style="padding: 30px; line-height: 1.6;">
            <p>Hello %s,</p>
            <p>Thanks for joining Harmonize. To start sharing music and leaving comments, activate your account with the code below.</p>
            <div style="font-size: 28px; font-weight: bold; color: #6c3fb5; text-align: center; margin: 20px 0;">%08d</div>
            <p style="text-align: center;">
                <a href="%s" style="display: inline-block; padding: 12px 24px; background-color: #6c3fb5; color: #ffffff; text-decoration: none; border-radius: 5px; font-weight: bold;">Activate Your Account</a>
            </p>
            <p>This code expires in 24 hours. If you didn't sign up, please ignore this email.</p>
            <p>The Harmonize Team</p>
        </div>
        <div style="background-color: #f4f4f4; padding: 20px; text-align: center; font-size: 12px; color: #777;">
            <p>&copy; %d Harmonize. All rights reserved.</p>
        </div>
    </div>
</body>
</html>
`, username, otp, activationLink, time.Now().Year())

	textBody := fmt.Sprintf(`
Hello %s,

Welcome to Harmonize! Your activation code is: %08d

Activate your account here: %s

This code expires in 24 hours. If you didn't sign up, ignore this email.

The Harmonize Team
`, username, otp, activationLink)

	msg := gomail.NewMessage()
	msg.SetHeader("From", config.FromEmail)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", "Activate Your Harmonize Account")
	msg.SetBody("text/plain", textBody)
	msg.AddAlternative("text/html", htmlBody)

	dialer := gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPUsername, config.SMTPPassword)
	if err := dialer.DialAndSend(msg); err != nil {
		log.Warn(ctx).WithFields("email", email).Logs(fmt.Sprintf("Failed to send activation email: %v", err))
		return WrapError(err, ErrInternalServerError.Code, "Failed to send activation email")
	}

	log.Info(ctx).WithFields("email", email).Logs(fmt.Sprintf("Activation email sent to: %s", email))
	return nil
}
