package service

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// EmailService sends transactional email through Amazon SES. It
// satisfies ResetMailer and AlertMailer.
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	debug      bool
}

// NewEmailService creates a new email service. When fromEmail is
// empty the service is disabled and every send becomes a logged
// no-op.
func NewEmailService(awsRegion, fromEmail, fromName, appBaseURL string, debug bool) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false, debug: debug}, nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := sesv2.NewFromConfig(cfg)

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &EmailService{
		client:     client,
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
		debug:      debug,
	}, nil
}

// IsEnabled returns whether the email service is enabled.
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendPasswordResetEmail sends a password reset email with a reset
// link.
func (s *EmailService) SendPasswordResetEmail(ctx context.Context, toEmail, resetToken string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): password reset to %s", toEmail)
		return nil
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", s.appBaseURL, resetToken)

	subject := "Reset Your BrightSteps Password"
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #5b8def; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.button { display: inline-block; padding: 12px 30px; background-color: #5b8def; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>Password Reset Request</h1>
		</div>
		<div class="content">
			<p>Hi,</p>
			<p>We received a request to reset the password for your BrightSteps account.</p>
			<p>Click the button below to reset your password:</p>
			<p style="text-align: center;">
				<a href="%s" class="button">Reset Password</a>
			</p>
			<p>Or copy and paste this link into your browser:</p>
			<p style="word-break: break-all; font-size: 12px; color: #666;">%s</p>
			<p><strong>This link will expire in 1 hour.</strong></p>
			<p>If you didn't request a password reset, you can safely ignore this email.</p>
		</div>
		<div class="footer">
			<p>This is an automated email from BrightSteps. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, resetLink, resetLink)

	textBody := fmt.Sprintf(`Hi,

We received a request to reset the password for your BrightSteps account.

Click the link below to reset your password:
%s

This link will expire in 1 hour.

If you didn't request a password reset, you can safely ignore this email.

---
This is an automated email from BrightSteps. Please do not reply.
`, resetLink)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// SendAlertEmail tells an admin that a student checked in with a
// high-priority emotion.
func (s *EmailService) SendAlertEmail(ctx context.Context, toEmail, studentName, emotion string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): emotion alert to %s", toEmail)
		return nil
	}

	subject := fmt.Sprintf("BrightSteps Alert: %s may need attention", studentName)
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #e25b5b; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.button { display: inline-block; padding: 12px 30px; background-color: #e25b5b; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>Emotion Alert</h1>
		</div>
		<div class="content">
			<p>Hi,</p>
			<p><strong>%s</strong> just checked in feeling <strong>%s</strong> and may need attention.</p>
			<p style="text-align: center;">
				<a href="%s/admin/alerts" class="button">View Alerts</a>
			</p>
		</div>
		<div class="footer">
			<p>This is an automated email from BrightSteps. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, studentName, emotion, s.appBaseURL)

	textBody := fmt.Sprintf(`Hi,

%s just checked in feeling %s and may need attention.

View alerts: %s/admin/alerts

---
This is an automated email from BrightSteps. Please do not reply.
`, studentName, emotion, s.appBaseURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// SendStudentCredentialsEmail mails a parent the generated sign-in
// details for a newly enrolled student.
func (s *EmailService) SendStudentCredentialsEmail(ctx context.Context, toEmail, studentName, username, passcode string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): student credentials to %s", toEmail)
		return nil
	}

	subject := fmt.Sprintf("BrightSteps sign-in details for %s", studentName)
	textBody := fmt.Sprintf(`Hi,

%s has been enrolled in BrightSteps. Their sign-in details are:

Username: %s
Passcode: %s

Sign in at %s/student-login

---
This is an automated email from BrightSteps. Please do not reply.
`, studentName, username, passcode, s.appBaseURL)

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body>
	<p>Hi,</p>
	<p><strong>%s</strong> has been enrolled in BrightSteps. Their sign-in details are:</p>
	<p>Username: <strong>%s</strong><br>Passcode: <strong>%s</strong></p>
	<p>Sign in at <a href="%s/student-login">%s/student-login</a></p>
	<p style="font-size: 12px; color: #666;">This is an automated email from BrightSteps. Please do not reply.</p>
</body>
</html>
`, studentName, username, passcode, s.appBaseURL, s.appBaseURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES.
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	if s.debug && result.MessageId != nil {
		log.Printf("[DEBUG] SES message ID: %s", *result.MessageId)
	}

	log.Printf("Email sent: to=%s, subject=%s", toEmail, subject)
	return nil
}
