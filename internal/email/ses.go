package email

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESNotifier sends account emails via AWS SES
type SESNotifier struct {
	client    sesAPI
	fromEmail string
	fromName  string
	baseURL   string
}

// NewSESNotifier creates a notifier using the default AWS credential chain.
// baseURL is the public web app that hosts the reset and verify pages.
func NewSESNotifier(ctx context.Context, region, fromEmail, fromName, baseURL string) (*SESNotifier, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return newSESNotifier(ses.NewFromConfig(cfg), fromEmail, fromName, baseURL), nil
}

func newSESNotifier(client sesAPI, fromEmail, fromName, baseURL string) *SESNotifier {
	return &SESNotifier{
		client:    client,
		fromEmail: fromEmail,
		fromName:  fromName,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
	}
}

// SendPasswordReset sends a password reset email with the reset token
func (e *SESNotifier) SendPasswordReset(ctx context.Context, toEmail, token string) error {
	link := e.link("reset-password", token)

	msg := message{
		Subject: "Reset your SocialSimple password",
		Heading: "Reset your password",
		Intro:   "You requested to reset the password for your SocialSimple account. This link expires in 1 hour.",
		Action:  "Reset password",
		Link:    link,
		Outro:   "If you didn't request this, you can safely ignore this email.",
	}

	if err := e.send(ctx, toEmail, msg); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	return nil
}

// SendVerification sends the email-verification link
func (e *SESNotifier) SendVerification(ctx context.Context, toEmail, token string) error {
	link := e.link("verify", token)

	msg := message{
		Subject: "Verify your SocialSimple email",
		Heading: "Confirm your email address",
		Intro:   "Confirm this address to finish setting up your SocialSimple account. This link expires in 1 hour.",
		Action:  "Verify email",
		Link:    link,
		Outro:   "If you didn't create an account, you can safely ignore this email.",
	}

	if err := e.send(ctx, toEmail, msg); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

func (e *SESNotifier) link(page, token string) string {
	return fmt.Sprintf("%s/%s?token=%s", e.baseURL, page, url.QueryEscape(token))
}

func (e *SESNotifier) send(ctx context.Context, toEmail string, msg message) error {
	from := e.fromEmail
	if e.fromName != "" {
		from = fmt.Sprintf("%s <%s>", e.fromName, e.fromEmail)
	}

	input := &ses.SendEmailInput{
		Source: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(msg.Subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data:    aws.String(msg.HTML()),
					Charset: aws.String("UTF-8"),
				},
				Text: &types.Content{
					Data:    aws.String(msg.Text()),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}

	_, err := e.client.SendEmail(ctx, input)
	return err
}
