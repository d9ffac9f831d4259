package notifier

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	config "github.com/Keoroanthony/go-inventory/configs"
)

type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// EmailSink sends an order confirmation through Amazon SES.
type EmailSink struct {
	client sesAPI
	sender string
}

func NewEmailSink(ctx context.Context, cfg config.EmailConfig) (*EmailSink, error) {
	if cfg.SenderEmail == "" {
		return nil, errors.New("sender email address is not configured")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWSRegion)}
	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS SDK config: %w", err)
	}

	return &EmailSink{client: ses.NewFromConfig(awsCfg), sender: cfg.SenderEmail}, nil
}

func (s *EmailSink) Name() string { return "email" }

func (s *EmailSink) Send(ctx context.Context, e OrderCreated) error {
	if e.CustomerMail == "" {
		return errors.New("recipient email address is empty")
	}

	subject := fmt.Sprintf("Order %s Confirmation - Thank You for Your Purchase!", e.OrderID)
	total := strconv.FormatFloat(e.Total, 'f', 2, 64)

	bodyHTML := fmt.Sprintf(`
        <html>
        <body>
            <p>Dear %s,</p>
            <p>Thank you for your order! Your order %s has been successfully placed.</p>
            <p><strong>Order Details:</strong></p>
            <ul>
                <li>Order ID: %s</li>
                <li>Item: %s x %d</li>
                <li>Total Amount: %s</li>
            </ul>
            <p>Best regards,</p>
            <p>Your Inventory Team</p>
        </body>
        </html>`, e.CustomerName, e.OrderID, e.OrderID, e.ItemName, e.Quantity, total)

	bodyText := fmt.Sprintf(
		"Dear %s,\n\nThank you for your order! Your order %s has been successfully placed.\n\n"+
			"Order Details:\nOrder ID: %s\nItem: %s x %d\nTotal Amount: %s\n\n"+
			"Best regards,\nYour Inventory Team",
		e.CustomerName, e.OrderID, e.OrderID, e.ItemName, e.Quantity, total)

	input := &ses.SendEmailInput{
		Source: aws.String(s.sender),
		Destination: &types.Destination{
			ToAddresses: []string{e.CustomerMail},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Charset: aws.String("UTF-8"),
				Data:    aws.String(subject),
			},
			Body: &types.Body{
				Html: &types.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(bodyHTML),
				},
				Text: &types.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(bodyText),
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
