package utils

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

type SESMailer struct {
	client *ses.Client
	sender string
}

func NewSESMailer(cfg aws.Config, sender string) *SESMailer {
	return &SESMailer{client: ses.NewFromConfig(cfg), sender: sender}
}

func (m *SESMailer) Send(ctx context.Context, to, subject, body string) error {
	_, err := m.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(m.sender),
	})
	if err != nil {
		return fmt.Errorf("email send failed: %w", err)
	}
	return nil
}
