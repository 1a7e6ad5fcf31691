package budget

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrymomot/expensekit/pkg/email"
	"github.com/dmitrymomot/expensekit/pkg/email/templates"
)

// AlertSubject is the subject line for an alert at status.
func AlertSubject(b *Budget, status AlertStatus) string {
	period := fmt.Sprintf("%s %d/%d", b.Category, b.Month, b.Year)
	if status == AlertExceeded {
		return "Budget exceeded: " + period
	}
	return "Budget nearing limit: " + period
}

func (s *Service) composeAlert(ctx context.Context, to Recipient, b *Budget, spent float64, status AlertStatus) (email.SendEmailParams, error) {
	name := to.DisplayName
	if name == "" {
		name = "there"
	}
	subject := AlertSubject(b, status)

	msg := templates.Message{
		Title:    subject,
		Greeting: fmt.Sprintf("Hi %s,", name),
		Paragraphs: []string{
			fmt.Sprintf("Your budget for %s (%d/%d) is %d%% utilized.",
				b.Category, b.Month, b.Year, percentOf(spent, b.Amount)),
		},
		Details: []templates.Detail{
			{Label: "Budget", Value: strconv.FormatFloat(b.Amount, 'f', 2, 64)},
			{Label: "Spent", Value: strconv.FormatFloat(spent, 'f', 2, 64)},
			{Label: "Threshold", Value: strconv.FormatFloat(b.ThresholdPercent, 'f', -1, 64) + "%"},
		},
		Signature: s.appName,
	}

	body, err := templates.Render(ctx, templates.Layout(msg))
	if err != nil {
		return email.SendEmailParams{}, fmt.Errorf("render budget alert: %w", err)
	}
	return email.SendEmailParams{
		SendTo:   to.Email,
		Subject:  subject,
		BodyHTML: body,
		Tag:      "budget-alert",
	}, nil
}
