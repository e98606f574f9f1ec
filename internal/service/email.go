package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) send(to, toName, subject, plainText string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)

	message := mail.NewSingleEmail(from, subject, recipient, plainText, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *emailService) SendReportSubmittedNotification(ctx context.Context, to, toName, driverName, plate, weekStart string) error {
	subject := fmt.Sprintf("Weekly report submitted for %s", plate)
	body := fmt.Sprintf("Hello %s,\n\n%s submitted the weekly report for car %s (week of %s). Please review and approve or reject it.\n\nBest regards,\nThe FleetLedger Team",
		toName, driverName, plate, weekStart)
	return s.send(to, toName, subject, body)
}

func (s *emailService) SendReportDecisionNotification(ctx context.Context, to, toName, plate, weekStart, decision, reason string) error {
	subject := fmt.Sprintf("Weekly report %s - %s", decision, plate)
	body := fmt.Sprintf("Hello %s,\n\nYour weekly report for car %s (week of %s) was %s.",
		toName, plate, weekStart, decision)
	if reason != "" {
		body += fmt.Sprintf("\n\nReason: %s", reason)
	}
	body += "\n\nBest regards,\nThe FleetLedger Team"
	return s.send(to, toName, subject, body)
}

func (s *emailService) SendAssignmentRequestNotification(ctx context.Context, to, toName, driverName, plate string) error {
	subject := fmt.Sprintf("New assignment request for %s", plate)
	body := fmt.Sprintf("Hello %s,\n\n%s requested to drive your car %s. Review the request to approve or reject it.\n\nBest regards,\nThe FleetLedger Team",
		toName, driverName, plate)
	return s.send(to, toName, subject, body)
}

func (s *emailService) SendAssignmentDecisionNotification(ctx context.Context, to, toName, plate, decision, reason string) error {
	subject := fmt.Sprintf("Assignment request %s - %s", decision, plate)
	body := fmt.Sprintf("Hello %s,\n\nYour request to drive car %s was %s.", toName, plate, decision)
	if reason != "" {
		body += fmt.Sprintf("\n\nReason: %s", reason)
	}
	body += "\n\nBest regards,\nThe FleetLedger Team"
	return s.send(to, toName, subject, body)
}
