// utils/email.go
package utils

import (
	"fmt"

	"github.com/keighl/postmark"
)

// EmailService handles sending emails using Postmark
type EmailService struct {
	client *postmark.Client
	sender string
}

// NewEmailService initializes and returns a new EmailService instance
func NewEmailService(apiToken, sender string) *EmailService {
	if apiToken == "" {
		panic("POSTMARK_API_TOKEN is not set in environment variables")
	}
	client := postmark.NewClient(apiToken, "")
	return &EmailService{
		client: client,
		sender: sender,
	}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	_, err := es.client.SendEmail(postmark.Email{
		From:     es.sender,
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: htmlContent,
	})

	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendVerificationEmail sends an email verification link to the user
func (es *EmailService) SendVerificationEmail(toEmail, baseURL, token string) error {
	subject := "Verify Your Email"
	verificationLink := fmt.Sprintf("%s/verify?token=%s", baseURL, token)
	htmlContent := fmt.Sprintf(
		"<strong>Please verify your email by clicking on the following link:</strong> <a href=\"%s\">Verify Email</a>",
		verificationLink,
	)

	return es.SendEmail(toEmail, subject, htmlContent)
}

// SendCancellationEmail notifies the user that their order was cancelled.
func (es *EmailService) SendCancellationEmail(toEmail, orderID, reason string) error {
	subject := "Order Cancelled"
	htmlContent := fmt.Sprintf(
		"<strong>Dear Customer,</strong><br><br>Your order (ID: %s) has been cancelled.<br>Reason: <strong>%s</strong><br><br>Thank you for shopping with us!",
		orderID, reason,
	)
	return es.SendEmail(toEmail, subject, htmlContent)
}

// SendRefundRequestEmail asks the user to submit bank details for a refund.
func (es *EmailService) SendRefundRequestEmail(toEmail, orderID string) error {
	subject := "Refund Information Needed"
	htmlContent := fmt.Sprintf(
		"<strong>Dear Customer,</strong><br><br>Your paid order (ID: %s) has been cancelled. Please submit your bank details so we can process your refund.<br><br>Thank you for shopping with us!",
		orderID,
	)
	return es.SendEmail(toEmail, subject, htmlContent)
}

// SendRefundSuccessEmail notifies the user that their refund was completed.
func (es *EmailService) SendRefundSuccessEmail(toEmail, orderID string) error {
	subject := "Refund Completed"
	htmlContent := fmt.Sprintf(
		"<strong>Dear Customer,</strong><br><br>The refund for your order (ID: %s) has been completed. The amount should appear in your account shortly.<br><br>Thank you for shopping with us!",
		orderID,
	)
	return es.SendEmail(toEmail, subject, htmlContent)
}

// SendRefundFailedEmail notifies the user that their refund attempt failed.
func (es *EmailService) SendRefundFailedEmail(toEmail, orderID string) error {
	subject := "Refund Failed"
	htmlContent := fmt.Sprintf(
		"<strong>Dear Customer,</strong><br><br>The refund for your order (ID: %s) could not be processed. Please verify your bank details or contact support.<br><br>We apologize for the inconvenience.",
		orderID,
	)
	return es.SendEmail(toEmail, subject, htmlContent)
}
