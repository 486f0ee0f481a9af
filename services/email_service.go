package services

import (
	"fmt"
	"net/smtp"
	"os"
	"strings"
	"time"

	"portal-backend/models"

	"golang.org/x/net/html"
)

// convertHTMLToText converts HTML content to plain text for email sending
func convertHTMLToText(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		// If parsing fails, return the original content
		return htmlContent
	}

	var text strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			text.WriteString(n.Data)
		case html.ElementNode:
			// Add line breaks for block elements
			switch n.Data {
			case "p", "div", "br", "h1", "h2", "h3", "h4", "h5", "h6", "table", "tr":
				text.WriteString("\n")
			case "li":
				text.WriteString("- ")
			case "td", "th":
				text.WriteString(" | ")
			}
		}

		for child := n.FirstChild; child != nil; child = child.NextSibling {
			extractText(child)
		}
	}

	extractText(doc)

	result := text.String()
	result = strings.ReplaceAll(result, "\n\n\n", "\n\n")
	result = strings.TrimSpace(result)

	return result
}

// EmailService sends portal notification emails over SMTP.
type EmailService struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// NewEmailService builds an email service from SMTP_* environment variables.
// Returns nil when SMTP is not configured, so callers can skip mailing.
func NewEmailService() *EmailService {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return nil
	}
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}
	return &EmailService{
		host:     host,
		port:     port,
		username: os.Getenv("SMTP_USER"),
		password: os.Getenv("SMTP_PASSWORD"),
		from:     os.Getenv("SMTP_FROM"),
	}
}

// SendBulkUploadSummary mails the outcome of a completed bulk upload to the
// account's registered email.
func (es *EmailService) SendBulkUploadSummary(to, userName string, batch *models.BulkUploadBatch, result *models.UploadResponse) error {
	subject := fmt.Sprintf("Bulk upload completed: %d shipment(s) booked", result.NewRecords)

	htmlBody := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your bulk upload <b>%s</b> has been processed.</p>
		<table>
			<tr><td>File</td><td>%s</td></tr>
			<tr><td>Total rows</td><td>%d</td></tr>
			<tr><td>New shipments</td><td>%d</td></tr>
			<tr><td>Duplicates skipped</td><td>%d</td></tr>
			<tr><td>Total amount</td><td>%.2f</td></tr>
		</table>
		<p>You can review the batch in the portal under Upload History.</p>`,
		userName, batch.BatchID, batch.FileName, batch.TotalRows,
		result.NewRecords, result.Duplicates, batch.TotalAmount)
	if result.BalanceUpdate != nil {
		htmlBody += fmt.Sprintf("<p>Your account balance is now %.2f (change: %.2f).</p>",
			result.BalanceUpdate.NewBalance, result.BalanceUpdate.Difference)
	}

	return es.sendEmail(to, subject, convertHTMLToText(htmlBody))
}

// SendPasswordReset mails a reset link that expires after the given window.
func (es *EmailService) SendPasswordReset(to, resetLink string, validFor time.Duration) error {
	subject := "Reset Your Password"
	body := fmt.Sprintf(
		"Click the link below to reset your password:\n\n%s\n\nThis link will expire in %d minutes.",
		resetLink, int(validFor.Minutes()))
	return es.sendEmail(to, subject, body)
}

// sendEmail sends a plain text email using SMTP
func (es *EmailService) sendEmail(to, subject, body string) error {
	auth := smtp.PlainAuth("", es.username, es.password, es.host)

	headers := []string{
		"From: " + es.from,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}
	msg := []byte(strings.Join(headers, "\r\n") + "\r\n")

	err := smtp.SendMail(es.host+":"+es.port, auth, es.from, []string{to}, msg)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %v", to, err)
	}
	return nil
}
