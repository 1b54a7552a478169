// Package outreach содержит контракт исходящих писем платформы и
// шаблоны их содержимого. Конкретные транспорты живут в инфраструктуре.
package outreach

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
)

// EmailMessage представляет одно исходящее письмо.
type EmailMessage struct {
	// To - адрес получателя.
	To shared.Email

	// ToName - имя получателя.
	ToName string

	// Subject - тема письма.
	Subject string

	// Body - текст письма.
	Body string
}

// Sender отправляет письма стейкхолдерам.
type Sender interface {
	// Send отправляет одно письмо. Возвращает shared.ErrEmailSendFailed
	// при неуспехе.
	Send(ctx context.Context, msg EmailMessage) error
}

// ══════════════════════════════════════════════════════════════════════════════
// TEMPLATES
// ══════════════════════════════════════════════════════════════════════════════

// BuildRegistrationEmail строит приветственное письмо-подтверждение
// для свежезарегистрированного стейкхолдера.
func BuildRegistrationEmail(toName, toAddr string, roles []string) EmailMessage {
	return EmailMessage{
		To:      shared.Email(toAddr),
		ToName:  toName,
		Subject: "Registration Confirmed - CMIS Engagement Hub",
		Body: fmt.Sprintf(
			"Dear %s,\n\nThank you for registering with the CMIS Engagement Hub. Your profile has been recorded for the following roles: %s.\nYou will hear from us as soon as an event, guest lecture, or competition matches your expertise.\n\nBest regards,\nCMIS Engagement Hub",
			toName, strings.Join(roles, ", "),
		),
	}
}

// BuildInvitationEmail строит письмо-приглашение на предмет.
func BuildInvitationEmail(toName, toAddr, subjectTitle, matchReason string) EmailMessage {
	return EmailMessage{
		To:      shared.Email(toAddr),
		ToName:  toName,
		Subject: fmt.Sprintf("Invitation: %s", subjectTitle),
		Body: fmt.Sprintf(
			"Dear %s,\n\nYou have been invited to participate in %s.\n%s.\n\nPlease respond at your earliest convenience.\n\nBest regards,\nCMIS Engagement Hub",
			toName, subjectTitle, matchReason,
		),
	}
}

// BuildFollowUpEmail строит напоминание по неотвеченному приглашению.
func BuildFollowUpEmail(toName, toAddr, subjectTitle string, followUpNumber int) EmailMessage {
	return EmailMessage{
		To:      shared.Email(toAddr),
		ToName:  toName,
		Subject: fmt.Sprintf("Reminder: %s", subjectTitle),
		Body: fmt.Sprintf(
			"Dear %s,\n\nThis is a friendly reminder (%d) about your pending invitation to %s.\nWe would love to have you on board.\n\nBest regards,\nCMIS Engagement Hub",
			toName, followUpNumber, subjectTitle,
		),
	}
}

// BuildThankYouEmail строит благодарственное письмо участнику
// завершившегося предмета.
func BuildThankYouEmail(toName, toAddr, subjectTitle string) EmailMessage {
	return EmailMessage{
		To:      shared.Email(toAddr),
		ToName:  toName,
		Subject: fmt.Sprintf("Thank You for Participating in %s", subjectTitle),
		Body: fmt.Sprintf(
			"Dear %s,\n\nThank you for contributing your time and expertise to %s.\nPrograms like this only work because stakeholders like you show up for our students. We hope to see you at future engagements.\n\nBest regards,\nCMIS Engagement Hub",
			toName, subjectTitle,
		),
	}
}

// BuildWarningAlert строит письмо администраторам о падении вовлечённости.
func BuildWarningAlert(toAddr, level, message string, suggestions []string) EmailMessage {
	body := fmt.Sprintf("Engagement alert (%s):\n\n%s\n\nSuggested actions:\n", level, message)
	for _, s := range suggestions {
		body += fmt.Sprintf("  - %s\n", s)
	}
	return EmailMessage{
		To:      shared.Email(toAddr),
		ToName:  "Program Administrator",
		Subject: fmt.Sprintf("Engagement %s alert", level),
		Body:    body,
	}
}
