package services

import (
	"context"
	"net/mail"
	"strings"

	"gorm.io/gorm"

	"inkwell/models"
	"inkwell/utils"
)

// CreateAskInput is a question submitted through the contact form.
type CreateAskInput struct {
	Name    string
	Email   string
	Subject string
	Message string
	Ref     string
}

// AskService stores contact-form questions and notifies the site owner.
type AskService struct {
	db       *gorm.DB
	notifier *Notifier
}

func NewAskService(db *gorm.DB, notifier *Notifier) *AskService {
	return &AskService{db: db, notifier: notifier}
}

// Create validates and stores a question. The notification email is
// fire-and-forget; a mail failure never loses the submission.
func (s *AskService) Create(ctx context.Context, in CreateAskInput) (*models.AskSubmission, error) {
	name := strings.TrimSpace(utils.SanitizeStrict(in.Name))
	subject := strings.TrimSpace(utils.SanitizeStrict(in.Subject))
	message := strings.TrimSpace(utils.SanitizeStrict(in.Message))
	email := strings.TrimSpace(in.Email)

	fe := fieldErrors{}
	if l := len([]rune(name)); l < 1 || l > 100 {
		fe.add("name", "name must be 1 to 100 characters")
	}
	if _, err := mail.ParseAddress(email); err != nil || len(email) > 255 {
		fe.add("email", "invalid email address")
	}
	if l := len([]rune(subject)); l < 3 || l > 200 {
		fe.add("subject", "subject must be 3 to 200 characters")
	}
	if l := len([]rune(message)); l < 10 || l > 5000 {
		fe.add("message", "message must be 10 to 5000 characters")
	}
	if err := fe.err(); err != nil {
		return nil, err
	}

	submission := models.AskSubmission{
		Name:    name,
		Email:   email,
		Subject: subject,
		Message: message,
		Ref:     strings.TrimSpace(in.Ref),
	}
	if err := s.db.WithContext(ctx).Create(&submission).Error; err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.QuestionAsked(&submission)
	}
	return &submission, nil
}

// List returns submissions newest-first with offset pagination.
func (s *AskService) List(ctx context.Context, offset, limit int) ([]models.AskSubmission, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.AskSubmission{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.AskSubmission
	err := s.db.WithContext(ctx).Order("created_at DESC").
		Offset(offset).Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
