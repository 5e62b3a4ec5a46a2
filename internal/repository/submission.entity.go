package repository

import (
	"time"

	"github.com/digitalpro/contact-gateway/internal/model"
)

type SubmissionEntity struct {
	ID              int64     `db:"id"               gorm:"primaryKey;autoIncrement;column:id"`
	Name            string    `db:"name"             gorm:"column:name;not null"`
	Email           string    `db:"email"            gorm:"column:email;not null;index"`
	Phone           string    `db:"phone"            gorm:"column:phone"`
	Company         string    `db:"company"          gorm:"column:company"`
	ServiceInterest string    `db:"service_interest" gorm:"column:service_interest"`
	Message         string    `db:"message"          gorm:"column:message;type:text;not null"`
	IPAddress       string    `db:"ip_address"       gorm:"column:ip_address;index"`
	UserAgent       string    `db:"user_agent"       gorm:"column:user_agent;type:text"`
	Referrer        string    `db:"referrer"         gorm:"column:referrer"`
	IsRead          bool      `db:"is_read"          gorm:"column:is_read;not null;default:false"`
	IsSpam          bool      `db:"is_spam"          gorm:"column:is_spam;not null;default:false"`
	Status          string    `db:"status"           gorm:"column:status;not null;default:'new';index"`
	SpamReason      string    `db:"spam_reason"      gorm:"column:spam_reason"`
	AdminNotes      string    `db:"admin_notes"      gorm:"column:admin_notes;type:text"`
	CreatedAt       time.Time `db:"created_at"       gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt       time.Time `db:"updated_at"       gorm:"column:updated_at;autoUpdateTime"`
}

func (SubmissionEntity) TableName() string {
	return "contact_submissions"
}

func toSubmissionEntity(m *model.Submission) *SubmissionEntity {
	if m == nil {
		return nil
	}
	return &SubmissionEntity{
		ID:              m.ID,
		Name:            m.Name,
		Email:           m.Email,
		Phone:           m.Phone,
		Company:         m.Company,
		ServiceInterest: m.ServiceInterest,
		Message:         m.Message,
		IPAddress:       m.IPAddress,
		UserAgent:       m.UserAgent,
		Referrer:        m.Referrer,
		IsRead:          m.IsRead,
		IsSpam:          m.IsSpam,
		Status:          string(m.Status),
		SpamReason:      m.SpamReason,
		AdminNotes:      m.AdminNotes,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toSubmissionModel(e *SubmissionEntity) *model.Submission {
	if e == nil {
		return nil
	}
	return &model.Submission{
		ID:              e.ID,
		Name:            e.Name,
		Email:           e.Email,
		Phone:           e.Phone,
		Company:         e.Company,
		ServiceInterest: e.ServiceInterest,
		Message:         e.Message,
		IPAddress:       e.IPAddress,
		UserAgent:       e.UserAgent,
		Referrer:        e.Referrer,
		IsRead:          e.IsRead,
		IsSpam:          e.IsSpam,
		Status:          model.SubmissionStatus(e.Status),
		SpamReason:      e.SpamReason,
		AdminNotes:      e.AdminNotes,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

func toSubmissionModels(entities []*SubmissionEntity) []*model.Submission {
	if entities == nil {
		return nil
	}
	models := make([]*model.Submission, len(entities))
	for i, e := range entities {
		models[i] = toSubmissionModel(e)
	}
	return models
}
