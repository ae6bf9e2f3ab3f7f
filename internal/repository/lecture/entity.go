package lecture

import (
	"time"

	"github.com/google/uuid"
	"github.com/xpanvictor/lecturenotes/internal/domains/lecture"
	"gorm.io/gorm"
)

// LectureEntity represents the database entity for Lecture with GORM tags
type LectureEntity struct {
	ID             uuid.UUID `gorm:"primaryKey;type:char(36);not null"`
	Filename       string    `gorm:"column:filename;type:varchar(255);not null"`
	Status         string    `gorm:"column:status;type:varchar(32);not null;index"`
	Language       string    `gorm:"column:language;type:varchar(16)"`
	TargetLanguage string    `gorm:"column:target_language;type:varchar(16)"`
	RawTranscript  string    `gorm:"column:raw_transcript;type:longtext"`
	Transcript     string    `gorm:"column:transcript;type:longtext"`
	Summary        string    `gorm:"column:summary;type:text"`
	Questions      string    `gorm:"column:questions;type:text"`
	Translation    string    `gorm:"column:translation;type:longtext"`
	Error          string    `gorm:"column:error;type:text"`
	AudioDigest    string    `gorm:"column:audio_digest;type:char(64);index"`
	AudioPath      string    `gorm:"column:audio_path;type:varchar(512)"`
	CreatedAt      time.Time `gorm:"autoCreateTime(3);index"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime(3)"`
}

func (LectureEntity) TableName() string {
	return "lectures"
}

// BeforeCreate is a GORM hook to ensure UUID is set
func (e *LectureEntity) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func (e *LectureEntity) ToDomain() *lecture.Lecture {
	return &lecture.Lecture{
		ID:             e.ID,
		Filename:       e.Filename,
		Status:         lecture.Status(e.Status),
		Language:       e.Language,
		TargetLanguage: e.TargetLanguage,
		RawTranscript:  e.RawTranscript,
		Transcript:     e.Transcript,
		Summary:        e.Summary,
		Questions:      e.Questions,
		Translation:    e.Translation,
		Error:          e.Error,
		AudioDigest:    e.AudioDigest,
		AudioPath:      e.AudioPath,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func NewLectureEntityFromDomain(l *lecture.Lecture) *LectureEntity {
	return &LectureEntity{
		ID:             l.ID,
		Filename:       l.Filename,
		Status:         string(l.Status),
		Language:       l.Language,
		TargetLanguage: l.TargetLanguage,
		RawTranscript:  l.RawTranscript,
		Transcript:     l.Transcript,
		Summary:        l.Summary,
		Questions:      l.Questions,
		Translation:    l.Translation,
		Error:          l.Error,
		AudioDigest:    l.AudioDigest,
		AudioPath:      l.AudioPath,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}
