package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type KBDocument struct {
	Id        uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title     string           `gorm:"type:varchar(255);not null"`
	Source    string           `gorm:"type:varchar(255);not null"`
	Content   string           `gorm:"type:text;not null"`
	Embedding *pgvector.Vector `gorm:"type:vector(768)"` // nomic-embed-text / text-embedding-004 dimensions
	CreatedAt time.Time        `gorm:"autoCreateTime"`
}

func (KBDocument) TableName() string {
	return "kb_documents"
}
