package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/talentwire/ingest/internal/classify"
	"github.com/talentwire/ingest/internal/model"
)

// FileRecord is the persisted aggregate: identity, a flattened copy of the
// extracted content, and the document analysis. At most one live record
// exists per (owner_id, filename); reprocessing overwrites the body while
// preserving the identity.
type FileRecord struct {
	ID       string         `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID  string         `gorm:"uniqueIndex:idx_files_owner_filename;not null" json:"user_id"`
	Filename string         `gorm:"uniqueIndex:idx_files_owner_filename;not null" json:"filename"`
	Type     model.FileType `gorm:"not null" json:"type"`
	URL      string         `json:"url"`

	Text       string                     `json:"text,omitempty"`
	Pages      []model.Page               `gorm:"serializer:json" json:"pages,omitempty"`
	Paragraphs []string                   `gorm:"serializer:json" json:"paragraphs,omitempty"`
	Tables     []model.Table              `gorm:"serializer:json" json:"tables,omitempty"`
	Styles     map[string]model.StyleInfo `gorm:"serializer:json" json:"styles,omitempty"`
	Headers    []string                   `gorm:"serializer:json" json:"headers,omitempty"`
	Footers    []string                   `gorm:"serializer:json" json:"footers,omitempty"`
	Languages  []string                   `gorm:"serializer:json" json:"languages,omitempty"`

	Analysis *classify.DocumentAnalysis `gorm:"serializer:json" json:"analysis,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (FileRecord) TableName() string { return "files" }

// PersistenceError wraps store failures so the orchestrator can classify
// them; redelivery usually helps when the store was transiently unavailable.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// FileRepository stores file records in the metadata database.
type FileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) Migrate() error {
	if err := r.db.AutoMigrate(&FileRecord{}); err != nil {
		return &PersistenceError{Op: "migrate", Err: err}
	}
	return nil
}

// Upsert writes the record, keyed on (owner_id, filename). An existing row
// keeps its identity and gets its body overwritten. A fresh insert goes
// through ON CONFLICT DO UPDATE on the unique index, so two racing runs for
// the same pair cannot create duplicate identities; the first writer's id
// survives.
func (r *FileRepository) Upsert(ctx context.Context, rec *FileRecord) (*FileRecord, error) {
	existing, err := r.FindByOwnerAndName(ctx, rec.OwnerID, rec.Filename)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
		if err := r.db.WithContext(ctx).Save(rec).Error; err != nil {
			return nil, &PersistenceError{Op: "update", Err: err}
		}
		return rec, nil
	}

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "owner_id"}, {Name: "filename"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"type", "url", "text", "pages", "paragraphs", "tables",
			"styles", "headers", "footers", "languages", "analysis",
			"updated_at",
		}),
	}).Create(rec).Error
	if err != nil {
		return nil, &PersistenceError{Op: "insert", Err: err}
	}

	// Re-read so the caller sees the live identity, which after losing a
	// create race is the other writer's, not the freshly generated one.
	stored, err := r.FindByOwnerAndName(ctx, rec.OwnerID, rec.Filename)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, &PersistenceError{Op: "insert", Err: errors.New("record missing after write")}
	}
	return stored, nil
}

// FindByOwnerAndName returns the record for the pair, or nil when absent.
func (r *FileRepository) FindByOwnerAndName(ctx context.Context, ownerID, filename string) (*FileRecord, error) {
	var rec FileRecord
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND filename = ?", ownerID, filename).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, &PersistenceError{Op: "query", Err: err}
	}
	return &rec, nil
}

// FindByID returns a record by owner and id, or nil when absent.
func (r *FileRepository) FindByID(ctx context.Context, ownerID string, id string) (*FileRecord, error) {
	var rec FileRecord
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, &PersistenceError{Op: "query", Err: err}
	}
	return &rec, nil
}

// ListByOwner returns all records for an owner, optionally narrowed by type.
func (r *FileRepository) ListByOwner(ctx context.Context, ownerID string, fileType *model.FileType) ([]FileRecord, error) {
	q := r.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if fileType != nil {
		q = q.Where("type = ?", *fileType)
	}
	var recs []FileRecord
	if err := q.Order("filename").Find(&recs).Error; err != nil {
		return nil, &PersistenceError{Op: "query", Err: err}
	}
	return recs, nil
}
