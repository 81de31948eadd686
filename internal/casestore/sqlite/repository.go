package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/viral-studio/internal/casestore"
	"github.com/viral-studio/internal/models"
)

// caseRecord is the table mapping for a case. RowID preserves insertion
// order, which every sort's tie-break is defined against.
type caseRecord struct {
	RowID            uint               `gorm:"primaryKey;autoIncrement"`
	CaseID           string             `gorm:"uniqueIndex;not null"`
	Title            string             `gorm:"not null"`
	Author           string             ``
	InteractionScore float64            `gorm:"index"`
	Content          string             `gorm:"type:text"`
	Region           models.StringSlice `gorm:"type:json"`
	Theme            models.StringSlice `gorm:"type:json"`
	PublishTime      models.StringSlice `gorm:"type:json"`
	CanonicalPublish string             `gorm:"index"`
	Platform         string             `gorm:"index;not null"`
	Link             string             ``
	AddedTime        string             `gorm:"index"`
}

func (caseRecord) TableName() string { return "cases" }

func toRecord(c *models.Case) *caseRecord {
	return &caseRecord{
		CaseID:           c.ID,
		Title:            c.Title,
		Author:           c.Author,
		InteractionScore: c.InteractionScore,
		Content:          c.Content,
		Region:           c.Region,
		Theme:            c.Theme,
		PublishTime:      c.PublishTime,
		CanonicalPublish: c.CanonicalPublishTime(),
		Platform:         string(c.Platform),
		Link:             c.Link,
		AddedTime:        c.AddedTime,
	}
}

func (r *caseRecord) toCase() *models.Case {
	return &models.Case{
		ID:               r.CaseID,
		Title:            r.Title,
		Author:           r.Author,
		InteractionScore: r.InteractionScore,
		Content:          r.Content,
		Region:           r.Region,
		Theme:            r.Theme,
		PublishTime:      r.PublishTime,
		Platform:         models.Platform(r.Platform),
		Link:             r.Link,
		AddedTime:        r.AddedTime,
	}
}

// Repository implements casestore.Repository on SQLite via gorm
type Repository struct {
	db *gorm.DB
}

// New opens (and migrates) a SQLite case store at dsn
func New(dsn string) (*Repository, error) {
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", casestore.ErrStoreUnavailable, dsn, err)
	}

	if err := db.AutoMigrate(&caseRecord{}); err != nil {
		return nil, fmt.Errorf("%w: migrating: %v", casestore.ErrStoreUnavailable, err)
	}

	return &Repository{db: db}, nil
}

// Load returns the whole collection in insertion order, bootstrapping the
// seed collection into an empty store on first run.
func (r *Repository) Load(ctx context.Context) ([]*models.Case, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&caseRecord{}).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", casestore.ErrStoreUnavailable, err)
	}
	if count == 0 {
		seed := casestore.Seed()
		if err := r.Save(ctx, seed); err != nil {
			return nil, err
		}
		return seed, nil
	}

	var records []*caseRecord
	if err := r.db.WithContext(ctx).Order("row_id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", casestore.ErrStoreUnavailable, err)
	}

	cases := make([]*models.Case, len(records))
	for i, rec := range records {
		cases[i] = rec.toCase()
	}
	return cases, nil
}

// Save overwrites the whole collection inside one transaction, so a failed
// write never commits a partial collection.
func (r *Repository) Save(ctx context.Context, cases []*models.Case) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&caseRecord{}).Error; err != nil {
			return err
		}
		for _, c := range cases {
			if err := tx.Create(toRecord(c)).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", casestore.ErrStoreWrite, err)
	}
	return nil
}

// Append adds one case, assigning the next VC-numbered id when the case
// carries none. The case_id unique index backs the duplicate check, but
// the collision is detected up front so callers get the sentinel instead
// of a driver constraint error.
func (r *Repository) Append(ctx context.Context, c *models.Case) (string, error) {
	cases, err := r.Load(ctx)
	if err != nil {
		return "", err
	}

	if c.ID == "" {
		c.ID = casestore.NextCaseID(cases)
	} else {
		for _, existing := range cases {
			if existing.ID == c.ID {
				return "", fmt.Errorf("%w: %s", casestore.ErrDuplicateID, c.ID)
			}
		}
	}

	if err := r.db.WithContext(ctx).Create(toRecord(c)).Error; err != nil {
		return "", fmt.Errorf("%w: %v", casestore.ErrStoreWrite, err)
	}
	return c.ID, nil
}

// escapeLike quotes LIKE metacharacters so the keyword matches as a
// literal substring, the same semantics casestore.Apply implements
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// Query returns the filtered, ordered collection. Ordering is pushed down
// to SQL with row_id as the tie-break, which matches the stable in-memory
// semantics of casestore.Apply.
func (r *Repository) Query(ctx context.Context, q casestore.Query) ([]*models.Case, error) {
	// Empty platform selection suppresses all rows
	if len(q.Platforms) == 0 {
		return []*models.Case{}, nil
	}

	// First-run bootstrap happens in Load
	if _, err := r.Load(ctx); err != nil {
		return nil, err
	}

	platforms := make([]string, len(q.Platforms))
	for i, p := range q.Platforms {
		platforms[i] = string(p)
	}

	query := r.db.WithContext(ctx).Model(&caseRecord{}).Where("platform IN ?", platforms)

	if keyword := strings.ToLower(strings.TrimSpace(q.Keyword)); keyword != "" {
		pattern := "%" + escapeLike(keyword) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(content) LIKE ? ESCAPE '\\' OR LOWER(author) LIKE ? ESCAPE '\\'",
			pattern, pattern, pattern,
		)
	}

	switch q.SortKey {
	case casestore.SortImpactDesc:
		query = query.Order("interaction_score DESC, row_id ASC")
	case casestore.SortPublishDesc:
		query = query.Order("canonical_publish DESC, row_id ASC")
	case casestore.SortAddedDesc:
		query = query.Order("added_time DESC, row_id ASC")
	default:
		query = query.Order("row_id ASC")
	}

	var records []*caseRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", casestore.ErrStoreUnavailable, err)
	}

	cases := make([]*models.Case, len(records))
	for i, rec := range records {
		cases[i] = rec.toCase()
	}
	return cases, nil
}

// FindByID returns the case with the given id
func (r *Repository) FindByID(ctx context.Context, id string) (*models.Case, error) {
	var rec caseRecord
	err := r.db.WithContext(ctx).Where("case_id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", casestore.ErrCaseNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", casestore.ErrStoreUnavailable, err)
	}
	return rec.toCase(), nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
