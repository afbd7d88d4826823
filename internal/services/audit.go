package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/diewo77/go-gestion/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	auditDefaultPageSize = 50
	auditMaxPageSize     = 200
)

type AuditService struct {
	DB  *gorm.DB
	now func() time.Time
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{DB: db, now: time.Now}
}

func toJSON(v any) datatypes.JSON {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

// Record appends an audit entry. oldData/newData are marshalled as JSON; nil is stored as NULL.
func (s *AuditService) Record(ctx context.Context, tx *gorm.DB, table, op, pk string, userID *uint, oldData, newData any) error {
	if tx == nil {
		tx = s.DB
	}
	entry := models.AuditLog{
		Table:     table,
		Operation: op,
		PK:        pk,
		UserID:    userID,
		OldData:   toJSON(oldData),
		NewData:   toJSON(newData),
		ChangedAt: s.now(),
	}
	if err := tx.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("record audit %s/%s: %w", table, op, err)
	}
	return nil
}

type AuditFilter struct {
	Table    string
	Op       string
	PK       string
	Search   string
	Page     int
	PageSize int
}

type AuditPage struct {
	Items    []models.AuditLog `json:"items"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
}

// List returns entries newest first.
func (s *AuditService) List(ctx context.Context, f AuditFilter) (AuditPage, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	switch {
	case f.PageSize <= 0:
		f.PageSize = auditDefaultPageSize
	case f.PageSize > auditMaxPageSize:
		f.PageSize = auditMaxPageSize
	}
	q := s.filtered(ctx, f)
	page := AuditPage{Page: f.Page, PageSize: f.PageSize, Items: []models.AuditLog{}}
	if err := q.Count(&page.Total).Error; err != nil {
		return page, fmt.Errorf("count audit logs: %w", err)
	}
	err := s.filtered(ctx, f).Order("changed_at DESC, id DESC").Limit(f.PageSize).Offset((f.Page - 1) * f.PageSize).Find(&page.Items).Error
	if err != nil {
		return page, fmt.Errorf("list audit logs: %w", err)
	}
	return page, nil
}

func (s *AuditService) filtered(ctx context.Context, f AuditFilter) *gorm.DB {
	q := s.DB.WithContext(ctx).Model(&models.AuditLog{})
	if f.Table != "" {
		q = q.Where("table_name = ?", f.Table)
	}
	if f.Op != "" {
		q = q.Where("operation = ?", strings.ToUpper(f.Op))
	}
	if f.PK != "" {
		q = q.Where("pk = ?", f.PK)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		like := "%" + term + "%"
		q = q.Where("pk LIKE ? OR table_name LIKE ? OR CAST(old_data AS TEXT) LIKE ? OR CAST(new_data AS TEXT) LIKE ?", like, like, like, like)
	}
	return q
}

// Tables lists the distinct audited tables.
func (s *AuditService) Tables(ctx context.Context) ([]string, error) {
	var tables []string
	err := s.DB.WithContext(ctx).Model(&models.AuditLog{}).Distinct("table_name").Order("table_name").Pluck("table_name", &tables).Error
	if err != nil {
		return nil, fmt.Errorf("list audit tables: %w", err)
	}
	if tables == nil {
		tables = []string{}
	}
	return tables, nil
}
