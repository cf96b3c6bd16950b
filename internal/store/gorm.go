package store

import (
	"context"
	"errors"
	"time"

	"github.com/mavi-suporte/helpdesk-service/internal/errs"
	"github.com/mavi-suporte/helpdesk-service/internal/model"
	"gorm.io/gorm"
)

// GormStore persists tickets and users through GORM (Postgres in production,
// SQLite for local runs).
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(ctx context.Context, t *model.Ticket) error {
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.ErrDuplicateCode
		}
		return err
	}
	return nil
}

func (s *GormStore) GetByCode(ctx context.Context, code string) (*model.Ticket, error) {
	var t model.Ticket
	err := s.db.WithContext(ctx).
		Preload("Notes", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		Where("code = ?", code).
		First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTicketNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *GormStore) List(ctx context.Context, f Filter) ([]model.Ticket, error) {
	tx := s.db.WithContext(ctx).Model(&model.Ticket{}).
		Preload("Notes", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") })
	if f.Status != "" {
		tx = tx.Where("status = ?", f.Status)
	}
	if f.Priority != "" {
		tx = tx.Where("priority = ?", f.Priority)
	}
	order := "created_at DESC, id DESC"
	if f.Ascending {
		order = "created_at ASC, id ASC"
	}
	var items []model.Ticket
	if err := tx.Order(order).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *GormStore) UpdateStatus(ctx context.Context, code string, status model.TicketStatus, note string) (*model.Ticket, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t model.Ticket
		if err := tx.Where("code = ?", code).First(&t).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.ErrTicketNotFound
			}
			return err
		}
		now := time.Now().UTC()
		if err := tx.Model(&t).Updates(map[string]interface{}{
			"status":     status,
			"updated_at": now,
		}).Error; err != nil {
			return err
		}
		if note != "" {
			obs := model.TicketNote{
				TicketID:  t.ID,
				Text:      note,
				Status:    status,
				CreatedAt: now,
			}
			if err := tx.Create(&obs).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetByCode(ctx, code)
}

func (s *GormStore) CreateUser(ctx context.Context, u *model.User) error {
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.ErrDuplicateUser
		}
		return err
	}
	return nil
}

func (s *GormStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *GormStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *GormStore) UpsertProduct(ctx context.Context, name, description string, quantity int) (*model.Product, error) {
	var out model.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p model.Product
		err := tx.Where("name = ?", name).First(&p).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			p = model.Product{Name: name, Description: description, Quantity: quantity}
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			p.Quantity += quantity
			if description != "" {
				p.Description = description
			}
			if err := tx.Save(&p).Error; err != nil {
				return err
			}
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *GormStore) DecrementProduct(ctx context.Context, name string, quantity int) (*model.Product, error) {
	var out model.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p model.Product
		if err := tx.Where("name = ?", name).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.ErrProductNotFound
			}
			return err
		}
		if p.Quantity < quantity {
			return errs.ErrInsufficientStock
		}
		p.Quantity -= quantity
		if err := tx.Save(&p).Error; err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *GormStore) ListProducts(ctx context.Context) ([]model.Product, error) {
	var items []model.Product
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *GormStore) AppendAuditLog(ctx context.Context, entry *model.AuditLog) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

func (s *GormStore) ListAuditLogs(ctx context.Context) ([]model.AuditLog, error) {
	var items []model.AuditLog
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
