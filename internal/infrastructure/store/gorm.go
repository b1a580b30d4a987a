package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
	"github.com/Victor-armando18/pricing-scheme/pkg/config"
	pkgerrors "github.com/Victor-armando18/pricing-scheme/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormStore persists orders through GORM. Save replaces the header and all
// lines in one transaction.
type GormStore struct {
	db *gorm.DB
}

func Open(cfg config.StoreConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.StoreDriverPostgres:
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.DSN,
			PreferSimpleProtocol: true,
		})
	case config.StoreDriverSQLite:
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("driver %q is not a SQL driver", cfg.Driver)
	}

	gormLogger := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	conn, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("opening db connection: %w", err)
	}
	return conn, nil
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&OrderModel{}, &OrderLineModel{})
}

func (s *GormStore) Get(ctx context.Context, id string) (*domain.Order, error) {
	var m OrderModel
	err := s.db.WithContext(ctx).
		Preload("Lines", func(tx *gorm.DB) *gorm.DB { return tx.Order("idx ASC") }).
		First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "order %s not found", id)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return m.toDomain(), nil
}

func (s *GormStore) Save(ctx context.Context, order *domain.Order) error {
	if order == nil || order.ID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	m := toModel(order)
	lines := m.Lines
	m.Lines = nil

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&m).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", m.ID).Delete(&OrderLineModel{}).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}
		return tx.Create(&lines).Error
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save order")
	}
	return nil
}
