package store

import (
	"errors"
	"fmt"
	"time"

	"partnerdesk-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when a referenced row does not exist.
// Use with errors.Is().
var ErrNotFound = errors.New("record not found")

// Store wraps the database handle and exposes every statement the
// application issues. Handlers receive it explicitly; there is no package
// global. All statements are parameter-bound through GORM.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for wiring (migrations, middleware).
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn against a transaction-scoped store. Used by the
// importer to keep each table's rows atomic.
func (s *Store) Transaction(fn func(tx *Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// ListPartners returns every partner, ordered by id for stable output.
func (s *Store) ListPartners() ([]models.Partner, error) {
	var partners []models.Partner
	if err := s.db.Order("id asc").Find(&partners).Error; err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	return partners, nil
}

// SaleTotals returns the summed sale quantity per partner. Partners with no
// sales have no entry; callers treat a missing key as zero.
func (s *Store) SaleTotals() (map[uint]int64, error) {
	type row struct {
		PartnerID     uint
		TotalQuantity int64
	}
	var rows []row
	err := s.db.Model(&models.Sale{}).
		Select("partner_id, SUM(quantity) AS total_quantity").
		Group("partner_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("sum sales per partner: %w", err)
	}

	totals := make(map[uint]int64, len(rows))
	for _, r := range rows {
		totals[r.PartnerID] = r.TotalQuantity
	}
	return totals, nil
}

func (s *Store) GetPartner(id uint) (*models.Partner, error) {
	var p models.Partner
	if err := s.db.First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("partner %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get partner %d: %w", id, err)
	}
	return &p, nil
}

func (s *Store) CreatePartner(p *models.Partner) error {
	if err := s.db.Create(p).Error; err != nil {
		return fmt.Errorf("create partner: %w", err)
	}
	return nil
}

// UpdatePartner overwrites the editable fields of the row with p.ID.
// RegistrationDate is deliberately excluded: it is assigned once at
// creation. Concurrent edits of the same partner are not coordinated;
// the last write wins.
func (s *Store) UpdatePartner(p *models.Partner) error {
	err := s.db.Model(&models.Partner{}).
		Where("id = ?", p.ID).
		Select("name", "type", "rating", "director_name", "phone", "email", "address").
		Updates(p).Error
	if err != nil {
		return fmt.Errorf("update partner %d: %w", p.ID, err)
	}
	return nil
}

// PartnerSale is one row of a partner's sales history, joined with the
// product name for display.
type PartnerSale struct {
	SaleID      uint      `json:"sale_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	SaleDate    time.Time `json:"sale_date"`
}

// PartnerSales returns the partner's sales joined with product names,
// ordered by sale date (then id) for deterministic listings.
func (s *Store) PartnerSales(partnerID uint) ([]PartnerSale, error) {
	var sales []PartnerSale
	err := s.db.Model(&models.Sale{}).
		Select("sales.id AS sale_id, products.name AS product_name, sales.quantity, sales.sale_date").
		Joins("JOIN products ON products.id = sales.product_id").
		Where("sales.partner_id = ?", partnerID).
		Order("sales.sale_date asc, sales.id asc").
		Scan(&sales).Error
	if err != nil {
		return nil, fmt.Errorf("sales for partner %d: %w", partnerID, err)
	}
	return sales, nil
}

// UpsertPartner inserts the partner or, when the id already exists,
// replaces the row entirely (replace semantics, not merge).
func (s *Store) UpsertPartner(p *models.Partner) error {
	err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(p).Error
	if err != nil {
		return fmt.Errorf("upsert partner %d: %w", p.ID, err)
	}
	return nil
}

func (s *Store) UpsertProduct(p *models.Product) error {
	err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(p).Error
	if err != nil {
		return fmt.Errorf("upsert product %d: %w", p.ID, err)
	}
	return nil
}

func (s *Store) UpsertSale(sale *models.Sale) error {
	err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(sale).Error
	if err != nil {
		return fmt.Errorf("upsert sale %d: %w", sale.ID, err)
	}
	return nil
}
