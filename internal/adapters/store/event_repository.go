package store

import (
	"context"
	"fmt"
	"time"

	"github.com/atvirokodosprendimai/eventcatalog/internal/adapters/store/gormdb"
	"github.com/atvirokodosprendimai/eventcatalog/internal/core/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type eventModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	Slug        string    `gorm:"column:slug;not null;uniqueIndex"`
	Description string    `gorm:"column:description;not null"`
	StartsAt    time.Time `gorm:"column:starts_at;not null"`
	Price       int       `gorm:"column:price;not null"`
	Currency    string    `gorm:"column:currency;not null"`
	Category    string    `gorm:"column:category;not null"`
	ImageURL    string    `gorm:"column:image_url;not null"`
	URL         string    `gorm:"column:url;not null"`
	CitySlug    string    `gorm:"column:city_slug;not null;index"`
	CreatedAt   time.Time `gorm:"column:created_at;not null"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null"`
}

func (eventModel) TableName() string {
	return "events"
}

type EventRepository struct {
	db *gormdb.DB
}

func NewEventRepository(db *gormdb.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) List(ctx context.Context, filter domain.EventFilter) ([]domain.Event, int64, error) {
	var (
		models []eventModel
		total  int64
	)
	err := r.db.ReadTX(ctx, func(tx *gormdb.Tx) error {
		if err := tx.Model(&eventModel{}).Scopes(eventFilter(filter)).Count(&total).Error; err != nil {
			return err
		}
		return tx.Model(&eventModel{}).
			Scopes(eventFilter(filter)).
			Order("starts_at ASC").Order("id ASC").
			Limit(filter.Limit).Offset(filter.Offset).
			Find(&models).Error
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", classify(err))
	}

	events := make([]domain.Event, 0, len(models))
	for _, m := range models {
		events = append(events, eventToDomain(m))
	}
	return events, total, nil
}

func (r *EventRepository) Get(ctx context.Context, id string) (domain.Event, error) {
	var model eventModel
	err := r.db.ReadTX(ctx, func(tx *gormdb.Tx) error {
		return tx.Where("id = ?", id).First(&model).Error
	})
	if err != nil {
		return domain.Event{}, fmt.Errorf("get event %q: %w", id, classify(err))
	}
	return eventToDomain(model), nil
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	now := time.Now().UTC()
	model := eventModel{
		ID:          uuid.NewString(),
		Name:        event.Name,
		Slug:        event.Slug,
		Description: event.Description,
		StartsAt:    event.Date.UTC(),
		Price:       event.Price,
		Currency:    event.Currency,
		Category:    event.Category,
		ImageURL:    event.ImageURL,
		URL:         event.URL,
		CitySlug:    event.CitySlug,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := r.db.WriteTX(ctx, func(tx *gormdb.Tx) error {
		return tx.Create(&model).Error
	})
	if err != nil {
		return domain.Event{}, fmt.Errorf("create event: %w", classify(err))
	}
	return eventToDomain(model), nil
}

func (r *EventRepository) Update(ctx context.Context, id string, patch domain.EventPatch) (domain.Event, error) {
	var model eventModel
	err := r.db.WriteTX(ctx, func(tx *gormdb.Tx) error {
		if err := tx.Where("id = ?", id).First(&model).Error; err != nil {
			return err
		}

		updates := map[string]any{"updated_at": time.Now().UTC()}
		setIf(updates, "name", patch.Name)
		setIf(updates, "slug", patch.Slug)
		setIf(updates, "description", patch.Description)
		if patch.Date != nil {
			updates["starts_at"] = patch.Date.UTC()
		}
		setIf(updates, "price", patch.Price)
		setIf(updates, "currency", patch.Currency)
		setIf(updates, "category", patch.Category)
		setIf(updates, "image_url", patch.ImageURL)
		setIf(updates, "url", patch.URL)
		setIf(updates, "city_slug", patch.CitySlug)

		if err := tx.Model(&eventModel{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&model).Error
	})
	if err != nil {
		return domain.Event{}, fmt.Errorf("update event %q: %w", id, classify(err))
	}
	return eventToDomain(model), nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WriteTX(ctx, func(tx *gormdb.Tx) error {
		res := tx.Where("id = ?", id).Delete(&eventModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete event %q: %w", id, classify(err))
	}
	return nil
}

func (r *EventRepository) CountByCity(ctx context.Context, citySlug string) (int64, error) {
	var n int64
	err := r.db.ReadTX(ctx, func(tx *gormdb.Tx) error {
		return tx.Model(&eventModel{}).Where("city_slug = ?", citySlug).Count(&n).Error
	})
	if err != nil {
		return 0, fmt.Errorf("count events for %q: %w", citySlug, classify(err))
	}
	return n, nil
}

func eventFilter(f domain.EventFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.CitySlug != "" {
			db = db.Where("city_slug = ?", f.CitySlug)
		}
		if f.Category != "" {
			db = db.Where("category = ?", f.Category)
		}
		if f.From != nil {
			db = db.Where("starts_at >= ?", f.From.UTC())
		}
		return nameSearch(f.Search)(db)
	}
}

func eventToDomain(m eventModel) domain.Event {
	return domain.Event{
		ID:          m.ID,
		Name:        m.Name,
		Slug:        m.Slug,
		Description: m.Description,
		Date:        m.StartsAt.UTC(),
		Price:       m.Price,
		Currency:    m.Currency,
		Category:    m.Category,
		ImageURL:    m.ImageURL,
		URL:         m.URL,
		CitySlug:    m.CitySlug,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}
