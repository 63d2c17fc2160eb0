package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atvirokodosprendimai/eventcatalog/internal/adapters/store/gormdb"
	"github.com/atvirokodosprendimai/eventcatalog/internal/core/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type cityModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	Slug        string    `gorm:"column:slug;not null;uniqueIndex"`
	Description string    `gorm:"column:description;not null"`
	ImageURL    string    `gorm:"column:image_url;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;not null"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null"`
}

func (cityModel) TableName() string {
	return "cities"
}

type CityRepository struct {
	db *gormdb.DB
}

func NewCityRepository(db *gormdb.DB) *CityRepository {
	return &CityRepository{db: db}
}

func (r *CityRepository) List(ctx context.Context, filter domain.CityFilter) ([]domain.City, int64, error) {
	var (
		models []cityModel
		total  int64
	)
	err := r.db.ReadTX(ctx, func(tx *gormdb.Tx) error {
		if err := tx.Model(&cityModel{}).Scopes(nameSearch(filter.Search)).Count(&total).Error; err != nil {
			return err
		}
		return tx.Model(&cityModel{}).
			Scopes(nameSearch(filter.Search)).
			Order("name ASC").Order("slug ASC").
			Limit(filter.Limit).Offset(filter.Offset).
			Find(&models).Error
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list cities: %w", classify(err))
	}

	cities := make([]domain.City, 0, len(models))
	for _, m := range models {
		cities = append(cities, cityToDomain(m))
	}
	return cities, total, nil
}

func (r *CityRepository) GetBySlug(ctx context.Context, slug string) (domain.City, error) {
	var model cityModel
	err := r.db.ReadTX(ctx, func(tx *gormdb.Tx) error {
		return tx.Where("slug = ?", slug).First(&model).Error
	})
	if err != nil {
		return domain.City{}, fmt.Errorf("get city %q: %w", slug, classify(err))
	}
	return cityToDomain(model), nil
}

func (r *CityRepository) Create(ctx context.Context, city domain.City) (domain.City, error) {
	now := time.Now().UTC()
	model := cityModel{
		ID:          uuid.NewString(),
		Name:        city.Name,
		Slug:        city.Slug,
		Description: city.Description,
		ImageURL:    city.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := r.db.WriteTX(ctx, func(tx *gormdb.Tx) error {
		return tx.Create(&model).Error
	})
	if err != nil {
		return domain.City{}, fmt.Errorf("create city: %w", classify(err))
	}
	return cityToDomain(model), nil
}

func (r *CityRepository) Update(ctx context.Context, slug string, patch domain.CityPatch) (domain.City, error) {
	var model cityModel
	err := r.db.WriteTX(ctx, func(tx *gormdb.Tx) error {
		if err := tx.Where("slug = ?", slug).First(&model).Error; err != nil {
			return err
		}

		updates := map[string]any{"updated_at": time.Now().UTC()}
		setIf(updates, "name", patch.Name)
		setIf(updates, "slug", patch.Slug)
		setIf(updates, "description", patch.Description)
		setIf(updates, "image_url", patch.ImageURL)

		if err := tx.Model(&cityModel{}).Where("id = ?", model.ID).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", model.ID).First(&model).Error
	})
	if err != nil {
		return domain.City{}, fmt.Errorf("update city %q: %w", slug, classify(err))
	}
	return cityToDomain(model), nil
}

func (r *CityRepository) Delete(ctx context.Context, slug string) error {
	err := r.db.WriteTX(ctx, func(tx *gormdb.Tx) error {
		res := tx.Where("slug = ?", slug).Delete(&cityModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete city %q: %w", slug, classify(err))
	}
	return nil
}

func cityToDomain(m cityModel) domain.City {
	return domain.City{
		ID:          m.ID,
		Name:        m.Name,
		Slug:        m.Slug,
		Description: m.Description,
		ImageURL:    m.ImageURL,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

// nameSearch matches a case-insensitive substring of the name column.
func nameSearch(term string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" {
			return db
		}
		return db.Where("LOWER(name) LIKE ? ESCAPE '\\'", "%"+escapeLike(strings.ToLower(term))+"%")
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func setIf[T any](updates map[string]any, column string, v *T) {
	if v != nil {
		updates[column] = *v
	}
}
