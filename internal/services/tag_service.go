package services

import (
	"database/sql"

	"github.com/mealstash/recipe-api-be/internal/models"
	"github.com/mealstash/recipe-api-be/internal/query"
)

// TagServiceProvider defines the interface for tag services. Every
// operation is scoped to the owning account passed by the caller.
type TagServiceProvider interface {
	ListTags(ownerID int64, opts query.ListOptions) ([]models.Tag, error)
	GetTagByID(ownerID, id int64) (models.Tag, error)
	CreateTag(ownerID int64, name string) (models.Tag, error)
	UpdateTag(ownerID, id int64, name string) (models.Tag, error)
	DeleteTag(ownerID, id int64) error
}

// TagService provides business logic for tag management.
type TagService struct {
	store ownedNameStore
}

// NewTagService creates a new TagService.
func NewTagService(db *sql.DB) *TagService {
	return &TagService{store: ownedNameStore{
		db:         db,
		table:      "tags",
		linkTable:  "recipe_tags",
		linkColumn: "tag_id",
	}}
}

// ListTags returns the owner's tags ordered by name descending. With
// opts.AssignedOnly only tags attached to at least one of the owner's
// recipes are returned, each at most once.
func (s *TagService) ListTags(ownerID int64, opts query.ListOptions) ([]models.Tag, error) {
	rows, err := s.store.list(ownerID, opts)
	if err != nil {
		return nil, err
	}
	tags := make([]models.Tag, 0, len(rows))
	for _, row := range rows {
		tags = append(tags, models.Tag(row))
	}
	return tags, nil
}

// GetTagByID retrieves one of the owner's tags.
func (s *TagService) GetTagByID(ownerID, id int64) (models.Tag, error) {
	row, err := s.store.get(ownerID, id)
	if err != nil {
		return models.Tag{}, err
	}
	return models.Tag(row), nil
}

// CreateTag creates a tag owned by the caller.
func (s *TagService) CreateTag(ownerID int64, name string) (models.Tag, error) {
	row, err := s.store.create(ownerID, name)
	if err != nil {
		return models.Tag{}, err
	}
	return models.Tag(row), nil
}

// UpdateTag renames one of the owner's tags.
func (s *TagService) UpdateTag(ownerID, id int64, name string) (models.Tag, error) {
	row, err := s.store.update(ownerID, id, name)
	if err != nil {
		return models.Tag{}, err
	}
	return models.Tag(row), nil
}

// DeleteTag removes one of the owner's tags and its associations.
func (s *TagService) DeleteTag(ownerID, id int64) error {
	return s.store.delete(ownerID, id)
}
