package services

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/rewearhq/rewear/app/models"
	"github.com/rewearhq/rewear/app/repositories"
	"github.com/rewearhq/rewear/pkg/cache"
	"github.com/rewearhq/rewear/pkg/event"
	"github.com/rewearhq/rewear/pkg/logger"
	"github.com/rewearhq/rewear/pkg/orm"
	"github.com/rewearhq/rewear/pkg/storage"
)

type ItemService struct {
	items      *repositories.ItemRepository
	categories *repositories.CategoryRepository
}

func NewItemService() *ItemService {
	return &ItemService{
		items:      repositories.NewItemRepository(),
		categories: repositories.NewCategoryRepository(),
	}
}

// List returns the public catalog: approved items only, filtered and
// paginated. Admins may pass IncludeUnapproved to see the moderation queue;
// for everyone else the flag is forced off.
func (s *ItemService) List(actor Actor, f repositories.ItemFilter) ([]models.Item, orm.Pagination, error) {
	if f.IncludeUnapproved && !actor.Admin() {
		f.IncludeUnapproved = false
	}
	return s.items.List(f)
}

// Mine returns the caller's own items regardless of approval state.
func (s *ItemService) Mine(actor Actor, page, limit int) ([]models.Item, orm.Pagination, error) {
	return s.items.List(repositories.ItemFilter{
		OwnerID:           actor.ID,
		IncludeUnapproved: true,
		Page:              page,
		Limit:             limit,
	})
}

// Featured returns the newest approved available items, served from cache.
func (s *ItemService) Featured() ([]models.Item, error) {
	return s.items.Featured()
}

// Get returns one item. Unapproved items are only visible to their owner and
// to admins; everyone else gets not-found.
func (s *ItemService) Get(actor Actor, id uint) (models.Item, error) {
	item, err := s.items.FindByID(id)
	if err != nil {
		if orm.IsNotFound(err) {
			return models.Item{}, ErrNotFound
		}
		return models.Item{}, err
	}
	if err := canViewItem(actor, &item); err != nil {
		return models.Item{}, err
	}
	return item, nil
}

type ItemInput struct {
	Title       string   `json:"title"       validate:"required,min=3,max=120"`
	Description string   `json:"description" validate:"required,max=2000"`
	CategoryID  *uint    `json:"category_id"`
	Size        string   `json:"size"        validate:"nullable,max=20"`
	Condition   string   `json:"condition"   validate:"required,in=New,Like New,Good,Fair"`
	PointCost   int      `json:"point_cost"  validate:"required,gte=1,lte=1000"`
	Tags        []string `json:"tags"`
}

// checkCategory rejects a reference to a category that does not exist.
func (s *ItemService) checkCategory(id *uint) error {
	if id == nil {
		return nil
	}
	if _, err := s.categories.FindByID(*id); err != nil {
		if orm.IsNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Create lists a new item. It starts unapproved and invisible to other users
// until a moderator approves it.
func (s *ItemService) Create(actor Actor, in ItemInput) (models.Item, error) {
	if err := s.checkCategory(in.CategoryID); err != nil {
		return models.Item{}, err
	}

	item := models.Item{
		OwnerID:     actor.ID,
		CategoryID:  in.CategoryID,
		Title:       in.Title,
		Description: in.Description,
		Size:        in.Size,
		Condition:   in.Condition,
		PointCost:   in.PointCost,
		Status:      models.ItemStatusAvailable,
		IsApproved:  false,
	}
	for _, t := range in.Tags {
		item.Tags = append(item.Tags, models.ItemTag{Name: strings.ToLower(strings.TrimSpace(t))})
	}

	if err := s.items.Create(&item); err != nil {
		return models.Item{}, err
	}

	event.FireAsync("item.created", item)
	logger.Info("item: listed", "item_id", item.ID, "owner_id", actor.ID)
	return item, nil
}

// Update edits an item's listing fields. Only the owner may edit, and only
// while the item is not locked by a swap or redemption. Editing resets
// approval so the change goes back through moderation.
func (s *ItemService) Update(actor Actor, id uint, in ItemInput) (models.Item, error) {
	item, err := s.Get(actor, id)
	if err != nil {
		return models.Item{}, err
	}
	if err := canUpdateItem(actor, &item); err != nil {
		return models.Item{}, err
	}
	if item.Status != models.ItemStatusAvailable {
		return models.Item{}, ErrConflict
	}
	if err := s.checkCategory(in.CategoryID); err != nil {
		return models.Item{}, err
	}

	item.Title = in.Title
	item.Description = in.Description
	item.CategoryID = in.CategoryID
	item.Size = in.Size
	item.Condition = in.Condition
	item.PointCost = in.PointCost
	item.IsApproved = false

	if err := s.items.Update(&item); err != nil {
		return models.Item{}, err
	}

	cache.Forget(repositories.FeaturedCacheKey)
	return item, nil
}

// Delete archives an item. Items locked in an active swap or redemption
// cannot be deleted until the workflow resolves.
func (s *ItemService) Delete(actor Actor, id uint) error {
	item, err := s.Get(actor, id)
	if err != nil {
		return err
	}
	if err := canDeleteItem(actor, &item); err != nil {
		return err
	}
	if item.Status == models.ItemStatusPendingSwap || item.Status == models.ItemStatusPendingRedemption {
		return ErrConflict
	}

	if err := s.items.Delete(item.ID); err != nil {
		return err
	}
	cache.Forget(repositories.FeaturedCacheKey)
	return nil
}

// Approve marks an item visible in the public catalog (admin only).
func (s *ItemService) Approve(actor Actor, id uint) (models.Item, error) {
	if !actor.Admin() {
		return models.Item{}, ErrForbidden
	}
	item, err := s.items.FindByID(id)
	if err != nil {
		if orm.IsNotFound(err) {
			return models.Item{}, ErrNotFound
		}
		return models.Item{}, err
	}
	if item.IsApproved {
		return item, nil
	}

	item.IsApproved = true
	if err := s.items.Update(&item); err != nil {
		return models.Item{}, err
	}

	cache.Forget(repositories.FeaturedCacheKey)
	event.FireAsync("item.approved", item)
	logger.Info("item: approved", "item_id", item.ID, "admin_id", actor.ID)
	return item, nil
}

// UploadImage stores an image on the configured disk and attaches it to the
// item. Only the owner may add images.
func (s *ItemService) UploadImage(actor Actor, id uint, filename string, r io.Reader) (models.ItemImage, error) {
	item, err := s.Get(actor, id)
	if err != nil {
		return models.ItemImage{}, err
	}
	if err := canUpdateItem(actor, &item); err != nil {
		return models.ItemImage{}, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return models.ItemImage{}, fmt.Errorf("%w: %s", ErrUnsupportedMedia, ext)
	}

	path := fmt.Sprintf("items/%d/%d%s", item.ID, time.Now().UnixNano(), ext)
	if err := storage.PutStream(path, r); err != nil {
		return models.ItemImage{}, err
	}

	order, err := s.items.NextImageSortOrder(item.ID)
	if err != nil {
		return models.ItemImage{}, err
	}

	img := models.ItemImage{
		ItemID:    item.ID,
		URL:       storage.URL(path),
		SortOrder: order,
	}
	if err := s.items.AddImage(&img); err != nil {
		return models.ItemImage{}, err
	}
	return img, nil
}
