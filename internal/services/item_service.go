package services

import (
	"context"
	"errors"

	"github.com/Keoroanthony/go-inventory/internal/apperror"
	"github.com/Keoroanthony/go-inventory/internal/models"
	"github.com/Keoroanthony/go-inventory/internal/store"
)

type ItemInput struct {
	ItemName string
	Price    float64
	Quantity int
}

type ItemPatch struct {
	ItemName *string
	Price    *float64
	Quantity *int
}

type ItemService struct {
	store *store.Store
}

func NewItemService(st *store.Store) *ItemService {
	return &ItemService{store: st}
}

func (s *ItemService) Create(ctx context.Context, in ItemInput) (*models.Item, error) {
	existing, err := store.GetByField[models.Item](ctx, s.store, "item_name", in.ItemName)
	if err != nil {
		return nil, apperror.Internal("Error creating item", err)
	}
	if existing != nil {
		return nil, apperror.ErrItemAlreadyExists
	}

	item := &models.Item{ItemName: in.ItemName, Price: in.Price, Quantity: in.Quantity}
	if err := store.Create(ctx, s.store, item); err != nil {
		if errors.Is(err, store.ErrUniqueViolation) {
			return nil, apperror.ErrItemAlreadyExists
		}
		return nil, apperror.Internal("Error creating item", err)
	}
	return item, nil
}

func (s *ItemService) List(ctx context.Context) ([]models.Item, error) {
	items, err := store.ListAll[models.Item](ctx, s.store)
	if err != nil {
		return nil, apperror.Internal("Error listing items", err)
	}
	return items, nil
}

// Update holds the item row lock while writing, so stock edits serialise with
// order placement on the same item.
func (s *ItemService) Update(ctx context.Context, id string, patch ItemPatch) (*models.Item, error) {
	var updated *models.Item
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		item, err := store.LockByID[models.Item](ctx, tx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return apperror.ErrItemNotFound
		}

		fields := map[string]any{}
		if patch.ItemName != nil && *patch.ItemName != item.ItemName {
			other, err := store.GetByField[models.Item](ctx, tx, "item_name", *patch.ItemName)
			if err != nil {
				return err
			}
			if other != nil {
				return apperror.ErrItemAlreadyExists
			}
			fields["item_name"] = *patch.ItemName
		}
		if patch.Price != nil {
			fields["price"] = *patch.Price
		}
		if patch.Quantity != nil {
			fields["quantity"] = *patch.Quantity
		}

		if err := store.Update(ctx, tx, item, fields); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if errors.Is(err, store.ErrUniqueViolation) {
		return nil, apperror.ErrItemAlreadyExists
	}
	if err != nil {
		return nil, classify(err, "Error updating item")
	}
	return updated, nil
}

// Delete removes an item that no order refers to.
func (s *ItemService) Delete(ctx context.Context, id string) error {
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		item, err := store.LockByID[models.Item](ctx, tx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return apperror.ErrItemNotFound
		}
		orders, err := store.Count[models.Order](ctx, tx, store.Where("item_id", id))
		if err != nil {
			return err
		}
		if orders > 0 {
			return apperror.ErrItemHasOrders
		}
		return store.Delete(ctx, tx, item)
	})
	return classify(err, "Error deleting item")
}
