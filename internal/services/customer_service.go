// Package services implements the customer, item and order use cases on top of
// the store. Errors returned here are already classified with apperror.
package services

import (
	"context"
	"errors"

	"github.com/Keoroanthony/go-inventory/internal/apperror"
	"github.com/Keoroanthony/go-inventory/internal/auth"
	"github.com/Keoroanthony/go-inventory/internal/models"
	"github.com/Keoroanthony/go-inventory/internal/store"
)

type CustomerInput struct {
	CustomerName string
	Mail         string
	Password     string
}

// CustomerPatch holds the fields of a partial update; nil means untouched.
type CustomerPatch struct {
	CustomerName *string
	Password     *string
}

type CustomerService struct {
	store  *store.Store
	hasher *auth.PasswordHasher
}

func NewCustomerService(st *store.Store, hasher *auth.PasswordHasher) *CustomerService {
	return &CustomerService{store: st, hasher: hasher}
}

func (s *CustomerService) Create(ctx context.Context, in CustomerInput) (*models.Customer, error) {
	existing, err := store.GetByField[models.Customer](ctx, s.store, "mail", in.Mail)
	if err != nil {
		return nil, apperror.Internal("Error creating customer", err)
	}
	if existing != nil {
		return nil, apperror.ErrCustomerAlreadyExists
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperror.Internal("Error creating customer", err)
	}

	customer := &models.Customer{
		CustomerName: in.CustomerName,
		Mail:         in.Mail,
		Password:     hash,
	}
	if err := store.Create(ctx, s.store, customer); err != nil {
		if errors.Is(err, store.ErrUniqueViolation) {
			return nil, apperror.ErrCustomerAlreadyExists
		}
		return nil, apperror.Internal("Error creating customer", err)
	}
	return customer, nil
}

func (s *CustomerService) Get(ctx context.Context, id string) (*models.Customer, error) {
	customer, err := store.GetByID[models.Customer](ctx, s.store, id)
	if err != nil {
		return nil, apperror.Internal("Error fetching customer", err)
	}
	if customer == nil {
		return nil, apperror.ErrCustomerNotFound
	}
	return customer, nil
}

// Authenticate looks the customer up by mail and checks the password.
func (s *CustomerService) Authenticate(ctx context.Context, mail, password string) (*models.Customer, error) {
	customer, err := store.GetByField[models.Customer](ctx, s.store, "mail", mail)
	if err != nil {
		return nil, apperror.Internal("Error fetching customer", err)
	}
	if customer == nil {
		return nil, apperror.ErrCustomerNotFound
	}
	if !s.hasher.Verify(password, customer.Password) {
		return nil, apperror.ErrInvalidPasswordOrEmail
	}
	return customer, nil
}

// Update applies the present fields of patch. An empty patch only refreshes
// updated_at.
func (s *CustomerService) Update(ctx context.Context, id string, patch CustomerPatch) (*models.Customer, error) {
	fields := map[string]any{}
	if patch.CustomerName != nil {
		fields["customer_name"] = *patch.CustomerName
	}
	if patch.Password != nil {
		hash, err := s.hasher.Hash(*patch.Password)
		if err != nil {
			return nil, apperror.Internal("Error updating customer", err)
		}
		fields["password"] = hash
	}

	var updated *models.Customer
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		customer, err := store.GetByID[models.Customer](ctx, tx, id)
		if err != nil {
			return err
		}
		if customer == nil {
			return apperror.ErrCustomerNotFound
		}
		if err := store.Update(ctx, tx, customer, fields); err != nil {
			return err
		}
		updated = customer
		return nil
	})
	if err != nil {
		return nil, classify(err, "Error updating customer")
	}
	return updated, nil
}

// Delete removes a customer that has never ordered. Customers with orders are
// kept so order history stays intact.
func (s *CustomerService) Delete(ctx context.Context, id string) error {
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		customer, err := store.GetByID[models.Customer](ctx, tx, id)
		if err != nil {
			return err
		}
		if customer == nil {
			return apperror.ErrCustomerNotFound
		}
		orders, err := store.Count[models.Order](ctx, tx, store.Where("customer_id", id))
		if err != nil {
			return err
		}
		if orders > 0 {
			return apperror.ErrCustomerHasOrders
		}
		return store.Delete(ctx, tx, customer)
	})
	return classify(err, "Error deleting customer")
}

// classify passes classified errors through and reports anything else as a
// server error with the given detail.
func classify(err error, detail string) error {
	if err == nil {
		return nil
	}
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperror.Internal(detail, err)
}
