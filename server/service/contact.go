package service

import (
	"context"

	"github.com/Daskott/rolodex/server/models"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const errOwnerNotFound = "owning user not found"

// ContactRepository is the storage access the contact service depends on.
type ContactRepository interface {
	Create(ctx context.Context, name, email, phone, userID string) (*models.Contact, error)
	FindByID(ctx context.Context, id string) (*models.Contact, error)
	FindByEmail(ctx context.Context, email string) (*models.Contact, error)
	FindAllByOwner(ctx context.Context, userID string) ([]models.Contact, error)
	Update(ctx context.Context, id string, fields models.ContactFields) (*models.Contact, error)
	Remove(ctx context.Context, id string) (*models.Contact, error)
}

// UserFinder is the user lookup a contact needs at creation time.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// ContactService enforces email uniqueness across contacts and checks that
// the owning user exists when a contact is created. The owner is not
// re-checked afterwards.
type ContactService struct {
	contacts ContactRepository
	users    UserFinder
	logg     *zap.SugaredLogger
}

func NewContactService(contacts ContactRepository, users UserFinder, logg *zap.SugaredLogger) *ContactService {
	return &ContactService{contacts: contacts, users: users, logg: logg.With("service", "ContactService")}
}

// Create checks the email before the owner, so a request failing both
// reports ErrConflict.
func (cs *ContactService) Create(ctx context.Context, name, email, phone, userID string) (*models.Contact, error) {
	existing, err := cs.contacts.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		cs.logg.Infow("rejected contact create", "user_id", userID, "reason", errEmailExists)
		return nil, conflict(errEmailExists)
	}

	owner, err := cs.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if owner == nil {
		cs.logg.Infow("rejected contact create", "user_id", userID, "reason", errOwnerNotFound)
		return nil, notFound(errOwnerNotFound)
	}

	contact, err := cs.contacts.Create(ctx, name, email, phone, userID)
	switch {
	case models.IsUniqueViolation(err):
		cs.logg.Warnw("store rejected contact create", "user_id", userID, "reason", errEmailExists)
		return nil, conflict(errEmailExists)
	case models.IsForeignKeyViolation(err):
		cs.logg.Warnw("store rejected contact create", "user_id", userID, "reason", errOwnerNotFound)
		return nil, notFound(errOwnerNotFound)
	case err != nil:
		return nil, err
	}

	return contact, nil
}

// GetByID returns nil, nil if no contact has the given id.
func (cs *ContactService) GetByID(ctx context.Context, id string) (*models.Contact, error) {
	return cs.contacts.FindByID(ctx, id)
}

// GetByEmail returns nil, nil if no contact has the given email.
func (cs *ContactService) GetByEmail(ctx context.Context, email string) (*models.Contact, error) {
	return cs.contacts.FindByEmail(ctx, email)
}

// ListByUser filters on the owner reference only; it does not check the user exists.
func (cs *ContactService) ListByUser(ctx context.Context, userID string) ([]models.Contact, error) {
	return cs.contacts.FindAllByOwner(ctx, userID)
}

// Update replaces exactly the non-nil fields. The owning user never changes.
func (cs *ContactService) Update(ctx context.Context, id string, fields models.ContactFields) (*models.Contact, error) {
	contact, err := cs.contacts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if contact == nil {
		return nil, notFound("contact not found")
	}

	if fields.Email != nil && *fields.Email != contact.Email {
		owner, err := cs.contacts.FindByEmail(ctx, *fields.Email)
		if err != nil {
			return nil, err
		}

		if owner != nil && owner.ID != id {
			cs.logg.Infow("rejected contact update", "id", id, "reason", errEmailExists)
			return nil, conflict(errEmailExists)
		}
	}

	updated, err := cs.contacts.Update(ctx, id, fields)
	switch {
	case errors.Is(err, models.ErrRecordNotFound):
		return nil, notFound("contact not found")
	case models.IsUniqueViolation(err):
		cs.logg.Warnw("store rejected contact update", "id", id, "reason", errEmailExists)
		return nil, conflict(errEmailExists)
	case err != nil:
		return nil, err
	}

	return updated, nil
}

// Delete removes the contact and returns the removed record.
func (cs *ContactService) Delete(ctx context.Context, id string) (*models.Contact, error) {
	contact, err := cs.contacts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if contact == nil {
		return nil, notFound("contact not found")
	}

	removed, err := cs.contacts.Remove(ctx, id)
	if errors.Is(err, models.ErrRecordNotFound) {
		return nil, notFound("contact not found")
	}
	if err != nil {
		return nil, err
	}

	return removed, nil
}
