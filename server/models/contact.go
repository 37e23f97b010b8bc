package models

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Contact struct {
	BaseModel
	Name   string `json:"name" gorm:"not null"`
	Email  string `json:"email" gorm:"not null;uniqueIndex"`
	Phone  string `json:"phone" gorm:"not null"`
	UserID string `json:"user_id" gorm:"type:varchar(36);not null;index"`
}

// ContactFields holds the contact columns an update may replace.
// The owning user is not among them.
type ContactFields struct {
	Name  *string
	Email *string
	Phone *string
}

func (fields ContactFields) columns() map[string]interface{} {
	return updatesFrom(map[string]*string{
		"name":  fields.Name,
		"email": fields.Email,
		"phone": fields.Phone,
	})
}

// ContactStore performs single-entity CRUD on the contacts table.
type ContactStore struct {
	db   *gorm.DB
	logg *zap.SugaredLogger
}

func NewContactStore(db *gorm.DB, logg *zap.SugaredLogger) *ContactStore {
	return &ContactStore{db: db, logg: logg.With("store", "ContactStore")}
}

func (store *ContactStore) Create(ctx context.Context, name, email, phone, userID string) (*Contact, error) {
	contact := Contact{Name: name, Email: email, Phone: phone, UserID: userID}
	if err := store.db.WithContext(ctx).Create(&contact).Error; err != nil {
		return nil, err
	}

	store.logg.Debugw("contact created", "id", contact.ID, "user_id", userID)
	return &contact, nil
}

// FindByID returns nil, nil when no contact has the given id.
func (store *ContactStore) FindByID(ctx context.Context, id string) (*Contact, error) {
	return store.findBy(ctx, "id", id)
}

// FindByEmail returns nil, nil when no contact has the given email.
func (store *ContactStore) FindByEmail(ctx context.Context, email string) (*Contact, error) {
	return store.findBy(ctx, "email", email)
}

// FindAllByOwner returns the contacts whose user_id matches, whether or not that user still exists.
func (store *ContactStore) FindAllByOwner(ctx context.Context, userID string) ([]Contact, error) {
	contacts := []Contact{}
	if err := store.db.WithContext(ctx).Find(&contacts, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}

	return contacts, nil
}

// Update replaces the non-nil fields of the contact with the given id and
// returns the updated record. It fails with ErrRecordNotFound if the id is absent.
func (store *ContactStore) Update(ctx context.Context, id string, fields ContactFields) (*Contact, error) {
	contact := Contact{}

	err := store.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&contact, "id = ?", id).Error; err != nil {
			return err
		}

		data := fields.columns()
		if len(data) == 0 {
			return nil
		}

		if err := tx.Model(&contact).Updates(data).Error; err != nil {
			return err
		}

		return tx.First(&contact, "id = ?", id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}

	store.logg.Debugw("contact updated", "id", id)
	return &contact, nil
}

// Remove deletes the contact with the given id and returns the removed record.
// It fails with ErrRecordNotFound if the id is absent.
func (store *ContactStore) Remove(ctx context.Context, id string) (*Contact, error) {
	contact := Contact{}

	err := store.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&contact, "id = ?", id).Error; err != nil {
			return err
		}

		return tx.Delete(&Contact{}, "id = ?", id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}

	store.logg.Debugw("contact removed", "id", id)
	return &contact, nil
}

func (store *ContactStore) findBy(ctx context.Context, field string, value interface{}) (*Contact, error) {
	contact := Contact{}
	err := store.db.WithContext(ctx).First(&contact, field+" = ?", value).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &contact, nil
}
