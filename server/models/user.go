package models

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type User struct {
	BaseModel
	Name     string    `json:"name" gorm:"not null"`
	Email    string    `json:"email" gorm:"not null;uniqueIndex"`
	Contacts []Contact `json:"contacts,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// UserFields holds the user columns an update may replace. Nil fields are left untouched.
type UserFields struct {
	Name  *string
	Email *string
}

func (fields UserFields) columns() map[string]interface{} {
	return updatesFrom(map[string]*string{
		"name":  fields.Name,
		"email": fields.Email,
	})
}

// UserStore performs single-entity CRUD on the users table.
type UserStore struct {
	db   *gorm.DB
	logg *zap.SugaredLogger
}

func NewUserStore(db *gorm.DB, logg *zap.SugaredLogger) *UserStore {
	return &UserStore{db: db, logg: logg.With("store", "UserStore")}
}

func (store *UserStore) Create(ctx context.Context, name, email string) (*User, error) {
	user := User{Name: name, Email: email}
	if err := store.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}

	store.logg.Debugw("user created", "id", user.ID)
	return &user, nil
}

// FindByID returns nil, nil when no user has the given id.
func (store *UserStore) FindByID(ctx context.Context, id string) (*User, error) {
	return store.findBy(ctx, "id", id)
}

// FindByEmail returns nil, nil when no user has the given email.
func (store *UserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	return store.findBy(ctx, "email", email)
}

func (store *UserStore) FindAll(ctx context.Context) ([]User, error) {
	users := []User{}
	if err := store.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

// Update replaces the non-nil fields of the user with the given id and
// returns the updated record. It fails with ErrRecordNotFound if the id is absent.
func (store *UserStore) Update(ctx context.Context, id string, fields UserFields) (*User, error) {
	user := User{}

	err := store.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, "id = ?", id).Error; err != nil {
			return err
		}

		data := fields.columns()
		if len(data) == 0 {
			return nil
		}

		if err := tx.Model(&user).Updates(data).Error; err != nil {
			return err
		}

		return tx.First(&user, "id = ?", id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}

	store.logg.Debugw("user updated", "id", id)
	return &user, nil
}

// Remove deletes the user with the given id and returns the removed record.
// It fails with ErrRecordNotFound if the id is absent.
func (store *UserStore) Remove(ctx context.Context, id string) (*User, error) {
	user := User{}

	err := store.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, "id = ?", id).Error; err != nil {
			return err
		}

		return tx.Delete(&User{}, "id = ?", id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}

	store.logg.Debugw("user removed", "id", id)
	return &user, nil
}

func (store *UserStore) findBy(ctx context.Context, field string, value interface{}) (*User, error) {
	user := User{}
	err := store.db.WithContext(ctx).First(&user, field+" = ?", value).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}
