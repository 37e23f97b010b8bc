package service

import (
	"context"
	"strconv"
	"sync"

	"github.com/Daskott/rolodex/server/models"
	"gorm.io/gorm"
)

// usersInmem implements UserRepository. It enforces email uniqueness the way
// the real store does so races can be simulated through beforeCreate.
type usersInmem struct {
	mu           sync.Mutex
	seq          int
	users        map[string]models.User
	failWith     error
	beforeCreate func()
}

func newUsersInmem() *usersInmem {
	return &usersInmem{users: make(map[string]models.User)}
}

func (s *usersInmem) Create(_ context.Context, name, email string) (*models.User, error) {
	if s.beforeCreate != nil {
		s.beforeCreate()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	for _, u := range s.users {
		if u.Email == email {
			return nil, gorm.ErrDuplicatedKey
		}
	}
	s.seq++
	user := models.User{Name: name, Email: email}
	user.ID = "user-" + strconv.Itoa(s.seq)
	s.users[user.ID] = user
	return &user, nil
}

func (s *usersInmem) FindByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	user, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (s *usersInmem) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	for _, u := range s.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, nil
}

func (s *usersInmem) FindAll(_ context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := []models.User{}
	for _, u := range s.users {
		users = append(users, u)
	}
	return users, nil
}

func (s *usersInmem) Update(_ context.Context, id string, fields models.UserFields) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	if fields.Name != nil {
		user.Name = *fields.Name
	}
	if fields.Email != nil {
		user.Email = *fields.Email
	}
	s.users[id] = user
	return &user, nil
}

func (s *usersInmem) Remove(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	delete(s.users, id)
	return &user, nil
}

// contactsInmem implements ContactRepository. Like the real store it rejects
// duplicate emails and owners missing from users. beforeCreate and beforeUpdate
// run ahead of the write so races can be simulated.
type contactsInmem struct {
	mu           sync.Mutex
	seq          int
	contacts     map[string]models.Contact
	users        *usersInmem
	creates      int
	beforeCreate func()
	beforeUpdate func()
}

func newContactsInmem(users *usersInmem) *contactsInmem {
	return &contactsInmem{contacts: make(map[string]models.Contact), users: users}
}

func (s *contactsInmem) Create(ctx context.Context, name, email, phone, userID string) (*models.Contact, error) {
	if s.beforeCreate != nil {
		s.beforeCreate()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	for _, c := range s.contacts {
		if c.Email == email {
			return nil, gorm.ErrDuplicatedKey
		}
	}
	if owner, _ := s.users.FindByID(ctx, userID); owner == nil {
		return nil, gorm.ErrForeignKeyViolated
	}
	s.seq++
	contact := models.Contact{Name: name, Email: email, Phone: phone, UserID: userID}
	contact.ID = "contact-" + strconv.Itoa(s.seq)
	s.contacts[contact.ID] = contact
	return &contact, nil
}

func (s *contactsInmem) FindByID(_ context.Context, id string) (*models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	contact, ok := s.contacts[id]
	if !ok {
		return nil, nil
	}
	return &contact, nil
}

func (s *contactsInmem) FindByEmail(_ context.Context, email string) (*models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.contacts {
		if c.Email == email {
			contact := c
			return &contact, nil
		}
	}
	return nil, nil
}

func (s *contactsInmem) FindAllByOwner(_ context.Context, userID string) ([]models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	contacts := []models.Contact{}
	for _, c := range s.contacts {
		if c.UserID == userID {
			contacts = append(contacts, c)
		}
	}
	return contacts, nil
}

func (s *contactsInmem) Update(_ context.Context, id string, fields models.ContactFields) (*models.Contact, error) {
	if s.beforeUpdate != nil {
		s.beforeUpdate()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	contact, ok := s.contacts[id]
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	if fields.Email != nil {
		for _, c := range s.contacts {
			if c.ID != id && c.Email == *fields.Email {
				return nil, gorm.ErrDuplicatedKey
			}
		}
	}
	if fields.Name != nil {
		contact.Name = *fields.Name
	}
	if fields.Email != nil {
		contact.Email = *fields.Email
	}
	if fields.Phone != nil {
		contact.Phone = *fields.Phone
	}
	s.contacts[id] = contact
	return &contact, nil
}

func (s *contactsInmem) Remove(_ context.Context, id string) (*models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	contact, ok := s.contacts[id]
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	delete(s.contacts, id)
	return &contact, nil
}
