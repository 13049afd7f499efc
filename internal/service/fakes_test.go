package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/events"
	"github.com/spec-kit/marketplace-service/internal/persistence"
	"github.com/spec-kit/marketplace-service/internal/repository"
	"github.com/spec-kit/marketplace-service/internal/storage"
)

// memDB mimics the two identity tables plus the shared email claim.
type memDB struct {
	mu      sync.Mutex
	buyers  map[string]domain.Buyer
	sellers map[string]domain.Seller
	claims  map[string]string
	failErr error
}

func newMemDB() *memDB {
	return &memDB{
		buyers:  map[string]domain.Buyer{},
		sellers: map[string]domain.Seller{},
		claims:  map[string]string{},
	}
}

func (db *memDB) claim(email, id string) error {
	if owner, ok := db.claims[email]; ok && owner != id {
		return repository.ErrEmailTaken
	}
	for e, owner := range db.claims {
		if owner == id {
			delete(db.claims, e)
		}
	}
	db.claims[email] = id
	return nil
}

func (db *memDB) release(id string) {
	for e, owner := range db.claims {
		if owner == id {
			delete(db.claims, e)
		}
	}
}

type memBuyers struct{ db *memDB }

func (r memBuyers) Create(_ context.Context, b *domain.Buyer) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.failErr != nil {
		return r.db.failErr
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if err := r.db.claim(b.Email, b.ID); err != nil {
		return err
	}
	b.Role = domain.RoleBuyer
	b.CreatedAt, b.UpdatedAt = time.Now(), time.Now()
	r.db.buyers[b.ID] = *b
	return nil
}

func (r memBuyers) GetByID(_ context.Context, id string) (*domain.Buyer, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	b, ok := r.db.buyers[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &b, nil
}

func (r memBuyers) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.failErr != nil {
		return false, r.db.failErr
	}
	for _, b := range r.db.buyers {
		if b.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r memBuyers) Update(_ context.Context, id string, upd repository.BuyerUpdate) (*domain.Buyer, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	b, ok := r.db.buyers[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if err := r.db.claim(upd.Email, id); err != nil {
		return nil, err
	}
	b.Name, b.Email = upd.Name, upd.Email
	if upd.PasswordHash != nil {
		b.PasswordHash = *upd.PasswordHash
	}
	r.db.buyers[id] = b
	return &b, nil
}

func (r memBuyers) Delete(_ context.Context, id string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	_, ok := r.db.buyers[id]
	delete(r.db.buyers, id)
	r.db.release(id)
	return ok, nil
}

type memSellers struct{ db *memDB }

func (r memSellers) Create(_ context.Context, s *domain.Seller) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.failErr != nil {
		return r.db.failErr
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if err := r.db.claim(s.Email, s.ID); err != nil {
		return err
	}
	s.Role = domain.RoleSeller
	r.db.sellers[s.ID] = *s
	return nil
}

func (r memSellers) GetByID(_ context.Context, id string) (*domain.Seller, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.sellers[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &s, nil
}

func (r memSellers) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, s := range r.db.sellers {
		if s.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r memSellers) Update(_ context.Context, id string, upd repository.SellerUpdate) (*domain.Seller, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.sellers[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if err := r.db.claim(upd.Email, id); err != nil {
		return nil, err
	}
	s.FirstName, s.LastName, s.Username, s.Email = upd.FirstName, upd.LastName, upd.Username, upd.Email
	s.PhoneNumber, s.DateOfBirth, s.Gender = upd.PhoneNumber, upd.DateOfBirth, upd.Gender
	s.Country, s.Timezone, s.Description, s.Profile = upd.Country, upd.Timezone, upd.Description, upd.Profile
	if upd.PasswordHash != nil {
		s.PasswordHash = *upd.PasswordHash
	}
	r.db.sellers[id] = s
	return &s, nil
}

func (r memSellers) Delete(_ context.Context, id string) (*repository.SellerDeletion, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.sellers[id]
	if !ok {
		return &repository.SellerDeletion{}, nil
	}
	delete(r.db.sellers, id)
	r.db.release(id)
	res := &repository.SellerDeletion{Deleted: true}
	if s.Image != nil {
		res.ImageKey = s.Image.Key
	}
	return res, nil
}

// memCredentials answers the union lookup from the same tables.
type memCredentials struct {
	db    *memDB
	extra []domain.Credential
}

func (r *memCredentials) FindByEmail(_ context.Context, email string) ([]domain.Credential, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []domain.Credential
	for _, b := range r.db.buyers {
		if b.Email == email {
			out = append(out, domain.Credential{AccountID: b.ID, DisplayName: b.Name, Email: b.Email, PasswordHash: b.PasswordHash, Role: domain.RoleBuyer})
		}
	}
	for _, s := range r.db.sellers {
		if s.Email == email {
			out = append(out, domain.Credential{AccountID: s.ID, DisplayName: s.FirstName, Email: s.Email, PasswordHash: s.PasswordHash, Role: domain.RoleSeller})
		}
	}
	for _, c := range r.extra {
		if c.Email == email {
			out = append(out, c)
		}
	}
	return out, nil
}

type memRefresh struct {
	mu      sync.Mutex
	tokens  map[string]domain.Principal
	saveErr error
}

func newMemRefresh() *memRefresh {
	return &memRefresh{tokens: map[string]domain.Principal{}}
}

func (m *memRefresh) Save(_ context.Context, token string, p domain.Principal, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.tokens[token] = p
	return nil
}

func (m *memRefresh) Consume(_ context.Context, token string) (*domain.Principal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.tokens[token]
	if !ok {
		return nil, persistence.ErrRefreshTokenNotFound
	}
	delete(m.tokens, token)
	return &p, nil
}

func (m *memRefresh) Revoke(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, token)
	return nil
}

type memImages struct {
	uploaded  []string
	deleted   []string
	uploadErr error
	deleteErr error
}

func (m *memImages) Upload(_ context.Context, img *storage.Image) (*domain.StoredImage, error) {
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	key := "sellers/" + uuid.NewString() + img.Extension
	m.uploaded = append(m.uploaded, key)
	return &domain.StoredImage{URL: "https://cdn.test/" + key, Key: key}, nil
}

func (m *memImages) Delete(_ context.Context, key string) error {
	m.deleted = append(m.deleted, key)
	return m.deleteErr
}

type recordingDispatcher struct {
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, e events.Event) error {
	d.events = append(d.events, e)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) types() []events.EventType {
	out := make([]events.EventType, 0, len(d.events))
	for _, e := range d.events {
		out = append(out, e.Type)
	}
	return out
}

var errDBDown = errors.New("db down")
