package user

import (
	"errors"
	"testing"

	"evcharge/models"
)

type fakeUserStore struct {
	users   map[string]*models.User
	updated *models.User
	deleted []string

	deleteErr error
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	f := &fakeUserStore{users: make(map[string]*models.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserStore) GetByID(id string) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeUserStore) GetByEmail(email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) Create(u *models.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserStore) Update(u *models.User) error {
	cp := *u
	f.updated = &cp
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserStore) Delete(id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	delete(f.users, id)
	return nil
}

func (f *fakeUserStore) SetPushToken(id, token string, device models.DeviceInfo) error {
	return nil
}
func (f *fakeUserStore) GetPushTokens() ([]string, error)           { return nil, nil }
func (f *fakeUserStore) SetPasswordHash(id, hash string) error      { return nil }
func (f *fakeUserStore) AppendBookingID(id, bookingID string) error { return nil }

func TestUpdateProfile(t *testing.T) {
	store := newFakeUserStore(&models.User{ID: "u-1", Name: "Old Name", Email: "driver@example.com"})
	svc := &DefaultUserService{Users: store}

	u, err := svc.UpdateProfile("u-1", models.UpdateProfileRequest{Name: "  New Name  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Name != "New Name" {
		t.Errorf("name = %q, want trimmed New Name", u.Name)
	}
	if u.Email != "driver@example.com" {
		t.Errorf("email must be untouched, got %q", u.Email)
	}
	if store.updated == nil || store.updated.Name != "New Name" {
		t.Errorf("update not persisted: %+v", store.updated)
	}

	if _, err := svc.UpdateProfile("missing", models.UpdateProfileRequest{Name: "X"}); err == nil {
		t.Errorf("unknown user: expected error")
	}
}

func TestDeleteAccount(t *testing.T) {
	store := newFakeUserStore(&models.User{ID: "u-1", Email: "driver@example.com"})
	svc := &DefaultUserService{Users: store}

	if err := svc.DeleteAccount("u-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != "u-1" {
		t.Errorf("deleted = %v, want [u-1]", store.deleted)
	}

	store.deleteErr = errors.New("mongo down")
	if err := svc.DeleteAccount("u-2"); err == nil {
		t.Errorf("expected repository error to surface")
	}
}

func TestGetUserNotFound(t *testing.T) {
	svc := &DefaultUserService{Users: newFakeUserStore()}
	if _, err := svc.GetUser("ghost"); err == nil {
		t.Errorf("unknown user: expected error")
	}
}
