package organizers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeAccountRepo struct {
	byID    map[uuid.UUID]*Account
	byEmail map[string]*Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{
		byID:    make(map[uuid.UUID]*Account),
		byEmail: make(map[string]*Account),
	}
}

func (f *fakeAccountRepo) Create(ctx context.Context, account *Account) error {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	f.byID[account.ID] = account
	f.byEmail[account.Email] = account
	return nil
}

func (f *fakeAccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return a, nil
}

func (f *fakeAccountRepo) GetByEmail(ctx context.Context, email string) (*Account, error) {
	a, ok := f.byEmail[email]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return a, nil
}

func (f *fakeAccountRepo) Update(ctx context.Context, account *Account) error {
	f.byID[account.ID] = account
	f.byEmail[account.Email] = account
	return nil
}

func (f *fakeAccountRepo) SetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	a, ok := f.byID[id]
	if !ok {
		return ErrAccountNotFound
	}
	a.PasswordHash = passwordHash
	a.TempPassword = false
	return nil
}

func (f *fakeAccountRepo) List(ctx context.Context, role Role) ([]Account, error) {
	var out []Account
	for _, a := range f.byID {
		if a.Role == role {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAccountRepo) Delete(ctx context.Context, id uuid.UUID) error {
	a, ok := f.byID[id]
	if !ok {
		return ErrAccountNotFound
	}
	delete(f.byEmail, a.Email)
	delete(f.byID, id)
	return nil
}

type capturingMailer struct {
	email        string
	tempPassword string
	calls        int
}

func (m *capturingMailer) SendAccountCredentials(ctx context.Context, email, name, tempPassword string) error {
	m.calls++
	m.email = email
	m.tempPassword = tempPassword
	return nil
}

func TestCreateOrganizer(t *testing.T) {
	repo := newFakeAccountRepo()
	mailer := &capturingMailer{}
	svc := NewService(repo, mailer)
	ctx := context.Background()

	resp, err := svc.CreateOrganizer(ctx, &CreateOrganizerRequest{
		FirstName: "Olu",
		LastName:  "Farrell",
		Email:     "organizer@nexusems.io",
	})
	require.NoError(t, err)
	assert.Equal(t, RoleOrganizer, resp.Role)
	assert.True(t, resp.TempPassword)

	// The mailed temporary password must verify against the stored hash.
	require.Equal(t, 1, mailer.calls)
	assert.Equal(t, "organizer@nexusems.io", mailer.email)
	account, err := repo.GetByEmail(ctx, "organizer@nexusems.io")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword(
		[]byte(account.PasswordHash), []byte(mailer.tempPassword)))

	// Duplicate email is rejected.
	_, err = svc.CreateOrganizer(ctx, &CreateOrganizerRequest{
		FirstName: "Other",
		LastName:  "Person",
		Email:     "organizer@nexusems.io",
	})
	assert.Error(t, err)
}

func TestChangePasswordClearsTempFlag(t *testing.T) {
	repo := newFakeAccountRepo()
	mailer := &capturingMailer{}
	svc := NewService(repo, mailer)
	ctx := context.Background()

	_, err := svc.CreateOrganizer(ctx, &CreateOrganizerRequest{
		FirstName: "Olu",
		LastName:  "Farrell",
		Email:     "organizer@nexusems.io",
	})
	require.NoError(t, err)
	account, err := repo.GetByEmail(ctx, "organizer@nexusems.io")
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, account.ID, "wrong-password", "new-password-1")
	assert.Error(t, err)

	require.NoError(t, svc.ChangePassword(ctx, account.ID, mailer.tempPassword, "new-password-1"))
	assert.False(t, account.TempPassword)

	verified, err := svc.VerifyCredentials(ctx, "organizer@nexusems.io", "new-password-1")
	require.NoError(t, err)
	assert.Equal(t, account.ID, verified.ID)

	_, err = svc.VerifyCredentials(ctx, "organizer@nexusems.io", mailer.tempPassword)
	assert.Error(t, err)
}

func TestDeleteOrganizerRefusesAdmin(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := NewService(repo, &capturingMailer{})
	ctx := context.Background()

	admin := &Account{Email: "admin@nexusems.io", Role: RoleAdmin, PasswordHash: "x"}
	require.NoError(t, repo.Create(ctx, admin))

	err := svc.DeleteOrganizer(ctx, admin.ID)
	assert.Error(t, err)
	_, err = repo.GetByID(ctx, admin.ID)
	assert.NoError(t, err)
}
