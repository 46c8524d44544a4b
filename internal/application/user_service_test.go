package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stray2stay/api/internal/domain/entity"
	"github.com/stray2stay/api/pkg/helpers"
)

func newUserFixture(t *testing.T) (*UserService, *fakeUserRepo, *fakeAnimalRepo) {
	t.Helper()
	users := newFakeUserRepo()
	animals := newFakeAnimalRepo(users)
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)
	svc := NewUserService(users, animals, jwt, nil, nil)
	return svc, users, animals
}

func TestRegister(t *testing.T) {
	svc, _, _ := newUserFixture(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{
		Email: "new@example.com", Password: "Sup3rSecret!", Name: "New User",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.NotEqual(t, "Sup3rSecret!", u.Password, "password must be stored hashed")
	assert.True(t, u.NotificationPreferences.AdoptionInterest)

	_, err = svc.Register(ctx, RegisterInput{
		Email: "new@example.com", Password: "other", Name: "Duplicate",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthenticate(t *testing.T) {
	svc, _, _ := newUserFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{
		Email: "auth@example.com", Password: "Sup3rSecret!", Name: "Auth",
	})
	require.NoError(t, err)

	u, err := svc.Authenticate(ctx, "auth@example.com", "Sup3rSecret!")
	require.NoError(t, err)
	assert.Equal(t, "auth@example.com", u.Email)

	_, err = svc.Authenticate(ctx, "auth@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@example.com", "Sup3rSecret!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestIssueAndRefreshTokens(t *testing.T) {
	svc, _, _ := newUserFixture(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{
		Email: "tok@example.com", Password: "Sup3rSecret!", Name: "Tok",
	})
	require.NoError(t, err)

	pair, err := svc.IssueTokens(ctx, u)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.True(t, pair.RefreshTokenExpiry.After(pair.AccessTokenExpiry))

	next, uid, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, uid)
	assert.NotEmpty(t, next.AccessToken)

	_, _, err = svc.Refresh(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfilePatchesOnlyGivenFields(t *testing.T) {
	svc, _, _ := newUserFixture(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{
		Email: "p@example.com", Password: "Sup3rSecret!", Name: "Original", Phone: "+15550100",
	})
	require.NoError(t, err)

	name := "Renamed"
	prefs := entity.NotificationPreferences{AdoptionInterest: false, AdoptionConfirmed: true, RescueUpdates: true}
	got, err := svc.UpdateProfile(ctx, u.ID, UpdateProfileInput{
		Name:                    &name,
		NotificationPreferences: &prefs,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, "+15550100", got.Phone)
	assert.False(t, got.NotificationPreferences.AdoptionInterest)

	_, err = svc.UpdateProfile(ctx, "missing", UpdateProfileInput{Name: &name})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDashboard(t *testing.T) {
	svc, users, animalRepo := newUserFixture(t)
	ctx := context.Background()

	poster := seedUser(t, users, "dash@example.com", "Dash")
	adopter := seedUser(t, users, "adopter@example.com", "Adopter")

	animalSvc := NewAnimalService(animalRepo, users, &fakeNotifier{}, nil, "", nil, "", nil)
	a, err := animalSvc.Create(ctx, poster.ID, validCreateInput())
	require.NoError(t, err)
	require.NoError(t, animalSvc.MarkAdopted(ctx, a.ID, poster.ID, adopter.ID))

	d, err := svc.GetDashboard(ctx, poster.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Stats.AnimalsRescued)
	assert.Len(t, d.RecentRescues, 1)

	da, err := svc.GetDashboard(ctx, adopter.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, da.Stats.AnimalsAdopted)
	require.Len(t, da.RecentAdoptees, 1)
	assert.Equal(t, a.ID, da.RecentAdoptees[0].ID)
}

func TestRescuesAndAdoptionsPaging(t *testing.T) {
	svc, users, animalRepo := newUserFixture(t)
	ctx := context.Background()

	poster := seedUser(t, users, "pager@example.com", "Pager")
	animalSvc := NewAnimalService(animalRepo, users, &fakeNotifier{}, nil, "", nil, "", nil)
	for i := 0; i < 3; i++ {
		_, err := animalSvc.Create(ctx, poster.ID, validCreateInput())
		require.NoError(t, err)
	}

	got, p, err := svc.Rescues(ctx, poster.ID, 1, 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 3, p.Total)
	assert.Equal(t, 2, p.Pages)

	got, _, err = svc.Rescues(ctx, poster.ID, 2, 2)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	adopted, p, err := svc.Adoptions(ctx, poster.ID, 1, 12)
	require.NoError(t, err)
	assert.Empty(t, adopted)
	assert.Equal(t, 0, p.Total)
}
