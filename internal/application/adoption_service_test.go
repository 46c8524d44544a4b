package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stray2stay/api/internal/domain/entity"
	mailtpl "github.com/stray2stay/api/pkg/mailer/templates"
)

type adoptionFixture struct {
	animals   *AnimalService
	adoptions *AdoptionService
	users     *fakeUserRepo
	notifier  *fakeNotifier

	poster  *entity.User
	adopter *entity.User
	animal  *entity.Animal
}

func newAdoptionFixture(t *testing.T) *adoptionFixture {
	t.Helper()
	users := newFakeUserRepo()
	animalRepo := newFakeAnimalRepo(users)
	adoptionRepo := newFakeAdoptionRepo()
	animalRepo.adoptions = adoptionRepo
	notifier := &fakeNotifier{}

	animals := NewAnimalService(animalRepo, users, notifier, nil, "", nil, "", nil)
	adoptions := NewAdoptionService(adoptionRepo, animalRepo, users, notifier, nil)

	poster := seedUser(t, users, "poster@example.com", "Poster")
	adopter := seedUser(t, users, "adopter@example.com", "Adopter")
	animal, err := animals.Create(context.Background(), poster.ID, validCreateInput())
	require.NoError(t, err)

	return &adoptionFixture{
		animals: animals, adoptions: adoptions, users: users, notifier: notifier,
		poster: poster, adopter: adopter, animal: animal,
	}
}

func TestRequestAdoption(t *testing.T) {
	f := newAdoptionFixture(t)
	ctx := context.Background()

	t.Run("unknown animal", func(t *testing.T) {
		_, err := f.adoptions.RequestAdoption(ctx, f.adopter.ID, "missing", "", "555-0101")
		assert.ErrorIs(t, err, ErrAnimalNotFound)
	})

	t.Run("own listing rejected", func(t *testing.T) {
		_, err := f.adoptions.RequestAdoption(ctx, f.poster.ID, f.animal.ID, "", "555-0100")
		assert.ErrorIs(t, err, ErrSelfAdoption)
	})

	t.Run("request starts pending and notifies poster", func(t *testing.T) {
		a, err := f.adoptions.RequestAdoption(ctx, f.adopter.ID, f.animal.ID, "he seems sweet", "555-0101")
		require.NoError(t, err)
		assert.Equal(t, entity.AdoptionPending, a.Status)
		assert.Equal(t, f.poster.ID, a.PosterID)

		job, ok := f.notifier.lastTo(mailtpl.AdoptionRequest)
		require.True(t, ok)
		assert.Equal(t, f.poster.Email, job.To)
		assert.Equal(t, "Adopter", job.Data["AdopterName"])
	})

	t.Run("duplicate active request rejected", func(t *testing.T) {
		_, err := f.adoptions.RequestAdoption(ctx, f.adopter.ID, f.animal.ID, "again", "555-0101")
		assert.ErrorIs(t, err, ErrDuplicateRequest)
	})

	t.Run("cancelled request frees the slot", func(t *testing.T) {
		list, err := f.adoptions.ListForUser(ctx, f.adopter.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)

		_, err = f.adoptions.UpdateStatus(ctx, list[0].ID, f.poster.ID, entity.AdoptionCancelled, "")
		require.NoError(t, err)

		_, err = f.adoptions.RequestAdoption(ctx, f.adopter.ID, f.animal.ID, "", "555-0101")
		assert.NoError(t, err)
	})
}

func TestRequestAdoptionOnAdoptedAnimal(t *testing.T) {
	f := newAdoptionFixture(t)
	ctx := context.Background()

	require.NoError(t, f.animals.MarkAdopted(ctx, f.animal.ID, f.poster.ID, f.adopter.ID))

	late := seedUser(t, f.users, "late@example.com", "Late")
	_, err := f.adoptions.RequestAdoption(ctx, late.ID, f.animal.ID, "", "555-0102")
	assert.ErrorIs(t, err, ErrAlreadyAdopted)
}

func TestUpdateStatusTransitions(t *testing.T) {
	f := newAdoptionFixture(t)
	ctx := context.Background()

	req, err := f.adoptions.RequestAdoption(ctx, f.adopter.ID, f.animal.ID, "", "555-0101")
	require.NoError(t, err)

	t.Run("only poster may transition", func(t *testing.T) {
		_, err := f.adoptions.UpdateStatus(ctx, req.ID, f.adopter.ID, entity.AdoptionApproved, "")
		assert.ErrorIs(t, err, ErrNotRequestPoster)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		_, err := f.adoptions.UpdateStatus(ctx, req.ID, f.poster.ID, "shipped", "")
		assert.ErrorIs(t, err, ErrUnknownStatus)
	})

	t.Run("pending cannot jump to completed", func(t *testing.T) {
		_, err := f.adoptions.UpdateStatus(ctx, req.ID, f.poster.ID, entity.AdoptionCompleted, "")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("approve notifies adopter", func(t *testing.T) {
		a, err := f.adoptions.UpdateStatus(ctx, req.ID, f.poster.ID, entity.AdoptionApproved, "meet on Saturday")
		require.NoError(t, err)
		assert.Equal(t, entity.AdoptionApproved, a.Status)
		assert.Equal(t, "meet on Saturday", a.Notes)

		job, ok := f.notifier.lastTo(mailtpl.AdoptionStatus)
		require.True(t, ok)
		assert.Equal(t, f.adopter.Email, job.To)
		assert.Equal(t, entity.AdoptionApproved, job.Data["Status"])
	})

	t.Run("complete commits the animal", func(t *testing.T) {
		a, err := f.adoptions.UpdateStatus(ctx, req.ID, f.poster.ID, entity.AdoptionCompleted, "")
		require.NoError(t, err)
		assert.Equal(t, entity.AdoptionCompleted, a.Status)
		require.NotNil(t, a.AdoptionDate)

		animal, err := f.animals.Get(ctx, f.animal.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.StatusAdopted, animal.Status)
		assert.Equal(t, f.adopter.ID, animal.AdopterID)

		u, err := f.users.GetByID(ctx, f.adopter.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, u.Stats.AnimalsAdopted)
	})

	t.Run("completed is terminal", func(t *testing.T) {
		_, err := f.adoptions.UpdateStatus(ctx, req.ID, f.poster.ID, entity.AdoptionCancelled, "")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestCompleteAfterDirectMarkAdopted(t *testing.T) {
	f := newAdoptionFixture(t)
	ctx := context.Background()

	req, err := f.adoptions.RequestAdoption(ctx, f.adopter.ID, f.animal.ID, "", "555-0101")
	require.NoError(t, err)
	_, err = f.adoptions.UpdateStatus(ctx, req.ID, f.poster.ID, entity.AdoptionApproved, "")
	require.NoError(t, err)

	// Poster confirms through the direct path first.
	require.NoError(t, f.animals.MarkAdopted(ctx, f.animal.ID, f.poster.ID, f.adopter.ID))

	// Completing the request afterwards still succeeds, and the adopter's
	// counter moved exactly once.
	a, err := f.adoptions.UpdateStatus(ctx, req.ID, f.poster.ID, entity.AdoptionCompleted, "")
	require.NoError(t, err)
	assert.Equal(t, entity.AdoptionCompleted, a.Status)

	u, err := f.users.GetByID(ctx, f.adopter.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, u.Stats.AnimalsAdopted)
}

func TestUpdateStatusNotFound(t *testing.T) {
	f := newAdoptionFixture(t)
	_, err := f.adoptions.UpdateStatus(context.Background(), "missing", f.poster.ID, entity.AdoptionApproved, "")
	assert.ErrorIs(t, err, ErrAdoptionNotFound)
}

func TestListForUserCoversBothRoles(t *testing.T) {
	f := newAdoptionFixture(t)
	ctx := context.Background()

	_, err := f.adoptions.RequestAdoption(ctx, f.adopter.ID, f.animal.ID, "", "555-0101")
	require.NoError(t, err)

	asAdopter, err := f.adoptions.ListForUser(ctx, f.adopter.ID)
	require.NoError(t, err)
	asPoster, err := f.adoptions.ListForUser(ctx, f.poster.ID)
	require.NoError(t, err)
	assert.Len(t, asAdopter, 1)
	assert.Len(t, asPoster, 1)

	stranger, err := f.adoptions.ListForUser(ctx, "someone-else")
	require.NoError(t, err)
	assert.Empty(t, stranger)
}

func TestDeleteListingWithRequests(t *testing.T) {
	f := newAdoptionFixture(t)
	ctx := context.Background()

	// A request row, even a settled one, must not block deleting the
	// listing; the rows go with it.
	req, err := f.adoptions.RequestAdoption(ctx, f.adopter.ID, f.animal.ID, "", "555-0101")
	require.NoError(t, err)
	_, err = f.adoptions.UpdateStatus(ctx, req.ID, f.poster.ID, entity.AdoptionCancelled, "")
	require.NoError(t, err)
	_, err = f.adoptions.RequestAdoption(ctx, f.adopter.ID, f.animal.ID, "second try", "555-0101")
	require.NoError(t, err)

	require.NoError(t, f.animals.Delete(ctx, f.animal.ID, f.poster.ID))

	_, err = f.animals.Get(ctx, f.animal.ID)
	assert.ErrorIs(t, err, ErrAnimalNotFound)

	remaining, err := f.adoptions.ListForUser(ctx, f.adopter.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}
