package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionAdoption(t *testing.T) {
	allowed := map[[2]string]bool{
		{AdoptionPending, AdoptionApproved}:   true,
		{AdoptionPending, AdoptionCancelled}:  true,
		{AdoptionApproved, AdoptionCompleted}: true,
		{AdoptionApproved, AdoptionCancelled}: true,
	}

	statuses := []string{AdoptionPending, AdoptionApproved, AdoptionCompleted, AdoptionCancelled}
	for _, from := range statuses {
		for _, to := range statuses {
			want := allowed[[2]string{from, to}]
			assert.Equal(t, want, CanTransitionAdoption(from, to), "%s -> %s", from, to)
		}
	}
}

func TestAdoptionActive(t *testing.T) {
	assert.True(t, (&Adoption{Status: AdoptionPending}).Active())
	assert.True(t, (&Adoption{Status: AdoptionApproved}).Active())
	assert.False(t, (&Adoption{Status: AdoptionCompleted}).Active())
	assert.False(t, (&Adoption{Status: AdoptionCancelled}).Active())
}

func TestValidAnimalEnums(t *testing.T) {
	assert.True(t, ValidAnimalType(TypeDog))
	assert.True(t, ValidAnimalType(TypeCat))
	assert.False(t, ValidAnimalType("ferret"))
	assert.False(t, ValidAnimalType(""))

	assert.True(t, ValidAnimalStatus(StatusAvailable))
	assert.True(t, ValidAnimalStatus(StatusUnderConsideration))
	assert.True(t, ValidAnimalStatus(StatusAdopted))
	assert.False(t, ValidAnimalStatus("pending"))
}

func TestAnimalAdopted(t *testing.T) {
	assert.False(t, (&Animal{Status: StatusAvailable}).Adopted())
	assert.False(t, (&Animal{Status: StatusUnderConsideration}).Adopted())
	assert.True(t, (&Animal{Status: StatusAdopted}).Adopted())
}
