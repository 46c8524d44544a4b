package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnimalLabel(t *testing.T) {
	assert.Equal(t, "Biscuit", AnimalLabel("Biscuit", "dog"))
	assert.Equal(t, "the dog", AnimalLabel("", "dog"))
	assert.Equal(t, "the cat", AnimalLabel("   ", "cat"))
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := Render("password_reset", nil)
	assert.Error(t, err)
}

func TestRenderAllTemplates(t *testing.T) {
	data := map[string]any{
		"Name":        "Poster",
		"AnimalName":  "Biscuit",
		"AnimalType":  "dog",
		"AdopterName": "Adopter",
		"Contact":     "555-0101",
		"Message":     "I'd love to meet him",
		"Status":      "approved",
		"Notes":       "meet on Saturday",
	}
	for _, name := range []string{ListingCreated, AdoptionInterest, AdoptionRequest, AdoptionStatus, AdoptionConfirmed} {
		t.Run(name, func(t *testing.T) {
			subject, text, html, err := Render(name, data)
			require.NoError(t, err)
			assert.NotEmpty(t, subject)
			assert.NotEmpty(t, text)
			assert.Contains(t, html, "Stray2Stay")
		})
	}
}

func TestRenderInterestUsesAnimalLabelFallback(t *testing.T) {
	_, text, _, err := Render(AdoptionInterest, map[string]any{
		"Name":        "Poster",
		"AnimalName":  "",
		"AnimalType":  "cat",
		"AdopterName": "Adopter",
		"Contact":     "555-0101",
		"Message":     "",
	})
	require.NoError(t, err)
	assert.Contains(t, text, "the cat")
}

func TestRenderStatusBranches(t *testing.T) {
	base := map[string]any{
		"Name":       "Adopter",
		"AnimalName": "Biscuit",
		"AnimalType": "dog",
	}

	base["Status"] = "completed"
	_, text, _, err := Render(AdoptionStatus, base)
	require.NoError(t, err)
	assert.Contains(t, text, "Congratulations")

	base["Status"] = "approved"
	_, text, _, err = Render(AdoptionStatus, base)
	require.NoError(t, err)
	assert.Contains(t, text, "approved")
}
