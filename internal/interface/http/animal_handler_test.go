package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "github.com/stray2stay/api/internal/application"
)

// listingForm builds a multipart create-listing request with one photo
// attached.
func listingForm(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="photos"; filename="pet.jpg"`)
	hdr.Set("Content-Type", "image/jpeg")
	part, err := w.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write([]byte("jpeg-bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func postListing(t *testing.T, h *AnimalHandler, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	body, contentType := listingForm(t, fields)
	c.Request = httptest.NewRequest("POST", "/animals", body)
	c.Request.Header.Set("Content-Type", contentType)
	c.Set("userID", "user-1")
	h.Create(c)
	return rec
}

// The handler checks the listing fields before streaming any photo to
// blob storage. The service here has no storage client, so reaching the
// upload path turns into a 500 and the test flags the ordering.
func TestCreateValidatesBeforeUpload(t *testing.T) {
	svc := app.NewAnimalService(nil, nil, nil, nil, "", nil, "", nil)
	h := NewAnimalHandler(svc, nil, 5, 1<<20)

	location := `{"address":"500 E Riverside Dr","coordinates":{"lat":30.25,"lng":-97.73}}`

	t.Run("unknown type rejected pre-upload", func(t *testing.T) {
		rec := postListing(t, h, map[string]string{"type": "ferret", "location": location})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), app.ErrInvalidAnimalType.Error())
	})

	t.Run("missing location rejected pre-upload", func(t *testing.T) {
		rec := postListing(t, h, map[string]string{"type": "dog"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), app.ErrMissingLocation.Error())
	})

	t.Run("valid fields proceed to upload", func(t *testing.T) {
		rec := postListing(t, h, map[string]string{"type": "dog", "location": location})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "photo upload failed")
	})
}
