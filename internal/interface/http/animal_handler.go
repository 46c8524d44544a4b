package handlers

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/stray2stay/api/internal/application"
	"github.com/stray2stay/api/internal/domain/entity"
	repo "github.com/stray2stay/api/internal/domain/repository"
	"github.com/stray2stay/api/pkg/response"
	"github.com/stray2stay/api/pkg/validation"
)

type AnimalHandler struct {
	Svc       *app.AnimalService
	Logger    *logrus.Logger
	MaxPhotos int
	MaxBytes  int64
}

func NewAnimalHandler(svc *app.AnimalService, logger *logrus.Logger, maxPhotos int, maxBytes int64) *AnimalHandler {
	return &AnimalHandler{Svc: svc, Logger: logger, MaxPhotos: maxPhotos, MaxBytes: maxBytes}
}

func queryInt(c *gin.Context, key string, def int) int {
	if v := c.Query(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func queryBoolPtr(c *gin.Context, key string) *bool {
	if v := c.Query(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return &b
		}
	}
	return nil
}

// List handles GET /animals with equality filters over type/status and
// boolean filters over urgent/needsFoster.
func (h *AnimalHandler) List(c *gin.Context) {
	f := repo.ListFilter{
		Type:        c.Query("type"),
		Status:      c.Query("status"),
		Urgent:      queryBoolPtr(c, "urgent"),
		NeedsFoster: queryBoolPtr(c, "needsFoster"),
	}
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 12)

	animals, pg, err := h.Svc.List(c.Request.Context(), f, page, limit)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"animals": animals, "pagination": pg}, "animals", nil)
}

func (h *AnimalHandler) Get(c *gin.Context) {
	a, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	interests, err := h.Svc.Interests(c.Request.Context(), a.ID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"animal": a, "interestedUsers": interests}, "animal", nil)
}

// uploadPhotos validates and streams multipart image files into blob
// storage, returning their public URLs.
func (h *AnimalHandler) uploadPhotos(c *gin.Context, posterID string, files []*multipart.FileHeader) ([]string, bool) {
	if len(files) > h.MaxPhotos {
		response.Error[any](c, http.StatusBadRequest, "too many photos", gin.H{"max": h.MaxPhotos})
		return nil, false
	}
	urls := make([]string, 0, len(files))
	for _, fh := range files {
		if fh.Size > h.MaxBytes {
			response.Error[any](c, http.StatusBadRequest, "photo too large", gin.H{"file": fh.Filename, "max_bytes": h.MaxBytes})
			return nil, false
		}
		contentType := fh.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			response.Error[any](c, http.StatusBadRequest, "only image files are allowed", gin.H{"file": fh.Filename})
			return nil, false
		}
		f, err := fh.Open()
		if err != nil {
			fail(c, err)
			return nil, false
		}
		url, err := h.Svc.UploadPhoto(c.Request.Context(), posterID, f, fh.Filename, contentType)
		_ = f.Close()
		if err != nil {
			if h.Logger != nil {
				h.Logger.WithError(err).WithField("file", fh.Filename).Error("photo upload failed")
			}
			response.Error[any](c, http.StatusInternalServerError, "photo upload failed", nil)
			return nil, false
		}
		urls = append(urls, url)
	}
	return urls, true
}

func parseLocation(raw string) (*entity.Location, error) {
	var loc entity.Location
	if err := json.Unmarshal([]byte(raw), &loc); err != nil {
		return nil, err
	}
	return &loc, nil
}

// Create handles POST /animals as a multipart form: listing fields plus
// 1-5 photo files and a JSON-serialized location field.
func (h *AnimalHandler) Create(c *gin.Context) {
	uid := c.GetString("userID")

	form, err := c.MultipartForm()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid multipart form", nil)
		return
	}
	files := form.File["photos"]
	if len(files) == 0 {
		fail(c, app.ErrNoPhotos)
		return
	}

	in := app.CreateInput{
		Type:            c.PostForm("type"),
		Name:            c.PostForm("name"),
		Breed:           c.PostForm("breed"),
		Age:             c.PostForm("age"),
		Gender:          c.PostForm("gender"),
		Size:            c.PostForm("size"),
		Color:           c.PostForm("color"),
		Description:     c.PostForm("description"),
		SpecialNotes:    c.PostForm("specialNotes"),
		MedicalNeeds:    c.PostForm("medicalNeeds"),
		CurrentLocation: c.PostForm("currentLocation"),
		Urgent:          c.PostForm("urgent") == "true",
		NeedsFoster:     c.PostForm("needsFoster") == "true",
	}
	if raw := c.PostForm("location"); raw != "" {
		loc, err := parseLocation(raw)
		if err != nil {
			response.Error[any](c, http.StatusBadRequest, "invalid location payload", nil)
			return
		}
		in.Location = loc
	}
	// Reject bad field values before streaming any photo to blob storage.
	if err := h.Svc.ValidateListing(in); err != nil {
		fail(c, err)
		return
	}

	photos, ok := h.uploadPhotos(c, uid, files)
	if !ok {
		return
	}
	in.Photos = photos

	a, err := h.Svc.Create(c.Request.Context(), uid, in)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"animal": a}, "animal listed successfully", nil)
}

// Update handles PUT /animals/:id. Accepts the same multipart form as
// Create; any uploaded photos are appended to the existing list.
func (h *AnimalHandler) Update(c *gin.Context) {
	uid := c.GetString("userID")

	in := app.UpdateInput{}
	strField := func(key string) *string {
		if v, ok := c.GetPostForm(key); ok {
			return &v
		}
		return nil
	}
	boolField := func(key string) *bool {
		if v, ok := c.GetPostForm(key); ok {
			b := v == "true"
			return &b
		}
		return nil
	}
	in.Name = strField("name")
	in.Breed = strField("breed")
	in.Age = strField("age")
	in.Gender = strField("gender")
	in.Size = strField("size")
	in.Color = strField("color")
	in.Description = strField("description")
	in.SpecialNotes = strField("specialNotes")
	in.MedicalNeeds = strField("medicalNeeds")
	in.CurrentLocation = strField("currentLocation")
	in.Urgent = boolField("urgent")
	in.NeedsFoster = boolField("needsFoster")

	if raw, ok := c.GetPostForm("location"); ok && raw != "" {
		loc, err := parseLocation(raw)
		if err != nil {
			response.Error[any](c, http.StatusBadRequest, "invalid location payload", nil)
			return
		}
		in.Location = loc
	}

	if form, err := c.MultipartForm(); err == nil {
		if files := form.File["photos"]; len(files) > 0 {
			photos, ok := h.uploadPhotos(c, uid, files)
			if !ok {
				return
			}
			in.NewPhotos = photos
		}
	}

	a, err := h.Svc.Update(c.Request.Context(), c.Param("id"), uid, in)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"animal": a}, "animal updated successfully", nil)
}

func (h *AnimalHandler) Delete(c *gin.Context) {
	uid := c.GetString("userID")
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id"), uid); err != nil {
		fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "animal listing deleted successfully", nil)
}

type interestRequest struct {
	Message     string `json:"message"`
	ContactInfo string `json:"contactInfo" binding:"required"`
}

func (h *AnimalHandler) ExpressInterest(c *gin.Context) {
	uid := c.GetString("userID")
	var req interestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.ExpressInterest(c.Request.Context(), c.Param("id"), uid, req.Message, req.ContactInfo); err != nil {
		fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "interest expressed successfully", nil)
}

type markAdoptedRequest struct {
	AdopterID string `json:"adopterId" binding:"required,uuid"`
}

func (h *AnimalHandler) MarkAdopted(c *gin.Context) {
	uid := c.GetString("userID")
	var req markAdoptedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.MarkAdopted(c.Request.Context(), c.Param("id"), uid, req.AdopterID); err != nil {
		fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "animal marked as adopted successfully", nil)
}

// Search handles GET /animals/search backed by the Elasticsearch index.
func (h *AnimalHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if strings.TrimSpace(q) == "" {
		response.Error[any](c, http.StatusBadRequest, "missing query", nil)
		return
	}
	size := queryInt(c, "size", 12)
	hits, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"results": hits}, "search results", nil)
}
