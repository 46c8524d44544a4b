package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stray2stay/api/internal/domain/entity"
	repo "github.com/stray2stay/api/internal/domain/repository"
	"github.com/stray2stay/api/pkg/helpers"
	"github.com/stray2stay/api/pkg/mailer"
	mailtpl "github.com/stray2stay/api/pkg/mailer/templates"
)

var (
	ErrAnimalNotFound    = errors.New("animal not found")
	ErrAdopterNotFound   = errors.New("adopter not found")
	ErrNotPoster         = errors.New("not the poster of this listing")
	ErrNoPhotos          = errors.New("at least one photo is required")
	ErrInvalidAnimalType = errors.New("animal type must be dog or cat")
	ErrMissingLocation   = errors.New("location address and coordinates are required")
	ErrAlreadyAdopted    = errors.New("animal has already been adopted")
	ErrSelfInterest      = errors.New("cannot express interest in your own listing")
	ErrDuplicateInterest = errors.New("you have already expressed interest in this animal")
)

// AnimalService owns the listing lifecycle: catalog queries, creation with
// photo upload, poster edits, interest tracking, and the direct
// mark-adopted path.
type AnimalService struct {
	Animals  repo.AnimalRepository
	Users    repo.UserRepository
	Notifier Notifier

	GCS       *storage.Client
	GCSBucket string

	ES      *elasticsearch.Client
	ESIndex string

	Logger *logrus.Logger
}

func NewAnimalService(animals repo.AnimalRepository, users repo.UserRepository, notifier Notifier,
	gcs *storage.Client, gcsBucket string, es *elasticsearch.Client, esIndex string, logger *logrus.Logger) *AnimalService {
	return &AnimalService{
		Animals:  animals,
		Users:    users,
		Notifier: notifier,
		GCS:      gcs, GCSBucket: gcsBucket,
		ES: es, ESIndex: esIndex,
		Logger: logger,
	}
}

// Pagination is the page metadata attached to catalog responses.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// NewPagination normalizes page/limit and computes the page count.
func NewPagination(page, limit, total int) Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 12
	}
	pages := 0
	if total > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// Offset returns the row offset for this page.
func (p Pagination) Offset() int { return (p.Page - 1) * p.Limit }

// List returns one catalog page, urgent listings first, newest first.
// Unknown enum values in the filter match nothing rather than failing.
func (s *AnimalService) List(ctx context.Context, f repo.ListFilter, page, limit int) ([]entity.Animal, Pagination, error) {
	p := NewPagination(page, limit, 0)
	animals, total, err := s.Animals.List(ctx, f, p.Offset(), p.Limit)
	if err != nil {
		return nil, Pagination{}, err
	}
	return animals, NewPagination(p.Page, p.Limit, total), nil
}

func (s *AnimalService) Get(ctx context.Context, id string) (*entity.Animal, error) {
	a, err := s.Animals.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAnimalNotFound
		}
		return nil, err
	}
	return a, nil
}

// Interests returns the expressed-interest entries for a listing.
func (s *AnimalService) Interests(ctx context.Context, animalID string) ([]entity.Interest, error) {
	if _, err := s.Get(ctx, animalID); err != nil {
		return nil, err
	}
	return s.Animals.ListInterests(ctx, animalID)
}

// CreateInput carries the listing fields; Photos must already be uploaded
// blob URLs.
type CreateInput struct {
	Type            string
	Name            string
	Breed           string
	Age             string
	Gender          string
	Size            string
	Color           string
	Description     string
	SpecialNotes    string
	MedicalNeeds    string
	Photos          []string
	Location        *entity.Location
	CurrentLocation string
	Urgent          bool
	NeedsFoster     bool
}

// ValidateListing checks the non-photo listing fields. Handlers run it
// before streaming photo uploads so a rejected request leaves nothing in
// blob storage. A (0,0) coordinate is a valid point; only an absent
// location or empty address is rejected.
func (s *AnimalService) ValidateListing(in CreateInput) error {
	if !entity.ValidAnimalType(in.Type) {
		return ErrInvalidAnimalType
	}
	if in.Location == nil || in.Location.Address == "" {
		return ErrMissingLocation
	}
	return nil
}

// Create persists a new listing, bumps the poster's rescue counter, and
// queues a confirmation email. The counter bump and the notification are
// secondary effects: they never roll back the persisted listing.
func (s *AnimalService) Create(ctx context.Context, posterID string, in CreateInput) (*entity.Animal, error) {
	if len(in.Photos) == 0 {
		return nil, ErrNoPhotos
	}
	if err := s.ValidateListing(in); err != nil {
		return nil, err
	}

	a := &entity.Animal{
		Type:            in.Type,
		Name:            in.Name,
		Breed:           in.Breed,
		Age:             defaultEnum(in.Age),
		Gender:          defaultEnum(in.Gender),
		Size:            defaultEnum(in.Size),
		Color:           in.Color,
		Description:     in.Description,
		SpecialNotes:    in.SpecialNotes,
		MedicalNeeds:    in.MedicalNeeds,
		Photos:          in.Photos,
		Location:        *in.Location,
		CurrentLocation: in.CurrentLocation,
		Urgent:          in.Urgent,
		NeedsFoster:     in.NeedsFoster,
		PosterID:        posterID,
	}
	if err := s.Animals.Create(ctx, a); err != nil {
		return nil, err
	}

	if err := s.Users.AddRescued(ctx, posterID, 1); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("poster_id", posterID).Warn("rescue counter bump failed")
	}

	if poster, err := s.Users.GetByID(ctx, posterID); err == nil {
		s.Notifier.Notify(ctx, mailer.EmailJob{
			To:       poster.Email,
			Template: mailtpl.ListingCreated,
			Data:     map[string]any{"Name": poster.Name},
		})
	}

	s.indexAnimal(ctx, a)
	return a, nil
}

func defaultEnum(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

// UpdateInput holds a partial listing patch. Nil pointers leave the field
// untouched; NewPhotos are appended to (never replace) the existing list.
type UpdateInput struct {
	Name            *string
	Breed           *string
	Age             *string
	Gender          *string
	Size            *string
	Color           *string
	Description     *string
	SpecialNotes    *string
	MedicalNeeds    *string
	CurrentLocation *string
	Urgent          *bool
	NeedsFoster     *bool
	Location        *entity.Location
	NewPhotos       []string
}

func (s *AnimalService) Update(ctx context.Context, id, posterID string, in UpdateInput) (*entity.Animal, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.PosterID != posterID {
		return nil, ErrNotPoster
	}

	applyString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	applyString(&a.Name, in.Name)
	applyString(&a.Breed, in.Breed)
	applyString(&a.Age, in.Age)
	applyString(&a.Gender, in.Gender)
	applyString(&a.Size, in.Size)
	applyString(&a.Color, in.Color)
	applyString(&a.Description, in.Description)
	applyString(&a.SpecialNotes, in.SpecialNotes)
	applyString(&a.MedicalNeeds, in.MedicalNeeds)
	applyString(&a.CurrentLocation, in.CurrentLocation)
	if in.Urgent != nil {
		a.Urgent = *in.Urgent
	}
	if in.NeedsFoster != nil {
		a.NeedsFoster = *in.NeedsFoster
	}
	if in.Location != nil {
		a.Location = *in.Location
	}
	if len(in.NewPhotos) > 0 {
		a.Photos = append(a.Photos, in.NewPhotos...)
	}

	if err := s.Animals.Update(ctx, a); err != nil {
		return nil, err
	}
	s.indexAnimal(ctx, a)
	return a, nil
}

// Delete removes a listing and walks the poster's rescue counter back down.
// The counter is clamped at zero in storage, so an out-of-order delete
// cannot leave it negative.
func (s *AnimalService) Delete(ctx context.Context, id, posterID string) error {
	a, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if a.PosterID != posterID {
		return ErrNotPoster
	}
	if err := s.Animals.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrAnimalNotFound
		}
		return err
	}
	if err := s.Users.AddRescued(ctx, posterID, -1); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("poster_id", posterID).Warn("rescue counter decrement failed")
	}
	s.deleteFromIndex(ctx, id)
	return nil
}

// ExpressInterest records a non-binding adoption intent against a listing.
// The (animal, user) uniqueness constraint in storage backstops the
// duplicate check under concurrent identical requests.
func (s *AnimalService) ExpressInterest(ctx context.Context, animalID, userID, message, contactInfo string) error {
	a, err := s.Get(ctx, animalID)
	if err != nil {
		return err
	}
	if a.Adopted() {
		return ErrAlreadyAdopted
	}
	if a.PosterID == userID {
		return ErrSelfInterest
	}

	in := &entity.Interest{
		AnimalID:    animalID,
		UserID:      userID,
		Message:     message,
		ContactInfo: contactInfo,
	}
	if err := s.Animals.AddInterest(ctx, in); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return ErrDuplicateInterest
		}
		return err
	}

	poster, err := s.Users.GetByID(ctx, a.PosterID)
	if err != nil || !poster.NotificationPreferences.AdoptionInterest {
		return nil
	}
	data := map[string]any{
		"Name":       poster.Name,
		"AnimalName": a.Name,
		"AnimalType": a.Type,
		"Contact":    contactInfo,
		"Message":    message,
	}
	if u, err := s.Users.GetByID(ctx, userID); err == nil {
		data["AdopterName"] = u.Name
	}
	s.Notifier.Notify(ctx, mailer.EmailJob{To: poster.Email, Template: mailtpl.AdoptionInterest, Data: data})
	return nil
}

// MarkAdopted is the direct poster-initiated confirmation path. It shares
// the transactional ConfirmAdoption commit with the adoption workflow, so
// the adopter's counter is bumped exactly once no matter which path lands
// first.
func (s *AnimalService) MarkAdopted(ctx context.Context, animalID, posterID, adopterID string) error {
	a, err := s.Get(ctx, animalID)
	if err != nil {
		return err
	}
	if a.PosterID != posterID {
		return ErrNotPoster
	}
	adopter, err := s.Users.GetByID(ctx, adopterID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrAdopterNotFound
		}
		return err
	}

	if err := s.Animals.ConfirmAdoption(ctx, animalID, adopterID, time.Now()); err != nil {
		switch {
		case errors.Is(err, repo.ErrAlreadyAdopted):
			return ErrAlreadyAdopted
		case errors.Is(err, repo.ErrNotFound):
			return ErrAnimalNotFound
		}
		return err
	}

	s.Notifier.Notify(ctx, mailer.EmailJob{
		To:       adopter.Email,
		Template: mailtpl.AdoptionConfirmed,
		Data: map[string]any{
			"Name":       adopter.Name,
			"AnimalName": a.Name,
			"AnimalType": a.Type,
		},
	})

	a.Status = entity.StatusAdopted
	a.AdopterID = adopterID
	s.indexAnimal(ctx, a)
	return nil
}

// UploadPhoto streams one image into blob storage and returns its public
// URL. Callers validate count, size, and mime type before getting here.
func (s *AnimalService) UploadPhoto(ctx context.Context, posterID string, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	id := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("animals", posterID, id+ext))
	return helpers.UploadImageToGCS(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
}

func (s *AnimalService) indexAnimal(ctx context.Context, a *entity.Animal) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	doc := map[string]any{
		"id":          a.ID,
		"type":        a.Type,
		"name":        a.Name,
		"breed":       a.Breed,
		"description": a.Description,
		"city":        a.Location.City,
		"state":       a.Location.State,
		"status":      a.Status,
		"urgent":      a.Urgent,
		"created_at":  a.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: a.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("animal_id", a.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("animal_id", a.ID).Warn("es index response error")
	}
}

func (s *AnimalService) deleteFromIndex(ctx context.Context, id string) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESIndex, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("animal_id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// Search performs a multi_match query over name, breed, description, and
// city. It returns raw index documents; an empty slice when ES is not
// configured.
func (s *AnimalService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 12
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "breed", "description", "city"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
