package application

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/stray2stay/api/internal/domain/entity"
	repo "github.com/stray2stay/api/internal/domain/repository"
	"github.com/stray2stay/api/pkg/mailer"
)

// In-memory repository fakes backing the service tests. They enforce the
// same uniqueness rules as the Postgres schema so the duplicate paths can
// be exercised without a database.

type fakeUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (r *fakeUserRepo) nextID() string {
	r.seq++
	return fmt.Sprintf("user-%d", r.seq)
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repo.ErrDuplicate
		}
	}
	if u.ID == "" {
		u.ID = r.nextID()
	}
	u.NotificationPreferences = entity.NotificationPreferences{
		AdoptionInterest: true, AdoptionConfirmed: true, RescueUpdates: true,
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return repo.ErrNotFound
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) AddRescued(_ context.Context, id string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.Stats.AnimalsRescued += delta
	if u.Stats.AnimalsRescued < 0 {
		u.Stats.AnimalsRescued = 0
	}
	return nil
}

type fakeAnimalRepo struct {
	mu        sync.Mutex
	seq       int
	animals   map[string]*entity.Animal
	interests []entity.Interest
	users     *fakeUserRepo

	// mirrors the adoptions foreign key so Delete cascades like the schema
	adoptions *fakeAdoptionRepo
}

func newFakeAnimalRepo(users *fakeUserRepo) *fakeAnimalRepo {
	return &fakeAnimalRepo{animals: map[string]*entity.Animal{}, users: users}
}

func (r *fakeAnimalRepo) Create(_ context.Context, a *entity.Animal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if a.ID == "" {
		a.ID = fmt.Sprintf("animal-%d", r.seq)
	}
	if a.Status == "" {
		a.Status = entity.StatusAvailable
	}
	a.CreatedAt = time.Now()
	cp := *a
	r.animals[a.ID] = &cp
	return nil
}

func (r *fakeAnimalRepo) GetByID(_ context.Context, id string) (*entity.Animal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.animals[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAnimalRepo) Update(_ context.Context, a *entity.Animal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.animals[a.ID]; !ok {
		return repo.ErrNotFound
	}
	cp := *a
	r.animals[a.ID] = &cp
	return nil
}

func (r *fakeAnimalRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.animals[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.animals, id)
	kept := r.interests[:0]
	for _, in := range r.interests {
		if in.AnimalID != id {
			kept = append(kept, in)
		}
	}
	r.interests = kept
	if r.adoptions != nil {
		r.adoptions.deleteForAnimal(id)
	}
	return nil
}

func (r *fakeAnimalRepo) sorted() []entity.Animal {
	out := make([]entity.Animal, 0, len(r.animals))
	for _, a := range r.animals {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Urgent != out[j].Urgent {
			return out[i].Urgent
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func page(all []entity.Animal, offset, limit int) []entity.Animal {
	if offset >= len(all) {
		return []entity.Animal{}
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

func (r *fakeAnimalRepo) List(_ context.Context, f repo.ListFilter, offset, limit int) ([]entity.Animal, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []entity.Animal
	for _, a := range r.sorted() {
		if f.Type != "" && a.Type != f.Type {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.Urgent != nil && a.Urgent != *f.Urgent {
			continue
		}
		if f.NeedsFoster != nil && a.NeedsFoster != *f.NeedsFoster {
			continue
		}
		matched = append(matched, a)
	}
	return page(matched, offset, limit), len(matched), nil
}

func (r *fakeAnimalRepo) ListByPoster(_ context.Context, posterID string, offset, limit int) ([]entity.Animal, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []entity.Animal
	for _, a := range r.sorted() {
		if a.PosterID == posterID {
			matched = append(matched, a)
		}
	}
	return page(matched, offset, limit), len(matched), nil
}

func (r *fakeAnimalRepo) ListAdoptedBy(_ context.Context, adopterID string, offset, limit int) ([]entity.Animal, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []entity.Animal
	for _, a := range r.sorted() {
		if a.AdopterID == adopterID && a.Adopted() {
			matched = append(matched, a)
		}
	}
	return page(matched, offset, limit), len(matched), nil
}

func (r *fakeAnimalRepo) AddInterest(_ context.Context, in *entity.Interest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.interests {
		if existing.AnimalID == in.AnimalID && existing.UserID == in.UserID {
			return repo.ErrDuplicate
		}
	}
	in.ID = fmt.Sprintf("interest-%d", len(r.interests)+1)
	in.CreatedAt = time.Now()
	r.interests = append(r.interests, *in)
	return nil
}

func (r *fakeAnimalRepo) ListInterests(_ context.Context, animalID string) ([]entity.Interest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entity.Interest{}
	for _, in := range r.interests {
		if in.AnimalID == animalID {
			out = append(out, in)
		}
	}
	return out, nil
}

func (r *fakeAnimalRepo) ConfirmAdoption(ctx context.Context, animalID, adopterID string, when time.Time) error {
	r.mu.Lock()
	a, ok := r.animals[animalID]
	if !ok {
		r.mu.Unlock()
		return repo.ErrNotFound
	}
	if a.Adopted() {
		r.mu.Unlock()
		return repo.ErrAlreadyAdopted
	}
	a.Status = entity.StatusAdopted
	a.AdopterID = adopterID
	w := when
	a.AdoptionDate = &w
	r.mu.Unlock()

	r.users.mu.Lock()
	if u, ok := r.users.users[adopterID]; ok {
		u.Stats.AnimalsAdopted++
	}
	r.users.mu.Unlock()
	return nil
}

func (r *fakeAnimalRepo) MapPins(_ context.Context, f repo.MapFilter, limit int) ([]repo.MapPin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []repo.MapPin{}
	for _, a := range r.sorted() {
		if f.Type != "" && a.Type != f.Type {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		out = append(out, repo.MapPin{
			ID: a.ID, Type: a.Type, Status: a.Status, Name: a.Name,
			Location: a.Location, Photos: a.Photos,
			Urgent: a.Urgent, NeedsFoster: a.NeedsFoster,
		})
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

type fakeAdoptionRepo struct {
	mu        sync.Mutex
	seq       int
	adoptions map[string]*entity.Adoption
}

func newFakeAdoptionRepo() *fakeAdoptionRepo {
	return &fakeAdoptionRepo{adoptions: map[string]*entity.Adoption{}}
}

func (r *fakeAdoptionRepo) Create(_ context.Context, a *entity.Adoption) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.adoptions {
		if existing.AnimalID == a.AnimalID && existing.AdopterID == a.AdopterID && existing.Active() {
			return repo.ErrDuplicate
		}
	}
	r.seq++
	a.ID = fmt.Sprintf("adoption-%d", r.seq)
	if a.Status == "" {
		a.Status = entity.AdoptionPending
	}
	a.CreatedAt = time.Now()
	cp := *a
	r.adoptions[a.ID] = &cp
	return nil
}

func (r *fakeAdoptionRepo) deleteForAnimal(animalID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, a := range r.adoptions {
		if a.AnimalID == animalID {
			delete(r.adoptions, id)
		}
	}
}

func (r *fakeAdoptionRepo) GetByID(_ context.Context, id string) (*entity.Adoption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.adoptions[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAdoptionRepo) Update(_ context.Context, a *entity.Adoption) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.adoptions[a.ID]; !ok {
		return repo.ErrNotFound
	}
	cp := *a
	r.adoptions[a.ID] = &cp
	return nil
}

func (r *fakeAdoptionRepo) FindActive(_ context.Context, animalID, adopterID string) (*entity.Adoption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.adoptions {
		if a.AnimalID == animalID && a.AdopterID == adopterID && a.Active() {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *fakeAdoptionRepo) ListForUser(_ context.Context, userID string) ([]entity.Adoption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entity.Adoption{}
	for _, a := range r.adoptions {
		if a.AdopterID == userID || a.PosterID == userID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type fakeStatsRepo struct {
	counts  repo.OverviewCounts
	byMonth []repo.MonthCount
	byType  []repo.TypeCount
	cities  []repo.CityCount
}

func (r *fakeStatsRepo) Overview(context.Context) (repo.OverviewCounts, error) { return r.counts, nil }
func (r *fakeStatsRepo) AdoptionsByMonth(context.Context, time.Time) ([]repo.MonthCount, error) {
	return r.byMonth, nil
}
func (r *fakeStatsRepo) AnimalsByType(context.Context) ([]repo.TypeCount, error) {
	return r.byType, nil
}
func (r *fakeStatsRepo) TopCities(context.Context, int) ([]repo.CityCount, error) {
	return r.cities, nil
}

// fakeNotifier records queued jobs instead of publishing them.
type fakeNotifier struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
}

func (n *fakeNotifier) Notify(_ context.Context, job mailer.EmailJob) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.jobs = append(n.jobs, job)
}

func (n *fakeNotifier) sent() []mailer.EmailJob {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]mailer.EmailJob(nil), n.jobs...)
}

func (n *fakeNotifier) lastTo(template string) (mailer.EmailJob, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := len(n.jobs) - 1; i >= 0; i-- {
		if n.jobs[i].Template == template {
			return n.jobs[i], true
		}
	}
	return mailer.EmailJob{}, false
}
