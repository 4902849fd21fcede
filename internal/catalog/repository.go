package catalog

import "sync"

type Repository interface {
	ListBooks() []Book
	GetBook(id string) (Book, error)
	// ListBooksByIDs returns the books whose id is present in ids, in the
	// same order as ids. Missing ids are skipped, not errors.
	ListBooksByIDs(ids []string) ([]Book, error)
	CreateBook(b Book) (Book, error)

	ListPackages() []Package
	GetPackage(id string) (Package, error)
	CreatePackage(p Package) (Package, error)
}

// InMemoryRepository backs tests and local scenarios.
type InMemoryRepository struct {
	mu       sync.RWMutex
	books    map[string]Book
	packages map[string]Package
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		books:    make(map[string]Book),
		packages: make(map[string]Package),
	}
}

func (r *InMemoryRepository) ListBooks() []Book {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Book, 0, len(r.books))
	for _, b := range r.books {
		out = append(out, b)
	}
	return out
}

func (r *InMemoryRepository) GetBook(id string) (Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.books[id]
	if !ok {
		return Book{}, ErrBookNotFound
	}
	return b, nil
}

func (r *InMemoryRepository) ListBooksByIDs(ids []string) ([]Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Book, 0, len(ids))
	for _, id := range ids {
		if b, ok := r.books[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) CreateBook(b Book) (Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.books[b.ID] = b
	return b, nil
}

func (r *InMemoryRepository) ListPackages() []Package {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Package, 0, len(r.packages))
	for _, p := range r.packages {
		out = append(out, p)
	}
	return out
}

func (r *InMemoryRepository) GetPackage(id string) (Package, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.packages[id]
	if !ok {
		return Package{}, ErrPackageNotFound
	}
	return p, nil
}

func (r *InMemoryRepository) CreatePackage(p Package) (Package, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.packages[p.ID] = p
	return p, nil
}
