package catalog

import "errors"

// ServiceInterface is what the resolver and the handlers program against.
type ServiceInterface interface {
	ListBooks() []Book
	GetBook(id string) (Book, error)
	ListBooksByIDs(ids []string) ([]Book, error)
	CreateBook(b Book) (Book, error)
	ListPackages() []Package
	GetPackage(id string) (Package, error)
	CreatePackage(p Package) (Package, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

var _ ServiceInterface = (*Service)(nil)

func (s *Service) ListBooks() []Book {
	return s.repo.ListBooks()
}

func (s *Service) GetBook(id string) (Book, error) {
	return s.repo.GetBook(id)
}

func (s *Service) ListBooksByIDs(ids []string) ([]Book, error) {
	return s.repo.ListBooksByIDs(ids)
}

func (s *Service) CreateBook(b Book) (Book, error) {
	if b.ID == "" || b.Name == "" {
		return Book{}, errors.New("book id and name are required")
	}
	if b.Type == "" {
		b.Type = "book"
	}
	if b.DiscountPrice < 0 || b.OldPrice < 0 {
		return Book{}, errors.New("prices must be non-negative")
	}
	return s.repo.CreateBook(b)
}

func (s *Service) ListPackages() []Package {
	return s.repo.ListPackages()
}

func (s *Service) GetPackage(id string) (Package, error) {
	return s.repo.GetPackage(id)
}

func (s *Service) CreatePackage(p Package) (Package, error) {
	if p.ID == "" || p.Name == "" {
		return Package{}, errors.New("package id and name are required")
	}
	if p.DiscountPrice < 0 || p.OldPrice < 0 {
		return Package{}, errors.New("prices must be non-negative")
	}
	return s.repo.CreatePackage(p)
}
