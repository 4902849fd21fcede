package order

// ServiceInterface is consumed by the order handler and by the checkout
// reconciler, which creates orders out of payment completions.
type ServiceInterface interface {
	Create(ord Order) (Order, error)
	FindByTransactionID(transactionID string) (Order, error)
	GetByID(id string) (Order, error)
	ListByUser(userID int) ([]Order, error)
	ListAll() ([]Order, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

var _ ServiceInterface = (*Service)(nil)

func (s *Service) Create(ord Order) (Order, error) {
	return s.repo.Create(ord)
}

func (s *Service) FindByTransactionID(transactionID string) (Order, error) {
	return s.repo.FindByTransactionID(transactionID)
}

func (s *Service) GetByID(id string) (Order, error) {
	return s.repo.GetByID(id)
}

func (s *Service) ListByUser(userID int) ([]Order, error) {
	return s.repo.ListByUser(userID)
}

func (s *Service) ListAll() ([]Order, error) {
	return s.repo.ListAll()
}
