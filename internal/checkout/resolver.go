package checkout

import (
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/mindstormbook/bookstore-backend/internal/catalog"
	"github.com/mindstormbook/bookstore-backend/internal/order"
)

// Resolver hydrates line references from the catalog. Prices and names always
// come from here, never from the client or the stored intent.
type Resolver struct {
	catalog catalog.ServiceInterface
}

func NewResolver(c catalog.ServiceInterface) *Resolver {
	return &Resolver{catalog: c}
}

// ResolveAll hydrates the whole cart concurrently; results keep the input
// order. A catalog miss degrades that line to its minimal fields (id, type,
// quantity) instead of failing the batch — the entry may have been deleted
// between checkout and completion.
func (r *Resolver) ResolveAll(refs []order.LineRef) []order.OrderItem {
	items := make([]order.OrderItem, len(refs))
	var g errgroup.Group
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			items[i] = r.resolve(ref)
			return nil
		})
	}
	g.Wait()
	return items
}

func (r *Resolver) resolve(ref order.LineRef) order.OrderItem {
	item := order.OrderItem{ID: ref.ID, Type: ref.Type, Quantity: ref.Quantity}

	switch ref.Type {
	case order.TypeBook, order.TypeEbook, order.TypeAudiobook:
		b, err := r.catalog.GetBook(ref.ID)
		if err != nil {
			log.Printf("checkout: book %s no longer in catalog, keeping minimal line item: %v", ref.ID, err)
			return item
		}
		item.Name = b.Name
		item.Price = b.DiscountPrice
		item.ImageURL = b.ImageURL

	case order.TypePackage:
		p, err := r.catalog.GetPackage(ref.ID)
		if err != nil {
			log.Printf("checkout: package %s no longer in catalog, keeping minimal line item: %v", ref.ID, err)
			return item
		}
		item.Name = p.Name
		item.Price = p.DiscountPrice
		item.ImageURL = p.ImageURL

		// One level deep only: the bundled books, never their own bundles.
		books, err := r.catalog.ListBooksByIDs(p.BookIDs)
		if err != nil {
			log.Printf("checkout: could not load books for package %s: %v", ref.ID, err)
			return item
		}
		for _, b := range books {
			item.Books = append(item.Books, order.OrderItem{
				ID:       b.ID,
				Type:     order.ItemType(b.Type),
				Quantity: 1,
				Name:     b.Name,
				Price:    b.DiscountPrice,
				ImageURL: b.ImageURL,
			})
		}
	}

	return item
}
