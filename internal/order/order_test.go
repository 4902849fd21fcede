package order

import "testing"

func TestTypeOfItems(t *testing.T) {
	cases := []struct {
		name  string
		types []ItemType
		want  ItemType
	}{
		{"single book", []ItemType{TypeBook}, TypeBook},
		{"all ebooks", []ItemType{TypeEbook, TypeEbook, TypeEbook}, TypeEbook},
		{"all audiobooks", []ItemType{TypeAudiobook, TypeAudiobook}, TypeAudiobook},
		{"single package", []ItemType{TypePackage}, TypePackage},
		{"book plus ebook", []ItemType{TypeBook, TypeEbook}, TypeMixed},
		{"book plus package", []ItemType{TypeBook, TypePackage}, TypeMixed},
		{"ebook plus audiobook", []ItemType{TypeEbook, TypeAudiobook}, TypeMixed},
		{"three types", []ItemType{TypeBook, TypeEbook, TypePackage}, TypeMixed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			items := make([]OrderItem, len(tc.types))
			for i, typ := range tc.types {
				items[i] = OrderItem{ID: "X", Type: typ, Quantity: 1}
			}
			if got := TypeOfItems(items); got != tc.want {
				t.Errorf("TypeOfItems(%v) = %q, want %q", tc.types, got, tc.want)
			}
		})
	}
}

func TestTypeOfRefsMatchesTypeOfItems(t *testing.T) {
	refs := []LineRef{
		{ID: "B1", Type: TypeEbook, Quantity: 1},
		{ID: "B2", Type: TypeEbook, Quantity: 2},
	}
	items := []OrderItem{
		{ID: "B1", Type: TypeEbook, Quantity: 1, Name: "Dune", Price: 9.99},
		{ID: "B2", Type: TypeEbook, Quantity: 2, Name: "Hyperion", Price: 7.50},
	}
	if TypeOfRefs(refs) != TypeOfItems(items) {
		t.Errorf("classification diverged between refs and resolved items")
	}
}

func TestIsDigitalOnly(t *testing.T) {
	cases := map[ItemType]bool{
		TypeEbook:     true,
		TypeAudiobook: true,
		TypeBook:      false,
		TypePackage:   false,
		TypeMixed:     false,
	}
	for typ, want := range cases {
		if got := IsDigitalOnly(typ); got != want {
			t.Errorf("IsDigitalOnly(%q) = %v, want %v", typ, got, want)
		}
	}
}

func TestInMemoryRepositoryTransactionUniqueness(t *testing.T) {
	repo := NewInMemoryRepository()

	first := Order{ID: "o1", Payment: PaymentInfo{Method: "stripe", TransactionID: "TX1", Status: "paid"}}
	if _, err := repo.Create(first); err != nil {
		t.Fatalf("first create: %v", err)
	}

	second := Order{ID: "o2", Payment: PaymentInfo{Method: "paypal", TransactionID: "TX1", Status: "paid"}}
	if _, err := repo.Create(second); err != ErrDuplicateTransaction {
		t.Fatalf("expected ErrDuplicateTransaction, got %v", err)
	}

	found, err := repo.FindByTransactionID("TX1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.ID != "o1" {
		t.Errorf("expected the first order to win, got %q", found.ID)
	}
}
