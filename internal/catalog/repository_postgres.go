package catalog

import (
	"database/sql"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const bookColumns = `"bookID", name, writer, type, "oldPrice", "discountPrice", "imageUrl", category, language, "createdAt"`

func (r *PostgresRepository) ListBooks() []Book {
	rows, err := r.db.Query(`SELECT ` + bookColumns + ` FROM books ORDER BY "createdAt" DESC`)
	if err != nil {
		return []Book{}
	}
	defer rows.Close()
	return collectBooks(rows)
}

func (r *PostgresRepository) GetBook(id string) (Book, error) {
	row := r.db.QueryRow(`SELECT `+bookColumns+` FROM books WHERE "bookID" = $1`, id)
	b, err := scanBook(row)
	if err == sql.ErrNoRows {
		return Book{}, ErrBookNotFound
	}
	if err != nil {
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepository) ListBooksByIDs(ids []string) ([]Book, error) {
	if len(ids) == 0 {
		return []Book{}, nil
	}

	rows, err := r.db.Query(`SELECT `+bookColumns+` FROM books
		WHERE "bookID" = ANY($1::text[])
		ORDER BY array_position($1::text[], "bookID")`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBooks(rows), nil
}

func (r *PostgresRepository) CreateBook(b Book) (Book, error) {
	_, err := r.db.Exec(`INSERT INTO books ("bookID", name, writer, type, "oldPrice", "discountPrice", "imageUrl", category, language, "createdAt")
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		b.ID, b.Name, b.Writer, b.Type, b.OldPrice, b.DiscountPrice, b.ImageURL, b.Category, b.Language, b.CreatedAt)
	if err != nil {
		return Book{}, err
	}
	return b, nil
}

const packageColumns = `"packageID", name, "oldPrice", "discountPrice", "imageUrl", "bookIDs", "createdAt"`

func (r *PostgresRepository) ListPackages() []Package {
	rows, err := r.db.Query(`SELECT ` + packageColumns + ` FROM packages ORDER BY "createdAt" DESC`)
	if err != nil {
		return []Package{}
	}
	defer rows.Close()

	packages := make([]Package, 0)
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			continue
		}
		packages = append(packages, p)
	}
	return packages
}

func (r *PostgresRepository) GetPackage(id string) (Package, error) {
	row := r.db.QueryRow(`SELECT `+packageColumns+` FROM packages WHERE "packageID" = $1`, id)
	p, err := scanPackage(row)
	if err == sql.ErrNoRows {
		return Package{}, ErrPackageNotFound
	}
	if err != nil {
		return Package{}, err
	}
	return p, nil
}

func (r *PostgresRepository) CreatePackage(p Package) (Package, error) {
	_, err := r.db.Exec(`INSERT INTO packages ("packageID", name, "oldPrice", "discountPrice", "imageUrl", "bookIDs", "createdAt")
        VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		p.ID, p.Name, p.OldPrice, p.DiscountPrice, p.ImageURL, pq.Array(p.BookIDs), p.CreatedAt)
	if err != nil {
		return Package{}, err
	}
	return p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (Book, error) {
	var b Book
	var image, category, language sql.NullString
	err := row.Scan(&b.ID, &b.Name, &b.Writer, &b.Type, &b.OldPrice, &b.DiscountPrice, &image, &category, &language, &b.CreatedAt)
	if err != nil {
		return Book{}, err
	}
	b.ImageURL = image.String
	b.Category = category.String
	b.Language = language.String
	return b, nil
}

func scanPackage(row rowScanner) (Package, error) {
	var p Package
	var image sql.NullString
	var bookIDs pq.StringArray
	err := row.Scan(&p.ID, &p.Name, &p.OldPrice, &p.DiscountPrice, &image, &bookIDs, &p.CreatedAt)
	if err != nil {
		return Package{}, err
	}
	p.ImageURL = image.String
	p.BookIDs = []string(bookIDs)
	return p, nil
}

func collectBooks(rows *sql.Rows) []Book {
	books := make([]Book, 0)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			continue
		}
		books = append(books, b)
	}
	return books
}
