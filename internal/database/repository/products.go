package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jask/stockpile/internal/capture"
	"github.com/jask/stockpile/internal/catalog"
	"github.com/jask/stockpile/internal/database"
)

// ProductRepo keeps catalog rows in the products table. It satisfies
// catalog.Backend.
type ProductRepo struct {
	db *sql.DB
}

func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

var _ catalog.Backend = (*ProductRepo)(nil)

func (r *ProductRepo) Insert(ctx context.Context, p catalog.Product) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO products(id, name, description, image_ref, created_at)
	VALUES (?, ?, ?, ?, ?);
	`, p.ID, p.Name, p.Description, nullableRef(p.Image), p.CreatedAt.UTC())
	return err
}

func (r *ProductRepo) Delete(ctx context.Context, id string) (catalog.Product, bool, error) {
	var (
		p     catalog.Product
		found bool
	)
	err := database.WithTx(r.db, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT id, name, description, image_ref, created_at FROM products WHERE id = ?`, id)
		got, err := scanProduct(row)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id); err != nil {
			return err
		}
		p, found = got, true
		return nil
	})
	if err != nil {
		return catalog.Product{}, false, err
	}
	return p, found, nil
}

func (r *ProductRepo) All(ctx context.Context) ([]catalog.Product, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, description, image_ref, created_at FROM products ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []catalog.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (catalog.Product, error) {
	var (
		p       catalog.Product
		image   sql.NullString
		created time.Time
	)
	if err := s.Scan(&p.ID, &p.Name, &p.Description, &image, &created); err != nil {
		return catalog.Product{}, err
	}
	p.Image = capture.ImageRef(image.String)
	p.CreatedAt = created
	return p, nil
}

func nullableRef(ref capture.ImageRef) any {
	if ref.Empty() {
		return nil
	}
	return string(ref)
}
