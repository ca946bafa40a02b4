// Package suppliers is the terminal's local supplier book. The PharmaLink
// API exposes no supplier endpoints, so the book lives in the same sqlite
// database as the session.
package suppliers

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"pharmalink/pos/domain"
)

var ErrNotFound = errors.New("supplier not found")

type Repo struct {
	db *sqlx.DB
}

func NewRepo(db *sqlx.DB) *Repo {
	return &Repo{db: db}
}

func validate(s domain.Supplier) error {
	if strings.TrimSpace(s.Name) == "" || strings.TrimSpace(s.Contact) == "" ||
		strings.TrimSpace(s.Email) == "" || strings.TrimSpace(s.Address) == "" {
		return errors.New("name, contact, email and address are required")
	}
	return nil
}

func (r *Repo) List() ([]domain.Supplier, error) {
	suppliers := []domain.Supplier{}
	err := r.db.Select(&suppliers, `SELECT id, name, contact, email, address, created_at FROM suppliers ORDER BY name`)
	return suppliers, err
}

func (r *Repo) Get(id int64) (domain.Supplier, error) {
	var s domain.Supplier
	err := r.db.Get(&s, `SELECT id, name, contact, email, address, created_at FROM suppliers WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Supplier{}, ErrNotFound
	}
	return s, err
}

func (r *Repo) Create(s domain.Supplier) (int64, error) {
	if err := validate(s); err != nil {
		return 0, err
	}
	res, err := r.db.Exec(`INSERT INTO suppliers (name, contact, email, address) VALUES (?, ?, ?, ?)`,
		s.Name, s.Contact, s.Email, s.Address)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) Update(s domain.Supplier) error {
	if err := validate(s); err != nil {
		return err
	}
	res, err := r.db.Exec(`UPDATE suppliers SET name = ?, contact = ?, email = ?, address = ? WHERE id = ?`,
		s.Name, s.Contact, s.Email, s.Address, s.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(id int64) error {
	res, err := r.db.Exec(`DELETE FROM suppliers WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
