package domain

// Supplier lives in the terminal's local store; the PharmaLink API has no
// supplier endpoints.
type Supplier struct {
	ID        int64  `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Contact   string `db:"contact" json:"contact"`
	Email     string `db:"email" json:"email"`
	Address   string `db:"address" json:"address"`
	CreatedAt string `db:"created_at" json:"created_at,omitempty"`
}
