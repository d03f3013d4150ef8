package domain

import "time"

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	SellerID    string    `json:"seller"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	Category    string    `json:"category"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// OwnedBy reports whether u may edit p: its seller or any admin.
func (p *Product) OwnedBy(u *User) bool {
	return u != nil && (p.SellerID == u.ID || u.Role == RoleAdmin)
}
