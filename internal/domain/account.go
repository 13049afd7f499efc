package domain

import "time"

// Role tags which identity space an account lives in.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleBuyer || r == RoleSeller
}

// Principal is the identity asserted by a session token.
type Principal struct {
	AccountID   string `json:"account_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        Role   `json:"role"`
}

// Identity is the part of an account shared by both roles.
type Identity struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Credential is a login candidate returned by the cross-space email lookup.
type Credential struct {
	AccountID    string
	DisplayName  string
	Email        string
	PasswordHash string
	Role         Role
}

// Principal projects the credential into token claims.
func (c Credential) Principal() Principal {
	return Principal{AccountID: c.AccountID, Email: c.Email, DisplayName: c.DisplayName, Role: c.Role}
}

// Buyer is an account in the buyer identity space.
type Buyer struct {
	Identity
	Name string
}

// Principal returns the token claims for the buyer.
func (b *Buyer) Principal() Principal {
	return Principal{AccountID: b.ID, Email: b.Email, DisplayName: b.Name, Role: RoleBuyer}
}

// Seller is an account in the seller identity space.
type Seller struct {
	Identity
	FirstName   string
	LastName    string
	Username    string
	PhoneNumber string
	DateOfBirth string
	Gender      string
	Country     string
	Timezone    string
	Description string
	Profile     SellerProfile
	Image       *StoredImage
}

// Principal returns the token claims for the seller.
func (s *Seller) Principal() Principal {
	return Principal{AccountID: s.ID, Email: s.Email, DisplayName: s.FirstName, Role: RoleSeller}
}

// SellerProfile is the structured part of a seller record, persisted as one JSON document.
type SellerProfile struct {
	Skills     []string          `json:"skills"`
	Education  []EducationEntry  `json:"education"`
	Experience []ExperienceEntry `json:"experience"`
}

// EducationEntry describes a completed or ongoing course of study.
type EducationEntry struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Year        int    `json:"year,omitempty"`
}

// ExperienceEntry describes a past or current position.
type ExperienceEntry struct {
	Company string `json:"company"`
	Title   string `json:"title"`
	Years   int    `json:"years,omitempty"`
}

// StoredImage references an object held by the external image store.
type StoredImage struct {
	URL string
	Key string
}
