package user

import "time"

const (
	RoleAdmin     = "admin"
	RoleManager   = "manager"
	RoleDeveloper = "developer"
)

// Document is the credential record. Password, RefreshToken and the reset
// fields never leave the service; use PublicView or ProfileView outward.
type Document struct {
	Id                   string     `bson:"_id"`
	Email                string     `bson:"email"`
	Password             string     `bson:"password"`
	Name                 string     `bson:"name"`
	Role                 string     `bson:"role"`
	IsActive             bool       `bson:"isActive"`
	RefreshToken         *string    `bson:"refreshToken,omitempty"`
	PasswordResetToken   *string    `bson:"passwordResetToken,omitempty"`
	PasswordResetExpires *time.Time `bson:"passwordResetExpires,omitempty"`
	LastLogin            *time.Time `bson:"lastLogin,omitempty"`
	CreatedAt            time.Time  `bson:"createdAt"`
	UpdatedAt            time.Time  `bson:"updatedAt"`
}

type PublicView struct {
	Id    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type ProfileView struct {
	Id       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	IsActive bool   `json:"isActive"`
}

type UpdateStatusPayload struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

type UpdateStatusResponse struct {
	Id       string `json:"id"`
	IsActive bool   `json:"isActive"`
}

// HasPendingReset is true only when both reset fields are present.
func (d *Document) HasPendingReset() bool {
	return d.PasswordResetToken != nil && d.PasswordResetExpires != nil
}

func (d *Document) PublicView() *PublicView {
	return &PublicView{
		Id:    d.Id,
		Email: d.Email,
		Name:  d.Name,
		Role:  d.Role,
	}
}

func (d *Document) ProfileView() *ProfileView {
	return &ProfileView{
		Id:       d.Id,
		Email:    d.Email,
		Name:     d.Name,
		Role:     d.Role,
		IsActive: d.IsActive,
	}
}

func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleDeveloper:
		return true
	default:
		return false
	}
}
