package services

import "pet-adoption-api/models"

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID uint
	Role   string
}

func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

func (a Actor) IsStaff() bool {
	return a.Role == models.RoleAdmin || a.Role == models.RoleModerator
}

// owns reports whether the actor may act on behalf of ownerID.
func (a Actor) owns(ownerID uint) bool {
	return a.IsAdmin() || a.UserID == ownerID
}
