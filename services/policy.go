package services

import "salonbook-backend/models"

// Capability checks shared by route gates and domain services.

func IsAdmin(u *models.User) bool {
	return u != nil && u.Role == models.RoleAdmin
}

func IsStaffOrAdmin(u *models.User) bool {
	return u != nil && (u.Role == models.RoleStaff || u.Role == models.RoleAdmin)
}

func CanManageCatalog(u *models.User) bool {
	return IsAdmin(u)
}

func CanManagePromotions(u *models.User) bool {
	return IsAdmin(u)
}

func CanViewAppointment(u *models.User, a *models.Appointment) bool {
	return IsAdmin(u) || (u != nil && a.UserID == u.ID)
}

// CanRequestTransition lets admins request any transition; everyone else may
// only cancel an appointment they own.
func CanRequestTransition(u *models.User, a *models.Appointment, target models.AppointmentStatus) bool {
	if IsAdmin(u) {
		return true
	}
	return u != nil && a.UserID == u.ID && target == models.StatusCancelled
}

func CanModifyReview(u *models.User, r *models.Review) bool {
	return u != nil && r.UserID == u.ID
}

func CanDeleteReview(u *models.User, r *models.Review) bool {
	return CanModifyReview(u, r) || IsAdmin(u)
}
