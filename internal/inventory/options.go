package inventory

import "school_ops_backend/internal/models"

// Option resolution: the allowed values for location/user pickers, derived
// from the role context. Pure functions of the context and the raw lists;
// callers recompute whenever either changes.

// FilterAll is the pseudo-value meaning "no constraint" in filter pickers.
const FilterAll = ""

// LocationOptions returns the locations the role may pick. Admins get the
// full set; teachers may only place items at a school. When forFilter is
// true the "all" pseudo-value is prepended so the list can drive a filter
// picker rather than a form field.
func LocationOptions(rc RoleContext, forFilter bool) []string {
	var opts []string
	if forFilter {
		opts = append(opts, FilterAll)
	}
	if rc.IsAdmin() {
		return append(opts, models.LocationSchool, models.LocationHeadquarters, models.LocationUnassigned)
	}
	return append(opts, models.LocationSchool)
}

// UserOptions returns the users the role may assign items to. Admins get
// the full list; teachers only the entry matching their own user id.
func UserOptions(rc RoleContext, users []models.AppUser) []models.AppUser {
	if rc.Role.CanAssignOthers() {
		return users
	}
	for _, u := range users {
		if u.ID == rc.UserID {
			return []models.AppUser{u}
		}
	}
	return nil
}

// SchoolOptions passes the school list through unchanged. The upstream
// backend already scopes schools to the caller's assignment list, so no
// re-filtering happens here.
func SchoolOptions(_ RoleContext, schools []models.School) []models.School {
	return schools
}
