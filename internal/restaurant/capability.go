package restaurant

// CheckManager fails with ErrNotManager unless m is bound to r.
func (r *Restaurant) CheckManager(m Management) error {
	if m.RestaurantID != r.ID {
		return ErrNotManager
	}
	return nil
}
