package restaurant

// CheckProductAvailability returns how many units are left.
func CheckProductAvailability(p Product) uint64 {
	return p.Available
}

// CheckProductStock returns the in-stock flag.
func CheckProductStock(p Product) bool {
	return p.InStock
}
