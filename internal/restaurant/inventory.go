package restaurant

// AddProduct appends a new in-stock product and returns its id.
func (r *Restaurant) AddProduct(m Management, title, description string, price, supply uint64, category uint8) (uint64, error) {
	if err := r.CheckManager(m); err != nil {
		return 0, err
	}
	if price == 0 {
		return 0, ErrInvalidPrice
	}
	if supply == 0 {
		return 0, ErrInvalidSupply
	}

	id := uint64(len(r.Products))
	r.Products = append(r.Products, Product{
		ID:          id,
		Title:       title,
		Description: description,
		Price:       price,
		InStock:     true,
		Category:    category,
		TotalSupply: supply,
		Available:   supply,
	})
	r.ProductCount++

	return id, nil
}

// RemoveProductFromStock marks a product as not for sale. Available is untouched.
func (r *Restaurant) RemoveProductFromStock(m Management, id uint64) error {
	if err := r.CheckManager(m); err != nil {
		return err
	}
	if !r.validID(id) {
		return ErrInvalidID
	}

	r.Products[id].InStock = false
	return nil
}

// RestockProduct marks a product as for sale again.
//
// It does not look at Available: a sold-out product can be flagged in stock,
// and BuyProduct will still refuse any quantity it cannot cover.
func (r *Restaurant) RestockProduct(m Management, id uint64) error {
	if err := r.CheckManager(m); err != nil {
		return err
	}
	if !r.validID(id) {
		return ErrInvalidID
	}

	r.Products[id].InStock = true
	return nil
}

// ChangeProductCategory overwrites the category code.
func (r *Restaurant) ChangeProductCategory(m Management, id uint64, category uint8) error {
	if err := r.CheckManager(m); err != nil {
		return err
	}
	if !r.validID(id) {
		return ErrInvalidID
	}

	r.Products[id].Category = category
	return nil
}
