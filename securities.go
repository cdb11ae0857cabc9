package folio

// Security is a catalog entry describing an instrument the ledger can
// trade: display name, raw class label from the broker, and the lot
// constraints the rebalancer must respect.
type Security struct {
	Symbol string `json:"security"`
	Name   string `json:"name,omitempty"`
	// RawClass is the class label as imported. The normalized class is
	// derived, never stored.
	RawClass string `json:"class,omitempty"`
	// QtyStep is the increment quantities must be traded in. Zero means
	// unconstrained.
	QtyStep Quantity `json:"qty_step,omitempty"`
	// Fractional marks instruments that trade in fractional units
	// regardless of QtyStep.
	Fractional bool `json:"fractional,omitempty"`
}

// Class returns the normalized asset class of the security.
func (s Security) Class() AssetClass {
	return NormalizeAssetClass(s.Symbol, s.RawClass)
}

// MarshalJSON writes fields in a stable order.
func (s Security) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("security", s.Symbol)
	w.Optional("name", s.Name)
	w.Optional("class", s.RawClass)
	if !s.QtyStep.IsZero() {
		w.Append("qty_step", s.QtyStep)
	}
	if s.Fractional {
		w.Append("fractional", true)
	}
	return w.MarshalJSON()
}
