package customer

type Customer struct {
	ID          int64  `json:"id"`
	PhoneNumber string `json:"phoneNumber"`
	LoanOfferID *int64 `json:"loanOfferId,omitempty"`
}

func NewCustomer(id int64, phoneNumber string) *Customer {
	return &Customer{
		ID:          id,
		PhoneNumber: phoneNumber,
	}
}

func (c *Customer) HasOffer() bool {
	return c.LoanOfferID != nil
}

// AssignOffer links the customer to offerID. It refuses to replace an
// existing link.
func (c *Customer) AssignOffer(offerID int64) error {
	if c.HasOffer() {
		return ErrAlreadyAssigned
	}
	c.LoanOfferID = &offerID
	return nil
}
