package booking

import "strings"

// Card is the payment form. Number and name are required, expiry (MM/YY)
// and CVV are only checked when filled in.
type Card struct {
	Number     string `json:"cardNumber" validate:"required,numeric,max=16"`
	NameOnCard string `json:"nameOnCard" validate:"required"`
	ExpiryDate string `json:"expiryDate" validate:"omitempty,card_expiry"`
	CVV        string `json:"cvv" validate:"omitempty,numeric,min=3,max=4"`
}

func (c Card) normalized() Card {
	number := strings.NewReplacer(" ", "", "-", "").Replace(c.Number)
	return Card{
		Number:     strings.TrimSpace(number),
		NameOnCard: strings.TrimSpace(c.NameOnCard),
		ExpiryDate: strings.TrimSpace(c.ExpiryDate),
		CVV:        strings.TrimSpace(c.CVV),
	}
}
