package model

// Customer is customer model entity
type Customer struct {
	ID       int     `json:"id" msgpack:"id"`
	Name     string  `json:"name" msgpack:"name"`
	Email    string  `json:"email" msgpack:"email"`
	Phone    *string `json:"phone" msgpack:"phone"`
	PostCode *string `json:"postCode" msgpack:"postCode"`
	Country  *string `json:"country" msgpack:"country"`
}

// IsNew reports whether customer hasn't been persisted yet
func (c *Customer) IsNew() bool {
	return c.ID == 0
}

// Value dereferences optional field, nil is returned as empty string
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Optional returns pointer to s or nil if s is empty
func Optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
