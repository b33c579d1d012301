package seed

// File represents the top-level structure of subscriptions.yaml
type File struct {
	Subscriptions []Entry `yaml:"subscriptions"`
}

// Entry contains one seeded subscription as written by the user
type Entry struct {
	Name          string  `yaml:"name"`
	Price         float64 `yaml:"price"`
	Currency      string  `yaml:"currency,omitempty"`
	BillingCycle  string  `yaml:"billing_cycle"`
	FirstBillDate string  `yaml:"first_bill_date"` // "2006-01-02"
	Category      string  `yaml:"category,omitempty"`
	Description   string  `yaml:"description,omitempty"`
	WebsiteURL    string  `yaml:"website_url,omitempty"`
	Active        *bool   `yaml:"active,omitempty"` // nil = active
}
