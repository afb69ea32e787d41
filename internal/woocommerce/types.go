package woocommerce

import "time"

// dateLayout is the format WooCommerce uses for date_created_gmt (no zone suffix).
const dateLayout = "2006-01-02T15:04:05"

// Order is the subset of a WooCommerce order the poller reports.
type Order struct {
	ID             int64      `json:"id"`
	Number         string     `json:"number"`
	Status         string     `json:"status"`
	Total          string     `json:"total"`
	Currency       string     `json:"currency"`
	DateCreated    string     `json:"date_created"`
	DateCreatedGMT string     `json:"date_created_gmt"`
	CustomerNote   string     `json:"customer_note,omitempty"`
	Billing        Address    `json:"billing"`
	LineItems      []LineItem `json:"line_items"`
}

// CreatedAt parses DateCreatedGMT. It returns the zero time when the field is malformed.
func (o Order) CreatedAt() time.Time {
	t, err := time.Parse(dateLayout, o.DateCreatedGMT)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

type Address struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
}

type LineItem struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Total    string `json:"total"`
}

// SystemStatus is the part of GET /system_status used to confirm a connection.
type SystemStatus struct {
	Environment Environment `json:"environment"`
}

type Environment struct {
	HomeURL   string `json:"home_url"`
	SiteURL   string `json:"site_url"`
	WCVersion string `json:"version"`
	WPVersion string `json:"wp_version"`
	Multisite bool   `json:"wp_multisite"`
}
