package models

// ContactRecord is one advisor entry scraped from a result page.
// Empty strings mean the field was not found in the block.
type ContactRecord struct {
	Title      string `json:"title" db:"title"`
	Name       string `json:"name" db:"name"`
	Profession string `json:"profession" db:"profession"`
	Company    string `json:"company" db:"company"`
	Address    string `json:"address" db:"address"`
	PostalCode string `json:"postal_code" db:"postal_code"`
	City       string `json:"city" db:"city"`
	Phone      string `json:"phone" db:"phone"`
	Fax        string `json:"fax" db:"fax"`
	Mobile     string `json:"mobile" db:"mobile"`
	Email      string `json:"email" db:"email"`
	Website    string `json:"website" db:"website"`
	Chamber    string `json:"chamber" db:"chamber"`
	Key        string `json:"unique_id" db:"identity_key"` // always set by the parser
	FullText   string `json:"full_text" db:"full_text"`    // raw block, kept for auditing
}

// NameOrCompany returns the personal name, falling back to the company name.
func (c *ContactRecord) NameOrCompany() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Company
}

// Column names of the export sheet, in their fixed order. FullText is
// written after these.
const (
	ColName       = "name"
	ColTitle      = "title"
	ColProfession = "profession"
	ColCompany    = "company"
	ColAddress    = "address"
	ColPostalCode = "postal_code"
	ColCity       = "city"
	ColPhone      = "phone"
	ColFax        = "fax"
	ColMobile     = "mobile"
	ColEmail      = "email"
	ColWebsite    = "website"
	ColChamber    = "chamber"
	ColFullText   = "full_text"
)

var ContactColumns = []string{
	ColName, ColTitle, ColProfession, ColCompany, ColAddress, ColPostalCode, ColCity,
	ColPhone, ColFax, ColMobile, ColEmail, ColWebsite, ColChamber,
}

// Field returns the value stored under an export column name.
func (c *ContactRecord) Field(column string) string {
	switch column {
	case ColName:
		return c.Name
	case ColTitle:
		return c.Title
	case ColProfession:
		return c.Profession
	case ColCompany:
		return c.Company
	case ColAddress:
		return c.Address
	case ColPostalCode:
		return c.PostalCode
	case ColCity:
		return c.City
	case ColPhone:
		return c.Phone
	case ColFax:
		return c.Fax
	case ColMobile:
		return c.Mobile
	case ColEmail:
		return c.Email
	case ColWebsite:
		return c.Website
	case ColChamber:
		return c.Chamber
	case ColFullText:
		return c.FullText
	default:
		return ""
	}
}
