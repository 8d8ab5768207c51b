package memory

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrCustomerNotFound is returned for lookups of unknown customer ids.
var ErrCustomerNotFound = errors.New("customer not found")

// Relationship strength progresses as trust builds.
const (
	RelationshipNew      = "new"
	RelationshipWarm     = "warm"
	RelationshipHot      = "hot"
	RelationshipChampion = "champion"
)

// Customer is one prospect or account profile.
type Customer struct {
	ID                   string   `json:"customer_id"`
	CompanyName          string   `json:"company_name"`
	Industry             string   `json:"industry,omitempty"`
	CompanySize          string   `json:"company_size,omitempty"`
	Website              string   `json:"website,omitempty"`
	ContactName          string   `json:"contact_name,omitempty"`
	ContactTitle         string   `json:"contact_title,omitempty"`
	ContactEmail         string   `json:"contact_email,omitempty"`
	ContactPhone         string   `json:"contact_phone,omitempty"`
	BudgetRange          string   `json:"budget_range,omitempty"`
	DecisionTimeline     string   `json:"decision_timeline,omitempty"`
	RelationshipStrength string   `json:"relationship_strength"`
	EngagementLevel      int      `json:"engagement_level"`
	Tags                 []string `json:"tags,omitempty"`
	CreatedAt            string   `json:"created_at"`
	UpdatedAt            string   `json:"updated_at"`
}

// UpdateCustomerParams holds partial update fields; nil means unchanged.
type UpdateCustomerParams struct {
	Industry             *string
	CompanySize          *string
	Website              *string
	ContactName          *string
	ContactTitle         *string
	ContactEmail         *string
	ContactPhone         *string
	BudgetRange          *string
	DecisionTimeline     *string
	RelationshipStrength *string
	EngagementLevel      *int
	Tags                 []string
}

func validRelationship(s string) bool {
	switch s {
	case RelationshipNew, RelationshipWarm, RelationshipHot, RelationshipChampion:
		return true
	}
	return false
}

// CreateCustomer registers a new customer for the company.
func (s *Store) CreateCustomer(companyName string) (*Customer, error) {
	if strings.TrimSpace(companyName) == "" {
		return nil, fmt.Errorf("memory: company name is required")
	}

	now := stamp()
	c := &Customer{
		ID:                   fmt.Sprintf("CUST-%s-%s", timeNow().UTC().Format("20060102150405"), uuid.NewString()[:8]),
		CompanyName:          companyName,
		RelationshipStrength: RelationshipNew,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	_, err := s.db.Exec(`
		INSERT INTO customers (id, company_name, relationship_strength, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.CompanyName, c.RelationshipStrength, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("memory: create customer: %w", err)
	}
	return c, nil
}

const customerColumns = `id, company_name, industry, company_size, website,
	contact_name, contact_title, contact_email, contact_phone,
	budget_range, decision_timeline, relationship_strength,
	engagement_level, tags, created_at, updated_at`

func scanCustomer(row *sql.Row) (*Customer, error) {
	var c Customer
	var tags string
	err := row.Scan(&c.ID, &c.CompanyName, &c.Industry, &c.CompanySize, &c.Website,
		&c.ContactName, &c.ContactTitle, &c.ContactEmail, &c.ContactPhone,
		&c.BudgetRange, &c.DecisionTimeline, &c.RelationshipStrength,
		&c.EngagementLevel, &tags, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if tags != "" {
		c.Tags = strings.Split(tags, ",")
	}
	return &c, nil
}

// GetCustomer returns the customer by id, or ErrCustomerNotFound.
func (s *Store) GetCustomer(id string) (*Customer, error) {
	row := s.db.QueryRow(`SELECT `+customerColumns+` FROM customers WHERE id = ?`, id)
	c, err := scanCustomer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrCustomerNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("memory: get customer: %w", err)
	}
	return c, nil
}

// FindCustomerByCompany returns the customer whose company name matches
// case-insensitively, or ErrCustomerNotFound.
func (s *Store) FindCustomerByCompany(companyName string) (*Customer, error) {
	row := s.db.QueryRow(`
		SELECT `+customerColumns+` FROM customers
		WHERE company_name = ? COLLATE NOCASE
		ORDER BY created_at LIMIT 1`, companyName)
	c, err := scanCustomer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: company %q", ErrCustomerNotFound, companyName)
	}
	if err != nil {
		return nil, fmt.Errorf("memory: find customer: %w", err)
	}
	return c, nil
}

// UpdateCustomer applies the non-nil fields and returns the updated
// profile.
func (s *Store) UpdateCustomer(id string, p UpdateCustomerParams) (*Customer, error) {
	if p.RelationshipStrength != nil && !validRelationship(*p.RelationshipStrength) {
		return nil, fmt.Errorf("memory: invalid relationship strength %q", *p.RelationshipStrength)
	}
	if p.EngagementLevel != nil && (*p.EngagementLevel < 0 || *p.EngagementLevel > 10) {
		return nil, fmt.Errorf("memory: engagement level %d out of range 0-10", *p.EngagementLevel)
	}

	set := []string{"updated_at = ?"}
	args := []any{stamp()}
	field := func(name string, v *string) {
		if v != nil {
			set = append(set, name+" = ?")
			args = append(args, *v)
		}
	}
	field("industry", p.Industry)
	field("company_size", p.CompanySize)
	field("website", p.Website)
	field("contact_name", p.ContactName)
	field("contact_title", p.ContactTitle)
	field("contact_email", p.ContactEmail)
	field("contact_phone", p.ContactPhone)
	field("budget_range", p.BudgetRange)
	field("decision_timeline", p.DecisionTimeline)
	field("relationship_strength", p.RelationshipStrength)
	if p.EngagementLevel != nil {
		set = append(set, "engagement_level = ?")
		args = append(args, *p.EngagementLevel)
	}
	if p.Tags != nil {
		set = append(set, "tags = ?")
		args = append(args, strings.Join(p.Tags, ","))
	}
	args = append(args, id)

	res, err := s.db.Exec(`UPDATE customers SET `+strings.Join(set, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("memory: update customer: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("%w: %q", ErrCustomerNotFound, id)
	}
	return s.GetCustomer(id)
}
