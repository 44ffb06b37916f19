package conversation

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// ContextSection is one titled block of editable help content used to
// ground general-intent responses.
type ContextSection struct {
	Section      string
	Title        string
	Content      string
	DisplayOrder int
}

// KnowledgeStore supplies the ordered context sections for the response
// generator.
type KnowledgeStore interface {
	Sections(ctx context.Context) ([]ContextSection, error)
}

// StaticKnowledge serves a fixed in-process section set. It backs tests
// and deployments without a database.
type StaticKnowledge struct {
	sections []ContextSection
}

func NewStaticKnowledge(sections []ContextSection) *StaticKnowledge {
	sorted := make([]ContextSection, len(sections))
	copy(sorted, sections)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DisplayOrder < sorted[j].DisplayOrder
	})
	return &StaticKnowledge{sections: sorted}
}

func (s *StaticKnowledge) Sections(_ context.Context) ([]ContextSection, error) {
	out := make([]ContextSection, len(s.sections))
	copy(out, s.sections)
	return out, nil
}

// DefaultKnowledge returns the baseline company content shipped with the
// service. A Postgres-backed store replaces it once sections are edited.
func DefaultKnowledge() *StaticKnowledge {
	return NewStaticKnowledge([]ContextSection{
		{
			Section:      "intro",
			Title:        "Chatbot Introduction",
			DisplayOrder: 0,
			Content: `Welcome to Prestige Car Hire Management! I'm your AI assistant, here to help you with all your car hire needs.

I can assist you with:
- Car hire bookings and reservations
- Vehicle information and fleet details
- Insurance claims and accident reporting
- Car sales and purchases
- General inquiries and support

Feel free to ask me anything, and I'll do my best to help you. How can I assist you today?`,
		},
		{
			Section:      "company",
			Title:        "Company Information",
			DisplayOrder: 1,
			Content: `Prestige Car Hire Management is a leading car hire service provider specializing in luxury and premium vehicle rentals.

We pride ourselves on:
- Exceptional customer service
- A diverse fleet of high-quality vehicles
- Competitive pricing and flexible rental options
- Comprehensive insurance coverage
- Professional and reliable service

Our mission is to provide you with the best car hire experience, whether you need a vehicle for business, leisure, or special occasions.`,
		},
		{
			Section:      "services",
			Title:        "Services Overview",
			DisplayOrder: 2,
			Content: `Prestige Car Hire Management offers a comprehensive range of services:

1. **Car Hire & Rentals**: Short-term and long-term vehicle rentals for all your needs
2. **Vehicle Sales**: Buy quality pre-owned vehicles from our fleet
3. **Insurance Services**: Comprehensive insurance coverage and claims management
4. **Fleet Management**: Professional fleet solutions for businesses
5. **Personal Assistance**: Dedicated support for your car hire needs
6. **Introducer Support**: Specialized services for introducers and partners

We cater to individuals, businesses, and organizations with flexible solutions tailored to your requirements.`,
		},
		{
			Section:      "faqs",
			Title:        "Frequently Asked Questions",
			DisplayOrder: 3,
			Content: `Common questions and answers:

**Q: What documents do I need to rent a car?**
A: You'll typically need a valid driving license, proof of identity, and a credit card for the security deposit.

**Q: What is included in the rental price?**
A: The rental price includes the vehicle, basic insurance, and roadside assistance. Additional services may incur extra charges.

**Q: Can I extend my rental period?**
A: Yes, subject to vehicle availability. Please contact us in advance to arrange an extension.

**Q: What happens if I have an accident?**
A: Contact us immediately, and we'll guide you through the claims process. We have comprehensive insurance coverage.

**Q: Do you offer long-term rentals?**
A: Yes, we offer both short-term and long-term rental options with competitive rates.`,
		},
		{
			Section:      "pricing",
			Title:        "Pricing Information",
			DisplayOrder: 4,
			Content: `Our pricing is competitive and transparent, with rates based on:

- Vehicle type and model
- Rental duration (daily, weekly, monthly)
- Seasonal demand
- Additional services and insurance options

For specific pricing information, please contact us or use our online booking system to get an instant quote.`,
		},
		{
			Section:      "contact",
			Title:        "Contact Details",
			DisplayOrder: 5,
			Content: `Get in touch with us:

**Email**: info@prestigecarhire.co.uk
**Phone**: Please contact us via email for our current phone number

**Office Hours**:
- Monday to Friday: 9:00 AM - 6:00 PM
- Saturday: 10:00 AM - 4:00 PM
- Sunday: Closed

**Address**: Please contact us at info@prestigecarhire.co.uk for our current office address and location.

We aim to respond to all inquiries within 24 hours during business days.`,
		},
		{
			Section:      "policies",
			Title:        "Company Policies",
			DisplayOrder: 6,
			Content: `Our policies ensure a smooth and fair experience for all customers:

**Rental Policies**:
- Minimum age requirement: 21 years (may vary by vehicle type)
- Valid driving license required
- Security deposit required for all rentals

**Cancellation Policy**:
- Free cancellation up to 24 hours before pickup
- Cancellation fees may apply for last-minute cancellations

**Insurance Coverage**:
- Comprehensive insurance included in all rentals
- Additional coverage options available`,
		},
		{
			Section:      "emergency",
			Title:        "Emergency Services",
			DisplayOrder: 7,
			Content: `In case of emergencies or urgent situations:

**Roadside Assistance**:
- 24/7 roadside assistance included with all rentals
- Contact our emergency hotline (provided at pickup)

**Accident Reporting**:
- If you're involved in an accident, contact us immediately
- Do not admit fault or liability
- Take photos and gather witness information if safe to do so

Your safety and peace of mind are our top priorities.`,
		},
	})
}

// PostgresKnowledge reads active context sections from the database.
type PostgresKnowledge struct {
	db     querier
	tracer trace.Tracer
}

func NewPostgresKnowledge(pool *pgxpool.Pool) *PostgresKnowledge {
	if pool == nil {
		panic("conversation: knowledge store requires a pgx pool")
	}
	return newPostgresKnowledgeWithExec(pool)
}

func newPostgresKnowledgeWithExec(db querier) *PostgresKnowledge {
	return &PostgresKnowledge{
		db:     db,
		tracer: otel.Tracer("conversation/knowledge"),
	}
}

func (s *PostgresKnowledge) Sections(ctx context.Context) ([]ContextSection, error) {
	ctx, span := s.tracer.Start(ctx, "knowledge.sections")
	defer span.End()

	rows, err := s.db.Query(ctx, `
		SELECT section, title, content, display_order
		FROM context_sections
		WHERE is_active = TRUE
		ORDER BY display_order, section`)
	if err != nil {
		return nil, fmt.Errorf("conversation: query context sections: %w", err)
	}
	defer rows.Close()

	var sections []ContextSection
	for rows.Next() {
		var sec ContextSection
		if err := rows.Scan(&sec.Section, &sec.Title, &sec.Content, &sec.DisplayOrder); err != nil {
			return nil, fmt.Errorf("conversation: scan context section: %w", err)
		}
		sections = append(sections, sec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("conversation: iterate context sections: %w", err)
	}
	return sections, nil
}

// RenderSections joins sections into the prompt context block.
func RenderSections(sections []ContextSection) string {
	if len(sections) == 0 {
		return "Prestige Car Hire Management - Car hire and vehicle rental services."
	}
	parts := make([]string, 0, len(sections))
	for _, sec := range sections {
		parts = append(parts, fmt.Sprintf("=== %s ===\n%s", sec.Title, sec.Content))
	}
	return strings.Join(parts, "\n\n")
}
