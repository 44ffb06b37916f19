package forms

// DefaultCatalog builds the full set of customer-facing forms. The field
// order of each schema is the order questions are asked in.
func DefaultCatalog() *Catalog {
	return NewCatalog(
		contactSchema(),
		makeClaimSchema(),
		testimonialSchema(),
		newsletterSubscribeSchema(),
		newsletterUnsubscribeSchema(),
		carPurchaseSchema(),
		carSellSchema(),
	)
}

func contactSchema() *Schema {
	return &Schema{
		ID:          "contact",
		Title:       "Contact Inquiry",
		Description: "General contact form for inquiries",
		Fields: []Field{
			{
				Name:   "full_name",
				Label:  "Full Name",
				Rule:   Rule{Type: TypeString, MinLength: 2, MaxLength: 100},
				Prompt: "May I have your full name please?",
			},
			{
				Name:   "email",
				Label:  "Email",
				Rule:   Rule{Type: TypeEmail},
				Prompt: "What's the best email address to reach you at?",
			},
			{
				Name:   "subject",
				Label:  "Subject",
				Rule:   Rule{Type: TypeString, MinLength: 5, MaxLength: 200},
				Prompt: "What's the main topic or subject of your inquiry?",
			},
			{
				Name:   "message",
				Label:  "Message",
				Rule:   Rule{Type: TypeText, MinLength: 10, MaxLength: 1000},
				Prompt: "Please share any additional details about your inquiry. I'm here to help.",
			},
			{
				Name:     "phone",
				Label:    "Phone",
				Rule:     Rule{Type: TypePhone},
				Prompt:   "Would you like to provide a phone number for faster assistance?",
				Optional: true,
			},
		},
	}
}

func makeClaimSchema() *Schema {
	return &Schema{
		ID:          "make_claim",
		Title:       "Accident Claim",
		Description: "Submit vehicle accident claims",
		Fields: []Field{
			{
				Name:   "first_name",
				Label:  "First Name",
				Rule:   Rule{Type: TypeString, MinLength: 2, MaxLength: 50},
				Prompt: "To get started with your claim, may I have your first name?",
			},
			{
				Name:   "last_name",
				Label:  "Last Name",
				Rule:   Rule{Type: TypeString, MinLength: 2, MaxLength: 50},
				Prompt: "And your last name please?",
			},
			{
				Name:   "email",
				Label:  "Email",
				Rule:   Rule{Type: TypeEmail},
				Prompt: "What's your email address so we can keep you updated on your claim?",
			},
			{
				Name:   "phone",
				Label:  "Phone",
				Rule:   Rule{Type: TypePhone},
				Prompt: "What's the best phone number to reach you at regarding your claim?",
			},
			{
				Name:   "full_address",
				Label:  "Address",
				Rule:   Rule{Type: TypeText, MinLength: 10, MaxLength: 500},
				Prompt: "Could you please provide your full address for the claim documentation?",
			},
			{
				Name:   "accident_date",
				Label:  "Accident Date",
				Rule:   Rule{Type: TypeDate},
				Prompt: "When did the accident occur? (Please provide the date)",
			},
			{
				Name:   "vehicle_registration",
				Label:  "Vehicle Registration",
				Rule:   Rule{Type: TypeString, Pattern: `^[A-Z0-9]{1,10}$`},
				Prompt: "What's the registration number of the vehicle involved?",
			},
			{
				Name:   "insurance_company",
				Label:  "Insurance Company",
				Rule:   Rule{Type: TypeString, MinLength: 2, MaxLength: 100},
				Prompt: "Which insurance company handles your policy?",
			},
			{
				Name:   "policy_number",
				Label:  "Policy Number",
				Rule:   Rule{Type: TypeString, MinLength: 5, MaxLength: 50},
				Prompt: "What's your policy number with them?",
			},
			{
				Name:   "accident_details",
				Label:  "Accident Details",
				Rule:   Rule{Type: TypeText, MinLength: 20, MaxLength: 1000},
				Prompt: "Could you please describe what happened in the accident? Any details would be helpful.",
			},
			{
				Name:   "pickup_location",
				Label:  "Pickup Location",
				Rule:   Rule{Type: TypeLocation},
				Prompt: "Where would you like us to pick up the replacement vehicle?",
			},
			{
				Name:   "dropoff_location",
				Label:  "Dropoff Location",
				Rule:   Rule{Type: TypeLocation},
				Prompt: "And where should we deliver it to?",
			},
			{
				Name:     "additional_notes",
				Label:    "Additional Notes",
				Rule:     Rule{Type: TypeText, MaxLength: 500},
				Prompt:   "Is there anything else you'd like to add about your claim?",
				Optional: true,
			},
			{
				Name:     "documents",
				Label:    "Documents",
				Rule:     Rule{Type: TypeFile},
				Optional: true,
			},
		},
	}
}

func testimonialSchema() *Schema {
	return &Schema{
		ID:          "testimonial",
		Title:       "Customer Testimonial",
		Description: "Submit customer feedback and testimonials",
		Fields: []Field{
			{
				Name:   "full_name",
				Label:  "Full Name",
				Rule:   Rule{Type: TypeString, MinLength: 2, MaxLength: 100},
				Prompt: "May I have your name for this testimonial?",
			},
			{
				Name:   "feedback",
				Label:  "Feedback",
				Rule:   Rule{Type: TypeText, MinLength: 10, MaxLength: 1000},
				Prompt: "I'd love to hear about your experience. Please share your feedback with us.",
			},
			{
				Name:   "rating",
				Label:  "Rating",
				Rule:   Rule{Type: TypeInteger, Min: 1, Max: 5, HasRange: true},
				Prompt: "On a scale of 1-5 stars, how would you rate your experience with us?",
			},
			{
				Name:  "service_used",
				Label: "Service Used",
				Rule: Rule{
					Type:    TypeSelect,
					Options: []string{"Car Hire", "Car Rental", "Claims Management", "Car Purchase/Sale"},
				},
				Prompt:   "Which of our services have you used? (Car Hire, Car Rental, Claims Management, or Car Purchase/Sale)",
				Optional: true,
			},
		},
	}
}

func newsletterSubscribeSchema() *Schema {
	return &Schema{
		ID:          "newsletter_subscribe",
		Title:       "Newsletter Subscription",
		Description: "Subscribe to newsletter",
		Fields: []Field{
			{
				Name:   "email",
				Label:  "Email",
				Rule:   Rule{Type: TypeEmail},
				Prompt: "What's your email address for the newsletter subscription?",
			},
		},
	}
}

func newsletterUnsubscribeSchema() *Schema {
	return &Schema{
		ID:          "newsletter_unsubscribe",
		Title:       "Newsletter Unsubscription",
		Description: "Unsubscribe from newsletter",
		Fields: []Field{
			{
				Name:   "email",
				Label:  "Email",
				Rule:   Rule{Type: TypeEmail},
				Prompt: "What's the email address you'd like to unsubscribe from our newsletter?",
			},
		},
	}
}

func carPurchaseSchema() *Schema {
	return &Schema{
		ID:          "car_purchase",
		Title:       "Car Purchase Request",
		Description: "Submit interest in purchasing a vehicle",
		Fields: []Field{
			{
				Name:   "name",
				Label:  "Name",
				Rule:   Rule{Type: TypeString, MinLength: 2, MaxLength: 100},
				Prompt: "May I have your full name for this purchase inquiry?",
			},
			{
				Name:   "email",
				Label:  "Email",
				Rule:   Rule{Type: TypeEmail},
				Prompt: "What's your email address so we can discuss the vehicle details?",
			},
			{
				Name:   "phone",
				Label:  "Phone",
				Rule:   Rule{Type: TypePhone},
				Prompt: "And your phone number for any immediate questions?",
			},
			{
				Name:     "message",
				Label:    "Message",
				Rule:     Rule{Type: TypeText, MaxLength: 500},
				Prompt:   "Is there anything specific you'd like to know about this vehicle?",
				Optional: true,
			},
			{
				Name:     "offer_price",
				Label:    "Offer Price",
				Rule:     Rule{Type: TypeNumber, Min: 0, Max: 1e9, HasRange: true},
				Prompt:   "Do you have an offer price in mind for this vehicle?",
				Optional: true,
			},
			{
				Name:     "financing_required",
				Label:    "Financing Required",
				Rule:     Rule{Type: TypeBoolean},
				Prompt:   "Are you interested in financing options for this purchase?",
				Optional: true,
			},
			{
				Name:     "trade_in_details",
				Label:    "Trade-in Details",
				Rule:     Rule{Type: TypeText, MaxLength: 500},
				Prompt:   "Do you have a vehicle you'd like to trade in?",
				Optional: true,
			},
		},
	}
}

func carSellSchema() *Schema {
	return &Schema{
		ID:          "car_sell",
		Title:       "Sell Vehicle Request",
		Description: "Submit request to sell a vehicle",
		Fields: []Field{
			{
				Name:   "name",
				Label:  "Name",
				Rule:   Rule{Type: TypeString, MinLength: 2, MaxLength: 100},
				Prompt: "May I have your name for this vehicle sale inquiry?",
			},
			{
				Name:   "vehicle_make",
				Label:  "Vehicle Make",
				Rule:   Rule{Type: TypeString, MinLength: 2, MaxLength: 50},
				Prompt: "What's the make of the vehicle you'd like to sell?",
			},
			{
				Name:   "vehicle_model",
				Label:  "Vehicle Model",
				Rule:   Rule{Type: TypeString, MinLength: 2, MaxLength: 50},
				Prompt: "And the model?",
			},
			{
				Name:     "email",
				Label:    "Email",
				Rule:     Rule{Type: TypeEmail},
				Prompt:   "What's your email address so we can discuss the valuation?",
				Optional: true,
			},
			{
				Name:     "phone",
				Label:    "Phone",
				Rule:     Rule{Type: TypePhone},
				Prompt:   "And your phone number for coordination?",
				Optional: true,
			},
			{
				Name:     "vehicle_year",
				Label:    "Vehicle Year",
				Rule:     Rule{Type: TypeInteger, Min: 1900, Max: 2030, HasRange: true},
				Prompt:   "What year was it manufactured?",
				Optional: true,
			},
			{
				Name:     "mileage",
				Label:    "Mileage",
				Rule:     Rule{Type: TypeInteger, Min: 0, Max: 2000000, HasRange: true},
				Prompt:   "What's the current mileage on the vehicle?",
				Optional: true,
			},
			{
				Name:     "message",
				Label:    "Message",
				Rule:     Rule{Type: TypeText, MaxLength: 500},
				Prompt:   "Is there anything specific you'd like to tell us about the vehicle?",
				Optional: true,
			},
			{
				Name:     "vehicle_image",
				Label:    "Vehicle Image",
				Rule:     Rule{Type: TypeFile},
				Optional: true,
			},
		},
	}
}
