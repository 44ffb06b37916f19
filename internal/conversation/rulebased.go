package conversation

import (
	"regexp"
	"strings"
)

// ultimateFallbackMessage is the response of last resort: returned when
// every tier above the rule engine has failed.
const ultimateFallbackMessage = "I'm here to help with car hire and related services. How can I assist you today?"

// RuleBasedResult is the outcome of a rule-engine turn.
type RuleBasedResult struct {
	Message    string
	Intent     string
	Confidence float64
	IsLead     bool
}

type ruleCategory struct {
	name      string
	patterns  []*regexp.Regexp
	keywords  []string
	responses []string
}

// leadIntents are the classifications that mark a conversation as a
// sales or claims opportunity.
var leadIntents = map[string]bool{
	"booking":       true,
	"pricing":       true,
	"contact":       true,
	"vehicle_types": true,
	"delivery":      true,
	"car_sales":     true,
	"car_sell":      true,
	"make_claim":    true,
}

// RuleBasedResponder answers entirely from keyword and pattern matching.
// It is the bottom tier of the response cascade and never fails.
type RuleBasedResponder struct {
	categories []ruleCategory
}

func NewRuleBasedResponder() *RuleBasedResponder {
	return &RuleBasedResponder{categories: buildRuleCategories()}
}

// ClassifyIntent scores the message against every category and returns
// the best intent with a normalized confidence.
func (r *RuleBasedResponder) ClassifyIntent(message string) (string, float64) {
	lower := strings.ToLower(strings.TrimSpace(message))
	if lower == "" {
		return "unclear", 0.0
	}

	scores := make(map[string]float64)
	for _, cat := range r.categories {
		score := 0.0
		for _, re := range cat.patterns {
			matches := len(re.FindAllString(lower, -1))
			if matches > 0 {
				score += float64(matches) * 0.3
				if matches > 1 {
					score += 0.2
				}
			}
		}
		for _, kw := range cat.keywords {
			if strings.Contains(lower, kw) {
				score += 0.5
			}
		}
		if score > 0 {
			scores[cat.name] = score
		}
	}

	// Lead-generating intents get an extra boost so that "sell my car"
	// beats the generic categories its words also match.
	for intent, boost := range map[string]float64{
		"car_sales":  0.6,
		"car_sell":   0.6,
		"make_claim": 0.6,
		"services":   0.5,
	} {
		if containsAny(lower, boostKeywords[intent]) {
			scores[intent] += boost
		}
	}

	best := ""
	bestScore := 0.0
	for intent, score := range scores {
		if score > bestScore || (score == bestScore && intent < best) {
			best = intent
			bestScore = score
		}
	}
	if best == "" {
		return "general_help", 0.3
	}

	confidence := bestScore / 2.0
	if confidence > 1.0 {
		confidence = 1.0
	}
	return best, confidence
}

// Respond generates a rule-based answer for the message.
func (r *RuleBasedResponder) Respond(message string) RuleBasedResult {
	if strings.TrimSpace(message) == "" {
		return RuleBasedResult{
			Message: "I'm here to help! Please let me know what you need assistance with.",
			Intent:  "unclear",
		}
	}

	intent, confidence := r.ClassifyIntent(strings.TrimSpace(message))
	return RuleBasedResult{
		Message:    r.responseFor(intent, message),
		Intent:     intent,
		Confidence: confidence,
		IsLead:     leadIntents[intent],
	}
}

func (r *RuleBasedResponder) responseFor(intent, message string) string {
	for _, cat := range r.categories {
		if cat.name == intent && len(cat.responses) > 0 {
			return cat.responses[0]
		}
	}
	if intent == "unclear" {
		if len(strings.Fields(message)) <= 2 {
			return "I'm here to help! Could you tell me more about what you need? For example, are you looking to book a vehicle, get pricing information, or have questions about our services?"
		}
		return "I want to make sure I understand correctly. Could you rephrase your question or provide more details?"
	}
	return "I'm here to help with car hire and related services. Could you provide more details about what you're looking for?"
}

var boostKeywords = map[string][]string{
	"car_sales":  {"buy", "purchase", "car sales", "buying", "finance"},
	"car_sell":   {"sell", "selling", "trade in", "trade-in", "valuation", "value my car"},
	"make_claim": {"claim", "accident", "make a claim", "file claim", "replacement vehicle"},
	"services":   {"services", "what we do", "what do you offer", "personal assistance", "introducer"},
}

func buildRuleCategories() []ruleCategory {
	return []ruleCategory{
		{
			name: "greeting",
			patterns: compileAll(
				`\b(hi|hello|hey|greetings|good morning|good afternoon|good evening)\b`,
				`\b(how are you|how'?s it going|how do you do)\b`,
			),
			keywords: []string{"hello", "hi", "hey", "greetings"},
			responses: []string{
				"Hello! Welcome to Prestige Car Hire Management. I'm here to help you with all your car hire needs. How can I assist you today?",
				"Hi there! Thanks for reaching out to Prestige Car Hire. What can I help you with today?",
			},
		},
		{
			name: "company_info",
			patterns: compileAll(
				`\b(who are you|what is|tell me about|about you|company|business|services|what do you do)\b`,
				`\b(prestige|car hire|rental|fleet)\b`,
			),
			responses: []string{
				"Prestige Car Hire Management is a premier car rental service offering luxury and standard vehicles for hire. We provide exceptional customer service, flexible rental options, and a wide range of vehicles to suit your needs.",
			},
		},
		{
			name: "pricing",
			patterns: compileAll(
				`\b(price|cost|fee|rate|charge|how much|pricing|expensive|cheap|budget|affordable)\b`,
				`\b(daily|weekly|monthly|per day|per week|per month)\b`,
				`\b(discount|deal|offer|special|promotion)\b`,
			),
			keywords: []string{"price", "cost", "how much"},
			responses: []string{
				"Our pricing varies depending on the vehicle type, rental duration, and season. We offer competitive rates for daily, weekly, and monthly rentals. For specific pricing quotes, please visit the 'Contact Us' page to get in touch with our team, or check the 'Our Fleet' page to see vehicles and inquire about rates.",
			},
		},
		{
			name: "booking",
			patterns: compileAll(
				`\b(book|reserve|rent|hire|rental|appointment|schedule|availability|available)\b`,
				`\b(need a car|want to rent|looking for|interested in)\b`,
				`\b(pickup|pick up|collect|delivery|drop off|return)\b`,
			),
			keywords: []string{"book", "rent", "hire", "reserve"},
			responses: []string{
				"I'd be happy to help you with a booking! You can browse our available vehicles and make a booking through our website. Visit the 'Our Fleet' page to see all available vehicles, or go to the 'Contact Us' page to speak with our team directly. Would you like me to guide you to a specific page?",
			},
		},
		{
			name: "contact",
			patterns: compileAll(
				`\b(contact|phone|call|email|address|location|where|office|headquarters)\b`,
				`\b(speak to|talk to|reach|get in touch|connect)\b`,
				`\b(phone number|telephone|mobile|landline)\b`,
			),
			keywords: []string{"contact", "phone", "email", "address"},
			responses: []string{
				"You can reach us through our 'Contact Us' page on the website, where you'll find our contact form, email (info@prestigecarhire.co.uk), and phone number. Visit the Contact Us page to get in touch with our team - we're here to help!",
			},
		},
		{
			name: "vehicle_types",
			patterns: compileAll(
				`\b(sedan|suv|sports car|luxury|economy|compact|van|truck|convertible|estate|hatchback)\b`,
				`\b(what cars|which vehicles|fleet|models|brands)\b`,
				`\b(bmw|mercedes|audi|porsche|ferrari|lamborghini|range rover|jaguar)\b`,
			),
			keywords: []string{"car", "vehicle", "sedan", "suv"},
			responses: []string{
				"We offer a wide range of vehicles including economy cars, sedans, SUVs, luxury vehicles, sports cars, and commercial vehicles. To see our full fleet, visit the 'Our Fleet' page on our website where you can browse all available vehicles with details, photos, and specifications.",
			},
		},
		{
			name: "insurance",
			patterns: compileAll(
				`\b(insurance|cover|coverage|insured|claim|accident|damage|liability)\b`,
				`\b(what if|what happens if|protection|policy)\b`,
				`\b(collision|comprehensive|third party)\b`,
			),
			keywords: []string{"insurance", "cover", "coverage"},
			responses: []string{
				"We offer comprehensive insurance coverage options for all rentals. For detailed information about our insurance services, visit the 'Insurance Services' page on our website. If you need to make a claim, you can use the 'Make a Claim' page. Would you like directions to either of these pages?",
			},
		},
		{
			name: "requirements",
			patterns: compileAll(
				`\b(license|driving license|permit|id|identification|age|minimum|requirements|need|required)\b`,
				`\b(how old|age limit|qualifications|eligibility)\b`,
				`\b(documents|paperwork|proof)\b`,
			),
			keywords: []string{"license", "age", "need", "required"},
			responses: []string{
				"To rent a vehicle, you'll need: a valid driving license (held for at least 1-2 years depending on vehicle type), proof of identity, a credit or debit card for the security deposit, and you must meet our minimum age requirement (typically 21-25 years depending on vehicle category).",
			},
		},
		{
			name: "payment",
			patterns: compileAll(
				`\b(payment|pay|deposit|security|refund|card|credit|debit|cash|payment method)\b`,
				`\b(how to pay|payment options|accepted|methods)\b`,
				`\b(hold|authorization|pre-authorization)\b`,
			),
			keywords: []string{"payment", "pay", "deposit"},
			responses: []string{
				"We accept major credit and debit cards. A security deposit is required at the time of rental, which is typically held as a pre-authorization on your card and released after the vehicle is returned in good condition. The deposit amount varies by vehicle type.",
			},
		},
		{
			name: "cancellation",
			patterns: compileAll(
				`\b(cancel|cancellation|refund|change|modify|reschedule|postpone)\b`,
				`\b(what if i|if i need to|change my mind)\b`,
				`\b(booking change|modify booking|cancel booking)\b`,
			),
			keywords: []string{"cancel", "refund", "change"},
			responses: []string{
				"Our cancellation policy allows for booking changes and cancellations. Cancellation terms depend on how far in advance you cancel and the type of booking. Generally, cancellations made 24-48 hours before pickup are fully refundable. For specific terms, please check your booking confirmation or contact us.",
			},
		},
		{
			name: "delivery",
			patterns: compileAll(
				`\b(delivery|pickup|collect|drop off|return|location|where|airport|station)\b`,
				`\b(can you bring|bring to|deliver to|pickup location)\b`,
				`\b(meet|meeting point|collection point)\b`,
			),
			keywords: []string{"delivery", "pickup", "collect"},
			responses: []string{
				"We offer flexible pickup and return options. You can collect your vehicle from our office locations, or we can arrange delivery to airports, train stations, hotels, or other convenient locations (subject to availability and additional fees). Where would be most convenient for you?",
			},
		},
		{
			name: "hours",
			patterns: compileAll(
				`\b(hours|opening|open|close|closed|available|when|time|business hours|office hours)\b`,
				`\b(weekend|saturday|sunday|holiday|bank holiday)\b`,
				`\b(24|24/7|always open|emergency)\b`,
			),
			keywords: []string{"hours", "open", "when"},
			responses: []string{
				"Our office hours are typically Monday to Friday 9 AM to 6 PM, and Saturday 9 AM to 4 PM. We're closed on Sundays and bank holidays. However, we offer 24/7 roadside assistance for emergencies. For specific hours or holiday schedules, please contact us.",
			},
		},
		{
			name: "emergency",
			patterns: compileAll(
				`\b(emergency|breakdown|accident|stuck|broken|problem|issue|help|urgent)\b`,
				`\b(what do i do|what should i|what happens if|if something)\b`,
				`\b(roadside|assistance|support|help me)\b`,
			),
			keywords: []string{"emergency", "breakdown", "accident"},
			responses: []string{
				"In case of an emergency, breakdown, or accident, please contact our 24/7 emergency helpline immediately. We'll provide roadside assistance, arrange recovery if needed, and help you get back on the road or provide a replacement vehicle. Your safety is our priority!",
			},
		},
		{
			name: "testimonials",
			patterns: compileAll(
				`\b(review|testimonial|feedback|rating|experience|opinion|what others say)\b`,
				`\b(recommend|recommendation|trustworthy|reliable)\b`,
				`\b(good|bad|satisfied|customer service)\b`,
			),
			keywords: []string{"review", "testimonial", "feedback"},
			responses: []string{
				"We're proud of our excellent customer reviews and testimonials! Visit the 'Testimonials' page on our website to read what our customers say about our service quality, vehicle condition, and customer support. We'd love to add your positive experience too!",
			},
		},
		{
			name: "goodbye",
			patterns: compileAll(
				`\b(bye|goodbye|farewell|see you|thanks|thank you|cheers|appreciate)\b`,
				`\b(that'?s all|that'?s it|nothing else|no more|done|finished|all set)\b`,
				`\b(great|perfect|sounds good|okay|ok|alright)\b`,
			),
			keywords: []string{"bye", "goodbye", "thanks", "thank you"},
			responses: []string{
				"You're very welcome! I'm always here to help whenever you need assistance with car hire, bookings, or any questions. Feel free to reach out anytime. Have a wonderful day!",
			},
		},
		{
			name: "general_help",
			patterns: compileAll(
				`\b(help|what can you|what do you|how can you|assist|support)\b`,
				`\b(what services|what options|what do you offer)\b`,
				`\b(guide|information|tell me|explain)\b`,
			),
			keywords: []string{"help", "what can you", "services"},
			responses: []string{
				"I can help guide you to the right pages on our website! Here's what's available: 'Our Fleet' for browsing vehicles, 'Contact Us' for inquiries, 'Insurance Services' for coverage info, 'Make a Claim' for accident claims, 'Car Sales' for purchasing vehicles, 'Testimonials' for reviews, and 'Our People' to learn about our team. What would you like to explore?",
			},
		},
		{
			name: "faq_general",
			patterns: compileAll(
				`\b(how long|duration|minimum|maximum|days|weeks|months)\b`,
				`\b(extend|extension|keep longer|more time)\b`,
				`\b(early return|return early|bring back early)\b`,
			),
			responses: []string{
				"Rental duration is flexible - we offer daily, weekly, and monthly rentals. Minimum rental periods vary by vehicle type (typically 1-3 days). You can extend your rental if the vehicle is available, or return early (subject to our terms). What duration are you considering?",
			},
		},
		{
			name: "vehicle_features",
			patterns: compileAll(
				`\b(features|equipment|gps|navigation|bluetooth|air conditioning|ac|heating)\b`,
				`\b(automatic|manual|transmission|petrol|diesel|electric|hybrid)\b`,
				`\b(seats|passengers|luggage|boot|trunk|space)\b`,
			),
			responses: []string{
				"Our vehicles come with various features depending on the category. Standard features often include air conditioning, Bluetooth connectivity, GPS navigation (in many vehicles), and modern safety features. Visit the 'Our Fleet' page to see detailed specifications for each vehicle.",
			},
		},
		{
			name: "car_sales",
			patterns: compileAll(
				`\b(buy|purchase|car sales|buying|interested in buying|want to buy)\b`,
				`\b(available for sale|for sale|selling|purchase a car)\b`,
				`\b(finance|financing|payment plan|installment)\b`,
			),
			responses: []string{
				"Great! We offer vehicles for purchase through our car sales service. Visit the 'Car Sales' page on our website to browse vehicles available for purchase, view pricing, and submit a purchase inquiry. You can also contact us through the 'Contact Us' page for more information.",
			},
		},
		{
			name: "car_sell",
			patterns: compileAll(
				`\b(sell|selling|sell my car|trade in|trade-in|valuation|value my car)\b`,
				`\b(want to sell|looking to sell|sell vehicle|part exchange)\b`,
				`\b(how much is|what is my car worth|estimate|appraisal)\b`,
			),
			responses: []string{
				"We'd be happy to help you sell your vehicle! Visit the 'Car Sales' page on our website where you can submit a sell request with details about your vehicle. Our team will provide a valuation and discuss options with you. You can also contact us through the 'Contact Us' page.",
			},
		},
		{
			name: "make_claim",
			patterns: compileAll(
				`\b(claim|make a claim|accident|had an accident|insurance claim)\b`,
				`\b(file a claim|submit claim|claim process|need to claim)\b`,
				`\b(replacement vehicle|accident replacement|claim vehicle)\b`,
			),
			responses: []string{
				"If you've had an accident and need to make a claim, visit the 'Make a Claim' page on our website. There you can submit your claim details and request a replacement vehicle. Our team will process your claim and arrange a suitable vehicle for you.",
			},
		},
		{
			name: "services",
			patterns: compileAll(
				`\b(services|what we do|what services|personal assistance|introducer|insurance services)\b`,
				`\b(what do you offer|what can you do|services available)\b`,
			),
			responses: []string{
				"We offer several services including car hire, accident replacement vehicles, insurance claim management, personal assistance, introducer support, and insurance services. Visit the 'What We Do' page on our website to learn more about all our services, or check out 'Personal Assistance', 'Introducer Support', and 'Insurance Services' pages for specific details.",
			},
		},
	}
}

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}
