package services

import (
	"strconv"
	"strings"

	"github.com/jafrydeep2/offmarket-sub000/internal/models"
)

// MatchingService decides whether a listing satisfies a saved search
// alert. It is a pure predicate over the two records and never touches
// storage, which keeps the fan-out path free to call it concurrently.
type MatchingService interface {
	Matches(alert *models.Alert, property *models.Property) bool
	Evaluate(alert *models.Alert, property *models.Property) MatchResult
	ParsePrice(text string) (float64, bool)
}

// MatchResult carries the verdict plus the first criterion that
// rejected the listing, for debug logging during fan-out.
type MatchResult struct {
	Matched bool
	Reason  string
}

type MatchingServiceImpl struct{}

func NewMatchingService() MatchingService {
	return &MatchingServiceImpl{}
}

// priceOnRequestPatterns are listing price texts that deliberately
// carry no number. Such listings only match alerts without budget
// bounds.
var priceOnRequestPatterns = []string{
	"on request",
	"upon request",
	"sur demande",
	"price on application",
	"poa",
}

func (s *MatchingServiceImpl) Matches(alert *models.Alert, property *models.Property) bool {
	return s.Evaluate(alert, property).Matched
}

func (s *MatchingServiceImpl) Evaluate(alert *models.Alert, property *models.Property) MatchResult {
	if !alert.IsActive {
		return MatchResult{Reason: "alert inactive"}
	}

	if property.ListingType != alert.TransactionType {
		return MatchResult{Reason: "transaction type mismatch"}
	}

	category, ok := property.PropertyType.Category()
	if !ok {
		// Property types outside the three alert categories can never
		// trigger an alert.
		return MatchResult{Reason: "property type has no alert category"}
	}
	if category != alert.Category {
		return MatchResult{Reason: "category mismatch"}
	}

	if alert.Location != nil && *alert.Location != "" {
		wanted := strings.ToLower(strings.TrimSpace(*alert.Location))
		city := strings.ToLower(property.City)
		neighborhood := strings.ToLower(property.Neighborhood)
		if !strings.Contains(city, wanted) && !strings.Contains(neighborhood, wanted) {
			return MatchResult{Reason: "location mismatch"}
		}
	}

	if alert.MinRooms != nil && property.Rooms < *alert.MinRooms {
		return MatchResult{Reason: "too few rooms"}
	}

	// Price parsing is the most expensive check, so it runs last.
	if alert.MinBudget != nil || alert.MaxBudget != nil {
		price, parsed := s.ParsePrice(property.PriceText)
		if !parsed {
			return MatchResult{Reason: "price not numeric, alert has budget bounds"}
		}
		if alert.MinBudget != nil && price < *alert.MinBudget {
			return MatchResult{Reason: "price below min budget"}
		}
		if alert.MaxBudget != nil && price > *alert.MaxBudget {
			return MatchResult{Reason: "price above max budget"}
		}
	}

	return MatchResult{Matched: true}
}

// ParsePrice extracts the leading numeric amount from a free-form price
// text such as "CHF 1'250'000.-" or "2,500 / month". Apostrophes,
// commas and spaces between digit groups are treated as thousand
// separators. It reports false for on-request texts and anything
// without a digit.
func (s *MatchingServiceImpl) ParsePrice(text string) (float64, bool) {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return 0, false
	}
	for _, pattern := range priceOnRequestPatterns {
		if strings.Contains(t, pattern) {
			return 0, false
		}
	}

	runes := []rune(t)
	start := -1
	for i, r := range runes {
		if r >= '0' && r <= '9' {
			start = i
			break
		}
	}
	if start < 0 {
		return 0, false
	}

	var b strings.Builder
	sawDecimal := false
	for i := start; i < len(runes); i++ {
		r := runes[i]
		next := rune(0)
		if i+1 < len(runes) {
			next = runes[i+1]
		}
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case (r == '\'' || r == ',' || r == ' ' || r == ' ') && !sawDecimal && isDigit(next):
			// thousand separator inside the number
		case r == '.' && !sawDecimal && isDigit(next):
			sawDecimal = true
			b.WriteRune(r)
		default:
			price, err := strconv.ParseFloat(b.String(), 64)
			if err != nil {
				return 0, false
			}
			return price, true
		}
	}

	price, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	return price, true
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
