package card

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"sahulat/internal/config"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/token"
)

// NetworkToken is the card-network registration result for an issued
// card. Outside production the network is simulated with static test
// tokens, so demo deployments never leave the box.
type NetworkToken struct {
	Token    string
	CardType string
}

var testTokens = map[string]string{
	"Silver":   "tok_visa",
	"Gold":     "tok_mastercard",
	"Platinum": "tok_visa_debit",
}

// tokenize registers a freshly issued card with the payment network.
func tokenize(cardNumber, cardType string) (*NetworkToken, error) {
	if !config.IsProduction() {
		tok, ok := testTokens[cardType]
		if !ok {
			tok = "tok_visa"
		}
		return &NetworkToken{Token: tok, CardType: cardType}, nil
	}

	stripe.Key = config.GetEnv("STRIPE_SECRET_KEY", "")

	expiry := time.Now().AddDate(4, 0, 0)
	params := &stripe.TokenParams{
		Card: &stripe.CardParams{
			Number:   stripe.String(strings.ReplaceAll(cardNumber, "-", "")),
			ExpMonth: stripe.String(strconv.Itoa(int(expiry.Month()))),
			ExpYear:  stripe.String(strconv.Itoa(expiry.Year())),
		},
	}
	stripeToken, err := token.New(params)
	if err != nil {
		return nil, fmt.Errorf("network tokenization failed: %w", err)
	}
	return &NetworkToken{Token: stripeToken.ID, CardType: string(stripeToken.Card.Brand)}, nil
}
