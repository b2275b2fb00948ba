package services

import (
	"fmt"
	"pizzeria_server/lib"
	"pizzeria_server/structs"
	"pizzeria_server/structs/tables"
	"time"

	"github.com/shopspring/decimal"
)

// DiscountPolicy holds the configurable knobs of discount calculation.
type DiscountPolicy struct {
	DrinkCategory  string
	LoyaltyPercent decimal.Decimal
	LoyaltyEvery   int
}

func NewDiscountPolicy(cfg *structs.OrderConfig) DiscountPolicy {
	return DiscountPolicy{
		DrinkCategory:  cfg.DrinkCategory,
		LoyaltyPercent: cfg.LoyaltyPercent,
		LoyaltyEvery:   cfg.LoyaltyEvery,
	}
}

// DiscountInput is everything the calculator looks at. Code is nil when the
// customer entered none; an unknown code is rejected before calculation.
type DiscountInput struct {
	Lines           []structs.PricedLine
	Customer        *tables.Customer
	BirthdayUsed    bool
	Loyalty         structs.LoyaltyStats
	Code            *tables.DiscountCode
	CodeAlreadyUsed bool
	Now             time.Time
}

// LoyaltyStatsFor compares the multiples of LoyaltyEvery the customer has
// passed with the loyalty discounts already granted. Each multiple is
// rewarded once, on the first order after it was reached or jumped over.
func (p DiscountPolicy) LoyaltyStatsFor(totalPizzas, rewarded int) structs.LoyaltyStats {
	stats := structs.LoyaltyStats{
		TotalPizzasBought: totalPizzas,
		RewardsGranted:    rewarded,
	}
	if p.LoyaltyEvery <= 0 {
		return stats
	}

	reached := totalPizzas / p.LoyaltyEvery
	stats.Eligible = reached > rewarded
	stats.NextRewardAt = (max(reached, rewarded) + 1) * p.LoyaltyEvery
	return stats
}

// CalculateDiscounts applies birthday, loyalty and code discounts in that
// order. Every entry is computed against the same subtotal; the sum is capped
// at the subtotal so the total never goes negative.
func (p DiscountPolicy) CalculateDiscounts(in DiscountInput) (*structs.DiscountBreakdown, error) {
	subtotal := decimal.Zero
	for _, line := range in.Lines {
		subtotal = subtotal.Add(line.LineTotal)
	}

	entries := []structs.DiscountEntry{}

	if in.Customer != nil && !in.BirthdayUsed && in.Customer.HasBirthdayOn(in.Now) {
		if entry, ok := p.birthdayEntry(in.Lines); ok {
			entries = append(entries, entry)
		}
	}

	if in.Loyalty.Eligible && p.LoyaltyPercent.IsPositive() {
		amount := subtotal.Mul(p.LoyaltyPercent).Div(hundredPercent).Round(2)
		if amount.IsPositive() {
			entries = append(entries, structs.DiscountEntry{
				Kind:        tables.DiscountLoyalty,
				Description: fmt.Sprintf("Loyalty: %s%% off for %d pizzas bought", p.LoyaltyPercent.String(), in.Loyalty.TotalPizzasBought),
				Amount:      amount,
			})
		}
	}

	if in.Code != nil {
		entry, err := codeEntry(in.Code, in.CodeAlreadyUsed, subtotal, in.Now)
		if err != nil {
			return nil, err
		}
		if entry.Amount.IsPositive() {
			entries = append(entries, entry)
		}
	}

	sum := decimal.Zero
	for _, entry := range entries {
		sum = sum.Add(entry.Amount)
	}
	applied := decimal.Min(sum, subtotal)

	return &structs.DiscountBreakdown{
		Entries:  entries,
		Subtotal: subtotal,
		Applied:  applied,
		Total:    subtotal.Sub(applied).Round(2),
	}, nil
}

var hundredPercent = decimal.NewFromInt(100)

// birthdayEntry makes one unit of the cheapest pizza and one unit of the
// cheapest drink free.
func (p DiscountPolicy) birthdayEntry(lines []structs.PricedLine) (structs.DiscountEntry, bool) {
	var pizza, drink *structs.PricedLine
	for i := range lines {
		line := &lines[i]
		switch {
		case line.Kind == structs.LinePizza:
			if pizza == nil || line.UnitPrice.LessThan(pizza.UnitPrice) {
				pizza = line
			}
		case line.Kind == structs.LineProduct && line.Category == p.DrinkCategory:
			if drink == nil || line.UnitPrice.LessThan(drink.UnitPrice) {
				drink = line
			}
		}
	}

	amount := decimal.Zero
	description := "Birthday: free"
	if pizza != nil {
		amount = amount.Add(pizza.UnitPrice)
		description += " " + pizza.Name
	}
	if drink != nil {
		amount = amount.Add(drink.UnitPrice)
		if pizza != nil {
			description += " and"
		}
		description += " " + drink.Name
	}

	if !amount.IsPositive() {
		return structs.DiscountEntry{}, false
	}
	return structs.DiscountEntry{
		Kind:        tables.DiscountBirthday,
		Description: description,
		Amount:      amount.Round(2),
	}, true
}

func codeEntry(code *tables.DiscountCode, alreadyUsed bool, subtotal decimal.Decimal, now time.Time) (structs.DiscountEntry, error) {
	if !code.IsActive || (code.ExpiresAt != nil && !now.Before(*code.ExpiresAt)) {
		return structs.DiscountEntry{}, lib.ErrDiscountCodeExpired
	}
	if code.SingleUse && alreadyUsed {
		return structs.DiscountEntry{}, lib.ErrDiscountCodeUsed
	}

	entry := structs.DiscountEntry{
		Kind:        tables.DiscountCodeKind,
		Description: fmt.Sprintf("Code %s: %s", code.Code, code.Description),
	}

	switch {
	case code.PercentOff.Valid:
		entry.Amount = subtotal.Mul(code.PercentOff.Decimal).Div(hundredPercent).Round(2)
	case code.AmountOff.Valid:
		entry.Amount = decimal.Min(code.AmountOff.Decimal, subtotal).Round(2)
	}

	return entry, nil
}
