// Package remise computes discount totals. Two systems coexist: explicit
// beneficiary items (ClientRemise/ItemRemise) and per-line discounts written
// on bon items, attributed to the bon's remise target.
package remise

import (
	"sort"

	"github.com/diewo77/go-gestion/internal/models"
	"github.com/shopspring/decimal"
)

// ItemTotal is qte × prix_remise.
func ItemTotal(it models.ItemRemise) decimal.Decimal {
	return it.Qte.Mul(it.PrixRemise)
}

// ClientTotal sums the items that are not cancelled.
func ClientTotal(items []models.ItemRemise) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		if it.Statut == models.StatutAnnule {
			continue
		}
		total = total.Add(ItemTotal(it))
	}
	return total
}

// LineDiscount is the discount granted on one bon line. The per-unit amount
// wins over the percentage; when neither is set, a stored net total below
// the gross total still counts as a discount.
func LineDiscount(it models.BonItem) decimal.Decimal {
	perUnit := it.RemiseMontant
	if perUnit.IsZero() {
		perUnit = it.PrixUnitaire.Mul(it.RemisePourcentage).Div(decimal.NewFromInt(100))
	}
	discount := it.Quantite.Mul(perUnit)
	if discount.IsZero() {
		if diff := it.GrossTotal().Sub(it.NetTotal()); diff.IsPositive() {
			return diff
		}
	}
	return discount
}

// BonDiscount is the discount carried by one bon.
type BonDiscount struct {
	BonID          uint            `json:"bon_id"`
	BonType        string          `json:"bon_type"`
	Numero         string          `json:"numero"`
	ClientID       *uint           `json:"client_id,omitempty"`
	RemiseIsClient bool            `json:"remise_is_client"`
	RemiseID       *uint           `json:"remise_id,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
}

func discountBon(t string) bool {
	return t == models.BonSortie || t == models.BonComptant
}

// BonDiscounts returns the non-zero discounts of active Sortie and Comptant bons.
func BonDiscounts(bons []models.Bon) []BonDiscount {
	var out []BonDiscount
	for _, b := range bons {
		if !discountBon(b.Type) || !models.IsActiveStatus(b.Statut) {
			continue
		}
		amount := decimal.Zero
		for _, it := range b.Items {
			amount = amount.Add(LineDiscount(it))
		}
		if amount.IsZero() {
			continue
		}
		out = append(out, BonDiscount{
			BonID:          b.ID,
			BonType:        b.Type,
			Numero:         models.DisplayBonNumero(&b),
			ClientID:       b.ClientID,
			RemiseIsClient: b.RemiseIsClient,
			RemiseID:       b.RemiseID,
			Amount:         amount,
		})
	}
	return out
}

// Target kinds of a beneficiary.
const (
	TargetClient = "client"
	TargetRemise = "client_remise"
)

// Beneficiary aggregates the bon discounts attributed to one target.
type Beneficiary struct {
	Kind  string          `json:"kind"`
	ID    uint            `json:"id"`
	Total decimal.Decimal `json:"total"`
	Bons  int             `json:"bons"`
}

// Beneficiaries groups discounts by target: the bon's client contact when
// remise_is_client, else its remise id. Discounts without a target are skipped.
func Beneficiaries(discounts []BonDiscount) []Beneficiary {
	type key struct {
		kind string
		id   uint
	}
	acc := map[key]*Beneficiary{}
	var order []key
	for _, d := range discounts {
		var k key
		switch {
		case d.RemiseIsClient && d.ClientID != nil:
			k = key{TargetClient, *d.ClientID}
		case !d.RemiseIsClient && d.RemiseID != nil:
			k = key{TargetRemise, *d.RemiseID}
		default:
			continue
		}
		b, ok := acc[k]
		if !ok {
			b = &Beneficiary{Kind: k.kind, ID: k.id}
			acc[k] = b
			order = append(order, k)
		}
		b.Total = b.Total.Add(d.Amount)
		b.Bons++
	}
	out := make([]Beneficiary, 0, len(order))
	for _, k := range order {
		out = append(out, *acc[k])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total.GreaterThan(out[j].Total) })
	return out
}
