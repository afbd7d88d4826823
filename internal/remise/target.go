package remise

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/diewo77/go-gestion/internal/models"
	"gorm.io/gorm"
)

// ErrClientRequired is returned when a client remise is requested without a client.
var ErrClientRequired = errors.New("client_id requis quand remise_is_client = true")

// TargetInput is what a bon form sends about its discount beneficiary.
// Values arrive loosely typed from JSON and forms.
type TargetInput struct {
	ClientID        any
	RemiseIsClient  any
	RemiseID        any
	RemiseClientNom string
}

// Target is the resolved beneficiary of a bon's discounts.
type Target struct {
	RemiseIsClient bool
	RemiseID       *uint
}

// ToBool accepts booleans and the usual yes/no spellings; anything else is def.
func ToBool(v any, def bool) bool {
	switch x := v.(type) {
	case nil:
		return def
	case bool:
		return x
	case float64:
		return x != 0
	case int:
		return x != 0
	}
	switch strings.ToLower(strings.TrimSpace(fmt.Sprint(v))) {
	case "1", "true", "yes", "oui":
		return true
	case "0", "false", "no", "non":
		return false
	}
	return def
}

// ToID returns a positive id or nil.
func ToID(v any) *uint {
	var n float64
	switch x := v.(type) {
	case nil:
		return nil
	case float64:
		n = x
	case int:
		n = float64(x)
	case uint:
		n = float64(x)
	case *uint:
		if x == nil {
			return nil
		}
		n = float64(*x)
	default:
		f, err := strconv.ParseFloat(strings.TrimSpace(fmt.Sprint(v)), 64)
		if err != nil {
			return nil
		}
		n = f
	}
	if n < 1 {
		return nil
	}
	id := uint(n)
	return &id
}

// ResolveTarget decides who receives a bon's discounts. A client remise points
// at the bon's client; otherwise an explicit remise id wins, then a
// beneficiary name is looked up case-insensitively and created when missing.
func ResolveTarget(ctx context.Context, db *gorm.DB, in TargetInput) (Target, error) {
	if ToBool(in.RemiseIsClient, false) {
		cid := ToID(in.ClientID)
		if cid == nil {
			return Target{RemiseIsClient: true}, ErrClientRequired
		}
		return Target{RemiseIsClient: true, RemiseID: cid}, nil
	}
	if id := ToID(in.RemiseID); id != nil {
		return Target{RemiseID: id}, nil
	}
	name := strings.TrimSpace(in.RemiseClientNom)
	if name == "" {
		return Target{}, nil
	}
	var cr models.ClientRemise
	err := db.WithContext(ctx).Where("LOWER(TRIM(nom)) = ?", strings.ToLower(name)).First(&cr).Error
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		cr = models.ClientRemise{Nom: name, Type: models.RemiseTypeClient}
		if err := db.WithContext(ctx).Create(&cr).Error; err != nil {
			return Target{}, fmt.Errorf("create client remise: %w", err)
		}
	default:
		return Target{}, fmt.Errorf("find client remise: %w", err)
	}
	return Target{RemiseID: &cr.ID}, nil
}

// ResolveBonLink validates the bon an item remise refers to. An id without a
// type is looked up as a Sortie then a Comptant; a type outside
// Commande/Sortie/Comptant drops the link. Unresolvable links come back as nil, nil.
func ResolveBonLink(ctx context.Context, db *gorm.DB, bonID *uint, bonType *string) (*uint, *string, error) {
	if bonType != nil && *bonType != "" {
		if !slices.Contains(models.RemiseBonTypes, *bonType) {
			return nil, nil, nil
		}
		return bonID, bonType, nil
	}
	if bonID == nil {
		return nil, nil, nil
	}
	for _, t := range []string{models.BonSortie, models.BonComptant} {
		var n int64
		if err := db.WithContext(ctx).Model(&models.Bon{}).Where("id = ? AND type = ?", *bonID, t).Count(&n).Error; err != nil {
			return nil, nil, fmt.Errorf("lookup bon %d: %w", *bonID, err)
		}
		if n > 0 {
			found := t
			return bonID, &found, nil
		}
	}
	return nil, nil, nil
}
