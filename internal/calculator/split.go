package calculator

import (
	"strings"

	"github.com/mmynk/tripledger/internal/models"
	"github.com/shopspring/decimal"
)

// DistributionMode selects how a bill's total is divided.
type DistributionMode string

const (
	// ModeEven divides the total by every participant, payer included.
	ModeEven DistributionMode = "even"
	// ModeCustom takes an explicit amount per non-payer participant.
	ModeCustom DistributionMode = "custom"
)

// ParseMode converts request text into a DistributionMode. Empty input means even.
func ParseMode(raw string) (DistributionMode, error) {
	switch DistributionMode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ModeEven:
		return ModeEven, nil
	case ModeCustom:
		return ModeCustom, nil
	default:
		return "", newValidationError("mode", "unknown distribution mode %q", raw)
	}
}

// SplitRequest is the transient form input for one bill's split.
type SplitRequest struct {
	Mode         DistributionMode
	Payer        string
	Participants []string

	// Total is the amount split in even mode.
	Total string

	// CustomAmounts maps each non-payer participant to the amount they owe in
	// custom mode. Missing or unparsable entries count as zero.
	CustomAmounts map[string]string

	// CustomTotal is the declared bill total the custom amounts must not exceed.
	CustomTotal string
}

// BuildSummary computes the canonical summary for one bill. It never fails:
// invalid totals, empty participant lists and unusable custom entries simply
// contribute nothing.
//
// Even split: share = total / len(participants), owed by every participant
// other than the payer. The payer's own share is absorbed, not tracked.
func BuildSummary(req SplitRequest) models.Summary {
	summary := models.NewSummary()
	participants := uniqueParticipants(req.Participants)

	switch req.Mode {
	case ModeEven:
		total, ok := positiveAmount(req.Total)
		if !ok || len(participants) == 0 {
			return summary
		}
		share := total.Div(decimal.NewFromInt(int64(len(participants))))
		for _, p := range participants {
			if p != req.Payer {
				summary.Add(p, req.Payer, share)
			}
		}
	case ModeCustom:
		for _, p := range participants {
			if p == req.Payer {
				continue
			}
			if amount, ok := positiveAmount(req.CustomAmounts[p]); ok {
				summary.Add(p, req.Payer, amount)
			}
		}
	}

	return summary
}

// ValidateSplit enforces the rules the save path needs before a summary is
// accepted. In custom mode the entered amounts must not add up to more than
// the declared custom total.
func ValidateSplit(req SplitRequest) error {
	switch req.Mode {
	case ModeEven:
		return nil
	case ModeCustom:
	default:
		return newValidationError("mode", "unknown distribution mode %q", req.Mode)
	}

	total, err := ParseAmount(req.CustomTotal)
	if err != nil {
		return newValidationError("custom_total", "custom total is not a valid amount")
	}

	sum := decimal.Zero
	for _, p := range uniqueParticipants(req.Participants) {
		if p == req.Payer {
			continue
		}
		if amount, ok := positiveAmount(req.CustomAmounts[p]); ok {
			sum = sum.Add(amount)
		}
	}
	if sum.GreaterThan(total) {
		return newValidationError("custom_amounts", "custom splits exceed total")
	}
	return nil
}

// PrepareSummary validates req and, only if it is acceptable, builds its summary.
func PrepareSummary(req SplitRequest) (models.Summary, error) {
	if err := ValidateSplit(req); err != nil {
		return nil, err
	}
	return BuildSummary(req), nil
}
