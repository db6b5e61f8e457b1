package availability

import "wallspace/internal/domain"

// Result is the verdict for one space and one candidate range.
// Unavailability is data here, never an error.
type Result struct {
	SpaceID      int64                    `json:"space_id"`
	Available    bool                     `json:"available"`
	Reason       domain.UnavailableReason `json:"reason,omitempty"`
	ActiveCount  int                      `json:"active_count"`
	PendingCount int                      `json:"pending_count"`
	Capacity     int                      `json:"capacity"`
}

type Params struct {
	Policy domain.CapacityPolicy
	// Today decides which confirmed reservations are already completed.
	Today domain.Date
	// ExcludeID leaves one reservation out of the count, used when re-validating it.
	ExcludeID int64
}

// Evaluate decides availability from the space flags and the reservations passed in.
// It has no side effects and reads nothing else, so equal inputs give equal results.
//
// Precedence: manual closure, then deactivation, then capacity.
func Evaluate(space domain.Space, candidate domain.DateRange, existing []domain.Reservation, p Params) Result {
	res := Result{SpaceID: space.ID, Capacity: space.MaxCapacity}

	for i := range existing {
		r := &existing[i]
		if r.SpaceID != space.ID || (p.ExcludeID != 0 && r.ID == p.ExcludeID) {
			continue
		}
		if !r.Range().Overlaps(candidate) {
			continue
		}
		if r.EffectiveStatus(p.Today) == domain.ReservationPending {
			res.PendingCount++
		}
		if r.CountsToward(policyOrDefault(p.Policy), p.Today) {
			res.ActiveCount++
		}
	}

	switch {
	case space.ManuallyClosed:
		res.Reason = domain.ReasonManuallyClosed
	case !space.IsAvailable:
		res.Reason = domain.ReasonDeactivated
	case res.ActiveCount >= space.MaxCapacity:
		res.Reason = domain.ReasonCapacityExceeded
	default:
		res.Available = true
	}
	return res
}

// DayLoad is the counted load of a single day.
type DayLoad struct {
	Date      domain.Date `json:"date"`
	Count     int         `json:"count"`
	Available bool        `json:"available"`
}

// DailyLoad breaks a range down per day, so a caller refused with CapacityExceeded
// can look for days that still have room.
func DailyLoad(space domain.Space, rng domain.DateRange, existing []domain.Reservation, p Params) []DayLoad {
	if rng.Validate() != nil {
		return nil
	}
	open := !space.ManuallyClosed && space.IsAvailable
	policy := policyOrDefault(p.Policy)

	out := make([]DayLoad, 0, rng.Days())
	for d := rng.Start; !d.After(rng.End); d = d.AddDays(1) {
		count := 0
		for i := range existing {
			r := &existing[i]
			if r.SpaceID != space.ID || !r.Range().Contains(d) {
				continue
			}
			if r.CountsToward(policy, p.Today) {
				count++
			}
		}
		out = append(out, DayLoad{
			Date:      d,
			Count:     count,
			Available: open && count < space.MaxCapacity,
		})
	}
	return out
}

func policyOrDefault(p domain.CapacityPolicy) domain.CapacityPolicy {
	if p.IsValid() {
		return p
	}
	return domain.CapacityConfirmedAndPending
}
